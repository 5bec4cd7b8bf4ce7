//go:build tinygo

package main

import (
	"handdrawn/app"
	"handdrawn/hal"
)

func main() {
	app.Run(hal.New())
}
