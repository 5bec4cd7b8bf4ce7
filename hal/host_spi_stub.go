//go:build !linux && !tinygo

package hal

import (
	"context"
	"errors"
)

// SPIConfig describes an ST7789 240x240 panel wired to a Linux SPI bus.
type SPIConfig struct {
	Port      string
	DC        string
	Reset     string
	Backlight string
	Hz        int64
	StepHz    int
}

func RunSPI(_ context.Context, _ func(HAL) (StepFunc, error), _ SPIConfig) error {
	return errors.New("spi mode is only available on linux")
}
