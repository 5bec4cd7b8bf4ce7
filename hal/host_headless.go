//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64
}

// StepFunc is called once per frame on the runner's goroutine.
type StepFunc func() error

// RunHeadless runs the watch face without opening a window. The panel still exists
// in memory, so snapshots (web preview) keep working.
func RunHeadless(ctx context.Context, newApp func(HAL) (StepFunc, error), cfg HeadlessConfig) error {
	return runHeadless(ctx, New(), newApp, cfg)
}

func runHeadless(ctx context.Context, h HAL, newApp func(HAL) (StepFunc, error), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	step, err := newApp(h)
	if err != nil {
		return err
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
