//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"handdrawn/app"
	"handdrawn/hal"
	"handdrawn/internal/buildinfo"
	"handdrawn/internal/config"
	appLog "handdrawn/internal/log"
	"handdrawn/internal/web"
)

func main() {
	loadEnv()

	var (
		configPath = flag.String("config", defaultConfigPath(), "Path to the YAML config (created on first run).")
		display    = flag.String("display", "", "window|headless|terminal|spi (overrides config).")
		headless   = flag.Bool("headless", false, "Shorthand for -display headless.")
		listen     = flag.String("listen", "", "HTTP status/preview address (overrides config; \"off\" disables).")
		hz         = flag.Int("hz", 0, "Step rate in headless/terminal/spi mode (overrides config).")
		ticks      = flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = config).")
		logLevel   = flag.String("log-level", "", "debug|info|error (overrides config).")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("config: %v", err)
	}
	if *headless {
		cfg.Display = config.DisplayHeadless
	}
	if *display != "" {
		cfg.Display = *display
	}
	switch *listen {
	case "":
	case "off":
		cfg.Listen = ""
	default:
		cfg.Listen = *listen
	}
	if *hz > 0 {
		cfg.Headless.Hz = *hz
	}
	if *ticks > 0 {
		cfg.Headless.Ticks = *ticks
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.Normalize()

	if err := setupLogging(cfg); err != nil {
		fatalf("log: %v", err)
	}
	defer appLog.Close()

	appCfg, err := appConfig(cfg)
	if err != nil {
		fatalf("%v", err)
	}

	appLog.Info("starting",
		"version", buildinfo.Short(),
		"config", *configPath,
		"display", cfg.Display,
		"timezone", appCfg.Location,
		"schedule", cfg.Schedule,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var running *app.App
	newApp := func(h hal.HAL) (hal.StepFunc, error) {
		a, err := app.NewWithConfig(h, appCfg)
		if err != nil {
			return nil, err
		}
		running = a
		if cfg.Listen != "" {
			srv := web.NewServer(a, h.Display().Framebuffer())
			go func() {
				if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil {
					appLog.Error("web server stopped", err, "listen", cfg.Listen)
				}
			}()
		}
		return a.Step, nil
	}

	err = run(ctx, cfg, newApp)
	if running != nil {
		running.Close()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		appLog.Error("exit", err)
		fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, newApp func(hal.HAL) (hal.StepFunc, error)) error {
	switch cfg.Display {
	case config.DisplayHeadless:
		return hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{Hz: cfg.Headless.Hz, Ticks: cfg.Headless.Ticks})
	case config.DisplayTerminal:
		return hal.RunTerminal(ctx, newApp, hal.TerminalConfig{Hz: cfg.Headless.Hz})
	case config.DisplaySPI:
		return hal.RunSPI(ctx, newApp, hal.SPIConfig{
			Port:      cfg.SPI.Port,
			DC:        cfg.SPI.DC,
			Reset:     cfg.SPI.Reset,
			Backlight: cfg.SPI.Backlight,
			Hz:        cfg.SPI.Hz,
			StepHz:    cfg.Headless.Hz,
		})
	default:
		return hal.RunWindow(newApp, hal.WindowConfig{})
	}
}

func appConfig(cfg *config.Config) (app.Config, error) {
	out := app.DefaultConfig()
	loc, err := cfg.Location()
	if err != nil {
		return out, err
	}
	r, g, b, err := config.ParseColor(cfg.Background)
	if err != nil {
		return out, err
	}
	out.Location = loc
	out.Schedule = cfg.Schedule
	out.Background.R, out.Background.G, out.Background.B = r, g, b
	out.Backlight = cfg.BacklightLevel()
	return out, nil
}

func setupLogging(cfg *config.Config) error {
	level, err := appLog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	appLog.SetLevel(level)

	switch {
	case cfg.Log.File != "":
		appLog.SetFile(appLog.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
	case cfg.Display == config.DisplayTerminal:
		// termbox owns the terminal.
		appLog.SetOutput(io.Discard)
	}
	return nil
}

// loadEnv reads .env.local then .env from the working directory; variables already
// set in the environment win.
func loadEnv() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		}
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("HANDDRAWN_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "handdrawn", "config.yaml")
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
