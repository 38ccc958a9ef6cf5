package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/crosscode/jeebie/jeebie"
	"github.com/crosscode/jeebie/jeebie/backend"
	"github.com/crosscode/jeebie/jeebie/render"
)

func main() {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "A Game Boy emulator core with a terminal front end"
	app.Usage = "jeebie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without the terminal UI, for a fixed number of frames",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required with --headless)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log verbosity: debug, info, warn, error",
			Value: "info",
		},
		cli.BoolFlag{
			Name:  "sdl2",
			Usage: "Use the SDL2 windowed backend instead of the terminal UI (requires building with -tags sdl2)",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("jeebie exited with an error", "error", err)
		os.Exit(1)
	}
}

func setupLogging(levelName string) {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func runEmulator(c *cli.Context) error {
	setupLogging(c.String("log-level"))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := jeebie.NewWithFile(romPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", romPath, err)
	}
	slog.Info("ROM loaded", "path", romPath, "title", emu.Title())

	if c.Bool("headless") {
		return runWithBackend(emu, backend.NewHeadlessBackend(), c.Int("frames"))
	}

	if c.Bool("sdl2") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("--sdl2 requires --frames with a positive value")
		}
		return runWithBackend(emu, backend.NewSDL2Backend(2), frames)
	}

	renderer, err := render.NewTerminalRenderer(emu)
	if err != nil {
		return err
	}
	return renderer.Run()
}

// runWithBackend drives the emulator against a backend.Backend for a fixed
// number of frames. Neither backend currently detects a quit/close event on
// its own, so both the headless and SDL2 paths require an explicit --frames
// count rather than running indefinitely.
func runWithBackend(emu *jeebie.Emulator, b backend.Backend, frames int) error {
	if err := b.Init(); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer b.Cleanup()

	emu.SetSpeed(true)

	if frames <= 0 {
		return errors.New("this backend requires --frames with a positive value")
	}

	slog.Info("running", "frames", frames)

	for i := 0; i < frames; i++ {
		emu.RunUntilFrame()

		for _, ev := range b.PollInput() {
			if ev.Pressed {
				emu.HandleKeyPress(ev.Key)
			} else {
				emu.HandleKeyRelease(ev.Key)
			}
		}

		if err := b.Present(emu.GetCurrentFrame()); err != nil {
			return fmt.Errorf("presenting frame %d: %w", i, err)
		}

		if (i+1)%60 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("execution completed",
		"frames", emu.GetFrameCount(),
		"instructions", emu.GetInstructionCount())
	return nil
}
