package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/Cloudef/monsterwm-xcb/internal/config"
	"github.com/Cloudef/monsterwm-xcb/internal/wm"
	"github.com/Cloudef/monsterwm-xcb/internal/x11"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("monsterwm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: monsterwm [-h] [-v] [-c path] [-d]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	showVersion := fs.Bool("v", false, "Print version and exit")
	configPath := fs.String("c", "", "Config file path (default: ~/.config/monsterwm/config.yaml)")
	debug := fs.Bool("d", false, "Force debug logging")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monsterwm takes no arguments")
		fs.Usage()
		return 2
	}
	if *showVersion {
		fmt.Printf("monsterwm-%s\n", version)
		return 0
	}

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "monsterwm: %v\n", err)
			return 1
		}
		// A missing file at the default location is seeded with the
		// defaults; an explicit -c path is never written to.
		if _, err := config.EnsureDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "monsterwm: %v\n", err)
			return 1
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "monsterwm: %v\n", err)
		return 1
	}

	level := logLevel(cfg.LogLevel)
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	buttons := wm.ButtonsFromConfig(cfg.Buttons)
	conn, err := x11.New(x11.Options{
		Log:          logger,
		FollowMouse:  cfg.FollowMouse,
		ClickToFocus: cfg.ClickToFocus,
		Buttons:      buttons,
	})
	if err != nil {
		if errors.Is(err, x11.ErrOtherWM) {
			logger.Error("another window manager is already running")
			return 1
		}
		logger.Error("cannot open display", "error", err)
		return 1
	}

	keys, err := wm.KeysFromConfig(cfg.Keys, conn.ResolveKey)
	if err != nil {
		logger.Error("key bindings", "error", err)
		conn.Close()
		return 1
	}
	conn.GrabKeys(keys)

	mgr, err := wm.New(wm.Options{
		Gateway:     conn,
		Config:      cfg,
		Logger:      logger,
		Monitors:    conn.Monitors(),
		Keys:        keys,
		Buttons:     buttons,
		NumLockMask: conn.NumLockMask(),
		Status:      os.Stdout,
	})
	if err != nil {
		logger.Error("setup failed", "error", err)
		conn.Close()
		return 1
	}

	reapChildren()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Info("shutting down", "signal", sig.String())
		conn.Cleanup()
		conn.Close()
		os.Exit(0)
	}()

	logger.Info("managing display", "config", path, "version", version)
	code, err := mgr.Run()
	conn.Cleanup()
	conn.Close()
	if err != nil {
		logger.Error("event loop failed", "error", err)
		return 1
	}
	return code
}

// reapChildren collects exited spawn children so they never linger as
// zombies. The event loop must not block on waits, so a goroutine drains
// SIGCHLD instead of a handler.
func reapChildren() {
	chld := make(chan os.Signal, 1)
	signal.Notify(chld, syscall.SIGCHLD)
	go func() {
		for range chld {
			for {
				pid, err := unix.Wait4(-1, nil, unix.WNOHANG, nil)
				if pid <= 0 || err != nil {
					break
				}
			}
		}
	}()
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
