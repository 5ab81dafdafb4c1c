// Command shotbox runs the drink dispensing machine: it samples the switch
// panel, runs the selected game and drives the pump, speaker and lamps.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/shotbox/internal/config"
	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/program"
	"github.com/sweeney/shotbox/internal/status"
)

var (
	configPath = config.DefaultPath
	driver     = ""
	serialDev  = ""
	verbose    = false
	printState = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "configuration file")
	pflag.StringVar(&driver, "driver", driver, `hardware driver, "gpio" or "line" (overrides the config file)`)
	pflag.StringVar(&serialDev, "serial", serialDev, "serial device for the line driver (overrides the config file)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "enable debug logging")
	pflag.BoolVar(&printState, "print-state", printState, "print the switch levels and exit")
}

func main() {
	pflag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(logger); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if pflag.CommandLine.Changed("driver") {
		cfg.Driver = driver
	}
	if pflag.CommandLine.Changed("serial") {
		cfg.Serial = serialDev
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var hw hardware.Interface
	switch cfg.Driver {
	case config.DriverGPIO:
		gpio, err := hardware.NewGPIO(cfg.Pins)
		if err != nil {
			return errors.Wrap(err, "init gpio")
		}
		defer gpio.Close()
		hw = gpio
	case config.DriverLine:
		lines := make(chan string, 16)
		if cfg.Serial == "" {
			// A blocked stdin read cannot be interrupted, so the reader is
			// left behind on shutdown.
			go func() {
				if err := hardware.ReadLines(ctx, os.Stdin, lines); err != nil && ctx.Err() == nil {
					logger.Error().Err(err).Msg("stdin reader stopped")
				}
			}()
		} else {
			port, err := hardware.OpenSerial(cfg.Serial, cfg.Baud)
			if err != nil {
				return err
			}
			g.Go(func() error {
				<-ctx.Done()
				return port.Close()
			})
			g.Go(func() error {
				return hardware.ReadLines(ctx, port, lines)
			})
		}
		hw = hardware.NewLine(lines, time.Duration(cfg.Hold), logger.With().Str("component", "line").Logger())
	}

	if printState {
		cancel()
		return printSwitches(os.Stdout, hw)
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Driver:      cfg.Driver,
		TickMs:      time.Duration(cfg.Tick).Milliseconds(),
		HeartbeatMs: time.Duration(cfg.Heartbeat).Milliseconds(),
	})
	logger.Info().
		RawJSON("payload", status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", "")).
		Msg("startup")
	logger.Info().
		Str("driver", cfg.Driver).
		Stringer("tick", cfg.Tick).
		Stringer("heartbeat", cfg.Heartbeat).
		Msg("started")

	ticker := time.NewTicker(time.Duration(cfg.Tick))
	defer ticker.Stop()

	var heartbeat <-chan time.Time
	if cfg.Heartbeat > 0 {
		hb := time.NewTicker(time.Duration(cfg.Heartbeat))
		defer hb.Stop()
		heartbeat = hb.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	g.Go(func() error {
		defer cancel()
		return serve(ctx, hw, tracker, logger, ticker.C, heartbeat, sigCh)
	})
	return g.Wait()
}

// serve runs the control loop until a signal arrives or ctx is canceled,
// logging a heartbeat status on every heartbeat tick. It logs a shutdown
// status before returning.
func serve(ctx context.Context, hw hardware.Interface, tracker *status.Tracker, logger zerolog.Logger, tick, heartbeat <-chan time.Time, sig <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := machine.New(machine.DefaultConfiguration(), logger.With().Str("component", "machine").Logger())
	d := program.NewDispatcher(logger.With().Str("component", "dispatcher").Logger())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.Run(ctx, hw, d, tick, tracker.Observer(d))
	})

	reason := ""
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case s := <-sig:
				reason = signalName(s)
				logger.Info().Str("signal", reason).Msg("shutting down")
				cancel()
				return nil
			case <-heartbeat:
				snap := tracker.Snapshot()
				logger.Info().
					RawJSON("payload", status.FormatStatusEvent(snap, "HEARTBEAT", "")).
					Stringer("uptime", snap.Uptime()).
					Msg("heartbeat")
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info().
		RawJSON("payload", status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason)).
		Msg("shutdown")
	return err
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

// printSwitches writes the current level of every switch to w.
func printSwitches(w io.Writer, s input.Sampler) error {
	for _, sw := range input.All() {
		level, err := s.ReadSwitch(sw)
		if err != nil {
			return errors.Wrapf(err, "read switch %s", sw)
		}
		fmt.Fprintf(w, "%s: %s\n", sw, level)
	}
	return nil
}
