// Command xbee-test checks that an XBee radio answers on a serial port.
//
//	$ xbee-test
//	XBee DEV open: /dev/ttySC1 115200B
//	XBee CMD mode: OK
//	Xbee cmd ATSL: [417D5111]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Station-Manager/xbee"
	"github.com/Station-Manager/xbee/internal/config"
	"github.com/Station-Manager/xbee/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := config.NewFlagSet("xbee-test")
	fs.SetOutput(stderr)

	settings, err := config.Load(fs, args)
	if err != nil {
		if config.IsHelp(err) {
			return 0
		}
		fmt.Fprintf(stderr, "xbee-test: %v\n", err)
		return 2
	}

	logger, closer := logging.New(logging.Options{
		Verbose: settings.Probe.Verbose,
		Console: stderr,
		File:    settings.LogFile,
	})
	defer closer.Close()

	if settings.List {
		ports, err := xbee.AvailablePorts()
		if err != nil {
			logger.Error().Err(err).Msg("listing ports")
			return 1
		}
		for _, p := range ports {
			fmt.Fprintln(stdout, p)
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	probe := xbee.NewProbe(settings.Probe,
		xbee.WithOutput(stdout),
		xbee.WithLogger(logger),
	)
	if _, err = probe.Run(ctx); err != nil {
		// Open failures and silence are already on stdout.
		if errors.Is(err, xbee.ErrPortOpenFailed) || errors.Is(err, xbee.ErrNoResponse) {
			logger.Debug().Err(err).Msg("probe failed")
		} else {
			logger.Error().Err(err).Msg("probe failed")
		}
		return 1
	}
	return 0
}
