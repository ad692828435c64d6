// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command snowballd is the thin process bootstrap around the Snowball
// consensus core: it parses flags, sets up logging, dials the validator
// transport, and hands off to engine.Run. No transport is wired in:
// dialValidator always fails, so the command exits 1. Transaction execution, block
// production, networking transport, and cryptographic validation belong to
// the validator process this binary connects to, not to this module.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/luxfi/snowball/engine"
	"github.com/luxfi/snowball/validator"
)

const defaultEndpoint = "tcp://localhost:5050"

// errTransportNotImplemented marks the one piece this binary leaves to the
// embedding deployment: dialing a concrete validator transport. Only the
// validator.Service interface belongs here, not a transport.
var errTransportNotImplemented = errors.New("snowballd: no validator transport wired for this endpoint")

func main() {
	verbosity := 0
	connect := defaultEndpoint

	root := &cobra.Command{
		Use:   "snowballd",
		Short: "Snowball consensus engine bootstrap",
		Long: `snowballd drives a Snowball consensus core against a validator process:
it dials the validator's endpoint, receives startup state, and runs the
single-threaded engine loop until Shutdown or a transport disconnect.
No validator transport is wired into this build; connecting always fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), connect, verbosity)
		},
	}

	root.Flags().StringVar(&connect, "connect", defaultEndpoint, "validator transport endpoint")
	root.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "snowballd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, connect string, verbosity int) error {
	logger := newLogger(verbosity)

	svc, startup, err := dialValidator(ctx, connect, logger)
	if err != nil {
		return fmt.Errorf("connect to validator at %s: %w", connect, err)
	}

	reg := prometheus.NewRegistry()

	e, err := engine.New(ctx, svc, logger, reg, nil, startup)
	if err != nil {
		return fmt.Errorf("start snowball engine: %w", err)
	}

	updates := make(chan validator.Update)
	logger.Info("snowball engine starting", "connect", connect, "version", e.Version())
	return e.Run(ctx, updates)
}

// newLogger maps -v/-vv/-vvv to warn/info/debug-and-below verbosity.
func newLogger(verbosity int) log.Logger {
	logger := log.New("component", "snowballd")
	switch verbosity {
	case 0:
		logger = logger.Level(log.WarnLevel)
	case 1:
		logger = logger.Level(log.InfoLevel)
	case 2:
		logger = logger.Level(log.DebugLevel)
	default:
		logger = logger.Level(log.TraceLevel)
	}
	return logger
}

// dialValidator is the one hook genuinely out of scope for this module: a
// concrete transport (e.g. Sawtooth's ZeroMQ validator protocol) that
// yields a validator.Service and the initial StartupState. Wire a real
// implementation here when embedding this core in a node.
func dialValidator(_ context.Context, _ string, _ log.Logger) (validator.Service, validator.StartupState, error) {
	return nil, validator.StartupState{}, errTransportNotImplemented
}
