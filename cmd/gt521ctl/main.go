// go-gt521
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-gt521.
//
// go-gt521 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-gt521 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-gt521; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Command gt521ctl drives a GT-521Fxx fingerprint module over a serial port.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZaparooProject/go-gt521"
	"github.com/ZaparooProject/go-gt521/internal/config"
	"github.com/ZaparooProject/go-gt521/transport/uart"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type globalFlags struct {
	configPath    string
	port          string
	model         string
	initialBaud   int
	targetBaud    int
	timeout       time.Duration
	fingerTimeout time.Duration
	debug         bool
}

// app carries what every subcommand needs to reach the sensor
type app struct {
	factory gt521.TransportFactory
	out     io.Writer
	log     zerolog.Logger
	flags   globalFlags
	cfg     config.Config
	// extraOptions are appended to the options built from cfg
	extraOptions []gt521.Option
}

func newApp(out, logOut io.Writer) *app {
	return &app{
		factory: uart.Factory,
		out:     out,
		log:     newLogger(logOut),
		cfg:     config.Default(),
	}
}

func newLogger(w io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "gt521ctl").Logger()
}

func main() {
	a := newApp(os.Stdout, os.Stderr)
	rootCmd := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		a.log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gt521ctl",
		Short: "Control a GT-521Fxx fingerprint module",
		Long: `gt521ctl talks to a GT-521F32 or GT-521F52 fingerprint module over a
serial port. Settings come from an optional TOML file and can be overridden
with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.flags.configPath, "config", "c", "", "TOML configuration file")
	flags.StringVarP(&a.flags.port, "port", "p", "", "serial port of the module (e.g. /dev/ttyUSB0 or COM3)")
	flags.StringVar(&a.flags.model, "model", "", "module model: GT521F32 or GT521F52")
	flags.IntVar(&a.flags.initialBaud, "initial-baud", 0, "baud rate the module powers up with")
	flags.IntVar(&a.flags.targetBaud, "baud", 0, "baud rate to switch to after opening")
	flags.DurationVar(&a.flags.timeout, "timeout", 0, "reply timeout for ordinary commands")
	flags.DurationVar(&a.flags.fingerTimeout, "finger-timeout", 0, "how long to wait for a finger")
	flags.BoolVar(&a.flags.debug, "debug", false, "log every frame exchanged with the module")

	rootCmd.AddCommand(
		newVersionCmd(a),
		newPortsCmd(a),
		newInfoCmd(a),
		newProbeCmd(a),
		newCountCmd(a),
		newCheckCmd(a),
		newEnrollCmd(a),
		newDeleteCmd(a),
		newIdentifyCmd(a),
		newVerifyCmd(a),
		newTemplateCmd(a),
		newImageCmd(a),
		newSecurityCmd(a),
		newLEDCmd(a),
		newStandbyCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}

// loadConfig layers the config file and the flags that were set
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.flags.configPath != "" {
		loaded, err := config.Load(a.flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = a.flags.port
	}
	if flags.Changed("model") {
		model, err := config.ParseModel(a.flags.model)
		if err != nil {
			return err
		}
		cfg.Model = model
	}
	if flags.Changed("initial-baud") {
		cfg.InitialBaudRate = a.flags.initialBaud
	}
	if flags.Changed("baud") {
		cfg.TargetBaudRate = a.flags.targetBaud
	}
	if flags.Changed("timeout") {
		cfg.ResponseTimeout = a.flags.timeout
	}
	if flags.Changed("finger-timeout") {
		cfg.FingerTimeout = a.flags.fingerTimeout
	}
	if flags.Changed("debug") {
		cfg.Debug = a.flags.debug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Debug {
		gt521.SetLogger(a.log.With().Str("component", "gt521").Logger())
		gt521.SetDebugEnabled(true)
	}
	a.cfg = cfg
	return nil
}

// withDevice opens the module, runs fn and closes the module again
func (a *app) withDevice(ctx context.Context, fn func(context.Context, *gt521.Device) error) error {
	if a.cfg.Port == "" {
		return fmt.Errorf("%w: no serial port configured, use --port or the port key", gt521.ErrInvalidArgument)
	}

	opts := append(a.cfg.DeviceOptions(), a.extraOptions...)
	device, err := gt521.ConnectDevice(ctx, a.cfg.Port, a.cfg.Model, a.factory, opts...)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.cfg.Port, err)
	}
	a.log.Debug().
		Str("port", a.cfg.Port).
		Str("firmware", device.FirmwareVersion()).
		Msg("module opened")

	defer func() {
		if closeErr := device.CloseContext(context.WithoutCancel(ctx)); closeErr != nil {
			a.log.Warn().Err(closeErr).Msg("failed to close module")
		}
	}()

	return fn(ctx, device)
}

// checkResponse turns an unsuccessful device reply into an error
func checkResponse(resp *gt521.Response, err error) (*gt521.Response, error) {
	if err != nil {
		return nil, err
	}
	return resp, resp.Err()
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(*cobra.Command, []string) {
			a.printf("gt521ctl version %s\n", version)
			a.printf("commit: %s\n", commit)
			a.printf("date: %s\n", date)
		},
	}
}

func newPortsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		RunE: func(*cobra.Command, []string) error {
			ports, err := uart.ListPorts()
			if err != nil {
				return err
			}
			if len(ports) == 0 {
				a.log.Info().Msg("no serial ports found")
				return nil
			}
			for _, port := range ports {
				a.printf("%s\n", port)
			}
			return nil
		},
	}
}
