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

package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ZaparooProject/go-gt521"
	"github.com/ZaparooProject/go-gt521/polling"
	"github.com/spf13/cobra"
)

type watchFlags struct {
	pollInterval time.Duration
	duration     time.Duration
	identify     bool
}

func newWatchCmd(a *app) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report fingers placed on and lifted from the sensor",
		Long: `Poll the sensor and print an event whenever a finger is placed or lifted.
With --identify every placed finger is matched against the database. Runs until
interrupted or until --duration has passed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if flags.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, flags.duration)
				defer cancel()
			}
			return a.withDevice(ctx, func(ctx context.Context, d *gt521.Device) error {
				return a.watch(ctx, d, flags)
			})
		},
	}
	cmd.Flags().DurationVar(&flags.pollInterval, "poll-interval", polling.DefaultConfig().PollInterval,
		"delay between finger queries")
	cmd.Flags().DurationVar(&flags.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	cmd.Flags().BoolVar(&flags.identify, "identify", false, "identify every placed finger")
	return cmd
}

func (a *app) watch(ctx context.Context, d *gt521.Device, flags *watchFlags) error {
	scanConfig := polling.DefaultScanConfig()
	scanConfig.PollInterval = flags.pollInterval
	if scanConfig.IdleInterval < scanConfig.PollInterval {
		scanConfig.IdleInterval = scanConfig.PollInterval
	}

	scanner, err := polling.NewScanner(d, scanConfig)
	if err != nil {
		return err
	}

	scanner.OnFingerPlaced = func() error {
		a.printf("finger placed\n")
		return nil
	}
	scanner.OnFingerRemoved = func(held time.Duration) {
		a.printf("finger removed after %s\n", held.Round(time.Millisecond))
	}

	stopped := make(chan error, 1)
	scanner.OnError = func(err error) {
		a.log.Warn().Err(err).Msg("finger query failed")
		if errors.Is(err, gt521.ErrDeviceNotOpen) {
			select {
			case stopped <- err:
			default:
			}
		}
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := scanner.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = scanner.Stop() }()

	if flags.identify {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.identifyLoop(ctx, scanner)
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-stopped:
		return err
	}

	metrics := scanner.Metrics()
	a.log.Info().
		Int64("polls", metrics.PollCycles).
		Int64("placed", metrics.FingersPlaced).
		Int64("errors", metrics.PollErrors).
		Msg("watch finished")
	return nil
}

// identifyLoop matches each placed finger until ctx ends
func (a *app) identifyLoop(ctx context.Context, scanner *polling.Scanner) {
	for ctx.Err() == nil && scanner.IsRunning() {
		err := scanner.RunOnNextFinger(ctx, time.Minute, func(ctx context.Context, d *gt521.Device) error {
			return a.reportIdentify(d.MatchOneToNContext(ctx))
		})
		switch {
		case err == nil, errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		default:
			a.log.Warn().Err(err).Msg("identify failed")
		}
	}
}
