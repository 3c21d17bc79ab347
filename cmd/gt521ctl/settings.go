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
	"fmt"
	"strconv"

	"github.com/ZaparooProject/go-gt521"
	"github.com/spf13/cobra"
)

func newSecurityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "security",
		Short: "Read or change the matching security level",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the security level",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				resp, err := checkResponse(d.GetSecurityLevelContext(ctx))
				if err != nil {
					return err
				}
				a.printf("security level %d\n", resp.SecurityLevel())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set LEVEL",
		Short: fmt.Sprintf("Set the security level (%d-%d)", gt521.MinSecurityLevel, gt521.MaxSecurityLevel),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: security level %q", gt521.ErrInvalidArgument, args[0])
			}
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				if _, err := checkResponse(d.SetSecurityLevelContext(ctx, level)); err != nil {
					return err
				}
				a.printf("security level set to %d\n", level)
				return nil
			})
		},
	})
	return cmd
}

func newLEDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "led on|off",
		Short:     "Switch the sensor backlight",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			status := gt521.LEDOff
			if args[0] == "on" {
				status = gt521.LEDOn
			}
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				_, err := checkResponse(d.SetLEDStatusContext(ctx, status))
				return err
			})
		},
	}
}

func newStandbyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "standby",
		Short: "Put the module into standby mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				if _, err := checkResponse(d.EnterStandbyModeContext(ctx)); err != nil {
					return err
				}
				a.printf("module in standby\n")
				return nil
			})
		},
	}
}
