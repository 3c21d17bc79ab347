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
	"fmt"
	"os"

	"github.com/ZaparooProject/go-gt521"
	"github.com/spf13/cobra"
)

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of enrolled fingerprints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				resp, err := checkResponse(d.CountEnrolledFingerprintsContext(ctx))
				if err != nil {
					return err
				}
				a.printf("%d of %d slots enrolled\n", resp.EnrolledCount(), d.FingerprintCapacity()+1)
				return nil
			})
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether a user id holds a fingerprint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				resp, err := d.CheckEnrollmentStatusContext(ctx, userID)
				if err != nil {
					return err
				}
				switch {
				case resp.IsEnrolled():
					a.printf("user %d is enrolled\n", userID)
				case resp.ErrorCode() == gt521.NackIsNotUsed:
					a.printf("user %d is free\n", userID)
				default:
					return resp.Err()
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&userID, "id", 0, "user id to check")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

type enrollFlags struct {
	out     string
	userID  int
	noStore bool
}

func newEnrollCmd(a *app) *cobra.Command {
	flags := &enrollFlags{}

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll a fingerprint in three captures",
		Example: `  # Store the fingerprint under user id 7
  gt521ctl enroll --port /dev/ttyUSB0 --id 7

  # Build a template without storing it
  gt521ctl enroll --port /dev/ttyUSB0 --no-store --out finger.tpl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID := flags.userID
			if flags.noStore {
				userID = -1
			}
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				return a.enroll(ctx, d, userID, flags.out)
			})
		},
	}
	cmd.Flags().IntVar(&flags.userID, "id", 0, "user id to store the fingerprint under")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "enroll without storing the fingerprint")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "write the template to this file (with --no-store)")
	cmd.MarkFlagsOneRequired("id", "no-store")
	cmd.MarkFlagsMutuallyExclusive("id", "no-store")
	return cmd
}

func (a *app) enroll(ctx context.Context, d *gt521.Device, userID int, out string) error {
	var resp *gt521.Response
	for step := 1; step <= gt521.EnrollmentSteps; step++ {
		a.log.Info().Int("step", step).Msg("place finger on the sensor")

		var err error
		resp, err = checkResponse(d.EnrollUserContext(ctx, step, userID))
		if err != nil {
			var devErr *gt521.DeviceError
			if errors.As(err, &devErr) && devErr.Code == gt521.NackDuplicateFingerprint {
				return fmt.Errorf("finger already enrolled as user %d: %w", devErr.Parameter, err)
			}
			return fmt.Errorf("enroll step %d: %w", step, err)
		}

		if step == gt521.EnrollmentSteps {
			break
		}
		a.log.Info().Int("step", step).Msg("remove finger")
		removed, err := d.WaitFingerActionContext(ctx, gt521.FingerRemove, a.cfg.FingerTimeout)
		if err != nil {
			return err
		}
		if !removed {
			a.log.Warn().Int("step", step).Msg("finger still on the sensor, continuing")
		}
	}

	if userID < 0 {
		template := resp.Template()
		if out != "" {
			if err := os.WriteFile(out, template, 0o600); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
		}
		a.printf("enrolled template of %d bytes\n", len(template))
		return nil
	}
	a.printf("enrolled user %d\n", userID)
	return nil
}

type deleteFlags struct {
	userID int
	all    bool
}

func newDeleteCmd(a *app) *cobra.Command {
	flags := &deleteFlags{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one user or the whole database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				if flags.all {
					if _, err := checkResponse(d.DeleteAllUsersContext(ctx)); err != nil {
						return err
					}
					a.printf("deleted all users\n")
					return nil
				}
				if _, err := checkResponse(d.DeleteUserContext(ctx, flags.userID)); err != nil {
					return err
				}
				a.printf("deleted user %d\n", flags.userID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&flags.userID, "id", 0, "user id to delete")
	cmd.Flags().BoolVar(&flags.all, "all", false, "delete every enrolled user")
	cmd.MarkFlagsOneRequired("id", "all")
	cmd.MarkFlagsMutuallyExclusive("id", "all")
	return cmd
}
