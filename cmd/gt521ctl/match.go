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
	"os"

	"github.com/ZaparooProject/go-gt521"
	"github.com/spf13/cobra"
)

type matchFlags struct {
	templatePath string
	userID       int
	extended     bool
}

func readTemplate(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return data, nil
}

func newIdentifyCmd(a *app) *cobra.Command {
	flags := &matchFlags{}

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Find the user matching a finger or a template",
		Example: `  # Match the finger on the sensor against the database
  gt521ctl identify --port /dev/ttyUSB0

  # Match a stored template file
  gt521ctl identify --port /dev/ttyUSB0 --template finger.tpl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				var resp *gt521.Response
				var err error
				switch {
				case flags.templatePath == "":
					a.log.Info().Msg("place finger on the sensor")
					resp, err = d.MatchOneToNContext(ctx)
				case flags.extended:
					template, readErr := readTemplate(flags.templatePath)
					if readErr != nil {
						return readErr
					}
					resp, err = d.MatchOneToN2Context(ctx, template)
				default:
					template, readErr := readTemplate(flags.templatePath)
					if readErr != nil {
						return readErr
					}
					resp, err = d.MatchOneToNTemplateContext(ctx, template)
				}
				return a.reportIdentify(resp, err)
			})
		},
	}
	cmd.Flags().StringVarP(&flags.templatePath, "template", "t", "", "template file to identify instead of a live finger")
	cmd.Flags().BoolVar(&flags.extended, "extended", false, "template file holds an extended 500 byte template")
	return cmd
}

func (a *app) reportIdentify(resp *gt521.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.ErrorCode() == gt521.NackIdentifyFailed {
		a.printf("no match\n")
		return nil
	}
	if _, err := checkResponse(resp, nil); err != nil {
		return err
	}
	a.printf("matched user %d\n", resp.UserID())
	return nil
}

func newVerifyCmd(a *app) *cobra.Command {
	flags := &matchFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a finger or a template against one user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				var resp *gt521.Response
				var err error
				if flags.templatePath == "" {
					a.log.Info().Msg("place finger on the sensor")
					resp, err = d.MatchOneToOneContext(ctx, flags.userID)
				} else {
					template, readErr := readTemplate(flags.templatePath)
					if readErr != nil {
						return readErr
					}
					resp, err = d.MatchOneToOneTemplateContext(ctx, flags.userID, template)
				}
				if err != nil {
					return err
				}
				if resp.ErrorCode() == gt521.NackVerifyFailed {
					a.printf("user %d does not match\n", flags.userID)
					return nil
				}
				if _, err := checkResponse(resp, nil); err != nil {
					return err
				}
				a.printf("user %d matches\n", flags.userID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&flags.userID, "id", 0, "user id to verify against")
	cmd.Flags().StringVarP(&flags.templatePath, "template", "t", "", "template file to verify instead of a live finger")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
