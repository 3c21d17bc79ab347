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

type templateFlags struct {
	path   string
	userID int
}

func newTemplateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Read, write or build fingerprint templates",
	}
	cmd.AddCommand(newTemplateGetCmd(a), newTemplateSetCmd(a), newTemplateMakeCmd(a))
	return cmd
}

func newTemplateGetCmd(a *app) *cobra.Command {
	flags := &templateFlags{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Download the template stored for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				resp, err := checkResponse(d.GetTemplateContext(ctx, flags.userID))
				if err != nil {
					return err
				}
				return a.writeTemplate(flags.path, resp.Template())
			})
		},
	}
	cmd.Flags().IntVar(&flags.userID, "id", 0, "user id to download")
	cmd.Flags().StringVarP(&flags.path, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newTemplateSetCmd(a *app) *cobra.Command {
	flags := &templateFlags{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Upload a template file under a user id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			template, err := readTemplate(flags.path)
			if err != nil {
				return err
			}
			if len(template) != gt521.TemplateSize {
				return fmt.Errorf("%w: template file holds %d bytes, want %d",
					gt521.ErrInvalidArgument, len(template), gt521.TemplateSize)
			}
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				if _, err := checkResponse(d.SetTemplateContext(ctx, flags.userID, template)); err != nil {
					return err
				}
				a.printf("stored template as user %d\n", flags.userID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&flags.userID, "id", 0, "user id to store the template under")
	cmd.Flags().StringVarP(&flags.path, "in", "i", "", "template file")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newTemplateMakeCmd(a *app) *cobra.Command {
	flags := &templateFlags{}

	cmd := &cobra.Command{
		Use:   "make",
		Short: "Build a template from the finger on the sensor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				a.log.Info().Msg("place finger on the sensor")
				resp, err := checkResponse(d.MakeTemplateContext(ctx))
				if err != nil {
					return err
				}
				return a.writeTemplate(flags.path, resp.Template())
			})
		},
	}
	cmd.Flags().StringVarP(&flags.path, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) writeTemplate(path string, template []byte) error {
	if len(template) == 0 {
		return fmt.Errorf("%w: module returned no template data", gt521.ErrCommunicationFailed)
	}
	if err := os.WriteFile(path, template, 0o600); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	a.printf("wrote %d bytes to %s\n", len(template), path)
	return nil
}
