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
	"encoding/json"
	"fmt"

	"github.com/ZaparooProject/go-gt521"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type infoReport struct {
	Port     string `json:"port" yaml:"port"`
	Model    string `json:"model" yaml:"model"`
	Firmware string `json:"firmware_version" yaml:"firmware_version"`
	Serial   string `json:"serial_number" yaml:"serial_number"`
	IsoArea  int32  `json:"iso_area_max_size" yaml:"iso_area_max_size"`
	Capacity int    `json:"capacity" yaml:"capacity"`
	Enrolled int    `json:"enrolled" yaml:"enrolled"`
	Security int    `json:"security_level" yaml:"security_level"`
	BaudRate int    `json:"baud_rate" yaml:"baud_rate"`
}

func newInfoCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show module identity and database usage",
		Example: `  gt521ctl info --port /dev/ttyUSB0
  gt521ctl info --port /dev/ttyUSB0 --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch output {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("%w: unknown output format %q", gt521.ErrInvalidArgument, output)
			}
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				report, err := a.collectInfo(ctx, d)
				if err != nil {
					return err
				}
				return a.printInfo(report, output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func (a *app) collectInfo(ctx context.Context, d *gt521.Device) (infoReport, error) {
	info := d.DeviceInfo()
	report := infoReport{
		Port:     d.Path(),
		Model:    d.Model().String(),
		Firmware: info.FirmwareVersion,
		Serial:   info.SerialNumber,
		IsoArea:  info.IsoAreaMaxSize,
		Capacity: d.FingerprintCapacity() + 1,
		BaudRate: a.cfg.TargetBaudRate,
	}

	count, err := checkResponse(d.CountEnrolledFingerprintsContext(ctx))
	if err != nil {
		return infoReport{}, err
	}
	report.Enrolled = count.EnrolledCount()

	level, err := checkResponse(d.GetSecurityLevelContext(ctx))
	if err != nil {
		return infoReport{}, err
	}
	report.Security = level.SecurityLevel()
	return report, nil
}

func (a *app) printInfo(report infoReport, output string) error {
	switch output {
	case "json":
		encoder := json.NewEncoder(a.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(a.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	default:
		a.printf("Port:            %s\n", report.Port)
		a.printf("Model:           %s\n", report.Model)
		a.printf("Firmware:        %s\n", report.Firmware)
		a.printf("Serial:          %s\n", report.Serial)
		a.printf("ISO area:        %d bytes\n", report.IsoArea)
		a.printf("Enrolled:        %d of %d\n", report.Enrolled, report.Capacity)
		a.printf("Security level:  %d\n", report.Security)
		a.printf("Baud rate:       %d\n", report.BaudRate)
		return nil
	}
}

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Run the module self check",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				if _, err := checkResponse(d.FastDeviceSearchingContext(ctx)); err != nil {
					return err
				}
				a.printf("module found on %s\n", d.Path())
				return nil
			})
		},
	}
}
