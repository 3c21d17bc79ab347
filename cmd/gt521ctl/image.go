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
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/go-gt521"
	"github.com/spf13/cobra"
)

// Image geometry of the two capture commands
const (
	imageWidth     = 258
	imageHeight    = 202
	rawImageWidth  = 160
	rawImageHeight = 120
)

type imageFlags struct {
	path string
	raw  bool
}

func newImageCmd(a *app) *cobra.Command {
	flags := &imageFlags{}

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Capture a fingerprint image",
		Long: `Capture a fingerprint image and save it. Files ending in .png are encoded
as 8-bit grayscale PNG; any other name receives the bytes as sent by the module.`,
		Example: `  # Full resolution image
  gt521ctl image --port /dev/ttyUSB0 --out finger.png

  # Fast QVGA preview image
  gt521ctl image --port /dev/ttyUSB0 --raw --out preview.bin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *gt521.Device) error {
				a.log.Info().Msg("place finger on the sensor")

				var resp *gt521.Response
				var err error
				width, height := imageWidth, imageHeight
				if flags.raw {
					width, height = rawImageWidth, rawImageHeight
					resp, err = checkResponse(d.GetRawImageContext(ctx))
				} else {
					resp, err = checkResponse(d.GetImageContext(ctx))
				}
				if err != nil {
					return err
				}
				return a.writeImage(flags.path, resp.Image(), width, height)
			})
		},
	}
	cmd.Flags().StringVarP(&flags.path, "out", "o", "", "output file")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "capture the 160x120 raw image instead")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) writeImage(path string, pixels []byte, width, height int) error {
	if len(pixels) != width*height {
		return fmt.Errorf("%w: image holds %d bytes, want %d",
			gt521.ErrCommunicationFailed, len(pixels), width*height)
	}

	data := pixels
	if strings.EqualFold(filepath.Ext(path), ".png") {
		encoded, err := encodeGray(pixels, width, height)
		if err != nil {
			return err
		}
		data = encoded
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	a.printf("wrote %dx%d image to %s\n", width, height, path)
	return nil
}

func encodeGray(pixels []byte, width, height int) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
