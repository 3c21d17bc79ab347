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

package gt521

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceConfigParameterValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		modify  func(*DeviceConfig)
		name    string
		wantErr bool
	}{
		{name: "defaults", modify: func(*DeviceConfig) {}},
		{name: "zero settle delay", modify: func(c *DeviceConfig) { c.SettleDelay = 0 }},
		{name: "zero response timeout", modify: func(c *DeviceConfig) { c.ResponseTimeout = 0 }, wantErr: true},
		{name: "negative finger timeout", modify: func(c *DeviceConfig) { c.FingerActionTimeout = -time.Second }, wantErr: true},
		{name: "zero enroll timeout", modify: func(c *DeviceConfig) { c.EnrollTimeout = 0 }, wantErr: true},
		{name: "zero enroll finger timeout", modify: func(c *DeviceConfig) { c.EnrollFingerTimeout = 0 }, wantErr: true},
		{name: "zero image timeout", modify: func(c *DeviceConfig) { c.ImageResponseTimeout = 0 }, wantErr: true},
		{name: "zero poll interval", modify: func(c *DeviceConfig) { c.PollInterval = 0 }, wantErr: true},
		{name: "negative settle delay", modify: func(c *DeviceConfig) { c.SettleDelay = -1 }, wantErr: true},
		{name: "zero initial baud", modify: func(c *DeviceConfig) { c.InitialBaudRate = 0 }, wantErr: true},
		{name: "negative target baud", modify: func(c *DeviceConfig) { c.TargetBaudRate = -9600 }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := DefaultDeviceConfig()
			tt.modify(config)
			err := config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOptionsApply(t *testing.T) {
	t.Parallel()

	device, err := New(GT521F32, NewMockTransport().Factory(),
		WithResponseTimeout(3*time.Second),
		WithFingerActionTimeout(4*time.Second),
		WithEnrollTimeouts(6*time.Second, 7*time.Second),
		WithPollInterval(5*time.Millisecond),
		WithSettleDelay(0),
		WithBaudRates(57600, 38400),
	)
	require.NoError(t, err)

	got := device.Config()
	assert.Equal(t, 3*time.Second, got.ResponseTimeout)
	assert.Equal(t, 4*time.Second, got.FingerActionTimeout)
	assert.Equal(t, 6*time.Second, got.EnrollFingerTimeout)
	assert.Equal(t, 7*time.Second, got.EnrollTimeout)
	assert.Equal(t, DefaultImageResponseTimeout, got.ImageResponseTimeout)
	assert.Equal(t, 5*time.Millisecond, got.PollInterval)
	assert.Zero(t, got.SettleDelay)
	assert.Equal(t, 57600, got.InitialBaudRate)
	assert.Equal(t, 38400, got.TargetBaudRate)
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("copies the config", func(t *testing.T) {
		t.Parallel()

		config := DefaultDeviceConfig()
		config.ResponseTimeout = 250 * time.Millisecond
		device, err := New(GT521F52, NewMockTransport().Factory(), WithConfig(config))
		require.NoError(t, err)

		config.ResponseTimeout = time.Hour
		assert.Equal(t, 250*time.Millisecond, device.Config().ResponseTimeout)
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := New(GT521F52, NewMockTransport().Factory(), WithConfig(nil))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		config := DefaultDeviceConfig()
		config.PollInterval = 0
		_, err := New(GT521F52, NewMockTransport().Factory(), WithConfig(config))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}
