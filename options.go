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
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Default timing and line settings
const (
	DefaultInitialBaudRate = 9600
	DefaultTargetBaudRate  = 115200

	DefaultResponseTimeout      = 1 * time.Second
	DefaultFingerActionTimeout  = 2 * time.Second
	DefaultEnrollTimeout        = 5 * time.Second
	DefaultEnrollFingerTimeout  = 10 * time.Second
	DefaultImageResponseTimeout = 10 * time.Second
	DefaultPollInterval         = 10 * time.Millisecond
	DefaultSettleDelay          = 100 * time.Millisecond
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// ResponseTimeout bounds the wait for an ordinary reply
	ResponseTimeout time.Duration
	// FingerActionTimeout bounds finger waits that precede a capture
	FingerActionTimeout time.Duration
	// EnrollTimeout bounds the wait for an Enroll1/2/3 reply
	EnrollTimeout time.Duration
	// EnrollFingerTimeout bounds the finger wait of each enrollment step
	EnrollFingerTimeout time.Duration
	// ImageResponseTimeout bounds the wait for GetImage/GetRawImage replies,
	// which take seconds to stream even at 115200 baud
	ImageResponseTimeout time.Duration
	// PollInterval is the delay between read attempts and finger queries
	PollInterval time.Duration
	// SettleDelay is waited after opening or closing the port
	SettleDelay time.Duration
	// InitialBaudRate is the rate the module listens at after power-up
	InitialBaudRate int
	// TargetBaudRate is the operating rate negotiated during open
	TargetBaudRate int
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		ResponseTimeout:      DefaultResponseTimeout,
		FingerActionTimeout:  DefaultFingerActionTimeout,
		EnrollTimeout:        DefaultEnrollTimeout,
		EnrollFingerTimeout:  DefaultEnrollFingerTimeout,
		ImageResponseTimeout: DefaultImageResponseTimeout,
		PollInterval:         DefaultPollInterval,
		SettleDelay:          DefaultSettleDelay,
		InitialBaudRate:      DefaultInitialBaudRate,
		TargetBaudRate:       DefaultTargetBaudRate,
	}
}

// Validate checks that every duration and baud rate is usable
func (c *DeviceConfig) Validate() error {
	switch {
	case c.ResponseTimeout <= 0, c.FingerActionTimeout <= 0, c.EnrollTimeout <= 0,
		c.EnrollFingerTimeout <= 0, c.ImageResponseTimeout <= 0:
		return errors.New("timeouts must be positive")
	case c.PollInterval <= 0:
		return errors.New("poll interval must be positive")
	case c.SettleDelay < 0:
		return errors.New("settle delay must not be negative")
	case c.InitialBaudRate <= 0 || c.TargetBaudRate <= 0:
		return errors.New("baud rates must be positive")
	}
	return nil
}

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithConfig replaces the whole device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return ErrInvalidArgument
		}
		cfg := *config
		d.config = &cfg
		return nil
	}
}

// WithResponseTimeout sets the default reply timeout
func WithResponseTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.ResponseTimeout = timeout
		return nil
	}
}

// WithFingerActionTimeout sets the finger wait used before captures
func WithFingerActionTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.FingerActionTimeout = timeout
		return nil
	}
}

// WithEnrollTimeouts sets the finger wait and reply timeout of enrollment steps
func WithEnrollTimeouts(fingerTimeout, responseTimeout time.Duration) Option {
	return func(d *Device) error {
		d.config.EnrollFingerTimeout = fingerTimeout
		d.config.EnrollTimeout = responseTimeout
		return nil
	}
}

// WithPollInterval sets the delay between read attempts and finger queries
func WithPollInterval(interval time.Duration) Option {
	return func(d *Device) error {
		d.config.PollInterval = interval
		return nil
	}
}

// WithSettleDelay sets the delay after opening or closing the port
func WithSettleDelay(delay time.Duration) Option {
	return func(d *Device) error {
		d.config.SettleDelay = delay
		return nil
	}
}

// WithBaudRates sets the power-up and operating baud rates
func WithBaudRates(initial, target int) Option {
	return func(d *Device) error {
		d.config.InitialBaudRate = initial
		d.config.TargetBaudRate = target
		return nil
	}
}

// WithLogger routes driver debug output to l and enables it
func WithLogger(l zerolog.Logger) Option {
	return func(*Device) error {
		SetLogger(l)
		SetDebugEnabled(true)
		return nil
	}
}
