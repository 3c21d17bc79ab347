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

package polling

import (
	"errors"
	"time"
)

// Config controls how often the monitor queries the sensor
type Config struct {
	// PollInterval is the delay between finger queries while active
	PollInterval time.Duration
	// IdleInterval is the slower delay used once no finger was seen for IdleAfter
	IdleInterval time.Duration
	// IdleAfter is how long without a finger before polling slows down.
	// Zero disables the slowdown.
	IdleAfter time.Duration
}

// DefaultConfig returns the default monitor configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 100 * time.Millisecond,
		IdleInterval: 500 * time.Millisecond,
		IdleAfter:    5 * time.Second,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.IdleAfter > 0 && c.IdleInterval < c.PollInterval {
		return errors.New("idle interval must not be shorter than poll interval")
	}
	return nil
}
