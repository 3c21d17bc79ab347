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
	"time"
)

// FingerDetectionState is the state of the finger presence state machine
type FingerDetectionState int

const (
	// StateIdle means no finger is on the sensor
	StateIdle FingerDetectionState = iota
	// StateFingerPresent means a finger was reported by the last query
	StateFingerPresent
)

func (s FingerDetectionState) String() string {
	if s == StateFingerPresent {
		return "finger present"
	}
	return "idle"
}

// FingerState tracks the finger on the sensor
type FingerState struct {
	PlacedAt       time.Time
	LastSeenTime   time.Time
	DetectionState FingerDetectionState
	Present        bool
}

// TransitionToPresent records a finger seen at now
func (fs *FingerState) TransitionToPresent(now time.Time) {
	if !fs.Present {
		fs.PlacedAt = now
	}
	fs.DetectionState = StateFingerPresent
	fs.Present = true
	fs.LastSeenTime = now
}

// TransitionToIdle resets to idle state and returns how long the finger was
// held
func (fs *FingerState) TransitionToIdle(now time.Time) time.Duration {
	var held time.Duration
	if fs.Present {
		held = now.Sub(fs.PlacedAt)
	}
	fs.DetectionState = StateIdle
	fs.Present = false
	fs.PlacedAt = time.Time{}
	return held
}
