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
	"context"
	"time"
)

func (s *Scanner) startScanning(ctx context.Context) error {
	monitor, err := NewMonitor(s.device, s.config.monitorConfig())
	if err != nil {
		return err
	}

	s.stopMutex.Lock()
	s.monitor = monitor
	s.stopMutex.Unlock()

	s.setupEventHandlers(monitor)
	return monitor.Start(ctx)
}

func (s *Scanner) setupEventHandlers(monitor *Monitor) {
	monitor.OnFingerPlaced = func() error {
		s.processPendingOperation()

		if s.OnFingerPlaced != nil {
			return s.OnFingerPlaced()
		}
		return nil
	}

	monitor.OnFingerRemoved = func(held time.Duration) {
		if s.OnFingerRemoved != nil {
			s.OnFingerRemoved(held)
		}
	}

	monitor.OnError = func(err error) {
		if s.OnError != nil {
			s.OnError(err)
		}
	}
}
