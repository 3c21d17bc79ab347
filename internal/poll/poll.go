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

// Package poll provides context-aware polling helpers shared by the session
// engine's read loop and finger-action waits.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by Until when the timeout elapses before the
// operation reports completion.
var ErrTimeout = errors.New("poll timeout")

// Operation represents a single polling attempt
// Returns: data, done, error
// - data: the result when done
// - done: true once polling should stop
// - error: any permanent error that should stop polling
type Operation[T any] func(ctx context.Context) (T, bool, error)

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Until runs operation every interval until it reports done, returns an error,
// ctx is cancelled, or timeout elapses. The operation always runs at least once
// and the timeout is checked after each attempt.
func Until[T any](ctx context.Context, interval, timeout time.Duration, operation Operation[T]) (T, error) {
	var zero T
	start := time.Now()

	for {
		result, done, err := operation(ctx)
		if err != nil {
			return zero, err
		}
		if done {
			return result, nil
		}

		if time.Since(start) > timeout {
			return zero, ErrTimeout
		}

		if err := Sleep(ctx, interval); err != nil {
			return zero, err
		}
	}
}
