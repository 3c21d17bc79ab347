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
	"context"
	"errors"
	"time"

	"github.com/ZaparooProject/go-gt521/internal/poll"
)

// WaitFingerActionContext polls the sensor until a finger is placed or
// removed. It returns false when timeout elapses first or a status query
// fails.
func (d *Device) WaitFingerActionContext(ctx context.Context, action FingerAction, timeout time.Duration) (bool, error) {
	done, err := poll.Until(ctx, d.config.PollInterval, timeout, func(ctx context.Context) (bool, bool, error) {
		resp, err := d.CheckFingerPressingStatusContext(ctx)
		if err != nil {
			return false, true, err
		}
		if !resp.IsSuccessful() {
			debugf("Finger status query failed: %v", resp.Err())
			return false, true, nil
		}
		if resp.IsPressed() == (action == FingerPlace) {
			return true, true, nil
		}
		return false, false, nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		debugf("No finger %s within %v", action, timeout)
		return false, nil
	}
	return done, err
}

// captureFingerprint waits for a finger and captures it, returning the
// capture reply viewed as kind. A finger that never arrives yields an
// unsuccessful reply with NackFingerIsNotPressed.
func (d *Device) captureFingerprint(ctx context.Context, kind ResponseKind, fingerTimeout time.Duration) (*Response, error) {
	placed, err := d.WaitFingerActionContext(ctx, FingerPlace, fingerTimeout)
	if err != nil {
		return nil, err
	}
	if !placed {
		return unsuccessfulResponse(kind, CmdCaptureFinger, NackFingerIsNotPressed), nil
	}

	resp, err := d.query(ctx, KindBasic, CmdCaptureFinger, 0)
	if err != nil {
		return nil, err
	}
	return resp.As(kind), nil
}
