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
)

// EnrollmentSteps is the number of captures needed to enroll a finger
const EnrollmentSteps = 3

var enrollCommands = [EnrollmentSteps]CommandCode{CmdEnroll1, CmdEnroll2, CmdEnroll3}

// EnrollUserContext runs one step of the three-step enrollment of userID.
// Step 1 also starts the enrollment. Each step waits for a finger, captures
// it and sends the matching Enroll command. A userID of -1 enrolls without
// storing, in which case step 3 returns the template.
func (d *Device) EnrollUserContext(ctx context.Context, iteration, userID int) (*Response, error) {
	if err := checkRange("iteration", iteration, 1, EnrollmentSteps); err != nil {
		return nil, err
	}
	if err := checkRange("userID", userID, -1, d.FingerprintCapacity()); err != nil {
		return nil, err
	}

	if iteration == 1 {
		start, err := d.query(ctx, KindBasic, CmdEnrollStart, int32(userID))
		if err != nil {
			return nil, err
		}
		if !start.IsSuccessful() {
			debugf("Enrollment of user %d could not start: %v", userID, start.Err())
			return unsuccessfulResponse(KindEnrollment, CmdEnrollStart, start.ErrorCode()), nil
		}
	}

	capture, err := d.captureFingerprint(ctx, KindEnrollment, d.config.EnrollFingerTimeout)
	if err != nil || !capture.IsSuccessful() {
		return capture, err
	}

	cmd := NewCommand(enrollCommands[iteration-1], int32(userID))
	return d.sendCommand(ctx, KindEnrollment, cmd, d.config.EnrollTimeout)
}
