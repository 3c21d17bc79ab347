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

// Security level bounds accepted by SetSecurityLevel
const (
	MinSecurityLevel = 1
	MaxSecurityLevel = 5
)

// query runs a header-only command with the default reply timeout
func (d *Device) query(ctx context.Context, kind ResponseKind, code CommandCode, parameter int32) (*Response, error) {
	return d.sendCommand(ctx, kind, NewCommand(code, parameter), d.config.ResponseTimeout)
}

// queryData runs a command carrying a data packet with the default reply timeout
func (d *Device) queryData(
	ctx context.Context, kind ResponseKind, code CommandCode, parameter int32, data []byte,
) (*Response, error) {
	cmd, err := NewCommandWithData(code, parameter, data)
	if err != nil {
		return nil, err
	}
	return d.sendCommand(ctx, kind, cmd, d.config.ResponseTimeout)
}

// checkUserID rejects user ids outside [0, capacity]
func (d *Device) checkUserID(userID int) error {
	return checkRange("userID", userID, 0, d.FingerprintCapacity())
}

// SetLEDStatusContext switches the sensor backlight on or off
func (d *Device) SetLEDStatusContext(ctx context.Context, status LEDStatus) (*Response, error) {
	if status == LEDOn {
		return d.TurnLEDOnContext(ctx)
	}
	return d.TurnLEDOffContext(ctx)
}

// TurnLEDOnContext turns the sensor backlight on
func (d *Device) TurnLEDOnContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindBasic, CmdCmosLed, 1)
}

// TurnLEDOffContext turns the sensor backlight off
func (d *Device) TurnLEDOffContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindBasic, CmdCmosLed, 0)
}

// ChangeBaudRateContext asks the module to switch to baud. The module
// replies at the new rate, so the reply is usually lost; OpenContext handles
// the reconnect.
func (d *Device) ChangeBaudRateContext(ctx context.Context, baud int) (*Response, error) {
	return d.query(ctx, KindBasic, CmdChangeBaudRate, int32(baud))
}

// FastDeviceSearchingContext checks whether a module answers on the port
func (d *Device) FastDeviceSearchingContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindFastSearch, CmdUsbInternalCheck, 0)
}

// CountEnrolledFingerprintsContext returns the number of enrolled fingerprints
func (d *Device) CountEnrolledFingerprintsContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindEnrollCount, CmdGetEnrollCount, 0)
}

// CheckEnrollmentStatusContext checks whether userID holds a fingerprint
func (d *Device) CheckEnrollmentStatusContext(ctx context.Context, userID int) (*Response, error) {
	if err := d.checkUserID(userID); err != nil {
		return nil, err
	}
	return d.query(ctx, KindCheckEnrollment, CmdCheckEnrolled, int32(userID))
}

// CheckFingerPressingStatusContext queries whether a finger is on the sensor
func (d *Device) CheckFingerPressingStatusContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindFingerPressing, CmdIsPressFinger, 0)
}

// DeleteAllUsersContext deletes every enrolled fingerprint
func (d *Device) DeleteAllUsersContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindBasic, CmdDeleteAll, 0)
}

// DeleteUserContext deletes the fingerprint stored for userID
func (d *Device) DeleteUserContext(ctx context.Context, userID int) (*Response, error) {
	if err := d.checkUserID(userID); err != nil {
		return nil, err
	}
	return d.query(ctx, KindBasic, CmdDeleteID, int32(userID))
}

// MatchOneToOneContext captures a finger and verifies it against userID
func (d *Device) MatchOneToOneContext(ctx context.Context, userID int) (*Response, error) {
	if err := d.checkUserID(userID); err != nil {
		return nil, err
	}
	capture, err := d.captureFingerprint(ctx, KindBasic, d.config.FingerActionTimeout)
	if err != nil || !capture.IsSuccessful() {
		return capture, err
	}
	return d.query(ctx, KindBasic, CmdVerify, int32(userID))
}

// MatchOneToOneTemplateContext verifies template against userID
func (d *Device) MatchOneToOneTemplateContext(ctx context.Context, userID int, template []byte) (*Response, error) {
	if err := d.checkUserID(userID); err != nil {
		return nil, err
	}
	return d.queryData(ctx, KindBasic, CmdVerifyTemplate, int32(userID), template)
}

// MatchOneToNContext captures a finger and identifies it among all enrolled
// fingerprints
func (d *Device) MatchOneToNContext(ctx context.Context) (*Response, error) {
	capture, err := d.captureFingerprint(ctx, KindIdentify, d.config.FingerActionTimeout)
	if err != nil || !capture.IsSuccessful() {
		return capture, err
	}
	return d.query(ctx, KindIdentify, CmdIdentify, 0)
}

// MatchOneToNTemplateContext identifies a 498-byte template
func (d *Device) MatchOneToNTemplateContext(ctx context.Context, template []byte) (*Response, error) {
	return d.queryData(ctx, KindIdentify, CmdIdentifyTemplate, 0, template)
}

// MatchOneToN2Context identifies a 500-byte template
func (d *Device) MatchOneToN2Context(ctx context.Context, template []byte) (*Response, error) {
	return d.queryData(ctx, KindIdentify, CmdIdentifyTemplate2, ExtendedTemplateSize, template)
}

// MakeTemplateContext captures a finger and returns its template without
// storing it
func (d *Device) MakeTemplateContext(ctx context.Context) (*Response, error) {
	capture, err := d.captureFingerprint(ctx, KindTemplate, d.config.FingerActionTimeout)
	if err != nil || !capture.IsSuccessful() {
		return capture, err
	}
	return d.query(ctx, KindTemplate, CmdMakeTemplate, 0)
}

// GetImageContext captures a finger and downloads the 258x202 image. The
// download may take up to ImageResponseTimeout, 10 s by default.
func (d *Device) GetImageContext(ctx context.Context) (*Response, error) {
	return d.captureImage(ctx, CmdGetImage)
}

// GetRawImageContext captures a finger and downloads the 160x120 raw image,
// waiting up to ImageResponseTimeout like GetImageContext.
func (d *Device) GetRawImageContext(ctx context.Context) (*Response, error) {
	return d.captureImage(ctx, CmdGetRawImage)
}

func (d *Device) captureImage(ctx context.Context, code CommandCode) (*Response, error) {
	capture, err := d.captureFingerprint(ctx, KindImage, d.config.FingerActionTimeout)
	if err != nil || !capture.IsSuccessful() {
		return capture, err
	}
	return d.sendCommand(ctx, KindImage, NewCommand(code, 0), d.config.ImageResponseTimeout)
}

// GetTemplateContext downloads the template stored for userID
func (d *Device) GetTemplateContext(ctx context.Context, userID int) (*Response, error) {
	if err := d.checkUserID(userID); err != nil {
		return nil, err
	}
	return d.query(ctx, KindTemplate, CmdGetTemplate, int32(userID))
}

// SetTemplateContext stores template for userID
func (d *Device) SetTemplateContext(ctx context.Context, userID int, template []byte) (*Response, error) {
	if err := d.checkUserID(userID); err != nil {
		return nil, err
	}
	return d.queryData(ctx, KindBasic, CmdSetTemplate, int32(userID), template)
}

// EnterStandbyModeContext puts the module to sleep
func (d *Device) EnterStandbyModeContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindBasic, CmdEnterStandbyMode, 0)
}

// SetSecurityLevelContext sets the matching threshold, 1 being the most
// permissive
func (d *Device) SetSecurityLevelContext(ctx context.Context, level int) (*Response, error) {
	if err := checkRange("level", level, MinSecurityLevel, MaxSecurityLevel); err != nil {
		return nil, err
	}
	return d.query(ctx, KindBasic, CmdSetSecurityLevel, int32(level))
}

// GetSecurityLevelContext reads the matching threshold
func (d *Device) GetSecurityLevelContext(ctx context.Context) (*Response, error) {
	return d.query(ctx, KindSecurityLevel, CmdGetSecurityLevel, 0)
}
