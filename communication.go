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
	"time"
)

// SetLEDStatus switches the sensor backlight on or off
func (d *Device) SetLEDStatus(status LEDStatus) (*Response, error) {
	return d.SetLEDStatusContext(context.Background(), status)
}

// TurnLEDOn turns the sensor backlight on
func (d *Device) TurnLEDOn() (*Response, error) {
	return d.TurnLEDOnContext(context.Background())
}

// TurnLEDOff turns the sensor backlight off
func (d *Device) TurnLEDOff() (*Response, error) {
	return d.TurnLEDOffContext(context.Background())
}

// FastDeviceSearching checks whether a module answers on the port
func (d *Device) FastDeviceSearching() (*Response, error) {
	return d.FastDeviceSearchingContext(context.Background())
}

// CountEnrolledFingerprints returns the number of enrolled fingerprints
func (d *Device) CountEnrolledFingerprints() (*Response, error) {
	return d.CountEnrolledFingerprintsContext(context.Background())
}

// CheckEnrollmentStatus checks whether userID holds a fingerprint
func (d *Device) CheckEnrollmentStatus(userID int) (*Response, error) {
	return d.CheckEnrollmentStatusContext(context.Background(), userID)
}

// EnrollUser runs one step of the three-step enrollment of userID
func (d *Device) EnrollUser(iteration, userID int) (*Response, error) {
	return d.EnrollUserContext(context.Background(), iteration, userID)
}

// WaitFingerAction waits up to the configured finger timeout for action
func (d *Device) WaitFingerAction(action FingerAction) (bool, error) {
	return d.WaitFingerActionContext(context.Background(), action, d.config.FingerActionTimeout)
}

// WaitFingerActionTimeout waits up to timeout for action
func (d *Device) WaitFingerActionTimeout(action FingerAction, timeout time.Duration) (bool, error) {
	return d.WaitFingerActionContext(context.Background(), action, timeout)
}

// CheckFingerPressingStatus queries whether a finger is on the sensor
func (d *Device) CheckFingerPressingStatus() (*Response, error) {
	return d.CheckFingerPressingStatusContext(context.Background())
}

// DeleteAllUsers deletes every enrolled fingerprint
func (d *Device) DeleteAllUsers() (*Response, error) {
	return d.DeleteAllUsersContext(context.Background())
}

// DeleteUser deletes the fingerprint stored for userID
func (d *Device) DeleteUser(userID int) (*Response, error) {
	return d.DeleteUserContext(context.Background(), userID)
}

// MatchOneToOne captures a finger and verifies it against userID
func (d *Device) MatchOneToOne(userID int) (*Response, error) {
	return d.MatchOneToOneContext(context.Background(), userID)
}

// MatchOneToOneTemplate verifies template against userID
func (d *Device) MatchOneToOneTemplate(userID int, template []byte) (*Response, error) {
	return d.MatchOneToOneTemplateContext(context.Background(), userID, template)
}

// MatchOneToN captures a finger and identifies it
func (d *Device) MatchOneToN() (*Response, error) {
	return d.MatchOneToNContext(context.Background())
}

// MatchOneToNTemplate identifies a 498-byte template
func (d *Device) MatchOneToNTemplate(template []byte) (*Response, error) {
	return d.MatchOneToNTemplateContext(context.Background(), template)
}

// MatchOneToN2 identifies a 500-byte template
func (d *Device) MatchOneToN2(template []byte) (*Response, error) {
	return d.MatchOneToN2Context(context.Background(), template)
}

// MakeTemplate captures a finger and returns its template
func (d *Device) MakeTemplate() (*Response, error) {
	return d.MakeTemplateContext(context.Background())
}

// GetImage captures a finger and downloads the image
func (d *Device) GetImage() (*Response, error) {
	return d.GetImageContext(context.Background())
}

// GetRawImage captures a finger and downloads the raw image
func (d *Device) GetRawImage() (*Response, error) {
	return d.GetRawImageContext(context.Background())
}

// GetTemplate downloads the template stored for userID
func (d *Device) GetTemplate(userID int) (*Response, error) {
	return d.GetTemplateContext(context.Background(), userID)
}

// SetTemplate stores template for userID
func (d *Device) SetTemplate(userID int, template []byte) (*Response, error) {
	return d.SetTemplateContext(context.Background(), userID, template)
}

// EnterStandbyMode puts the module to sleep
func (d *Device) EnterStandbyMode() (*Response, error) {
	return d.EnterStandbyModeContext(context.Background())
}

// SetSecurityLevel sets the matching threshold
func (d *Device) SetSecurityLevel(level int) (*Response, error) {
	return d.SetSecurityLevelContext(context.Background(), level)
}

// GetSecurityLevel reads the matching threshold
func (d *Device) GetSecurityLevel() (*Response, error) {
	return d.GetSecurityLevelContext(context.Background())
}
