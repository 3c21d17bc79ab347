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

// Package frame provides frame constants and checksum helpers for the GT-521Fxx
// serial protocol.
package frame

// Start codes
const (
	CommandStartCode1 = 0x55 // Header frame sync byte 1
	CommandStartCode2 = 0xAA // Header frame sync byte 2
	DataStartCode1    = 0x5A // Data packet sync byte 1
	DataStartCode2    = 0xA5 // Data packet sync byte 2
)

// Frame sizes
const (
	// HeaderLength is the size of every command and response header frame:
	// start codes(2) + device id(2) + parameter(4) + code(2) + checksum(2).
	HeaderLength = 12

	// DataOverhead is the framing added around a data packet payload:
	// start codes(2) + device id(2) + checksum(2).
	DataOverhead = 6

	// ChecksumLength is the size of the trailing checksum field.
	ChecksumLength = 2
)

// Header field offsets
const (
	ParameterOffset = 4
	CodeOffset      = 8
	ChecksumOffset  = 10
	DataOffset      = 4
)

// DeviceID is the fixed device id carried by every frame. Current modules only
// accept 0x0001.
var DeviceID = [2]byte{0x01, 0x00}
