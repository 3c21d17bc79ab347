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

package frame

// Header builds a checksummed header frame carrying parameter and code. The
// same layout serves commands and responses.
func Header(parameter int32, code uint16) []byte {
	buf := make([]byte, 0, HeaderLength)
	buf = append(buf, CommandStartCode1, CommandStartCode2)
	buf = append(buf, DeviceID[:]...)
	buf = AppendInt32(buf, parameter)
	buf = AppendUint16(buf, code)
	return AppendChecksum(buf)
}

// Packet builds a checksummed data packet around data
func Packet(data []byte) []byte {
	buf := make([]byte, 0, len(data)+DataOverhead)
	buf = append(buf, DataStartCode1, DataStartCode2)
	buf = append(buf, DeviceID[:]...)
	buf = append(buf, data...)
	return AppendChecksum(buf)
}

// IsHeader reports whether buf starts with the header start codes
func IsHeader(buf []byte) bool {
	return len(buf) >= HeaderLength && buf[0] == CommandStartCode1 && buf[1] == CommandStartCode2
}

// IsPacket reports whether buf starts with the data packet start codes
func IsPacket(buf []byte) bool {
	return len(buf) >= DataOverhead && buf[0] == DataStartCode1 && buf[1] == DataStartCode2
}
