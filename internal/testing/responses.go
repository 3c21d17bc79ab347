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

package testing

import (
	"github.com/ZaparooProject/go-gt521/internal/frame"
)

// Response codes as sent by the module
const (
	Ack  uint16 = 0x30
	Nack uint16 = 0x31
)

// BuildResponse creates a checksummed 12-byte response header
func BuildResponse(code uint16, parameter int32) []byte {
	return frame.Header(parameter, code)
}

// BuildAck creates an Ack header carrying parameter
func BuildAck(parameter int32) []byte {
	return BuildResponse(Ack, parameter)
}

// BuildNack creates a Nack header carrying an error code
func BuildNack(errorCode int32) []byte {
	return BuildResponse(Nack, errorCode)
}

// BuildDataPacket creates a checksummed data packet around data
func BuildDataPacket(data []byte) []byte {
	return frame.Packet(data)
}

// BuildAckWithData creates an Ack header followed by a data packet
func BuildAckWithData(parameter int32, data []byte) []byte {
	return append(BuildAck(parameter), BuildDataPacket(data)...)
}

// BuildDeviceInfo creates the 24-byte device info block returned by Open
func BuildDeviceInfo(firmware uint32, isoAreaMaxSize int32, serial []byte) []byte {
	info := make([]byte, 0, 24)
	info = append(info, byte(firmware), byte(firmware>>8), byte(firmware>>16), byte(firmware>>24))
	info = frame.AppendInt32(info, isoAreaMaxSize)
	padded := make([]byte, 16)
	copy(padded, serial)
	return append(info, padded...)
}

// BuildOpenResponse creates the complete reply to Open with parameter 1
func BuildOpenResponse(firmware uint32, isoAreaMaxSize int32, serial []byte) []byte {
	return BuildAckWithData(0, BuildDeviceInfo(firmware, isoAreaMaxSize, serial))
}

// Pattern returns n bytes counting up from seed, used as template and image
// stand-ins
func Pattern(n int, seed byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
	return buf
}

// Corrupt returns a copy of buf with its last byte flipped, which breaks the
// trailing checksum
func Corrupt(buf []byte) []byte {
	out := append([]byte(nil), buf...)
	out[len(out)-1] ^= 0xFF
	return out
}
