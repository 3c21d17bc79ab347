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

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrChecksumRange is returned when a checksum is requested over an empty or
// out-of-bounds byte range.
var ErrChecksumRange = errors.New("checksum range out of bounds")

// CalculateChecksum returns the additive 16-bit sum of every byte in data.
func CalculateChecksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// ComputeChecksum returns the additive 16-bit sum of buf[start..end], both ends
// inclusive.
func ComputeChecksum(buf []byte, start, end int) (uint16, error) {
	if start < 0 || end < start || end >= len(buf) {
		return 0, fmt.Errorf("%w: [%d, %d] over %d bytes", ErrChecksumRange, start, end, len(buf))
	}
	return CalculateChecksum(buf[start : end+1]), nil
}

// ValidateChecksum recomputes the checksum over buf[start..end-2] and compares
// it to the little-endian value stored at buf[end-1..end]. Ranges too short to
// hold a checksum are never valid.
func ValidateChecksum(buf []byte, start, end int) bool {
	if start < 0 || end-start < ChecksumLength || end >= len(buf) {
		return false
	}
	sum, err := ComputeChecksum(buf, start, end-ChecksumLength)
	if err != nil {
		return false
	}
	return sum == Uint16(buf, end-1)
}

// ValidateFrameChecksum validates a whole frame whose last two bytes carry the
// checksum of everything before them.
func ValidateFrameChecksum(buf []byte) bool {
	return ValidateChecksum(buf, 0, len(buf)-1)
}

// AppendChecksum appends the little-endian checksum of buf to buf.
func AppendChecksum(buf []byte) []byte {
	return AppendUint16(buf, CalculateChecksum(buf))
}

// AppendUint16 appends v to buf in little-endian order.
func AppendUint16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

// AppendInt32 appends v to buf in little-endian order.
func AppendInt32(buf []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(v))
}

// Uint16 decodes a little-endian uint16 at offset.
func Uint16(buf []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(buf[offset : offset+2])
}

// Int32 decodes a little-endian int32 at offset.
func Int32(buf []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}
