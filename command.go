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
	"fmt"

	"github.com/ZaparooProject/go-gt521/internal/frame"
)

// DataPacket is a bulk sub-frame that follows a header frame. Its payload
// starts with 0x5A 0xA5 and ends with the additive checksum of everything
// before it.
type DataPacket struct {
	payload       []byte
	data          []byte
	checksumValid bool
}

// newCommandDataPacket frames data for transmission
func newCommandDataPacket(data []byte) *DataPacket {
	payload := frame.Packet(data)
	return &DataPacket{
		payload:       payload,
		data:          payload[frame.DataOffset : len(payload)-frame.ChecksumLength],
		checksumValid: true,
	}
}

// parseDataPacket slices the payload out of a received data packet. Packets
// too short to hold framing are kept with an empty payload and an invalid
// checksum.
func parseDataPacket(raw []byte) *DataPacket {
	if len(raw) < frame.DataOverhead {
		return &DataPacket{payload: raw}
	}
	return &DataPacket{
		payload:       raw,
		data:          raw[frame.DataOffset : len(raw)-frame.ChecksumLength],
		checksumValid: frame.ValidateFrameChecksum(raw),
	}
}

// Payload returns the framed bytes of the packet
func (p *DataPacket) Payload() []byte {
	return p.payload
}

// Data returns the packet payload without framing
func (p *DataPacket) Data() []byte {
	return p.data
}

// ChecksumValid reports whether the packet checksum matched its contents
func (p *DataPacket) ChecksumValid() bool {
	return p.checksumValid
}

// Command is an outbound request frame. It is built right before a
// transaction and never modified afterwards.
type Command struct {
	dataPacket *DataPacket
	payload    []byte
	code       CommandCode
	parameter  int32
}

// NewCommand builds the 12-byte header frame for code and parameter
func NewCommand(code CommandCode, parameter int32) *Command {
	return &Command{
		payload:   frame.Header(parameter, uint16(code)),
		code:      code,
		parameter: parameter,
	}
}

// NewCommandWithData builds a command followed by a data packet carrying data.
// Commands with a fixed data length reject any other length.
func NewCommandWithData(code CommandCode, parameter int32, data []byte) (*Command, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: %s data must not be nil", ErrInvalidArgument, code)
	}
	if want, ok := commandDataLength[code]; ok && len(data) != want {
		return nil, &ArgumentError{Name: code.String() + " data length", Value: len(data), Min: want, Max: want}
	}

	cmd := NewCommand(code, parameter)
	cmd.dataPacket = newCommandDataPacket(data)
	return cmd, nil
}

// Code returns the command code
func (c *Command) Code() CommandCode {
	return c.code
}

// Parameter returns the command parameter
func (c *Command) Parameter() int32 {
	return c.parameter
}

// Payload returns the serialized header frame
func (c *Command) Payload() []byte {
	return c.payload
}

// DataPacket returns the attached data packet, or nil
func (c *Command) DataPacket() *DataPacket {
	return c.dataPacket
}

// HasDataPacket reports whether a data packet follows the header
func (c *Command) HasDataPacket() bool {
	return c.dataPacket != nil
}

// ExpectedResponseLength returns how many bytes the reply to c occupies: the
// header alone, or the header plus a framed data packet for commands that
// return one. Probe opens (parameter 0) and ordinary enroll finalization
// (parameter other than -1) never return a data packet.
func (c *Command) ExpectedResponseLength() int {
	dataLen, ok := responseDataLength[c.code]
	if !ok {
		return frame.HeaderLength
	}
	if (c.code == CmdOpen && c.parameter == 0) || (c.code == CmdEnroll3 && c.parameter != -1) {
		return frame.HeaderLength
	}
	return frame.HeaderLength + frame.DataOverhead + dataLen
}
