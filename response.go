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
	"bytes"
	"fmt"

	"github.com/ZaparooProject/go-gt521/internal/frame"
)

// ResponseKind selects which derived fields a Response exposes and which
// extra success rules apply to it.
type ResponseKind int

// Response kinds
const (
	KindBasic ResponseKind = iota
	KindInitialization
	KindFastSearch
	KindEnrollCount
	KindCheckEnrollment
	KindEnrollment
	KindFingerPressing
	KindIdentify
	KindTemplate
	KindImage
	KindSecurityLevel
)

var kindNames = [...]string{
	KindBasic:           "basic",
	KindInitialization:  "initialization",
	KindFastSearch:      "fast search",
	KindEnrollCount:     "enroll count",
	KindCheckEnrollment: "check enrollment",
	KindEnrollment:      "enrollment",
	KindFingerPressing:  "finger pressing",
	KindIdentify:        "identify",
	KindTemplate:        "template",
	KindImage:           "image",
	KindSecurityLevel:   "security level",
}

func (k ResponseKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ResponseKind(%d)", int(k))
}

// fastSearchAck is the parameter a module answers UsbInternalCheck with
const fastSearchAck = 0x55

// NoInfo is reported for device details that are not known yet
const NoInfo = "No info available"

// DeviceInfo holds the details returned by the open handshake
type DeviceInfo struct {
	FirmwareVersion string `json:"firmware_version" yaml:"firmware_version"`
	SerialNumber    string `json:"serial_number" yaml:"serial_number"`
	IsoAreaMaxSize  int32  `json:"iso_area_max_size" yaml:"iso_area_max_size"`
}

// UnknownDeviceInfo returns the values reported before a successful open
func UnknownDeviceInfo() DeviceInfo {
	return DeviceInfo{
		FirmwareVersion: NoInfo,
		SerialNumber:    NoInfo,
		IsoAreaMaxSize:  -1,
	}
}

// Response is a parsed reply from the module. Responses are immutable; the
// kind only adds derived accessors on top of the common header fields.
type Response struct {
	dataPacket    *DataPacket
	info          *DeviceInfo
	payload       []byte
	rawSerial     []byte
	kind          ResponseKind
	command       CommandCode
	parameter     int32
	code          ResponseCode
	checksumValid bool
}

// ParseResponse parses raw as the reply to command. Bytes beyond the 12-byte
// header are parsed as a data packet.
func ParseResponse(kind ResponseKind, command CommandCode, raw []byte) (*Response, error) {
	if len(raw) < frame.HeaderLength {
		return nil, fmt.Errorf("%w: response of %d bytes is shorter than a %d-byte header",
			ErrCommunicationFailed, len(raw), frame.HeaderLength)
	}

	resp := &Response{
		payload:       raw,
		kind:          kind,
		command:       command,
		parameter:     frame.Int32(raw, frame.ParameterOffset),
		code:          ResponseCode(frame.Uint16(raw, frame.CodeOffset)),
		checksumValid: frame.ValidateChecksum(raw, 0, frame.HeaderLength-1),
	}
	if len(raw) > frame.HeaderLength {
		resp.dataPacket = parseDataPacket(raw[frame.HeaderLength:])
	}

	if kind == KindInitialization {
		resp.decodeDeviceInfo()
	}
	return resp, nil
}

// unsuccessfulResponse synthesizes a Nack reply carrying code, used when the
// module never answered or a precondition of the operation failed.
func unsuccessfulResponse(kind ResponseKind, command CommandCode, code ErrorCode) *Response {
	resp, _ := ParseResponse(kind, command, frame.Header(int32(code), uint16(Nack)))
	return resp
}

// decodeDeviceInfo extracts firmware version, ISO area size and serial number
// from the 24-byte open data packet.
func (r *Response) decodeDeviceInfo() {
	if r.dataPacket == nil || len(r.dataPacket.data) < DeviceInfoSize {
		return
	}
	data := r.dataPacket.data

	r.rawSerial = bytes.Clone(data[8:24])
	r.info = &DeviceInfo{
		FirmwareVersion: fmt.Sprintf("%02X%02X%02X%02X", data[3], data[2], data[1], data[0]),
		IsoAreaMaxSize:  frame.Int32(data, 4),
		SerialNumber:    fmt.Sprintf("%X-%X", r.rawSerial[:8], r.rawSerial[8:]),
	}
}

// As returns the same reply viewed as another kind
func (r *Response) As(kind ResponseKind) *Response {
	if r.kind == kind {
		return r
	}
	resp, err := ParseResponse(kind, r.command, r.payload)
	if err != nil {
		return unsuccessfulResponse(kind, r.command, NackCommErr)
	}
	return resp
}

// Kind returns the response kind
func (r *Response) Kind() ResponseKind {
	return r.kind
}

// Command returns the command this response answers
func (r *Response) Command() CommandCode {
	return r.command
}

// Payload returns the raw bytes the response was parsed from
func (r *Response) Payload() []byte {
	return r.payload
}

// Parameter returns the response parameter
func (r *Response) Parameter() int32 {
	return r.parameter
}

// ResponseCode returns Ack or Nack
func (r *Response) ResponseCode() ResponseCode {
	return r.code
}

// HasDataPacket reports whether a data packet followed the header
func (r *Response) HasDataPacket() bool {
	return r.dataPacket != nil
}

// DataPacket returns the trailing data packet, or nil
func (r *Response) DataPacket() *DataPacket {
	return r.dataPacket
}

// ChecksumValid reports whether the header checksum and, when present, the
// data packet checksum both matched.
func (r *Response) ChecksumValid() bool {
	return r.checksumValid && (r.dataPacket == nil || r.dataPacket.checksumValid)
}

// IsSuccessful reports whether the module acknowledged the command with intact
// frames and any kind-specific condition holds.
func (r *Response) IsSuccessful() bool {
	if !r.ChecksumValid() || r.code != Ack {
		return false
	}

	switch r.kind {
	case KindInitialization:
		return hasNonZero(r.rawSerial)
	case KindFastSearch:
		return r.parameter == fastSearchAck
	default:
		return true
	}
}

// ErrorCode classifies an unsuccessful response. Nack parameters below 0x1001
// are the id of an already enrolled matching fingerprint.
func (r *Response) ErrorCode() ErrorCode {
	switch {
	case r.IsSuccessful():
		return NoError
	case !r.ChecksumValid():
		return NackInvalidChecksum
	case r.parameter >= 0 && r.parameter < duplicateIDLimit:
		return NackDuplicateFingerprint
	default:
		return ErrorCode(r.parameter)
	}
}

// Err returns nil for successful responses and a *DeviceError otherwise
func (r *Response) Err() error {
	if r.IsSuccessful() {
		return nil
	}
	return &DeviceError{Command: r.command, Code: r.ErrorCode(), Parameter: r.parameter}
}

// EnrolledCount returns the number of enrolled fingerprints, or 0
func (r *Response) EnrolledCount() int {
	if !r.IsSuccessful() {
		return 0
	}
	return int(r.parameter)
}

// IsEnrolled reports whether the queried id holds a fingerprint
func (r *Response) IsEnrolled() bool {
	return r.IsSuccessful()
}

// IsPressed reports whether a finger is on the sensor
func (r *Response) IsPressed() bool {
	return r.parameter == 0
}

// UserID returns the matched user id, or -1
func (r *Response) UserID() int {
	if !r.IsSuccessful() {
		return -1
	}
	return int(r.parameter)
}

// SecurityLevel returns the configured security level, or -1
func (r *Response) SecurityLevel() int {
	if !r.IsSuccessful() {
		return -1
	}
	return int(r.parameter)
}

// Template returns a copy of the template carried by the data packet. Replies
// without a data packet yield an empty template.
func (r *Response) Template() []byte {
	return r.dataCopy()
}

// Image returns a copy of the image carried by the data packet
func (r *Response) Image() []byte {
	return r.dataCopy()
}

func hasNonZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return true
		}
	}
	return false
}

func (r *Response) dataCopy() []byte {
	if r.dataPacket == nil {
		return []byte{}
	}
	return bytes.Clone(r.dataPacket.data)
}

// DeviceInfo returns the details decoded from an initialization response
func (r *Response) DeviceInfo() DeviceInfo {
	if r.info == nil {
		return UnknownDeviceInfo()
	}
	return *r.info
}

func (r *Response) String() string {
	if r.IsSuccessful() {
		return fmt.Sprintf("%s %s: ok (parameter %d)", r.command, r.kind, r.parameter)
	}
	return fmt.Sprintf("%s %s: %s", r.command, r.kind, r.ErrorCode())
}
