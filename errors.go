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
	"errors"
	"fmt"
)

// Transport errors
var (
	ErrTransportTimeout    = errors.New("transport timeout")
	ErrTransportRead       = errors.New("transport read failed")
	ErrTransportWrite      = errors.New("transport write failed")
	ErrTransportClosed     = errors.New("transport closed")
	ErrCommunicationFailed = errors.New("communication failed")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
)

// Device errors
var (
	ErrDeviceNotOpen        = errors.New("device is not open")
	ErrDeviceAlreadyOpen    = errors.New("device is already open")
	ErrDeviceInit           = errors.New("device could not be initialized")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrDuplicateFingerprint = errors.New("duplicate fingerprint")
	ErrDeviceReported       = errors.New("device reported an error")
)

// ErrorType classifies transport errors
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by repeating the operation
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on a later attempt
	ErrorTypeTransient
	// ErrorTypeTimeout errors are caused by a missing or late response
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "permanent"
	}
}

// TransportError describes a failure on the serial channel
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error of the given type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Err:       err,
		Op:        op,
		Port:      port,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a retryable timeout error
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// NewWriteError wraps a failed write or flush
func NewWriteError(op, port string, err error) *TransportError {
	return NewTransportError(op, port, fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
}

// NewReadError wraps a failed read
func NewReadError(op, port string, err error) *TransportError {
	return NewTransportError(op, port, fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
}

// IsRetryable reports whether err describes a condition that may clear up if
// the caller repeats the operation. The driver itself never retries.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCommunicationFailed),
		errors.Is(err, ErrChecksumMismatch):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of err
func GetErrorType(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case IsRetryable(err):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// ErrorCode is the error value reported by the device in the parameter field
// of a Nack response, plus host-side codes for conditions detected locally.
type ErrorCode int32

// Device error codes
const (
	NackTimeout            ErrorCode = 0x1001 // obsolete
	NackInvalidBaudrate    ErrorCode = 0x1002 // obsolete
	NackInvalidPos         ErrorCode = 0x1003
	NackIsNotUsed          ErrorCode = 0x1004
	NackIsAlreadyUsed      ErrorCode = 0x1005
	NackCommErr            ErrorCode = 0x1006
	NackVerifyFailed       ErrorCode = 0x1007
	NackIdentifyFailed     ErrorCode = 0x1008
	NackDBIsFull           ErrorCode = 0x1009
	NackDBIsEmpty          ErrorCode = 0x100A
	NackTurnErr            ErrorCode = 0x100B // obsolete
	NackBadFinger          ErrorCode = 0x100C
	NackEnrollFailed       ErrorCode = 0x100D
	NackIsNotSupported     ErrorCode = 0x100E
	NackDevErr             ErrorCode = 0x100F
	NackCaptureCanceled    ErrorCode = 0x1010 // obsolete
	NackInvalidParam       ErrorCode = 0x1011
	NackFingerIsNotPressed ErrorCode = 0x1012

	// Host-side codes, never sent by the device.
	NackDuplicateFingerprint ErrorCode = 0xFFFD
	NackInvalidChecksum      ErrorCode = 0xFFFE
	NoError                  ErrorCode = 0xFFFF
)

// duplicateIDLimit bounds the Nack parameters that carry the id of an already
// enrolled fingerprint instead of an error code.
const duplicateIDLimit = 0x1001

var errorCodeNames = map[ErrorCode]string{
	NackTimeout:              "timeout",
	NackInvalidBaudrate:      "invalid baud rate",
	NackInvalidPos:           "invalid position",
	NackIsNotUsed:            "id is not used",
	NackIsAlreadyUsed:        "id is already used",
	NackCommErr:              "communication error",
	NackVerifyFailed:         "verification failed",
	NackIdentifyFailed:       "identification failed",
	NackDBIsFull:             "database is full",
	NackDBIsEmpty:            "database is empty",
	NackTurnErr:              "invalid enrollment order",
	NackBadFinger:            "bad finger",
	NackEnrollFailed:         "enrollment failed",
	NackIsNotSupported:       "command not supported",
	NackDevErr:               "device error",
	NackCaptureCanceled:      "capture canceled",
	NackInvalidParam:         "invalid parameter",
	NackFingerIsNotPressed:   "finger is not pressed",
	NackDuplicateFingerprint: "duplicate fingerprint",
	NackInvalidChecksum:      "invalid checksum",
	NoError:                  "no error",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown error 0x%04X", int32(c))
}

// ErrorClass groups error codes by how a caller should react to them
type ErrorClass int

// Error classes
const (
	ClassNone ErrorClass = iota
	ClassCommunication
	ClassChecksum
	ClassDuplicateFingerprint
	ClassDeviceReported
)

func (c ErrorClass) String() string {
	switch c {
	case ClassCommunication:
		return "communication"
	case ClassChecksum:
		return "checksum"
	case ClassDuplicateFingerprint:
		return "duplicate fingerprint"
	case ClassDeviceReported:
		return "device reported"
	default:
		return "none"
	}
}

// Class returns the error class of c
func (c ErrorCode) Class() ErrorClass {
	switch c {
	case NoError:
		return ClassNone
	case NackCommErr:
		return ClassCommunication
	case NackInvalidChecksum:
		return ClassChecksum
	case NackDuplicateFingerprint:
		return ClassDuplicateFingerprint
	default:
		return ClassDeviceReported
	}
}

// DeviceError is returned by Response.Err for unsuccessful responses
type DeviceError struct {
	Command   CommandCode
	Code      ErrorCode
	Parameter int32
}

func (e *DeviceError) Error() string {
	if e.Code == NackDuplicateFingerprint {
		return fmt.Sprintf("%s: %s (user id %d)", e.Command, e.Code, e.Parameter)
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Code)
}

// Is matches the sentinel error for the error class of e
func (e *DeviceError) Is(target error) bool {
	switch e.Code.Class() {
	case ClassCommunication:
		return target == ErrCommunicationFailed
	case ClassChecksum:
		return target == ErrChecksumMismatch
	case ClassDuplicateFingerprint:
		return target == ErrDuplicateFingerprint
	case ClassDeviceReported:
		return target == ErrDeviceReported
	default:
		return false
	}
}

// ArgumentError reports a caller-supplied value outside its allowed range.
// It is returned before any I/O takes place.
type ArgumentError struct {
	Name  string
	Value int
	Min   int
	Max   int
}

func (e *ArgumentError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("%v: %s must be %d, got %d", ErrInvalidArgument, e.Name, e.Min, e.Value)
	}
	return fmt.Sprintf("%v: %s must be between %d and %d, got %d", ErrInvalidArgument, e.Name, e.Min, e.Max, e.Value)
}

func (*ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// checkRange returns an ArgumentError when value lies outside [lo, hi]
func checkRange(name string, value, lo, hi int) error {
	if value < lo || value > hi {
		return &ArgumentError{Name: name, Value: value, Min: lo, Max: hi}
	}
	return nil
}
