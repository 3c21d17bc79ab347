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

// Transport is the duplex byte channel the session engine drives. The engine
// owns its transport exclusively and never issues two calls concurrently.
type Transport interface {
	// Open opens the underlying port
	Open() error

	// Close closes the underlying port
	Close() error

	// IsOpen returns true while the port is open
	IsOpen() bool

	// BytesAvailable returns how many received bytes can be read without blocking
	BytesAvailable() (int, error)

	// Write writes buf to the port
	Write(ctx context.Context, buf []byte) error

	// Flush blocks until written bytes have left the host
	Flush(ctx context.Context) error

	// Read reads received bytes into buf and returns how many were read
	Read(ctx context.Context, buf []byte) (int, error)

	// Port returns the port name, used in error messages
	Port() string

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportFactory creates an unopened transport for path at baudRate. The
// session engine calls it again whenever the baud rate changes.
type TransportFactory func(path string, baudRate int) (Transport, error)
