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

// Package uart provides a serial port transport for GT-521Fxx modules
package uart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ZaparooProject/go-gt521"
	"go.bug.st/serial"
)

// pollReadTimeout bounds the non-blocking reads used to find pending bytes
const pollReadTimeout = time.Millisecond

// readBufferSize is the scratch size of a single port read
const readBufferSize = 4096

// defaultWriteTimeout bounds how long a write may go without the port
// accepting any bytes
const defaultWriteTimeout = time.Second

// writeRetryDelay spaces the retries of a stalled write
const writeRetryDelay = time.Millisecond

// Transport implements gt521.Transport over a serial port using 8N1 framing
type Transport struct {
	port     serial.Port
	openPort func(string, *serial.Mode) (serial.Port, error)
	portName     string
	pending      []byte
	scratch      []byte
	baudRate     int
	writeTimeout time.Duration
	mu           sync.Mutex
}

// New creates an unopened transport for portName at baudRate
func New(portName string, baudRate int) (*Transport, error) {
	if portName == "" {
		return nil, fmt.Errorf("%w: empty port name", gt521.ErrInvalidArgument)
	}
	if baudRate <= 0 {
		return nil, fmt.Errorf("%w: baud rate %d", gt521.ErrInvalidArgument, baudRate)
	}
	return &Transport{
		openPort:     serial.Open,
		portName:     portName,
		baudRate:     baudRate,
		scratch:      make([]byte, readBufferSize),
		writeTimeout: defaultWriteTimeout,
	}, nil
}

// Factory is a gt521.TransportFactory creating serial transports
func Factory(portName string, baudRate int) (gt521.Transport, error) {
	return New(portName, baudRate)
}

// ListPorts returns the serial ports present on the system
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// Open implements gt521.Transport
func (t *Transport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port != nil {
		return nil
	}

	mode := &serial.Mode{
		BaudRate: t.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := t.openPort(t.portName, mode)
	if err != nil {
		return gt521.NewTransportError("open", t.portName, err, gt521.ErrorTypePermanent)
	}
	if err := port.SetReadTimeout(pollReadTimeout); err != nil {
		_ = port.Close()
		return gt521.NewTransportError("configure", t.portName, err, gt521.ErrorTypePermanent)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return gt521.NewTransportError("configure", t.portName, err, gt521.ErrorTypePermanent)
	}

	t.port = port
	t.pending = t.pending[:0]
	return nil
}

// Close implements gt521.Transport
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	t.pending = t.pending[:0]
	if err != nil {
		return gt521.NewTransportError("close", t.portName, err, gt521.ErrorTypePermanent)
	}
	return nil
}

// IsOpen implements gt521.Transport
func (t *Transport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// BytesAvailable implements gt521.Transport. The serial API has no queue
// length query, so whatever a short read returns is kept for the next Read.
func (t *Transport) BytesAvailable() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return 0, gt521.NewReadError("poll", t.portName, gt521.ErrTransportClosed)
	}
	n, err := t.port.Read(t.scratch)
	if err != nil {
		return len(t.pending), gt521.NewReadError("poll", t.portName, err)
	}
	t.pending = append(t.pending, t.scratch[:n]...)
	return len(t.pending), nil
}

// Write implements gt521.Transport. A port that accepts no bytes for the
// write timeout fails with a retryable timeout error.
func (t *Transport) Write(ctx context.Context, buf []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return gt521.NewWriteError("write", t.portName, gt521.ErrTransportClosed)
	}
	lastProgress := time.Now()
	for written := 0; written < len(buf); {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := t.port.Write(buf[written:])
		if err != nil {
			return gt521.NewWriteError("write", t.portName, err)
		}
		if n > 0 {
			written += n
			lastProgress = time.Now()
			continue
		}
		if time.Since(lastProgress) >= t.writeTimeout {
			return gt521.NewTimeoutError("write", t.portName)
		}
		time.Sleep(writeRetryDelay)
	}
	return nil
}

// Flush implements gt521.Transport
func (t *Transport) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return gt521.NewWriteError("flush", t.portName, gt521.ErrTransportClosed)
	}
	if err := t.port.Drain(); err != nil {
		return gt521.NewWriteError("flush", t.portName, err)
	}
	return nil
}

// Read implements gt521.Transport. Pending bytes found by BytesAvailable are
// returned first; otherwise it performs one short port read.
func (t *Transport) Read(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return 0, gt521.NewReadError("read", t.portName, gt521.ErrTransportClosed)
	}
	if len(t.pending) > 0 {
		n := copy(buf, t.pending)
		t.pending = t.pending[:copy(t.pending, t.pending[n:])]
		return n, nil
	}

	n, err := t.port.Read(buf)
	if err != nil {
		return n, gt521.NewReadError("read", t.portName, err)
	}
	return n, nil
}

// Port implements gt521.Transport
func (t *Transport) Port() string {
	return t.portName
}

// BaudRate returns the rate the transport opens the port at
func (t *Transport) BaudRate() int {
	return t.baudRate
}

// Type implements gt521.Transport
func (*Transport) Type() gt521.TransportType {
	return gt521.TransportUART
}
