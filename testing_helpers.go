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
	"sync"

	"github.com/ZaparooProject/go-gt521/internal/frame"
)

// MockTransport is a scripted Transport for tests. Every command header
// written to it queues the reply registered for that command code; a data
// packet queues the data reply registered for the preceding command.
// Commands without a registered reply are answered with an Ack carrying
// parameter 0.
type MockTransport struct {
	responses     map[CommandCode][]byte
	dataResponses map[CommandCode][]byte
	writeErrors   map[CommandCode]error
	silent        map[CommandCode]bool
	responseFunc  func(code CommandCode, parameter int32) []byte
	unblock       chan struct{}
	port          string
	rx            []byte
	writes        [][]byte
	commands      []CommandCode
	baudRates     []int
	lastCommand   CommandCode
	openCount     int
	closeCount    int
	mu            sync.Mutex
	open          bool
	blockReads    bool
}

// NewMockTransport creates a mock transport with no scripted replies
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses:     make(map[CommandCode][]byte),
		dataResponses: make(map[CommandCode][]byte),
		writeErrors:   make(map[CommandCode]error),
		silent:        make(map[CommandCode]bool),
		port:          "mock",
	}
}

// Factory returns a TransportFactory that hands out this mock and records
// the requested baud rates
func (m *MockTransport) Factory() TransportFactory {
	return func(path string, baudRate int) (Transport, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.port = path
		m.baudRates = append(m.baudRates, baudRate)
		return m, nil
	}
}

// SetResponse sets the raw bytes replied to code
func (m *MockTransport) SetResponse(code CommandCode, response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[code] = response
	delete(m.silent, code)
}

// SetDataResponse sets the raw bytes replied to the data packet of code
func (m *MockTransport) SetDataResponse(code CommandCode, response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataResponses[code] = response
}

// SetResponseFunc installs a reply generator consulted before the scripted
// replies. Returning nil falls back to them.
func (m *MockTransport) SetResponseFunc(fn func(code CommandCode, parameter int32) []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responseFunc = fn
}

// SetSilent makes the mock ignore code, so its reply times out
func (m *MockTransport) SetSilent(code CommandCode, silent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.silent[code] = silent
}

// SetWriteError makes writes of code fail with err
func (m *MockTransport) SetWriteError(code CommandCode, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrors[code] = err
}

// BlockReads makes the mock report pending bytes while every Read blocks
// until its context is done or UnblockReads is called
func (m *MockTransport) BlockReads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockReads = true
	m.unblock = make(chan struct{})
}

// UnblockReads releases reads blocked by BlockReads
func (m *MockTransport) UnblockReads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blockReads {
		m.blockReads = false
		close(m.unblock)
	}
}

// Commands returns the command codes written so far, in order
func (m *MockTransport) Commands() []CommandCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CommandCode(nil), m.commands...)
}

// CommandCount returns how many times code was written
func (m *MockTransport) CommandCount(code CommandCode) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.commands {
		if c == code {
			count++
		}
	}
	return count
}

// Writes returns every buffer written so far
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// BaudRates returns the baud rates requested through Factory
func (m *MockTransport) BaudRates() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.baudRates...)
}

// OpenCount returns how many times the mock was opened
func (m *MockTransport) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openCount
}

// CloseCount returns how many times the mock was closed
func (m *MockTransport) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCount
}

// Open implements Transport
func (m *MockTransport) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.openCount++
	m.rx = nil
	return nil
}

// Close implements Transport
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.closeCount++
	m.rx = nil
	return nil
}

// IsOpen implements Transport
func (m *MockTransport) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// BytesAvailable implements Transport
func (m *MockTransport) BytesAvailable() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return 0, ErrTransportClosed
	}
	if m.blockReads {
		return 1, nil
	}
	return len(m.rx), nil
}

// Write implements Transport and queues the scripted reply
func (m *MockTransport) Write(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return NewWriteError("write", m.port, ErrTransportClosed)
	}
	m.writes = append(m.writes, append([]byte(nil), buf...))

	switch {
	case frame.IsHeader(buf):
		code := CommandCode(frame.Uint16(buf, frame.CodeOffset))
		parameter := frame.Int32(buf, frame.ParameterOffset)
		if err := m.writeErrors[code]; err != nil {
			return NewWriteError("write", m.port, err)
		}
		m.commands = append(m.commands, code)
		m.lastCommand = code
		m.rx = append(m.rx, m.replyTo(code, parameter)...)
	case frame.IsPacket(buf):
		if reply, ok := m.dataResponses[m.lastCommand]; ok {
			m.rx = append(m.rx, reply...)
		} else {
			m.rx = append(m.rx, frame.Header(0, uint16(Ack))...)
		}
	}
	return nil
}

func (m *MockTransport) replyTo(code CommandCode, parameter int32) []byte {
	if m.silent[code] {
		return nil
	}
	if m.responseFunc != nil {
		if reply := m.responseFunc(code, parameter); reply != nil {
			return reply
		}
	}
	if reply, ok := m.responses[code]; ok {
		return reply
	}
	return frame.Header(0, uint16(Ack))
}

// Flush implements Transport
func (*MockTransport) Flush(ctx context.Context) error {
	return ctx.Err()
}

// Read implements Transport
func (m *MockTransport) Read(ctx context.Context, buf []byte) (int, error) {
	m.mu.Lock()
	blocked, unblock := m.blockReads, m.unblock
	m.mu.Unlock()

	if blocked {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-unblock:
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return 0, NewReadError("read", m.port, ErrTransportClosed)
	}
	n := copy(buf, m.rx)
	m.rx = m.rx[n:]
	return n, nil
}

// Port implements Transport
func (m *MockTransport) Port() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.port
}

// Type implements Transport
func (*MockTransport) Type() TransportType {
	return TransportMock
}
