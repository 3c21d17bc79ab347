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

package uart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/go-gt521"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// fakePort is an in-memory serial.Port. Unused methods fall through to the
// nil embedded interface.
type fakePort struct {
	serial.Port
	readErr   error
	writeErr  error
	rx        []byte
	tx        []byte
	timeout   time.Duration
	mu        sync.Mutex
	drained   int
	closed    bool
	stalled   bool
	chunkSize int
}

func (p *fakePort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return 0, p.readErr
	}
	limit := len(buf)
	if p.chunkSize > 0 && p.chunkSize < limit {
		limit = p.chunkSize
	}
	n := copy(buf[:limit], p.rx)
	p.rx = p.rx[n:]
	return n, nil
}

func (p *fakePort) Write(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	if p.stalled {
		return 0, nil
	}
	p.tx = append(p.tx, buf...)
	return len(buf), nil
}

func (p *fakePort) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drained++
	return nil
}

func (*fakePort) ResetInputBuffer() error {
	return nil
}

func (p *fakePort) SetReadTimeout(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = timeout
	return nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func newFakeTransport(t *testing.T, port *fakePort) (*Transport, *serial.Mode) {
	t.Helper()
	transport, err := New("/dev/ttyUSB0", 115200)
	require.NoError(t, err)

	var mode *serial.Mode
	transport.openPort = func(name string, m *serial.Mode) (serial.Port, error) {
		assert.Equal(t, "/dev/ttyUSB0", name)
		mode = m
		return port, nil
	}
	require.NoError(t, transport.Open())
	return transport, mode
}

func TestNew(t *testing.T) {
	t.Parallel()

	transport, err := New("/dev/ttyUSB0", 9600)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", transport.Port())
	assert.Equal(t, 9600, transport.BaudRate())
	assert.Equal(t, gt521.TransportUART, transport.Type())
	assert.False(t, transport.IsOpen())

	_, err = New("", 9600)
	require.ErrorIs(t, err, gt521.ErrInvalidArgument)
	_, err = New("/dev/ttyUSB0", 0)
	require.ErrorIs(t, err, gt521.ErrInvalidArgument)

	var factory gt521.TransportFactory = Factory
	created, err := factory("/dev/ttyUSB1", 115200)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", created.Port())
}

func TestOpenConfiguresPort(t *testing.T) {
	t.Parallel()

	port := &fakePort{}
	transport, mode := newFakeTransport(t, port)

	require.NotNil(t, mode)
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, pollReadTimeout, port.timeout)
	assert.True(t, transport.IsOpen())

	require.NoError(t, transport.Close())
	assert.True(t, port.closed)
	assert.False(t, transport.IsOpen())
	require.NoError(t, transport.Close(), "closing twice is a no-op")
}

func TestOpenFailure(t *testing.T) {
	t.Parallel()

	transport, err := New("/dev/ttyUSB0", 115200)
	require.NoError(t, err)
	openErr := errors.New("permission denied")
	transport.openPort = func(string, *serial.Mode) (serial.Port, error) {
		return nil, openErr
	}

	err = transport.Open()
	require.ErrorIs(t, err, openErr)
	assert.False(t, gt521.IsRetryable(err))
	assert.False(t, transport.IsOpen())
}

func TestWriteAndFlush(t *testing.T) {
	t.Parallel()

	port := &fakePort{}
	transport, _ := newFakeTransport(t, port)
	frame := gt521.NewCommand(gt521.CmdOpen, 1).Payload()

	require.NoError(t, transport.Write(context.Background(), frame))
	require.NoError(t, transport.Flush(context.Background()))

	assert.Equal(t, frame, port.tx)
	assert.Equal(t, 1, port.drained)
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	port := &fakePort{writeErr: errors.New("i/o error")}
	transport, _ := newFakeTransport(t, port)

	err := transport.Write(context.Background(), []byte{0x55})
	require.ErrorIs(t, err, gt521.ErrTransportWrite)
	assert.True(t, gt521.IsRetryable(err))
}

func TestWriteStallTimesOut(t *testing.T) {
	t.Parallel()

	port := &fakePort{stalled: true}
	transport, _ := newFakeTransport(t, port)
	transport.writeTimeout = 10 * time.Millisecond

	err := transport.Write(context.Background(), []byte{0x55, 0xAA})
	require.ErrorIs(t, err, gt521.ErrTransportTimeout)
	assert.Equal(t, gt521.ErrorTypeTimeout, gt521.GetErrorType(err))
	assert.True(t, gt521.IsRetryable(err))
	assert.Empty(t, port.tx)
}

func TestBytesAvailableKeepsPendingData(t *testing.T) {
	t.Parallel()

	reply := []byte{0x55, 0xAA, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x30, 0x00, 0x30, 0x01}
	port := &fakePort{rx: append([]byte(nil), reply...), chunkSize: 5}
	transport, _ := newFakeTransport(t, port)

	available, err := transport.BytesAvailable()
	require.NoError(t, err)
	assert.Equal(t, 5, available)

	available, err = transport.BytesAvailable()
	require.NoError(t, err)
	assert.Equal(t, 10, available)

	buf := make([]byte, 4)
	n, err := transport.Read(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, reply[:4], buf[:n])

	var got []byte
	got = append(got, buf[:n]...)
	big := make([]byte, 64)
	for len(got) < len(reply) {
		n, err = transport.Read(context.Background(), big)
		require.NoError(t, err)
		require.Positive(t, n)
		got = append(got, big[:n]...)
	}
	assert.Equal(t, reply, got)

	available, err = transport.BytesAvailable()
	require.NoError(t, err)
	assert.Zero(t, available)
}

func TestClosedTransport(t *testing.T) {
	t.Parallel()

	transport, err := New("/dev/ttyUSB0", 115200)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = transport.BytesAvailable()
	require.ErrorIs(t, err, gt521.ErrTransportClosed)
	require.ErrorIs(t, transport.Write(ctx, []byte{1}), gt521.ErrTransportClosed)
	require.ErrorIs(t, transport.Flush(ctx), gt521.ErrTransportClosed)
	_, err = transport.Read(ctx, make([]byte, 1))
	require.ErrorIs(t, err, gt521.ErrTransportClosed)
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	port := &fakePort{rx: []byte{1, 2, 3}}
	transport, _ := newFakeTransport(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, transport.Write(ctx, []byte{1}), context.Canceled)
	require.ErrorIs(t, transport.Flush(ctx), context.Canceled)
	_, err := transport.Read(ctx, make([]byte, 3))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, port.tx)
}

func TestReadError(t *testing.T) {
	t.Parallel()

	port := &fakePort{readErr: errors.New("device disconnected")}
	transport, _ := newFakeTransport(t, port)

	_, err := transport.BytesAvailable()
	require.ErrorIs(t, err, gt521.ErrTransportRead)
	_, err = transport.Read(context.Background(), make([]byte, 8))
	require.ErrorIs(t, err, gt521.ErrTransportRead)
}
