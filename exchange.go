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
	"fmt"
	"time"

	"github.com/ZaparooProject/go-gt521/internal/poll"
)

// readChunkSize is the size of a single transport read
const readChunkSize = 1024

// sendCommand runs one transaction: it writes the command header, reads the
// reply and, when the command carries a data packet and the header was
// accepted, writes the packet and reads the second reply. The transport lock
// is held for the whole transaction.
//
// A missing or unreadable reply is returned as a synthesized Nack carrying
// NackCommErr. Errors are reserved for exchanges that cannot proceed at all,
// such as a closed device or a done ctx.
func (d *Device) sendCommand(
	ctx context.Context, kind ResponseKind, cmd *Command, timeout time.Duration,
) (*Response, error) {
	if err := d.lock.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for transport: %w", err)
	}
	defer d.lock.Release(1)

	d.mu.RLock()
	t := d.transport
	d.mu.RUnlock()
	if t == nil || !t.IsOpen() {
		return nil, ErrDeviceNotOpen
	}

	if err := discardPending(ctx, t); err != nil {
		return nil, err
	}

	expected := cmd.ExpectedResponseLength()
	resp, err := d.exchange(ctx, t, kind, cmd.code, cmd.payload, expected, timeout)
	if err != nil || !cmd.HasDataPacket() || !resp.IsSuccessful() {
		return resp, err
	}

	debugf("%s accepted, sending %d-byte data packet", cmd.code, len(cmd.dataPacket.data))
	return d.exchange(ctx, t, kind, cmd.code, cmd.dataPacket.payload, expected, timeout)
}

// exchange writes out and waits for the reply to it
func (d *Device) exchange(
	ctx context.Context, t Transport, kind ResponseKind, code CommandCode,
	out []byte, expected int, timeout time.Duration,
) (*Response, error) {
	debugf("TX %s: %X", code, out)

	if err := t.Write(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", code, err)
	}
	if err := t.Flush(ctx); err != nil {
		return nil, fmt.Errorf("failed to flush %s: %w", code, err)
	}

	raw, err := d.readResponse(ctx, t, expected, timeout)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		debugf("No reply to %s within %v", code, timeout)
		return unsuccessfulResponse(kind, code, NackCommErr), nil
	}
	debugf("RX %s: %X", code, raw)

	resp, err := ParseResponse(kind, code, raw)
	if err != nil {
		debugf("Unparseable reply to %s: %v", code, err)
		return unsuccessfulResponse(kind, code, NackCommErr), nil
	}
	return resp, nil
}

// readResponse accumulates received bytes until at least expected bytes have
// arrived and nothing more is pending. A reply shorter than expected, such as
// a bare Nack to a command that predicts a data packet, is not complete. It
// returns nil when timeout elapses first or the transport fails; only ctx
// errors are returned as errors.
func (d *Device) readResponse(ctx context.Context, t Transport, expected int, timeout time.Duration) ([]byte, error) {
	data := make([]byte, 0, expected)
	chunk := make([]byte, readChunkSize)
	start := time.Now()

	for {
		available, err := t.BytesAvailable()
		if err != nil {
			debugf("Failed to query %s: %v", t.Port(), err)
			return nil, nil
		}
		if available == 0 && len(data) >= expected {
			return data, nil
		}

		n := 0
		if available > 0 {
			n, err = t.Read(ctx, chunk)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				debugf("Failed to read %s: %v", t.Port(), err)
				return nil, nil
			}
			data = append(data, chunk[:n]...)
		}

		if time.Since(start) > timeout {
			debugf("Read timed out with %d of %d bytes", len(data), expected)
			return nil, nil
		}
		if n == len(chunk) {
			continue
		}
		if err := poll.Sleep(ctx, d.config.PollInterval); err != nil {
			return nil, err
		}
	}
}

// discardPending drops bytes left over from an abandoned transaction so they
// are not taken for the reply to the next command
func discardPending(ctx context.Context, t Transport) error {
	chunk := make([]byte, readChunkSize)
	for {
		available, err := t.BytesAvailable()
		if err != nil || available == 0 {
			return nil
		}
		n, err := t.Read(ctx, chunk)
		if err != nil {
			return ctx.Err()
		}
		if n == 0 {
			return nil
		}
		debugf("Discarded %d stale bytes from %s", n, t.Port())
	}
}
