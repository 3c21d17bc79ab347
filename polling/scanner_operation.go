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

package polling

import (
	"context"
	"time"

	"github.com/ZaparooProject/go-gt521"
)

// RunOnNextFinger queues operation and blocks until it has run against the
// next placed finger, or until timeout or ctx expires
func (s *Scanner) RunOnNextFinger(
	ctx context.Context,
	timeout time.Duration,
	operation func(context.Context, *gt521.Device) error,
) error {
	if !s.running.Load() {
		return ErrScannerNotRunning
	}

	if !s.operationMutex.TryLock() {
		return ErrOperationAlreadyPending
	}
	defer s.operationMutex.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := make(chan error, 1)
	req := &OperationRequest{
		ctx:       opCtx,
		operation: operation,
		result:    result,
		createdAt: time.Now(),
	}

	s.pendingOperation.Store(req)
	defer s.pendingOperation.Store(nil)

	select {
	case err := <-result:
		return err
	case <-opCtx.Done():
		return opCtx.Err()
	}
}

// processPendingOperation runs the queued operation, if any, on the monitor
// goroutine so no finger query interleaves with it
func (s *Scanner) processPendingOperation() {
	req := s.pendingOperation.Swap(nil)
	if req == nil {
		return
	}

	if err := req.ctx.Err(); err != nil {
		sendResult(req, err)
		return
	}
	sendResult(req, req.operation(req.ctx, s.device))
}

func sendResult(req *OperationRequest, err error) {
	select {
	case req.result <- err:
	default:
	}
}
