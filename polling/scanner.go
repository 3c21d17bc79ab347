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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-gt521"
)

// Scanner runs a finger Monitor in the background and hands the device to a
// queued operation the next time a finger is placed
type Scanner struct {
	device           *gt521.Device
	config           *ScanConfig
	monitor          *Monitor
	pendingOperation atomic.Pointer[OperationRequest]
	cancelFunc       context.CancelFunc
	done             chan struct{}
	OnFingerPlaced   func() error
	OnFingerRemoved  func(held time.Duration)
	OnError          func(err error)
	operationMutex   sync.Mutex
	stopMutex        sync.Mutex
	running          atomic.Bool
}

// ScanConfig holds the scanner settings
type ScanConfig struct {
	PollInterval time.Duration
	IdleInterval time.Duration
	IdleAfter    time.Duration
}

// OperationRequest is an operation waiting for the next finger
type OperationRequest struct {
	ctx       context.Context
	operation func(context.Context, *gt521.Device) error
	result    chan error
	createdAt time.Time
}

var (
	ErrOperationAlreadyPending = errors.New("operation already pending")
	ErrScannerNotRunning       = errors.New("scanner is not running")
	ErrScannerAlreadyRunning   = errors.New("scanner is already running")
)

// NewScanner creates a scanner for an open device
func NewScanner(device *gt521.Device, config *ScanConfig) (*Scanner, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: device must not be nil", gt521.ErrInvalidArgument)
	}
	if config == nil {
		config = DefaultScanConfig()
	}
	if err := config.monitorConfig().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", gt521.ErrInvalidArgument, err)
	}

	return &Scanner{
		device: device,
		config: config,
	}, nil
}

// DefaultScanConfig returns the default scanner settings
func DefaultScanConfig() *ScanConfig {
	defaults := DefaultConfig()
	return &ScanConfig{
		PollInterval: defaults.PollInterval,
		IdleInterval: defaults.IdleInterval,
		IdleAfter:    defaults.IdleAfter,
	}
}

func (c *ScanConfig) monitorConfig() *Config {
	return &Config{
		PollInterval: c.PollInterval,
		IdleInterval: c.IdleInterval,
		IdleAfter:    c.IdleAfter,
	}
}

// Start begins scanning in a background goroutine
func (s *Scanner) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrScannerAlreadyRunning
	}

	scanCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.stopMutex.Lock()
	s.cancelFunc = cancel
	s.done = done
	s.stopMutex.Unlock()

	go func() {
		defer close(done)
		defer func() {
			cancel()
			s.running.Store(false)
		}()

		err := s.startScanning(scanCtx)
		if err != nil && !errors.Is(err, context.Canceled) && s.OnError != nil {
			s.OnError(err)
		}
	}()

	return nil
}

// Stop cancels scanning and waits for the background goroutine to exit
func (s *Scanner) Stop() error {
	s.stopMutex.Lock()
	cancelFunc := s.cancelFunc
	done := s.done
	s.stopMutex.Unlock()

	if cancelFunc == nil {
		return nil
	}
	cancelFunc()
	<-done
	return nil
}

// IsRunning reports whether the scanner is active
func (s *Scanner) IsRunning() bool {
	return s.running.Load()
}

// HasPendingOperation reports whether an operation waits for a finger
func (s *Scanner) HasPendingOperation() bool {
	return s.pendingOperation.Load() != nil
}

// Metrics returns the counters of the running monitor
func (s *Scanner) Metrics() Metrics {
	s.stopMutex.Lock()
	monitor := s.monitor
	s.stopMutex.Unlock()

	if monitor == nil {
		return Metrics{}
	}
	return monitor.GetMetrics()
}
