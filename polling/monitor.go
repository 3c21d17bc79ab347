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

// Package polling watches a GT-521Fxx sensor for fingers being placed and
// removed.
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

// FingerSensor is the part of a device the monitor needs
type FingerSensor interface {
	CheckFingerPressingStatusContext(ctx context.Context) (*gt521.Response, error)
}

// Metrics tracks operational metrics for a Monitor
type Metrics struct {
	PollCycles      int64         // Total number of finger queries
	PollErrors      int64         // Queries that failed or were rejected
	FingersPlaced   int64         // Place transitions
	FingersRemoved  int64         // Remove transitions
	CallbackErrors  int64         // Errors returned by OnFingerPlaced
	LastPollLatency time.Duration // Duration of the last query
}

// Monitor polls a sensor and reports finger transitions through callbacks.
// Callbacks run on the polling goroutine.
type Monitor struct {
	sensor          FingerSensor
	config          *Config
	OnFingerPlaced  func() error
	OnFingerRemoved func(held time.Duration)
	OnError         func(err error)
	state           FingerState
	stateMu         sync.Mutex
	pollCycles      atomic.Int64
	pollErrors      atomic.Int64
	fingersPlaced   atomic.Int64
	fingersRemoved  atomic.Int64
	callbackErrors  atomic.Int64
	lastPollLatency atomic.Int64
	currentInterval atomic.Int64
	isPaused        atomic.Bool
}

// NewMonitor creates a new finger monitor
func NewMonitor(sensor FingerSensor, config *Config) (*Monitor, error) {
	if sensor == nil {
		return nil, fmt.Errorf("%w: sensor must not be nil", gt521.ErrInvalidArgument)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", gt521.ErrInvalidArgument, err)
	}

	m := &Monitor{
		sensor: sensor,
		config: config,
	}
	m.currentInterval.Store(int64(config.PollInterval))
	return m, nil
}

// Start polls until ctx is done and returns ctx.Err(). It returns early with
// an error if the device is closed underneath it.
func (m *Monitor) Start(ctx context.Context) error {
	m.stateMu.Lock()
	m.state.LastSeenTime = time.Now()
	m.stateMu.Unlock()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		if m.isPaused.Load() {
			timer.Reset(m.config.PollInterval)
			continue
		}
		if err := m.poll(ctx); err != nil {
			return err
		}
		m.adjustPollInterval()
		timer.Reset(m.CurrentPollInterval())
	}
}

// Pause suspends polling so other operations can use the device. The finger
// state is kept.
func (m *Monitor) Pause() {
	m.isPaused.Store(true)
}

// Resume continues polling after Pause
func (m *Monitor) Resume() {
	m.isPaused.Store(false)
}

// IsPaused reports whether polling is suspended
func (m *Monitor) IsPaused() bool {
	return m.isPaused.Load()
}

// poll runs one query and applies its outcome
func (m *Monitor) poll(ctx context.Context) error {
	start := time.Now()
	resp, err := m.sensor.CheckFingerPressingStatusContext(ctx)
	m.pollCycles.Add(1)
	m.lastPollLatency.Store(int64(time.Since(start)))

	switch {
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.pollErrors.Add(1)
		m.reportError(err)
		// a failed query means the finger can no longer be assumed present
		m.handleRemoval(time.Now())
		if errors.Is(err, gt521.ErrDeviceNotOpen) {
			return fmt.Errorf("finger monitor stopped: %w", err)
		}
	case !resp.IsSuccessful():
		m.pollErrors.Add(1)
		m.reportError(resp.Err())
	case resp.IsPressed():
		m.handlePlaced(time.Now())
	default:
		m.handleRemoval(time.Now())
	}
	return nil
}

func (m *Monitor) handlePlaced(now time.Time) {
	m.stateMu.Lock()
	wasPresent := m.state.Present
	m.state.TransitionToPresent(now)
	m.stateMu.Unlock()

	if wasPresent {
		return
	}
	m.fingersPlaced.Add(1)
	if m.OnFingerPlaced != nil {
		if err := m.OnFingerPlaced(); err != nil {
			m.callbackErrors.Add(1)
			m.reportError(err)
		}
	}
}

func (m *Monitor) handleRemoval(now time.Time) {
	m.stateMu.Lock()
	if !m.state.Present {
		m.stateMu.Unlock()
		return
	}
	held := m.state.TransitionToIdle(now)
	m.stateMu.Unlock()

	m.fingersRemoved.Add(1)
	if m.OnFingerRemoved != nil {
		m.OnFingerRemoved(held)
	}
}

func (m *Monitor) reportError(err error) {
	if m.OnError != nil && err != nil {
		m.OnError(err)
	}
}

// adjustPollInterval slows polling down once no finger was seen for a while
func (m *Monitor) adjustPollInterval() {
	if m.config.IdleAfter <= 0 {
		return
	}

	m.stateMu.Lock()
	idle := !m.state.Present && time.Since(m.state.LastSeenTime) > m.config.IdleAfter
	m.stateMu.Unlock()

	if idle {
		m.currentInterval.Store(int64(m.config.IdleInterval))
	} else {
		m.currentInterval.Store(int64(m.config.PollInterval))
	}
}

// CurrentPollInterval returns the current adaptive polling interval
func (m *Monitor) CurrentPollInterval() time.Duration {
	return time.Duration(m.currentInterval.Load())
}

// GetState returns a snapshot of the finger state
func (m *Monitor) GetState() FingerState {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() Metrics {
	return Metrics{
		PollCycles:      m.pollCycles.Load(),
		PollErrors:      m.pollErrors.Load(),
		FingersPlaced:   m.fingersPlaced.Load(),
		FingersRemoved:  m.fingersRemoved.Load(),
		CallbackErrors:  m.callbackErrors.Load(),
		LastPollLatency: time.Duration(m.lastPollLatency.Load()),
	}
}
