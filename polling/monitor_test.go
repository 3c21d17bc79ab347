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
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/go-gt521"
	testutil "github.com/ZaparooProject/go-gt521/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedSensor replays a sequence of finger states; the last one repeats
type scriptedSensor struct {
	errs    map[int]error
	pressed []bool
	calls   int
	mu      sync.Mutex
}

func (s *scriptedSensor) CheckFingerPressingStatusContext(ctx context.Context) (*gt521.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := s.calls
	s.calls++
	if err := s.errs[call]; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := call
	if idx >= len(s.pressed) {
		idx = len(s.pressed) - 1
	}
	raw := testutil.BuildAck(1)
	if s.pressed[idx] {
		raw = testutil.BuildAck(0)
	}
	return gt521.ParseResponse(gt521.KindFingerPressing, gt521.CmdIsPressFinger, raw)
}

func (s *scriptedSensor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fastConfig() *Config {
	return &Config{PollInterval: time.Millisecond}
}

// runUntil starts m and stops it once cond holds or a second has passed
func runUntil(t *testing.T, m *Monitor, cond func() bool) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	require.Eventually(t, cond, time.Second, time.Millisecond)
	cancel()
	return <-done
}

func TestNewMonitor(t *testing.T) {
	t.Parallel()

	t.Run("WithDefaultConfig", func(t *testing.T) {
		t.Parallel()
		monitor, err := NewMonitor(&scriptedSensor{pressed: []bool{false}}, nil)
		require.NoError(t, err)
		assert.Equal(t, 100*time.Millisecond, monitor.CurrentPollInterval())
		assert.False(t, monitor.IsPaused())
		assert.Equal(t, StateIdle, monitor.GetState().DetectionState)
	})

	t.Run("NilSensor", func(t *testing.T) {
		t.Parallel()
		_, err := NewMonitor(nil, nil)
		require.ErrorIs(t, err, gt521.ErrInvalidArgument)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		t.Parallel()
		_, err := NewMonitor(&scriptedSensor{pressed: []bool{false}}, &Config{})
		require.ErrorIs(t, err, gt521.ErrInvalidArgument)
	})
}

func TestMonitorTransitions(t *testing.T) {
	t.Parallel()

	sensor := &scriptedSensor{pressed: []bool{false, false, true, true, true, false, true, false}}
	monitor, err := NewMonitor(sensor, fastConfig())
	require.NoError(t, err)

	var mu sync.Mutex
	var events []string
	var held []time.Duration
	monitor.OnFingerPlaced = func() error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, "placed")
		return nil
	}
	monitor.OnFingerRemoved = func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, "removed")
		held = append(held, d)
	}

	err = runUntil(t, monitor, func() bool { return sensor.Calls() >= 10 })
	require.ErrorIs(t, err, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"placed", "removed", "placed", "removed"}, events)
	for _, d := range held {
		assert.Positive(t, d)
	}

	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(2), metrics.FingersPlaced)
	assert.Equal(t, int64(2), metrics.FingersRemoved)
	assert.GreaterOrEqual(t, metrics.PollCycles, int64(10))
	assert.Zero(t, metrics.PollErrors)
}

func TestMonitorCallbackErrors(t *testing.T) {
	t.Parallel()

	sensor := &scriptedSensor{pressed: []bool{true}}
	monitor, err := NewMonitor(sensor, fastConfig())
	require.NoError(t, err)

	callbackErr := errors.New("rejected")
	var reported []error
	var mu sync.Mutex
	monitor.OnFingerPlaced = func() error { return callbackErr }
	monitor.OnError = func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}

	_ = runUntil(t, monitor, func() bool { return sensor.Calls() >= 3 })

	assert.Equal(t, int64(1), monitor.GetMetrics().CallbackErrors)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []error{callbackErr}, reported)
	assert.True(t, monitor.GetState().Present)
}

func TestMonitorQueryErrorClearsFinger(t *testing.T) {
	t.Parallel()

	sensor := &scriptedSensor{
		pressed: []bool{true, true, true, true},
		errs:    map[int]error{2: errors.New("line noise")},
	}
	monitor, err := NewMonitor(sensor, fastConfig())
	require.NoError(t, err)

	removed := make(chan struct{}, 4)
	monitor.OnFingerRemoved = func(time.Duration) { removed <- struct{}{} }

	_ = runUntil(t, monitor, func() bool { return sensor.Calls() >= 5 })

	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(1), metrics.PollErrors)
	assert.Equal(t, int64(2), metrics.FingersPlaced, "finger is reported again after the failed query")
	assert.Len(t, removed, 1)
}

func TestMonitorStopsWhenDeviceClosed(t *testing.T) {
	t.Parallel()

	sensor := &scriptedSensor{
		pressed: []bool{false},
		errs:    map[int]error{1: gt521.ErrDeviceNotOpen},
	}
	monitor, err := NewMonitor(sensor, fastConfig())
	require.NoError(t, err)

	err = monitor.Start(context.Background())
	require.ErrorIs(t, err, gt521.ErrDeviceNotOpen)
	assert.Equal(t, 2, sensor.Calls())
}

func TestMonitorPauseResume(t *testing.T) {
	t.Parallel()

	sensor := &scriptedSensor{pressed: []bool{false}}
	monitor, err := NewMonitor(sensor, fastConfig())
	require.NoError(t, err)

	monitor.Pause()
	assert.True(t, monitor.IsPaused())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sensor.Calls(), "a paused monitor must not query the sensor")

	monitor.Resume()
	require.Eventually(t, func() bool { return sensor.Calls() > 0 }, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestMonitorAdaptiveInterval(t *testing.T) {
	t.Parallel()

	sensor := &scriptedSensor{pressed: []bool{false}}
	monitor, err := NewMonitor(sensor, &Config{
		PollInterval: time.Millisecond,
		IdleInterval: 5 * time.Millisecond,
		IdleAfter:    10 * time.Millisecond,
	})
	require.NoError(t, err)

	_ = runUntil(t, monitor, func() bool {
		return monitor.CurrentPollInterval() == 5*time.Millisecond
	})
}

// TestMonitorWithDevice runs the monitor against a device on a mock transport
func TestMonitorWithDevice(t *testing.T) {
	t.Parallel()

	mock := gt521.NewMockTransport()
	mock.SetResponse(gt521.CmdOpen, testutil.BuildOpenResponse(1, 1, []byte{1}))
	device, err := gt521.New(gt521.GT521F32, mock.Factory(),
		gt521.WithBaudRates(gt521.DefaultTargetBaudRate, gt521.DefaultTargetBaudRate),
		gt521.WithSettleDelay(0),
		gt521.WithResponseTimeout(50*time.Millisecond),
		gt521.WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, device.Open("/dev/ttyMOCK0"))
	defer func() { _ = device.Close() }()

	queries := 0
	mock.SetResponseFunc(func(code gt521.CommandCode, _ int32) []byte {
		if code != gt521.CmdIsPressFinger {
			return nil
		}
		queries++
		if queries >= 3 {
			return testutil.BuildAck(0)
		}
		return testutil.BuildAck(1)
	})

	monitor, err := NewMonitor(device, fastConfig())
	require.NoError(t, err)
	placed := make(chan struct{}, 1)
	monitor.OnFingerPlaced = func() error {
		select {
		case placed <- struct{}{}:
		default:
		}
		return nil
	}

	_ = runUntil(t, monitor, func() bool { return len(placed) == 1 })
	assert.GreaterOrEqual(t, mock.CommandCount(gt521.CmdIsPressFinger), 3)
}
