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
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZaparooProject/go-gt521"
	testutil "github.com/ZaparooProject/go-gt521/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fingerSwitch scripts the pressing state reported by a mock device
type fingerSwitch struct {
	pressed atomic.Bool
}

func (f *fingerSwitch) respond(code gt521.CommandCode, _ int32) []byte {
	if code != gt521.CmdIsPressFinger {
		return nil
	}
	if f.pressed.Load() {
		return testutil.BuildAck(0)
	}
	return testutil.BuildAck(1)
}

func createMockDevice(t *testing.T) (*gt521.Device, *gt521.MockTransport, *fingerSwitch) {
	t.Helper()

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
	t.Cleanup(func() { _ = device.Close() })

	finger := &fingerSwitch{}
	mock.SetResponseFunc(finger.respond)
	return device, mock, finger
}

// pressWhenQueued places the finger once an operation is pending. The
// returned channel is closed when the helper goroutine has finished.
func pressWhenQueued(t *testing.T, scanner *Scanner, finger *fingerSwitch) <-chan struct{} {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Eventually(t, scanner.HasPendingOperation, time.Second, time.Millisecond)
		finger.pressed.Store(true)
	}()
	return done
}

func fastScanConfig() *ScanConfig {
	return &ScanConfig{PollInterval: time.Millisecond}
}

func TestNewScanner(t *testing.T) {
	t.Parallel()
	device, _, _ := createMockDevice(t)

	t.Run("WithValidParameters", func(t *testing.T) {
		t.Parallel()
		config := fastScanConfig()
		scanner, err := NewScanner(device, config)
		require.NoError(t, err)

		assert.Equal(t, device, scanner.device)
		assert.Equal(t, config, scanner.config)
		assert.False(t, scanner.IsRunning())
		assert.False(t, scanner.HasPendingOperation())
		assert.Equal(t, Metrics{}, scanner.Metrics())
	})

	t.Run("NilConfigUsesDefaults", func(t *testing.T) {
		t.Parallel()
		scanner, err := NewScanner(device, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultScanConfig(), scanner.config)
	})

	t.Run("NilDevice", func(t *testing.T) {
		t.Parallel()
		scanner, err := NewScanner(nil, nil)
		require.ErrorIs(t, err, gt521.ErrInvalidArgument)
		assert.Nil(t, scanner)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		t.Parallel()
		_, err := NewScanner(device, &ScanConfig{})
		require.ErrorIs(t, err, gt521.ErrInvalidArgument)
	})
}

func TestScannerStartStop(t *testing.T) {
	t.Parallel()
	device, mock, _ := createMockDevice(t)

	scanner, err := NewScanner(device, fastScanConfig())
	require.NoError(t, err)

	require.NoError(t, scanner.Start(context.Background()))
	assert.True(t, scanner.IsRunning())
	require.ErrorIs(t, scanner.Start(context.Background()), ErrScannerAlreadyRunning)

	require.Eventually(t, func() bool {
		return mock.CommandCount(gt521.CmdIsPressFinger) >= 3
	}, time.Second, time.Millisecond)
	assert.Positive(t, scanner.Metrics().PollCycles)

	require.NoError(t, scanner.Stop())
	assert.False(t, scanner.IsRunning())
	require.NoError(t, scanner.Stop(), "stopping twice is a no-op")
}

func TestScannerStopWithoutStart(t *testing.T) {
	t.Parallel()
	device, _, _ := createMockDevice(t)

	scanner, err := NewScanner(device, nil)
	require.NoError(t, err)
	require.NoError(t, scanner.Stop())
}

func TestScannerCallbacks(t *testing.T) {
	t.Parallel()
	device, _, finger := createMockDevice(t)

	scanner, err := NewScanner(device, fastScanConfig())
	require.NoError(t, err)

	placed := make(chan struct{}, 1)
	removed := make(chan time.Duration, 1)
	scanner.OnFingerPlaced = func() error {
		placed <- struct{}{}
		return nil
	}
	scanner.OnFingerRemoved = func(held time.Duration) { removed <- held }

	require.NoError(t, scanner.Start(context.Background()))
	defer func() { _ = scanner.Stop() }()

	finger.pressed.Store(true)
	select {
	case <-placed:
	case <-time.After(time.Second):
		t.Fatal("finger placement not reported")
	}

	finger.pressed.Store(false)
	select {
	case held := <-removed:
		assert.Positive(t, held)
	case <-time.After(time.Second):
		t.Fatal("finger removal not reported")
	}
}

func TestScannerStopsWhenDeviceCloses(t *testing.T) {
	t.Parallel()
	device, _, _ := createMockDevice(t)

	scanner, err := NewScanner(device, fastScanConfig())
	require.NoError(t, err)

	var mu sync.Mutex
	var reported []error
	scanner.OnError = func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}

	require.NoError(t, scanner.Start(context.Background()))
	require.NoError(t, device.Close())

	require.Eventually(t, func() bool { return !scanner.IsRunning() }, time.Second, time.Millisecond)
	require.NoError(t, scanner.Stop())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, reported)
	assert.ErrorIs(t, reported[len(reported)-1], gt521.ErrDeviceNotOpen)
}

func TestRunOnNextFinger(t *testing.T) {
	t.Parallel()

	t.Run("NotRunning", func(t *testing.T) {
		t.Parallel()
		device, _, _ := createMockDevice(t)
		scanner, err := NewScanner(device, fastScanConfig())
		require.NoError(t, err)

		err = scanner.RunOnNextFinger(context.Background(), time.Second,
			func(context.Context, *gt521.Device) error { return nil })
		require.ErrorIs(t, err, ErrScannerNotRunning)
	})

	t.Run("RunsWhenFingerPlaced", func(t *testing.T) {
		t.Parallel()
		device, mock, finger := createMockDevice(t)
		scanner, err := NewScanner(device, fastScanConfig())
		require.NoError(t, err)
		require.NoError(t, scanner.Start(context.Background()))
		defer func() { _ = scanner.Stop() }()

		pressed := pressWhenQueued(t, scanner, finger)

		var count int
		err = scanner.RunOnNextFinger(context.Background(), time.Second,
			func(ctx context.Context, d *gt521.Device) error {
				resp, err := d.CountEnrolledFingerprintsContext(ctx)
				if err != nil {
					return err
				}
				count = resp.EnrolledCount()
				return nil
			})
		<-pressed
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Equal(t, 1, mock.CommandCount(gt521.CmdGetEnrollCount))
		assert.False(t, scanner.HasPendingOperation())
	})

	t.Run("ReturnsOperationError", func(t *testing.T) {
		t.Parallel()
		device, _, finger := createMockDevice(t)
		scanner, err := NewScanner(device, fastScanConfig())
		require.NoError(t, err)

		opErr := errors.New("identify failed")
		require.NoError(t, scanner.Start(context.Background()))
		defer func() { _ = scanner.Stop() }()

		pressed := pressWhenQueued(t, scanner, finger)
		err = scanner.RunOnNextFinger(context.Background(), time.Second,
			func(context.Context, *gt521.Device) error { return opErr })
		<-pressed
		require.ErrorIs(t, err, opErr)
	})

	t.Run("TimesOut", func(t *testing.T) {
		t.Parallel()
		device, _, _ := createMockDevice(t)
		scanner, err := NewScanner(device, fastScanConfig())
		require.NoError(t, err)
		require.NoError(t, scanner.Start(context.Background()))
		defer func() { _ = scanner.Stop() }()

		err = scanner.RunOnNextFinger(context.Background(), 20*time.Millisecond,
			func(context.Context, *gt521.Device) error { return nil })
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, scanner.HasPendingOperation())
	})

	t.Run("RejectsSecondOperation", func(t *testing.T) {
		t.Parallel()
		device, _, _ := createMockDevice(t)
		scanner, err := NewScanner(device, fastScanConfig())
		require.NoError(t, err)
		require.NoError(t, scanner.Start(context.Background()))
		defer func() { _ = scanner.Stop() }()

		first := make(chan error, 1)
		go func() {
			first <- scanner.RunOnNextFinger(context.Background(), 200*time.Millisecond,
				func(context.Context, *gt521.Device) error { return nil })
		}()
		require.Eventually(t, scanner.HasPendingOperation, time.Second, time.Millisecond)

		err = scanner.RunOnNextFinger(context.Background(), 20*time.Millisecond,
			func(context.Context, *gt521.Device) error { return nil })
		require.ErrorIs(t, err, ErrOperationAlreadyPending)
		require.ErrorIs(t, <-first, context.DeadlineExceeded)
	})
}
