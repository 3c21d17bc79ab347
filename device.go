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
	"sync"

	"github.com/ZaparooProject/go-gt521/internal/poll"
	"golang.org/x/sync/semaphore"
)

// Device represents a GT-521Fxx fingerprint module attached to a serial port
//
// Thread Safety: Device is safe for concurrent use. Every command/response
// exchange holds the transport lock for its whole duration, so exchanges from
// different goroutines never interleave on the wire. Open and Close are
// serialized against each other.
type Device struct {
	factory   TransportFactory
	transport Transport
	config    *DeviceConfig
	lock      *semaphore.Weighted
	info      *DeviceInfo
	path      string
	model     Model
	lifecycle sync.Mutex
	mu        sync.RWMutex
}

// New creates a device for the given module model. The factory is used to
// create the transport on Open and again whenever the baud rate changes.
func New(model Model, factory TransportFactory, opts ...Option) (*Device, error) {
	if model < 1 || model > GT521F52 {
		return nil, &ArgumentError{Name: "model", Value: int(model), Min: 1, Max: int(GT521F52)}
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: transport factory must not be nil", ErrInvalidArgument)
	}

	device := &Device{
		factory: factory,
		model:   model,
		config:  DefaultDeviceConfig(),
		lock:    semaphore.NewWeighted(1),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if err := device.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return device, nil
}

// ConnectDevice creates a device and opens it on path
func ConnectDevice(ctx context.Context, path string, model Model, factory TransportFactory,
	opts ...Option,
) (*Device, error) {
	device, err := New(model, factory, opts...)
	if err != nil {
		return nil, err
	}
	if err := device.OpenContext(ctx, path); err != nil {
		return nil, err
	}
	return device, nil
}

// Model returns the module model the device was created for
func (d *Device) Model() Model {
	return d.model
}

// FingerprintCapacity returns the highest valid user id
func (d *Device) FingerprintCapacity() int {
	return d.model.Capacity()
}

// Config returns a copy of the device configuration
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// Transport returns the current transport, or nil while closed
func (d *Device) Transport() Transport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.transport
}

// Path returns the port the device was last opened on
func (d *Device) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// IsOpen returns true while the port is open
func (d *Device) IsOpen() bool {
	t := d.Transport()
	return t != nil && t.IsOpen()
}

// DeviceInfo returns the identity reported by the last successful open
func (d *Device) DeviceInfo() DeviceInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.info == nil {
		return UnknownDeviceInfo()
	}
	return *d.info
}

// FirmwareVersion returns the firmware version, or NoInfo before open
func (d *Device) FirmwareVersion() string {
	return d.DeviceInfo().FirmwareVersion
}

// SerialNumber returns the device serial number, or NoInfo before open
func (d *Device) SerialNumber() string {
	return d.DeviceInfo().SerialNumber
}

// IsoAreaMaxSize returns the maximum ISO area size, or -1 before open
func (d *Device) IsoAreaMaxSize() int32 {
	return d.DeviceInfo().IsoAreaMaxSize
}

func (d *Device) setInfo(info *DeviceInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.info = info
}

// Open opens the device on path
func (d *Device) Open(path string) error {
	return d.OpenContext(context.Background(), path)
}

// OpenContext opens the port at the power-up baud rate, switches the module
// to the operating baud rate, runs the open handshake and turns the LED on.
// Any failure after the port was opened closes it again.
func (d *Device) OpenContext(ctx context.Context, path string) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if d.IsOpen() {
		return ErrDeviceAlreadyOpen
	}

	if err := d.openAt(ctx, path, d.config.InitialBaudRate); err != nil {
		if closeErr := d.closeTransport(ctx); closeErr != nil {
			debugf("Failed to close %s after open failure: %v", path, closeErr)
		}
		return err
	}
	return nil
}

// openAt opens a fresh transport on path at baud and continues the open
// sequence from there
func (d *Device) openAt(ctx context.Context, path string, baud int) error {
	t, err := d.factory(path, baud)
	if err != nil {
		return fmt.Errorf("failed to create transport for %s: %w", path, err)
	}
	if err := t.Open(); err != nil {
		return fmt.Errorf("failed to open %s at %d baud: %w", path, baud, err)
	}
	if err := d.setTransport(ctx, t, path); err != nil {
		_ = t.Close()
		return err
	}
	debugf("Opened %s at %d baud", path, baud)

	if err := poll.Sleep(ctx, d.config.SettleDelay); err != nil {
		return err
	}

	if baud != d.config.TargetBaudRate {
		return d.switchBaudRate(ctx, path, d.config.TargetBaudRate)
	}
	return d.handshake(ctx)
}

// switchBaudRate asks the module to change its baud rate and reopens the
// port at the new rate. The module answers at the new rate, so a
// communication error is treated the same as an acknowledgement.
func (d *Device) switchBaudRate(ctx context.Context, path string, baud int) error {
	resp, err := d.ChangeBaudRateContext(ctx, baud)
	if err != nil {
		return fmt.Errorf("%w: baud rate change to %d: %w", ErrDeviceInit, baud, err)
	}
	if !resp.IsSuccessful() && resp.ErrorCode() != NackCommErr {
		return fmt.Errorf("%w: baud rate change to %d rejected: %w", ErrDeviceInit, baud, resp.Err())
	}

	if err := d.closeTransport(ctx); err != nil {
		return err
	}
	return d.openAt(ctx, path, baud)
}

// handshake sends the open command, stores the reported identity and turns
// the LED on
func (d *Device) handshake(ctx context.Context) error {
	resp, err := d.sendCommand(ctx, KindInitialization, NewCommand(CmdOpen, 1), d.config.ResponseTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceInit, err)
	}
	if !resp.IsSuccessful() {
		if resp.ChecksumValid() && resp.ResponseCode() == Ack {
			return fmt.Errorf("%w: module returned no device info", ErrDeviceInit)
		}
		return fmt.Errorf("%w: %w", ErrDeviceInit, resp.Err())
	}

	info := resp.DeviceInfo()
	d.setInfo(&info)
	debugf("Module ready: firmware %s, serial %s", info.FirmwareVersion, info.SerialNumber)

	led, err := d.TurnLEDOnContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceInit, err)
	}
	if !led.IsSuccessful() {
		debugf("Failed to turn LED on: %v", led.Err())
	}
	return nil
}

// Close closes the device
func (d *Device) Close() error {
	return d.CloseContext(context.Background())
}

// CloseContext turns the LED off, sends the close command and releases the
// port. The port is released even when the commands fail.
func (d *Device) CloseContext(ctx context.Context) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if !d.IsOpen() {
		return d.closeTransport(ctx)
	}

	d.setInfo(nil)

	if resp, err := d.TurnLEDOffContext(ctx); err != nil {
		debugf("Failed to turn LED off: %v", err)
	} else if !resp.IsSuccessful() {
		debugf("Failed to turn LED off: %v", resp.Err())
	}

	if resp, err := d.sendCommand(ctx, KindBasic, NewCommand(CmdClose, 0), d.config.ResponseTimeout); err != nil {
		debugf("Close command failed: %v", err)
	} else if !resp.IsSuccessful() {
		debugf("Close command failed: %v", resp.Err())
	}

	return d.closeTransport(ctx)
}

// setTransport installs t as the current transport once no exchange is in
// flight
func (d *Device) setTransport(ctx context.Context, t Transport, path string) error {
	if err := d.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer d.lock.Release(1)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.transport = t
	d.path = path
	return nil
}

// closeTransport closes and forgets the current transport, then waits for
// the port to settle. The transport is released even if ctx is already done.
func (d *Device) closeTransport(ctx context.Context) error {
	if err := d.lock.Acquire(context.WithoutCancel(ctx), 1); err != nil {
		return err
	}
	d.mu.Lock()
	t := d.transport
	d.transport = nil
	d.mu.Unlock()
	d.lock.Release(1)

	if t == nil {
		return nil
	}

	var closeErr error
	if t.IsOpen() {
		if err := t.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close %s: %w", t.Port(), err)
		}
	}
	debugln("Transport closed, settling for ", d.config.SettleDelay)
	// a cancelled settle wait only shortens the delay
	_ = poll.Sleep(ctx, d.config.SettleDelay)
	return closeErr
}
