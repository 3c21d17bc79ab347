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

/*
Package gt521 drives GT-521F32 and GT-521F52 optical fingerprint modules from
the host over a serial line.

The module speaks a fixed-size command/response protocol: every command is a
12 byte frame carrying a 32-bit parameter, and some commands exchange an
additional data packet for templates and images. A Device owns the serial
session, renegotiates the baud rate on open and serializes transactions so
replies are never mixed up.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-gt521"
	    "github.com/ZaparooProject/go-gt521/transport/uart"
	)

	device, err := gt521.ConnectDevice(ctx, "/dev/ttyUSB0", gt521.GT521F32, uart.Factory)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	fmt.Printf("firmware %s serial %s\n", device.FirmwareVersion(), device.SerialNumber())

	// Enroll user 7 with three captures
	for step := 1; step <= gt521.EnrollmentSteps; step++ {
	    resp, err := device.EnrollUserContext(ctx, step, 7)
	    if err != nil {
	        return err
	    }
	    if !resp.IsSuccessful() {
	        return resp.Err()
	    }
	    device.WaitFingerAction(gt521.FingerRemove)
	}

	// Identify whoever touches the sensor
	resp, err := device.MatchOneToN()
	if err == nil && resp.IsSuccessful() {
	    fmt.Printf("matched user %d\n", resp.UserID())
	}

Responses and Errors:

Operations return a *Response and an error. The error is only set for
conditions outside the protocol: the device is closed, the context was
cancelled, an argument is out of range or the write failed. Everything the
module reports, including a reply that never arrived, is an unsuccessful
Response whose ErrorCode tells what happened:

	resp, err := device.DeleteUser(3)
	if err != nil {
	    return err
	}
	if errors.Is(resp.Err(), gt521.ErrCommunicationFailed) {
	    // no reply within the response timeout
	}

Concurrency:

A Device may be shared between goroutines. Transactions are serialized by a
context-aware lock, so a caller waiting for the device can give up through
its context.
*/
package gt521
