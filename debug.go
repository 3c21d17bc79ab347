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
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	debugEnabled atomic.Bool
	logger       atomic.Pointer[zerolog.Logger]
)

func init() {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "gt521").Logger()
	logger.Store(&l)
}

// SetDebugEnabled turns driver debug output on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetLogger replaces the logger used for debug output
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

// SetLogOutput redirects debug output to w using the console format
func SetLogOutput(w io.Writer) {
	SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "gt521").Logger())
}

func debugEvent() *zerolog.Event {
	if !debugEnabled.Load() {
		return nil
	}
	return logger.Load().Debug()
}

func debugf(format string, args ...any) {
	if ev := debugEvent(); ev != nil {
		ev.Msg(fmt.Sprintf(format, args...))
	}
}

func debugln(args ...any) {
	if ev := debugEvent(); ev != nil {
		ev.Msg(fmt.Sprint(args...))
	}
}
