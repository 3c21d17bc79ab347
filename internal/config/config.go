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

// Package config loads the gt521ctl configuration file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ZaparooProject/go-gt521"
)

// Config holds the settings used to open a sensor from the command line
type Config struct {
	Port            string
	Model           gt521.Model
	InitialBaudRate int
	TargetBaudRate  int
	ResponseTimeout time.Duration
	FingerTimeout   time.Duration
	Debug           bool
}

type fileConfig struct {
	Port            string `toml:"port"`
	Model           string `toml:"model"`
	ResponseTimeout string `toml:"response_timeout"`
	FingerTimeout   string `toml:"finger_timeout"`
	InitialBaud     int    `toml:"initial_baud"`
	TargetBaud      int    `toml:"target_baud"`
	Debug           bool   `toml:"debug"`
}

// Default returns the settings used when no file or flag overrides them
func Default() Config {
	return Config{
		Model:           gt521.GT521F32,
		InitialBaudRate: gt521.DefaultInitialBaudRate,
		TargetBaudRate:  gt521.DefaultTargetBaudRate,
		ResponseTimeout: gt521.DefaultResponseTimeout,
		FingerTimeout:   gt521.DefaultFingerActionTimeout,
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}

	if meta.IsDefined("model") {
		model, err := ParseModel(raw.Model)
		if err != nil {
			return Config{}, err
		}
		cfg.Model = model
	}

	if meta.IsDefined("initial_baud") {
		cfg.InitialBaudRate = raw.InitialBaud
	}

	if meta.IsDefined("target_baud") {
		cfg.TargetBaudRate = raw.TargetBaud
	}

	if meta.IsDefined("response_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ResponseTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse response_timeout: %w", err)
		}
		cfg.ResponseTimeout = d
	}

	if meta.IsDefined("finger_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.FingerTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse finger_timeout: %w", err)
		}
		cfg.FingerTimeout = d
	}

	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseModel accepts a model name (GT521F32, GT521F52) or its capacity
// value (200, 3000)
func ParseModel(raw string) (gt521.Model, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "GT521F32", "200":
		return gt521.GT521F32, nil
	case "GT521F52", "3000":
		return gt521.GT521F52, nil
	default:
		return 0, fmt.Errorf("%w: unknown model %q", gt521.ErrInvalidArgument, raw)
	}
}

// Validate checks the settings before they are turned into device options
func (c Config) Validate() error {
	var errs []error
	if c.Model != gt521.GT521F32 && c.Model != gt521.GT521F52 {
		errs = append(errs, fmt.Errorf("unsupported model %d", c.Model))
	}
	if c.InitialBaudRate <= 0 {
		errs = append(errs, errors.New("initial_baud must be positive"))
	}
	if c.TargetBaudRate <= 0 {
		errs = append(errs, errors.New("target_baud must be positive"))
	}
	if c.ResponseTimeout <= 0 {
		errs = append(errs, errors.New("response_timeout must be positive"))
	}
	if c.FingerTimeout <= 0 {
		errs = append(errs, errors.New("finger_timeout must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", gt521.ErrInvalidArgument, errors.Join(errs...))
	}
	return nil
}

// DeviceOptions converts the settings into driver options
func (c Config) DeviceOptions() []gt521.Option {
	return []gt521.Option{
		gt521.WithBaudRates(c.InitialBaudRate, c.TargetBaudRate),
		gt521.WithResponseTimeout(c.ResponseTimeout),
		gt521.WithFingerActionTimeout(c.FingerTimeout),
	}
}
