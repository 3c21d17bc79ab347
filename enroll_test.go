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
	"testing"

	testutil "github.com/ZaparooProject/go-gt521/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollUserSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		want      []CommandCode
		iteration int
		userID    int
	}{
		{
			name:      "first step starts enrollment",
			iteration: 1,
			userID:    5,
			want:      []CommandCode{CmdEnrollStart, CmdIsPressFinger, CmdCaptureFinger, CmdEnroll1},
		},
		{
			name:      "second step",
			iteration: 2,
			userID:    5,
			want:      []CommandCode{CmdIsPressFinger, CmdCaptureFinger, CmdEnroll2},
		},
		{
			name:      "third step",
			iteration: 3,
			userID:    199,
			want:      []CommandCode{CmdIsPressFinger, CmdCaptureFinger, CmdEnroll3},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := NewMockTransport()
			device := newOpenDevice(t, mock)
			before := len(mock.Commands())

			resp, err := device.EnrollUser(tt.iteration, tt.userID)
			require.NoError(t, err)

			assert.True(t, resp.IsSuccessful())
			assert.Equal(t, KindEnrollment, resp.Kind())
			assert.Equal(t, tt.want, mock.Commands()[before:])

			last := mock.Writes()[len(mock.Writes())-1]
			assert.Equal(t, NewCommand(tt.want[len(tt.want)-1], int32(tt.userID)).Payload(), last)
		})
	}
}

func TestEnrollStartFailureSkipsCapture(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	device := newOpenDevice(t, mock)
	mock.SetResponse(CmdEnrollStart, testutil.BuildNack(int32(NackIsAlreadyUsed)))
	before := len(mock.Commands())

	resp, err := device.EnrollUser(1, 8)
	require.NoError(t, err)

	assert.False(t, resp.IsSuccessful())
	assert.Equal(t, KindEnrollment, resp.Kind())
	assert.Equal(t, NackIsAlreadyUsed, resp.ErrorCode())
	assert.Equal(t, []CommandCode{CmdEnrollStart}, mock.Commands()[before:])
}

func TestEnrollStartDuplicate(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	device := newOpenDevice(t, mock)
	mock.SetResponse(CmdEnrollStart, testutil.BuildNack(17))

	resp, err := device.EnrollUser(1, 8)
	require.NoError(t, err)

	assert.Equal(t, NackDuplicateFingerprint, resp.ErrorCode())
	assert.ErrorIs(t, resp.Err(), ErrDuplicateFingerprint)
}

func TestEnrollWithoutFinger(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	device := newOpenDevice(t, mock)
	mock.SetResponse(CmdIsPressFinger, testutil.BuildAck(1))

	resp, err := device.EnrollUser(2, 8)
	require.NoError(t, err)

	assert.Equal(t, NackFingerIsNotPressed, resp.ErrorCode())
	assert.Zero(t, mock.CommandCount(CmdCaptureFinger))
	assert.Zero(t, mock.CommandCount(CmdEnroll2))
}

func TestEnrollFinalStepFailure(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	device := newOpenDevice(t, mock)
	mock.SetResponse(CmdEnroll3, testutil.BuildNack(int32(NackEnrollFailed)))

	resp, err := device.EnrollUser(3, 8)
	require.NoError(t, err)

	assert.Equal(t, NackEnrollFailed, resp.ErrorCode())
	assert.ErrorIs(t, resp.Err(), ErrDeviceReported)
}

// TestEnrollWithoutStoring covers user id -1, where the last step returns the
// template instead of storing it
func TestEnrollWithoutStoring(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	device := newOpenDevice(t, mock)
	template := testutil.Pattern(TemplateSize, 0x44)
	mock.SetResponse(CmdEnroll3, testutil.BuildAckWithData(0, template))

	for iteration := 1; iteration <= EnrollmentSteps; iteration++ {
		resp, err := device.EnrollUser(iteration, -1)
		require.NoError(t, err)
		require.True(t, resp.IsSuccessful(), "step %d: %s", iteration, resp)
		if iteration == EnrollmentSteps {
			assert.Equal(t, template, resp.Template())
		}
	}

	assert.Equal(t, 1, mock.CommandCount(CmdEnrollStart))
	assert.Equal(t, 3, mock.CommandCount(CmdCaptureFinger))
}
