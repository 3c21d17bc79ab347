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

import "fmt"

// CommandCode identifies a GT-521Fxx command.
type CommandCode uint16

// GT-521Fxx command codes
const (
	CmdOpen              CommandCode = 0x01
	CmdClose             CommandCode = 0x02
	CmdUsbInternalCheck  CommandCode = 0x03
	CmdChangeBaudRate    CommandCode = 0x04
	CmdCmosLed           CommandCode = 0x12
	CmdGetEnrollCount    CommandCode = 0x20
	CmdCheckEnrolled     CommandCode = 0x21
	CmdEnrollStart       CommandCode = 0x22
	CmdEnroll1           CommandCode = 0x23
	CmdEnroll2           CommandCode = 0x24
	CmdEnroll3           CommandCode = 0x25
	CmdIsPressFinger     CommandCode = 0x26
	CmdDeleteID          CommandCode = 0x40
	CmdDeleteAll         CommandCode = 0x41
	CmdVerify            CommandCode = 0x50
	CmdIdentify          CommandCode = 0x51
	CmdVerifyTemplate    CommandCode = 0x52
	CmdIdentifyTemplate  CommandCode = 0x53
	CmdCaptureFinger     CommandCode = 0x60
	CmdMakeTemplate      CommandCode = 0x61
	CmdGetImage          CommandCode = 0x62
	CmdGetRawImage       CommandCode = 0x63
	CmdGetTemplate       CommandCode = 0x70
	CmdSetTemplate       CommandCode = 0x71
	CmdSetSecurityLevel  CommandCode = 0xF0
	CmdGetSecurityLevel  CommandCode = 0xF1
	CmdIdentifyTemplate2 CommandCode = 0xF4
	CmdEnterStandbyMode  CommandCode = 0xF9
)

var commandNames = map[CommandCode]string{
	CmdOpen:              "Open",
	CmdClose:             "Close",
	CmdUsbInternalCheck:  "UsbInternalCheck",
	CmdChangeBaudRate:    "ChangeBaudRate",
	CmdCmosLed:           "CmosLed",
	CmdGetEnrollCount:    "GetEnrollCount",
	CmdCheckEnrolled:     "CheckEnrolled",
	CmdEnrollStart:       "EnrollStart",
	CmdEnroll1:           "Enroll1",
	CmdEnroll2:           "Enroll2",
	CmdEnroll3:           "Enroll3",
	CmdIsPressFinger:     "IsPressFinger",
	CmdDeleteID:          "DeleteID",
	CmdDeleteAll:         "DeleteAll",
	CmdVerify:            "Verify",
	CmdIdentify:          "Identify",
	CmdVerifyTemplate:    "VerifyTemplate",
	CmdIdentifyTemplate:  "IdentifyTemplate",
	CmdCaptureFinger:     "CaptureFinger",
	CmdMakeTemplate:      "MakeTemplate",
	CmdGetImage:          "GetImage",
	CmdGetRawImage:       "GetRawImage",
	CmdGetTemplate:       "GetTemplate",
	CmdSetTemplate:       "SetTemplate",
	CmdSetSecurityLevel:  "SetSecurityLevel",
	CmdGetSecurityLevel:  "GetSecurityLevel",
	CmdIdentifyTemplate2: "IdentifyTemplate2",
	CmdEnterStandbyMode:  "EnterStandbyMode",
}

func (c CommandCode) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CommandCode(0x%02X)", uint16(c))
}

// Template and image sizes in bytes
const (
	TemplateSize         = 498
	ExtendedTemplateSize = 500
	DeviceInfoSize       = 24
	ImageSize            = 52116 // 258x202 captured image
	RawImageSize         = 19200 // 160x120 QVGA raw image
)

// commandDataLength lists the commands that carry a data packet and the exact
// payload length each requires.
var commandDataLength = map[CommandCode]int{
	CmdVerifyTemplate:    TemplateSize,
	CmdIdentifyTemplate:  TemplateSize,
	CmdIdentifyTemplate2: ExtendedTemplateSize,
	CmdSetTemplate:       TemplateSize,
}

// responseDataLength lists the commands whose reply is followed by a data
// packet and the payload length of that packet.
var responseDataLength = map[CommandCode]int{
	CmdOpen:         DeviceInfoSize,
	CmdEnroll3:      TemplateSize,
	CmdMakeTemplate: TemplateSize,
	CmdGetImage:     ImageSize,
	CmdGetRawImage:  RawImageSize,
	CmdGetTemplate:  TemplateSize,
}

// ResponseCode is the acknowledgement carried by a response header.
type ResponseCode uint16

// Response codes
const (
	Ack  ResponseCode = 0x30
	Nack ResponseCode = 0x31
)

func (r ResponseCode) String() string {
	switch r {
	case Ack:
		return "Ack"
	case Nack:
		return "Nack"
	default:
		return fmt.Sprintf("ResponseCode(0x%02X)", uint16(r))
	}
}

// Model identifies a GT-521Fxx variant. Its value is the number of template
// slots plus one.
type Model int

// Supported models
const (
	GT521F32 Model = 200
	GT521F52 Model = 3000
)

func (m Model) String() string {
	switch m {
	case GT521F32:
		return "GT521F32"
	case GT521F52:
		return "GT521F52"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// LEDStatus is the state of the sensor backlight.
type LEDStatus int

// LED states
const (
	LEDOff LEDStatus = iota
	LEDOn
)

// FingerAction is the finger state a caller waits for.
type FingerAction int

// Finger actions
const (
	FingerPlace FingerAction = iota
	FingerRemove
)

// Capacity returns the highest user id the model can store
func (m Model) Capacity() int {
	return int(m) - 1
}

func (a FingerAction) String() string {
	if a == FingerRemove {
		return "remove"
	}
	return "place"
}
