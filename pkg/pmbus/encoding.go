/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package pmbus

import (
	"fmt"
	"strings"
)

type EncodingKind int

const (
	EncodingNone EncodingKind = iota
	EncodingLinear11
	EncodingVoltageMode
	EncodingBitfield
)

// BitfieldTag selects one of the flag mappings used by the Bitfield encoding
type BitfieldTag int

const (
	TagOperation BitfieldTag = iota
	TagOnOffConfig
	TagWriteProtect
	TagCapability
	TagStatusByte
	TagStatusWord
	TagStatusVout
	TagStatusIout
	TagStatusInput
	TagStatusTemperature
	TagStatusCml
	TagStatusOther
	TagStatusMfr
	tagLimit
)

var tagNames = [tagLimit]string{
	TagOperation:         "operation",
	TagOnOffConfig:       "on_off_config",
	TagWriteProtect:      "write_protect",
	TagCapability:        "capability",
	TagStatusByte:        "status_byte",
	TagStatusWord:        "status_word",
	TagStatusVout:        "status_vout",
	TagStatusIout:        "status_iout",
	TagStatusInput:       "status_input",
	TagStatusTemperature: "status_temp",
	TagStatusCml:         "status_cml",
	TagStatusOther:       "status_other",
	TagStatusMfr:         "status_mfr",
}

func (t BitfieldTag) String() string {
	if t < 0 || t >= tagLimit {
		return fmt.Sprintf("BitfieldTag(%d)", int(t))
	}
	return tagNames[t]
}

// Encoding describes how the data bytes of a command are interpreted.
// The zero value means the payload is shown as raw hex only.
type Encoding struct {
	Kind EncodingKind
	Tag  BitfieldTag
}

var (
	NoEncoding  = Encoding{Kind: EncodingNone}
	Linear11    = Encoding{Kind: EncodingLinear11}
	VoltageMode = Encoding{Kind: EncodingVoltageMode}
)

func Bitfield(tag BitfieldTag) Encoding {
	return Encoding{Kind: EncodingBitfield, Tag: tag}
}

// ByteCount returns the number of data bytes the encoding decodes, 0 if it decodes nothing
func (e Encoding) ByteCount() int {
	switch e.Kind {
	case EncodingLinear11, EncodingVoltageMode:
		return 2
	case EncodingBitfield:
		if e.Tag == TagStatusWord {
			return 2
		}
		return 1
	}
	return 0
}

func (e Encoding) String() string {
	switch e.Kind {
	case EncodingLinear11:
		return "linear"
	case EncodingVoltageMode:
		return "vout"
	case EncodingBitfield:
		return e.Tag.String()
	}
	return ""
}

// MarshalText renders the encoding with the same names ParseEncoding accepts
func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseEncoding parses encoding names used in profile files: "" or "none",
// "linear", "vout" and the bitfield tag names (e.g. "status_word").
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoEncoding, nil
	case "linear", "linear11":
		return Linear11, nil
	case "vout", "voltage_mode":
		return VoltageMode, nil
	}
	for tag, name := range tagNames {
		if name == s {
			return Bitfield(BitfieldTag(tag)), nil
		}
	}
	return NoEncoding, ErrUnknownEncoding{Name: s}
}
