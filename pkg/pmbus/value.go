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
	"encoding/binary"
	"fmt"
	"strings"
)

type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValueFormat
	ValueFlags
)

var valueKindNames = map[ValueKind]string{
	ValueNumber: "number",
	ValueFormat: "format",
	ValueFlags:  "flags",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ValueKind) UnmarshalText(text []byte) error {
	for kind, name := range valueKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown value kind %q", string(text))
}

// Value is a decoded command payload: a number, the name of a data format
// that is not decoded, or a list of flags.
type Value struct {
	Kind   ValueKind `json:"kind"`
	Number float64   `json:"number,omitempty"`
	Format string    `json:"format,omitempty"`
	Flags  []string  `json:"flags,omitempty"`
}

func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return fmt.Sprintf("%.4f", v.Number)
	case ValueFormat:
		return v.Format + " format"
	}
	return strings.Join(v.Flags, ", ")
}

// DeviceMode is the device state that outlives transactions. Only the last
// value written to VOUT_MODE is tracked.
type DeviceMode struct {
	VoutMode byte
}

// Observe records a finalized write to VOUT_MODE
func (m *DeviceMode) Observe(command byte, write []byte) {
	if command == CmdVoutMode && len(write) > 0 {
		m.VoutMode = write[0]
	}
}

func (m *DeviceMode) Reset() {
	m.VoutMode = 0
}

// ValueDecoder decodes command payloads. Each decoding session owns its own
// decoder since VoltageMode values depend on the observed VOUT_MODE.
type ValueDecoder struct {
	Exponent Linear11Exponent
	Mode     DeviceMode
}

func NewValueDecoder(exponent Linear11Exponent) *ValueDecoder {
	return &ValueDecoder{Exponent: exponent}
}

// Observe must be called for every finalized transaction that carries a
// command, before its payload is decoded.
func (d *ValueDecoder) Observe(command byte, write []byte) {
	d.Mode.Observe(command, write)
}

// Decode decodes data with the given encoding. It reports false when the
// encoding decodes nothing, when the byte count does not match or when a
// flag register has no flags set.
func (d *ValueDecoder) Decode(enc Encoding, data []byte) (Value, bool) {
	n := enc.ByteCount()
	if n == 0 || len(data) != n {
		return Value{}, false
	}
	var word uint16
	if n == 2 {
		word = binary.LittleEndian.Uint16(data)
	} else {
		word = uint16(data[0])
	}
	switch enc.Kind {
	case EncodingLinear11:
		return Value{Kind: ValueNumber, Number: d.Exponent.Decode(word)}, true
	case EncodingVoltageMode:
		return DecodeVoltageMode(word, d.Mode.VoutMode), true
	case EncodingBitfield:
		flags := DecodeBitfield(enc.Tag, word)
		if len(flags) == 0 {
			return Value{}, false
		}
		return Value{Kind: ValueFlags, Flags: flags}, true
	}
	return Value{}, false
}

func (d *ValueDecoder) Reset() {
	d.Mode.Reset()
}
