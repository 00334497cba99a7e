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
	"testing"
)

func TestValueDecoderDecode(t *testing.T) {
	tests := []struct {
		name   string
		enc    Encoding
		data   []byte
		want   string
		wantOk bool
	}{
		{"linear", Linear11, []byte{0x64, 0xE8}, "12.5000", true},
		{"linear one byte", Linear11, []byte{0x64}, "", false},
		{"linear three bytes", Linear11, []byte{0x64, 0xE8, 0x00}, "", false},
		{"vout default mode", VoltageMode, []byte{0x0A, 0x00}, "10.0000", true},
		{"no encoding", NoEncoding, []byte{0x01}, "", false},
		{"flags", Bitfield(TagStatusByte), []byte{0x40}, "IOUT/POUT", true},
		{"flags none set", Bitfield(TagStatusByte), []byte{0x00}, "", false},
		{"flags two bytes", Bitfield(TagStatusByte), []byte{0x40, 0x00}, "", false},
		{"status word", Bitfield(TagStatusWord), []byte{0x40, 0x80}, "IOUT/POUT, VOUT_OV_FAULT", true},
		{"status word one byte", Bitfield(TagStatusWord), []byte{0x40}, "", false},
		{"operation off", Bitfield(TagOperation), []byte{0x00}, "Off, No Margin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewValueDecoder(Linear11TwosComplement)
			got, ok := d.Decode(tt.enc, tt.data)
			if ok != tt.wantOk {
				t.Fatalf("Decode ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got.String() != tt.want {
				t.Errorf("Decode = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestValueDecoderFollowsVoutMode(t *testing.T) {
	d := NewValueDecoder(Linear11TwosComplement)
	data := []byte{0xA0, 0x0F} // 4000

	d.Observe(CmdVoutMode, []byte{0x1E})
	if got, _ := d.Decode(VoltageMode, data); got.String() != "1000.0000" {
		t.Errorf("after VOUT_MODE=0x1E got %q, want 1000.0000", got)
	}

	// reads of VOUT_MODE and writes to other commands leave the mode alone
	d.Observe(CmdVoutMode, nil)
	d.Observe(CmdVoutCommand, []byte{0x40})
	if d.Mode.VoutMode != 0x1E {
		t.Fatalf("VoutMode = 0x%02X, want 0x1E", d.Mode.VoutMode)
	}

	d.Observe(CmdVoutMode, []byte{0x40, 0x00})
	if got, _ := d.Decode(VoltageMode, data); got.String() != "Direct format" {
		t.Errorf("after VOUT_MODE=0x40 got %q, want Direct format", got)
	}

	d.Reset()
	if got, _ := d.Decode(VoltageMode, data); got.String() != "4000.0000" {
		t.Errorf("after Reset got %q, want 4000.0000", got)
	}
}

func TestDecodersAreIndependent(t *testing.T) {
	a := NewValueDecoder(Linear11TwosComplement)
	b := NewValueDecoder(Linear11TwosComplement)
	a.Observe(CmdVoutMode, []byte{0x20})
	if b.Mode.VoutMode != 0 {
		t.Errorf("second decoder VoutMode = 0x%02X, want 0", b.Mode.VoutMode)
	}
}

func TestValueKindText(t *testing.T) {
	for kind := range valueKindNames {
		text, _ := kind.MarshalText()
		var got ValueKind
		if err := got.UnmarshalText(text); err != nil || got != kind {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, got, err)
		}
	}
}
