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
	"math"
	"testing"
)

func TestDecodeLinear11(t *testing.T) {
	tests := []struct {
		name string
		rule Linear11Exponent
		word uint16
		want float64
	}{
		{"negative exponent", Linear11TwosComplement, EncodeLinear11(100, -3), 12.5},
		{"positive exponent", Linear11TwosComplement, 0x0802, 4},
		{"zero word", Linear11TwosComplement, 0x0000, 0},
		{"full mantissa", Linear11TwosComplement, EncodeLinear11(0x7FF, 0), 2047},
		{"offset16 raw 29", Linear11Offset16, EncodeLinear11(100, -3), 100 * 8192},
		{"offset16 raw 3", Linear11Offset16, EncodeLinear11(5, 3), 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Decode(tt.word)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Decode(0x%04X) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestEncodeLinear11Word(t *testing.T) {
	if got := EncodeLinear11(100, -3); got != 0xE864 {
		t.Errorf("EncodeLinear11(100, -3) = 0x%04X, want 0xE864", got)
	}
	if got := DecodeLinear11(0xE864); got != 12.5 {
		t.Errorf("DecodeLinear11(0xE864) = %v, want 12.5", got)
	}
}

func TestParseLinear11Exponent(t *testing.T) {
	for _, s := range []string{"", "offset16"} {
		if got, err := ParseLinear11Exponent(s); err != nil || got != Linear11Offset16 {
			t.Errorf("ParseLinear11Exponent(%q) = %v, %v", s, got, err)
		}
	}
	if got, err := ParseLinear11Exponent("twos-complement"); err != nil || got != Linear11TwosComplement {
		t.Errorf("ParseLinear11Exponent(twos-complement) = %v, %v", got, err)
	}
	var zero Linear11Exponent
	if zero != Linear11Offset16 {
		t.Errorf("zero Linear11Exponent = %s, want offset16", zero)
	}
	if _, err := ParseLinear11Exponent("bias7"); err == nil {
		t.Error("expected error for unknown rule")
	}
}

func TestDecodeVoltageMode(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		mode byte
		want string
	}{
		{"linear negative exponent", 4000, 0x1E, "1000.0000"},
		{"linear positive exponent", 3, 0x02, "12.0000"},
		{"linear full word mantissa", 0xFFFF, 0x00, "65535.0000"},
		{"vid", 0x1234, 0x20, "VID format"},
		{"direct", 0x1234, 0x40, "Direct format"},
		{"half precision", 0x1234, 0x60, "IEEE-754 HP format"},
		{"single precision", 0x1234, 0x80, "IEEE-754 SP format"},
		{"unknown", 0x1234, 0xA0, "Unknown format"},
		{"unknown high", 0x1234, 0xE0, "Unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeVoltageMode(tt.word, tt.mode).String()
			if got != tt.want {
				t.Errorf("DecodeVoltageMode(%d, 0x%02X) = %q, want %q", tt.word, tt.mode, got, tt.want)
			}
		})
	}
}
