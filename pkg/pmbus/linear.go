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
	"math"
)

// Linear11Exponent selects how the 5-bit exponent field of a Linear11 word
// is turned into a signed exponent.
type Linear11Exponent int

const (
	// Linear11Offset16 maps raw > 15 to raw - 16. This is how the sigrok
	// PMBus decoders render values, so existing summaries keep their
	// numbers. Exponents are never negative with this rule.
	Linear11Offset16 Linear11Exponent = iota
	// Linear11TwosComplement reads the field as a 5-bit two's complement
	// number (raw > 15 means raw - 32), as the PMBus standard defines it
	Linear11TwosComplement
)

var linear11ExponentNames = map[Linear11Exponent]string{
	Linear11Offset16:       "offset16",
	Linear11TwosComplement: "twos-complement",
}

func (e Linear11Exponent) String() string {
	if name, ok := linear11ExponentNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Linear11Exponent(%d)", int(e))
}

func (e Linear11Exponent) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Linear11Exponent) UnmarshalText(text []byte) error {
	parsed, err := ParseLinear11Exponent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseLinear11Exponent accepts "twos-complement" and "offset16", empty
// string selects the default.
func ParseLinear11Exponent(s string) (Linear11Exponent, error) {
	if s == "" {
		return Linear11Offset16, nil
	}
	for e, name := range linear11ExponentNames {
		if name == s {
			return e, nil
		}
	}
	return Linear11Offset16, ErrUnknownExponentRule{Name: s}
}

// Exponent returns the signed exponent N of a Linear11 word
func (e Linear11Exponent) Exponent(word uint16) int {
	raw := int((word >> 11) & 0x1F)
	if raw <= 15 {
		return raw
	}
	if e == Linear11Offset16 {
		return raw - 16
	}
	return raw - 32
}

// Decode returns Y * 2^N where Y is the unsigned 11-bit mantissa
func (e Linear11Exponent) Decode(word uint16) float64 {
	y := float64(word & 0x7FF)
	return math.Ldexp(y, e.Exponent(word))
}

// DecodeLinear11 decodes a word with the two's complement exponent rule
func DecodeLinear11(word uint16) float64 {
	return Linear11TwosComplement.Decode(word)
}

// EncodeLinear11 packs an 11-bit mantissa and an exponent in -16..15 into a word
func EncodeLinear11(y uint16, n int) uint16 {
	return uint16(n&0x1F)<<11 | y&0x7FF
}

// VOUT_MODE data formats, bits 7:5 of the mode byte
const (
	VoutModeLinear byte = iota
	VoutModeVID
	VoutModeDirect
	VoutModeHalfPrecision
	VoutModeSinglePrecision
)

var voutFormatNames = map[byte]string{
	VoutModeVID:             "VID",
	VoutModeDirect:          "Direct",
	VoutModeHalfPrecision:   "IEEE-754 HP",
	VoutModeSinglePrecision: "IEEE-754 SP",
}

// DecodeVoltageMode interprets a 16-bit word according to a VOUT_MODE byte.
// In linear mode the whole word is the mantissa and the exponent comes from
// the low five bits of the mode byte; other modes only report the format.
func DecodeVoltageMode(word uint16, mode byte) Value {
	format := (mode >> 5) & 0x7
	if format != VoutModeLinear {
		name, ok := voutFormatNames[format]
		if !ok {
			name = "Unknown"
		}
		return Value{Kind: ValueFormat, Format: name}
	}
	n := int(mode & 0x1F)
	if n > 15 {
		n -= 32
	}
	return Value{Kind: ValueNumber, Number: math.Ldexp(float64(word), n)}
}
