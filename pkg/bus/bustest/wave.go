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

// Package bustest builds SCL/SDA sample sequences for decoder tests
package bustest

import (
	"jinr.ru/greenlab/go-pmbus/pkg/bus"
)

// DefaultStep is the distance between two consecutive edges
const DefaultStep = 10

// Wave records line levels and keeps only the samples where a level changed,
// the way a logic analyzer export does. The bus starts idle with both lines high.
type Wave struct {
	Step    uint64
	scl     bool
	sda     bool
	index   uint64
	samples []bus.Sample
}

func NewWave() *Wave {
	w := &Wave{Step: DefaultStep, scl: true, sda: true}
	w.samples = append(w.samples, bus.Sample{SCL: true, SDA: true})
	return w
}

func (w *Wave) level(scl, sda bool) {
	if scl == w.scl && sda == w.sda {
		return
	}
	w.scl, w.sda = scl, sda
	w.index += w.Step
	w.samples = append(w.samples, bus.Sample{SCL: scl, SDA: sda, Index: w.index})
}

// Start drives a START, or a repeated START when the clock is low
func (w *Wave) Start() *Wave {
	if !w.sda {
		w.level(false, false)
		w.level(false, true)
	}
	w.level(true, true)
	w.level(true, false)
	w.level(false, false)
	return w
}

func (w *Wave) Stop() *Wave {
	w.level(false, w.sda)
	w.level(false, false)
	w.level(true, false)
	w.level(true, true)
	return w
}

// Bit changes SDA while SCL is low and pulses the clock
func (w *Wave) Bit(b bool) *Wave {
	w.level(false, w.sda)
	w.level(false, b)
	w.level(true, b)
	w.level(false, b)
	return w
}

// Byte sends eight bits MSB first
func (w *Wave) Byte(v byte) *Wave {
	for i := 7; i >= 0; i-- {
		w.Bit(v&(1<<uint(i)) != 0)
	}
	return w
}

func (w *Wave) Ack() *Wave {
	return w.Bit(false)
}

func (w *Wave) Nack() *Wave {
	return w.Bit(true)
}

// Addr sends a 7-bit address with the direction bit and an ACK
func (w *Wave) Addr(addr byte, read bool) *Wave {
	v := addr << 1
	if read {
		v |= 1
	}
	return w.Byte(v).Ack()
}

// Bytes sends each byte followed by an ACK
func (w *Wave) Bytes(data ...byte) *Wave {
	for _, v := range data {
		w.Byte(v).Ack()
	}
	return w
}

// Samples returns a copy of the recorded samples
func (w *Wave) Samples() []bus.Sample {
	return append([]bus.Sample(nil), w.samples...)
}

func (w *Wave) Source() *bus.SliceSource {
	return &bus.SliceSource{Samples: w.Samples()}
}

// WriteWord is START, address (write), command, two data bytes, STOP
func WriteWord(addr, cmd byte, word uint16) []bus.Sample {
	return NewWave().Start().Addr(addr, false).Bytes(cmd, byte(word), byte(word>>8)).Stop().Samples()
}

// ReadWord is START, address (write), command, repeated START, address
// (read), two data bytes with the last one not acknowledged, STOP
func ReadWord(addr, cmd byte, word uint16) []bus.Sample {
	return NewWave().Start().Addr(addr, false).Bytes(cmd).
		Start().Addr(addr, true).Bytes(byte(word)).Byte(byte(word >> 8)).Nack().
		Stop().Samples()
}
