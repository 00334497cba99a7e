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

package layers

import (
	"errors"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// SMBusLayerNum identifies the layer
	SMBusLayerNum = 1994
)

// SMBusLayer is a single I2C message: the address byte followed by the
// bytes transferred in one direction until the next (repeated) start.
type SMBusLayer struct {
	layers.BaseLayer
	Address uint8 // 7-bit
	Read    bool
	Data    []byte
}

var SMBusLayerType = gopacket.RegisterLayerType(SMBusLayerNum,
	gopacket.LayerTypeMetadata{Name: "SMBusLayerType", Decoder: gopacket.DecodeFunc(decodeSMBusLayer)})

// LayerType returns the type of the SMBus message layer in the layer catalog
func (m *SMBusLayer) LayerType() gopacket.LayerType {
	return SMBusLayerType
}

// AddressByte is the address byte as it appears on the wire
func (m *SMBusLayer) AddressByte() byte {
	b := m.Address << 1
	if m.Read {
		b |= 1
	}
	return b
}

// Command returns the first byte of a write message, which SMBus
// devices treat as the register being addressed.
func (m *SMBusLayer) Command() (uint8, bool) {
	if m.Read || len(m.Data) == 0 {
		return 0, false
	}
	return m.Data[0], true
}

func (m *SMBusLayer) Serialize(buf []byte) {
	buf[0] = m.AddressByte()
	copy(buf[1:], m.Data)
}

func (m *SMBusLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(1 + len(m.Data))
	if err != nil {
		return err
	}
	m.Serialize(bytes)
	return nil
}

func (m *SMBusLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < 1 {
		df.SetTruncated()
		return errors.New("Invalid SMBus message. No address byte")
	}
	m.BaseLayer = layers.BaseLayer{
		Contents: data[:],
		Payload:  []byte{},
	}
	m.Address = data[0] >> 1
	m.Read = data[0]&1 == 1
	m.Data = data[1:]
	return nil
}

func decodeSMBusLayer(data []byte, p gopacket.PacketBuilder) error {
	m := &SMBusLayer{}
	err := m.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(m)
	p.SetApplicationLayer(m)
	return nil
}

// Payload makes SMBusLayer an application layer so that
// packet.ApplicationLayer() finds it.
func (m *SMBusLayer) Payload() []byte {
	return m.Data
}

// MessageToBytes serializes a message with the Linux I2C pseudo header
func MessageToBytes(bus uint8, m *SMBusLayer) ([]byte, error) {
	hdr := &I2CLinuxLayer{Bus: bus}
	if m.Read {
		hdr.Flags |= I2CFlagRead
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	err := gopacket.SerializeLayers(buf, opts, hdr, m)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
