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
	"encoding/binary"
	"fmt"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// I2CLinuxLayerNum identifies the layer
	I2CLinuxLayerNum = 1995
	// LinkTypeI2CLinux is the libpcap link type of the Linux I2C pseudo header
	LinkTypeI2CLinux layers.LinkType = 209
	// I2CLinuxHeaderLen is one byte of bus number and one big endian word of flags
	I2CLinuxHeaderLen = 5
	// I2CFlagRead is the I2C_M_RD message flag
	I2CFlagRead uint32 = 0x0001
)

// I2CLinuxLayer is the pseudo header libpcap puts in front of every
// message captured on a Linux I2C adapter.
type I2CLinuxLayer struct {
	layers.BaseLayer
	Bus   uint8
	Flags uint32
}

var I2CLinuxLayerType = gopacket.RegisterLayerType(I2CLinuxLayerNum,
	gopacket.LayerTypeMetadata{Name: "I2CLinuxLayerType", Decoder: gopacket.DecodeFunc(decodeI2CLinuxLayer)})

func init() {
	layers.LinkTypeMetadata[LinkTypeI2CLinux] = layers.EnumMetadata{
		DecodeWith: gopacket.DecodeFunc(decodeI2CLinuxLayer),
		Name:       "I2C_LINUX",
		LayerType:  I2CLinuxLayerType,
	}
}

// LayerType returns the type of the I2C pseudo header layer in the layer catalog
func (l *I2CLinuxLayer) LayerType() gopacket.LayerType {
	return I2CLinuxLayerType
}

func (l *I2CLinuxLayer) Read() bool {
	return l.Flags&I2CFlagRead != 0
}

func (l *I2CLinuxLayer) SerializeHeader(buf []byte) {
	buf[0] = l.Bus
	binary.BigEndian.PutUint32(buf[1:5], l.Flags)
}

// SerializeTo prepends the pseudo header to the message bytes already in the buffer
func (l *I2CLinuxLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(I2CLinuxHeaderLen)
	if err != nil {
		return err
	}
	l.SerializeHeader(bytes)
	return nil
}

func (l *I2CLinuxLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < I2CLinuxHeaderLen {
		df.SetTruncated()
		return fmt.Errorf("Invalid I2C pseudo header. Length %d less than %d", len(data), I2CLinuxHeaderLen)
	}
	l.Bus = data[0]
	l.Flags = binary.BigEndian.Uint32(data[1:5])
	l.BaseLayer = layers.BaseLayer{
		Contents: data[:I2CLinuxHeaderLen],
		Payload:  data[I2CLinuxHeaderLen:],
	}
	return nil
}

func (l *I2CLinuxLayer) NextLayerType() gopacket.LayerType {
	return SMBusLayerType
}

func decodeI2CLinuxLayer(data []byte, p gopacket.PacketBuilder) error {
	l := &I2CLinuxLayer{}
	err := l.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(l)
	return p.NextDecoder(l.NextLayerType())
}
