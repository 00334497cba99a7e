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

package export

import (
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/layers"
)

const pcapSnapLen = 65536

type PcapOptions struct {
	// Bus is the adapter number written into every pseudo header
	Bus uint8
	// Epoch is the wall clock time of sample 0
	Epoch time.Time
	// Clock returns the seconds between sample 0 and a sample index.
	// Nil treats indices as nanoseconds.
	Clock func(sample uint64) float64
}

// PcapSink writes finalized transactions as I2C messages in the libpcap
// I2C_LINUX format so they can be inspected with Wireshark.
type PcapSink struct {
	w       *pcapgo.Writer
	profile *bus.Profile
	options PcapOptions
}

func NewPcapSink(w io.Writer, profile *bus.Profile, options PcapOptions) (*PcapSink, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(pcapSnapLen, layers.LinkTypeI2CLinux); err != nil {
		return nil, err
	}
	if options.Clock == nil {
		options.Clock = func(sample uint64) float64 { return float64(sample) / 1e9 }
	}
	return &PcapSink{w: pw, profile: profile, options: options}, nil
}

func (s *PcapSink) timestamp(sample uint64) time.Time {
	return s.options.Epoch.Add(time.Duration(s.options.Clock(sample) * float64(time.Second)))
}

func (s *PcapSink) Annotate(a bus.Annotation) error {
	if a.Record == nil {
		return nil
	}
	ts := s.timestamp(a.Start)
	for _, m := range Messages(&a.Record.Transaction, s.profile) {
		data, err := layers.MessageToBytes(s.options.Bus, m)
		if err != nil {
			return err
		}
		ci := gopacket.CaptureInfo{
			Timestamp:     ts,
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := s.w.WritePacket(ci, data); err != nil {
			return err
		}
	}
	return nil
}

// Messages splits a transaction back into the I2C messages seen on the
// wire. A read that got its command from a preceding write phase becomes a
// write message followed by a read message. Under profiles where the
// first byte after a read address takes the command role that byte was
// read from the device and stays in the read message.
func Messages(tx *bus.Transaction, profile *bus.Profile) []*layers.SMBusLayer {
	addr := tx.DeviceAddress()
	if tx.Direction == bus.Write {
		data := make([]byte, 0, 1+len(tx.WriteData))
		if tx.HasCommand {
			data = append(data, tx.Command)
		}
		data = append(data, tx.WriteData...)
		return []*layers.SMBusLayer{{Address: addr, Data: data}}
	}

	commandRead := profile != nil && profile.Transitions.AfterAddressRead == bus.RoleCommand
	if !tx.HasCommand || (commandRead && len(tx.WriteData) == 0) {
		data := make([]byte, 0, 1+len(tx.ReadData))
		if tx.HasCommand {
			data = append(data, tx.Command)
		}
		data = append(data, tx.ReadData...)
		return []*layers.SMBusLayer{{Address: addr, Read: true, Data: data}}
	}
	write := append([]byte{tx.Command}, tx.WriteData...)
	return []*layers.SMBusLayer{
		{Address: addr, Data: write},
		{Address: addr, Read: true, Data: append([]byte(nil), tx.ReadData...)},
	}
}
