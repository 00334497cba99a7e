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
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/bus/bustest"
	"jinr.ru/greenlab/go-pmbus/pkg/layers"
)

func run(t *testing.T, p *bus.Profile, samples []bus.Sample, sink bus.Sink) {
	t.Helper()
	d, err := bus.NewDecoder(p, bus.Options{})
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if err := d.Run(context.Background(), &bus.SliceSource{Samples: samples}, sink); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestTextSinkSummaryOnly(t *testing.T) {
	var buf bytes.Buffer
	run(t, bus.PMBusProfile, bustest.WriteWord(0x40, 0x21, 0xE864), NewTextSink(&buf, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	want := " Addr:40(Write) Reg:21 (VOUT_COMMAND) Write:64 E8 (819200.0000)"
	if !strings.HasSuffix(lines[0], want) {
		t.Errorf("got %q, want suffix %q", lines[0], want)
	}
}

func TestTextSinkAll(t *testing.T) {
	var buf bytes.Buffer
	run(t, bus.PMBusProfile, bustest.WriteWord(0x40, 0x21, 0xE864), NewTextSink(&buf, false))

	out := buf.String()
	for _, want := range []string{"start: Start", "addr-write: 40", "ack: ACK", "stop: Stop", "transaction: Addr:40(Write)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestYAMLRecords(t *testing.T) {
	var buf bytes.Buffer
	samples := append(bustest.WriteWord(0x40, 0x21, 0xE864), bustest.ReadWord(0x40, 0x8B, 0xE864)...)
	run(t, bus.PMBusProfile, samples, NewYAMLSink(&buf))

	records, err := ReadRecords(&buf)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	first := records[0]
	if first.Name != "VOUT_COMMAND" || first.Direction != bus.Write || first.Command != 0x21 {
		t.Errorf("got first record %+v", first)
	}
	if first.Value == nil || first.Value.Number != 819200 {
		t.Errorf("got first value %v, want 819200", first.Value)
	}
	second := records[1]
	if second.Direction != bus.Read || second.Name != "READ_VOUT" || !bytes.Equal(second.ReadData, []byte{0x64, 0xE8}) {
		t.Errorf("got second record %+v", second)
	}
	if second.Value == nil || second.Value.Number != 819200 {
		t.Errorf("got second value %v, want 819200", second.Value)
	}
}

func readPackets(t *testing.T, r io.Reader) []gopacket.Packet {
	t.Helper()
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		t.Fatalf("pcapgo.NewReader: %v", err)
	}
	if pr.LinkType() != layers.LinkTypeI2CLinux {
		t.Fatalf("got link type %v, want %v", pr.LinkType(), layers.LinkTypeI2CLinux)
	}
	var packets []gopacket.Packet
	for {
		data, ci, err := pr.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadPacketData: %v", err)
		}
		p := gopacket.NewPacket(data, layers.LinkTypeI2CLinux, gopacket.Default)
		p.Metadata().CaptureInfo = ci
		packets = append(packets, p)
	}
	return packets
}

func TestTextSinkRows(t *testing.T) {
	tests := []struct {
		rows    []string
		want    []string
		notWant []string
	}{
		{[]string{"signals"}, []string{"start: Start", "addr-write: 40", "stop: Stop"}, []string{"transaction:"}},
		{[]string{"bus"}, []string{"transaction: Addr:40(Write)"}, []string{"start:", "ack:"}},
		{[]string{"bus", "signals"}, []string{"transaction:", "ack: ACK"}, nil},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.rows, ","), func(t *testing.T) {
			var buf bytes.Buffer
			sink := NewTextSink(&buf, false)
			if err := sink.SelectRows(tt.rows...); err != nil {
				t.Fatalf("SelectRows: %v", err)
			}
			run(t, bus.PMBusProfile, bustest.WriteWord(0x40, 0x21, 0xE864), sink)
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %q:\n%s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("output has %q:\n%s", notWant, out)
				}
			}
		})
	}

	err := NewTextSink(&bytes.Buffer{}, false).SelectRows("wires")
	if !errors.As(err, &bus.ErrUnknownRow{}) {
		t.Errorf("got %v, want ErrUnknownRow", err)
	}
}

func TestPcapSinkSplitsRepeatedStart(t *testing.T) {
	for _, p := range []*bus.Profile{bus.PMBusProfile, bus.SMBusProfile} {
		t.Run(p.Name, func(t *testing.T) {
			var buf bytes.Buffer
			epoch := time.Unix(1700000000, 0)
			clock := func(sample uint64) float64 { return float64(sample) / 1e6 }
			sink, err := NewPcapSink(&buf, p, PcapOptions{Bus: 2, Epoch: epoch, Clock: clock})
			if err != nil {
				t.Fatalf("NewPcapSink: %v", err)
			}
			run(t, p, bustest.ReadWord(0x40, 0x8B, 0xE864), sink)

			packets := readPackets(t, &buf)
			if len(packets) != 2 {
				t.Fatalf("got %d packets, want 2", len(packets))
			}
			want := []struct {
				read bool
				data []byte
			}{
				{false, []byte{0x8B}},
				{true, []byte{0x64, 0xE8}},
			}
			for i, pkt := range packets {
				m, ok := pkt.Layer(layers.SMBusLayerType).(*layers.SMBusLayer)
				if !ok {
					t.Fatalf("packet %d: no SMBus layer", i)
				}
				if m.Address != 0x40 || m.Read != want[i].read || !bytes.Equal(m.Data, want[i].data) {
					t.Errorf("packet %d: got addr %02X read %v data % X", i, m.Address, m.Read, m.Data)
				}
				hdr := pkt.Layer(layers.I2CLinuxLayerType).(*layers.I2CLinuxLayer)
				if hdr.Bus != 2 {
					t.Errorf("packet %d: got bus %d, want 2", i, hdr.Bus)
				}
				if pkt.Metadata().Timestamp.Before(epoch) {
					t.Errorf("packet %d: timestamp %v before epoch", i, pkt.Metadata().Timestamp)
				}
			}
			if !packets[0].Metadata().Timestamp.After(epoch) {
				t.Errorf("got timestamp %v, want the transaction start after the epoch", packets[0].Metadata().Timestamp)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name    string
		tx      bus.Transaction
		profile *bus.Profile
		want    [][]byte
	}{
		{"write", bus.Transaction{Address: 0x80, HasCommand: true, Command: 0x21, WriteData: bus.HexBytes{0x64, 0xE8}},
			bus.PMBusProfile, [][]byte{{0x21, 0x64, 0xE8}}},
		{"send byte", bus.Transaction{Address: 0x80, HasCommand: true, Command: 0x03},
			bus.PMBusProfile, [][]byte{{0x03}}},
		{"plain read", bus.Transaction{Address: 0x81, Direction: bus.Read, ReadData: bus.HexBytes{0x12}},
			bus.PMBusProfile, [][]byte{{0x12}}},
		{"smbus read keeps first byte", bus.Transaction{Address: 0x81, Direction: bus.Read, HasCommand: true, Command: 0x64, ReadData: bus.HexBytes{0xE8}},
			bus.SMBusProfile, [][]byte{{0x64, 0xE8}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Messages(&tt.tx, tt.profile)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d messages, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !bytes.Equal(got[i].Data, tt.want[i]) {
					t.Errorf("message %d: got % X, want % X", i, got[i].Data, tt.want[i])
				}
				if got[i].Address != 0x40 {
					t.Errorf("message %d: got address %02X, want 40", i, got[i].Address)
				}
			}
		})
	}
}

func TestWriterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
