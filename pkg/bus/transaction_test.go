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

package bus

import (
	"bytes"
	"testing"
)

func start(index uint64) Event {
	return Event{Kind: StartCondition, Start: index, End: index + 1}
}

func stop(index uint64) Event {
	return Event{Kind: StopCondition, Start: index, End: index + 1}
}

func byteFrame(role Role, v byte) Frame {
	return Frame{Kind: FrameByte, Role: role, Value: v}
}

func TestAggregatorStopWithoutAddress(t *testing.T) {
	g := NewTransactionAggregator(FinalizeAlways)
	g.Start(start(10))
	if _, ok := g.Stop(stop(20)); ok {
		t.Error("Start+Stop without bytes produced a transaction")
	}
	if g.Active() {
		t.Error("aggregator still active after Stop")
	}
	if _, ok := g.Stop(stop(30)); ok {
		t.Error("Stop on an idle bus produced a transaction")
	}
}

func TestAggregatorWrite(t *testing.T) {
	g := NewTransactionAggregator(FinalizeAlways)
	g.Start(start(10))
	g.Byte(byteFrame(RoleAddress, 0x80))
	g.Byte(byteFrame(RoleCommand, 0x21))
	g.Byte(byteFrame(RoleData, 0xA0))
	g.Byte(byteFrame(RoleData, 0x0F))
	tx, ok := g.Stop(stop(100))
	if !ok {
		t.Fatal("no transaction")
	}
	if tx.StartSample != 10 || tx.EndSample != 101 {
		t.Errorf("span = %d-%d, want 10-101", tx.StartSample, tx.EndSample)
	}
	if tx.DeviceAddress() != 0x40 || tx.Direction != Write {
		t.Errorf("address = 0x%02X %s, want 0x40 write", tx.DeviceAddress(), tx.Direction)
	}
	if !tx.HasCommand || tx.Command != 0x21 {
		t.Errorf("command = %v 0x%02X, want 0x21", tx.HasCommand, tx.Command)
	}
	if !bytes.Equal(tx.WriteData, []byte{0xA0, 0x0F}) || len(tx.ReadData) != 0 {
		t.Errorf("data = %s / %s, want A0 0F / none", tx.WriteData, tx.ReadData)
	}
}

func TestAggregatorRepeatedStart(t *testing.T) {
	tests := []struct {
		name    string
		policy  RepeatedStartPolicy
		command bool
		want    int
	}{
		{"finalize always with command", FinalizeAlways, true, 2},
		{"finalize always without command", FinalizeAlways, false, 2},
		{"merge with command", FinalizeIfNoCommand, true, 1},
		{"merge without command", FinalizeIfNoCommand, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewTransactionAggregator(tt.policy)
			var txs []Transaction
			g.Start(start(0))
			g.Byte(byteFrame(RoleAddress, 0x80))
			if tt.command {
				g.Byte(byteFrame(RoleCommand, 0x8B))
			}
			if tx, ok := g.Start(start(50)); ok {
				if tx.EndSample != 50 {
					t.Errorf("end at repeated start = %d, want 50", tx.EndSample)
				}
				txs = append(txs, tx)
			}
			g.Byte(byteFrame(RoleAddress, 0x81))
			g.Byte(byteFrame(RoleData, 0x64))
			if tx, ok := g.Stop(stop(100)); ok {
				txs = append(txs, tx)
			}
			if len(txs) != tt.want {
				t.Fatalf("got %d transactions, want %d", len(txs), tt.want)
			}
			last := txs[len(txs)-1]
			if last.Direction != Read || !bytes.Equal(last.ReadData, []byte{0x64}) {
				t.Errorf("last transaction = %+v, want read of 64", last)
			}
			if tt.want == 1 {
				if last.StartSample != 0 || !last.HasCommand || last.Command != 0x8B {
					t.Errorf("merged transaction = %+v, want start 0 and command 8B", last)
				}
			} else if last.StartSample != 50 || last.HasCommand {
				t.Errorf("second transaction = %+v, want start 50 and no command", last)
			}
		})
	}
}

func TestTransactionPayload(t *testing.T) {
	tx := Transaction{WriteData: HexBytes{0x01}, ReadData: HexBytes{0x02}}
	if data, dir := tx.Payload(); dir != Write || data.String() != "01" {
		t.Errorf("Payload = %s %s, want write 01", data, dir)
	}
	tx.WriteData = nil
	if data, dir := tx.Payload(); dir != Read || data.String() != "02" {
		t.Errorf("Payload = %s %s, want read 02", data, dir)
	}
}

func TestHexBytesText(t *testing.T) {
	b := HexBytes{0x12, 0xAB, 0x00}
	text, _ := b.MarshalText()
	if string(text) != "12 AB 00" {
		t.Errorf("MarshalText = %q, want %q", text, "12 AB 00")
	}
	var back HexBytes
	if err := back.UnmarshalText(text); err != nil || !bytes.Equal(back, b) {
		t.Errorf("UnmarshalText = %v, %v", back, err)
	}
	if err := back.UnmarshalText([]byte("1")); err == nil {
		t.Error("expected error for odd length")
	}
}
