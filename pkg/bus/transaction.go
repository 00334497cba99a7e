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
	"encoding/hex"
	"fmt"
	"strings"
)

type Direction int

const (
	Write Direction = iota
	Read
)

func (d Direction) String() string {
	if d == Read {
		return "read"
	}
	return "write"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "read":
		*d = Read
	case "write":
		*d = Write
	default:
		return fmt.Errorf("unknown direction %q", string(text))
	}
	return nil
}

// HexBytes is a byte string rendered as space separated upper case hex pairs
type HexBytes []byte

func (b HexBytes) String() string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(strings.Join(strings.Fields(string(text)), ""))
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// Transaction is an addressed exchange between two framing conditions
type Transaction struct {
	StartSample uint64    `json:"start_sample"`
	EndSample   uint64    `json:"end_sample"`
	Address     byte      `json:"address"` // as sent on the wire, direction in bit 0
	Direction   Direction `json:"direction"`
	HasCommand  bool      `json:"has_command"`
	Command     byte      `json:"command"`
	WriteData   HexBytes  `json:"write_data,omitempty"`
	ReadData    HexBytes  `json:"read_data,omitempty"`
}

// DeviceAddress returns the 7-bit device address
func (tx *Transaction) DeviceAddress() byte {
	return tx.Address >> 1
}

// Payload returns the written bytes if any, the read bytes otherwise
func (tx *Transaction) Payload() (HexBytes, Direction) {
	if len(tx.WriteData) > 0 {
		return tx.WriteData, Write
	}
	return tx.ReadData, Read
}

// TransactionAggregator collects assembled bytes into transactions and
// decides on every START whether the current transaction ends there
type TransactionAggregator struct {
	policy    RepeatedStartPolicy
	active    bool
	addressed bool
	tx        Transaction
}

func NewTransactionAggregator(policy RepeatedStartPolicy) *TransactionAggregator {
	return &TransactionAggregator{policy: policy}
}

// Active reports whether a START was seen without a following STOP
func (g *TransactionAggregator) Active() bool {
	return g.active
}

// Direction of the transaction in progress
func (g *TransactionAggregator) Direction() Direction {
	return g.tx.Direction
}

// Start handles a START condition and returns the transaction it finalized, if any
func (g *TransactionAggregator) Start(ev Event) (Transaction, bool) {
	if !g.active {
		g.active = true
		g.begin(ev.Start)
		return Transaction{}, false
	}
	if g.policy == FinalizeIfNoCommand && g.tx.HasCommand {
		return Transaction{}, false
	}
	tx, ok := g.finalize(ev.Start)
	g.begin(ev.Start)
	return tx, ok
}

// Stop handles a STOP condition and returns the finalized transaction, if any
func (g *TransactionAggregator) Stop(ev Event) (Transaction, bool) {
	tx, ok := g.finalize(ev.End)
	g.active = false
	g.begin(0)
	return tx, ok
}

// Byte records an assembled byte according to its role
func (g *TransactionAggregator) Byte(f Frame) {
	switch f.Role {
	case RoleAddress:
		g.tx.Address = f.Value
		g.addressed = true
		if f.Value&1 == 1 {
			g.tx.Direction = Read
		} else {
			g.tx.Direction = Write
		}
	case RoleCommand:
		g.tx.Command = f.Value
		g.tx.HasCommand = true
	case RoleData:
		if g.tx.Direction == Write {
			g.tx.WriteData = append(g.tx.WriteData, f.Value)
		} else {
			g.tx.ReadData = append(g.tx.ReadData, f.Value)
		}
	}
}

func (g *TransactionAggregator) begin(start uint64) {
	g.tx = Transaction{StartSample: start}
	g.addressed = false
}

func (g *TransactionAggregator) finalize(end uint64) (Transaction, bool) {
	if !g.addressed {
		return Transaction{}, false
	}
	tx := g.tx
	tx.EndSample = end
	g.begin(0)
	return tx, true
}

func (g *TransactionAggregator) Reset() {
	g.active = false
	g.begin(0)
}
