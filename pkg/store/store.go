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

package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/log"
	"jinr.ru/greenlab/go-pmbus/pkg/pmbus"
)

const (
	TxBucketPrefix  = "tx_"
	RegBucketPrefix = "reg_"
)

// Reg is the last value seen for a command of a device
type Reg struct {
	Address   uint8         `json:"address"`
	Command   uint8         `json:"command"`
	Name      string        `json:"name,omitempty"`
	Direction bus.Direction `json:"direction"`
	Data      bus.HexBytes  `json:"data"`
	Value     *pmbus.Value  `json:"value,omitempty"`
	Sample    uint64        `json:"sample"`
}

// State keeps decoded transactions of named captures in a bbolt database.
// Every capture gets a bucket of transactions in decoding order and a bucket
// of registers keyed by device address and command.
type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

func txBucketName(capture string) string {
	return fmt.Sprintf("%s%s", TxBucketPrefix, capture)
}

func regBucketName(capture string) string {
	return fmt.Sprintf("%s%s", RegBucketPrefix, capture)
}

func regKey(addr, cmd uint8) []byte {
	return []byte{addr, cmd}
}

func uint64ToByte(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func (s *State) Close() {
	s.DB.Close()
}

// PutRecord appends a transaction to the capture and, if it carried a
// command and a payload, updates the register it touched.
func (s *State) PutRecord(capture string, rec *bus.Record) error {
	log.Debug("Storing transaction: capture: %s %s", capture, rec.Summary)
	value, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(txBucketName(capture)))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(uint64ToByte(seq), value); err != nil {
			return err
		}

		data, dir := rec.Payload()
		if !rec.HasCommand || len(data) == 0 {
			return nil
		}
		reg := &Reg{
			Address:   rec.DeviceAddress(),
			Command:   rec.Command,
			Name:      rec.Name,
			Direction: dir,
			Data:      append(bus.HexBytes(nil), data...),
			Value:     rec.Value,
			Sample:    rec.EndSample,
		}
		regValue, err := yaml.Marshal(reg)
		if err != nil {
			return err
		}
		rb, err := tx.CreateBucketIfNotExists([]byte(regBucketName(capture)))
		if err != nil {
			return err
		}
		return rb.Put(regKey(reg.Address, reg.Command), regValue)
	})
}

// GetRecords returns the transactions of a capture in decoding order
func (s *State) GetRecords(capture string) ([]*bus.Record, error) {
	log.Debug("Getting transactions: capture: %s", capture)
	var records []*bus.Record
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(txBucketName(capture)))
		if b == nil {
			return ErrBucketNotFound{Name: txBucketName(capture)}
		}
		return b.ForEach(func(k, v []byte) error {
			rec := &bus.Record{}
			if err := yaml.Unmarshal(v, rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *State) GetReg(capture string, addr, cmd uint8) (*Reg, error) {
	log.Debug("Getting register: capture: %s Addr: %02X Reg: %02X", capture, addr, cmd)
	reg := &Reg{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(regBucketName(capture)))
		if b == nil {
			return ErrBucketNotFound{Name: regBucketName(capture)}
		}
		value := b.Get(regKey(addr, cmd))
		if value == nil {
			return ErrKeyNotFound{Key: fmt.Sprintf("%02X/%02X", addr, cmd)}
		}
		return yaml.Unmarshal(value, reg)
	}); err != nil {
		return nil, err
	}
	return reg, nil
}

// GetRegAll returns all registers of a capture ordered by address and command
func (s *State) GetRegAll(capture string) ([]*Reg, error) {
	log.Debug("Getting all registers: capture: %s", capture)
	var regs []*Reg
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(regBucketName(capture)))
		if b == nil {
			return ErrBucketNotFound{Name: regBucketName(capture)}
		}
		return b.ForEach(func(k, v []byte) error {
			reg := &Reg{}
			if err := yaml.Unmarshal(v, reg); err != nil {
				return err
			}
			regs = append(regs, reg)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return regs, nil
}

// Captures lists the names of all stored captures
func (s *State) Captures() ([]string, error) {
	var names []string
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			if strings.HasPrefix(string(name), TxBucketPrefix) {
				names = append(names, strings.TrimPrefix(string(name), TxBucketPrefix))
			}
			return nil
		})
	}); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// DeleteCapture drops everything stored for a capture. Deleting an unknown
// capture is not an error.
func (s *State) DeleteCapture(capture string) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{txBucketName(capture), regBucketName(capture)} {
			err := tx.DeleteBucket([]byte(name))
			if err != nil && err != bbolt.ErrBucketNotFound {
				return err
			}
		}
		return nil
	})
}

// Recorder is a bus.Sink storing every finalized transaction of a capture
type Recorder struct {
	State   *State
	Capture string
}

func (r *Recorder) Annotate(a bus.Annotation) error {
	if a.Record == nil {
		return nil
	}
	select {
	case <-r.State.Done():
		return r.State.Err()
	default:
	}
	return r.PutRecord(a.Record)
}

func (r *Recorder) PutRecord(rec *bus.Record) error {
	return r.State.PutRecord(r.Capture, rec)
}
