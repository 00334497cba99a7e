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
	"fmt"
	"strings"
)

type Category int

const (
	CategoryStart Category = iota
	CategoryStop
	CategoryBit
	CategoryAck
	CategoryNack
	CategoryAddrRead
	CategoryAddrWrite
	CategoryReg
	CategoryDataRead
	CategoryDataWrite
	CategoryTransaction
	categoryLimit
)

var categoryNames = [categoryLimit]string{
	CategoryStart:       "start",
	CategoryStop:        "stop",
	CategoryBit:         "bit",
	CategoryAck:         "ack",
	CategoryNack:        "nack",
	CategoryAddrRead:    "addr-read",
	CategoryAddrWrite:   "addr-write",
	CategoryReg:         "reg",
	CategoryDataRead:    "data-read",
	CategoryDataWrite:   "data-write",
	CategoryTransaction: "transaction",
}

var categoryDescriptions = [categoryLimit]string{
	CategoryStart:       "Start",
	CategoryStop:        "Stop",
	CategoryBit:         "Bit",
	CategoryAck:         "ACK",
	CategoryNack:        "NACK",
	CategoryAddrRead:    "Addr Read",
	CategoryAddrWrite:   "Addr Write",
	CategoryReg:         "Register",
	CategoryDataRead:    "Data Read",
	CategoryDataWrite:   "Data Write",
	CategoryTransaction: "Transaction",
}

func (c Category) String() string {
	if c < 0 || c >= categoryLimit {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

func (c Category) Description() string {
	if c < 0 || c >= categoryLimit {
		return c.String()
	}
	return categoryDescriptions[c]
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	cat, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown annotation category %q", string(text))
	}
	*c = cat
	return nil
}

func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(s)
	for c, name := range categoryNames {
		if name == s {
			return Category(c), true
		}
	}
	return 0, false
}

// AnnotationRow groups categories that are shown together
type AnnotationRow struct {
	ID         string
	Name       string
	Categories []Category
}

var AnnotationRows = []AnnotationRow{
	{ID: "bus", Name: "Bus", Categories: []Category{CategoryTransaction}},
	{ID: "signals", Name: "Signals", Categories: []Category{
		CategoryStart, CategoryStop, CategoryAck, CategoryNack,
		CategoryAddrRead, CategoryAddrWrite, CategoryReg, CategoryDataRead, CategoryDataWrite,
	}},
	{ID: "bits", Name: "Bits", Categories: []Category{CategoryBit}},
}

// LookupRow returns the row with the given id
func LookupRow(id string) (AnnotationRow, error) {
	for _, row := range AnnotationRows {
		if row.ID == id {
			return row, nil
		}
	}
	return AnnotationRow{}, ErrUnknownRow{ID: id}
}

// RowOf returns the row a category is shown in
func RowOf(c Category) AnnotationRow {
	for _, row := range AnnotationRows {
		for _, rc := range row.Categories {
			if rc == c {
				return row
			}
		}
	}
	return AnnotationRow{}
}

// Annotation is one output item of a decoder. Transaction annotations also
// carry the rendered record.
type Annotation struct {
	Start    uint64   `json:"start"`
	End      uint64   `json:"end"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Record   *Record  `json:"record,omitempty"`
}

func (a Annotation) String() string {
	return fmt.Sprintf("%d-%d %s: %s", a.Start, a.End, a.Category, a.Text)
}
