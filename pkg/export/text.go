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
	"fmt"
	"io"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
)

// TextSink prints annotations one per line. With SummaryOnly set it prints
// only finalized transactions.
type TextSink struct {
	w           io.Writer
	SummaryOnly bool
	rows        map[string]bool
}

func NewTextSink(w io.Writer, summaryOnly bool) *TextSink {
	return &TextSink{w: w, SummaryOnly: summaryOnly}
}

// SelectRows limits the output to annotations of the given rows.
// No ids means every row.
func (s *TextSink) SelectRows(ids ...string) error {
	if len(ids) == 0 {
		s.rows = nil
		return nil
	}
	rows := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, err := bus.LookupRow(id); err != nil {
			return err
		}
		rows[id] = true
	}
	s.rows = rows
	return nil
}

func (s *TextSink) Annotate(a bus.Annotation) error {
	if s.rows != nil && !s.rows[bus.RowOf(a.Category).ID] {
		return nil
	}
	if s.SummaryOnly {
		if a.Record == nil {
			return nil
		}
		_, err := fmt.Fprintf(s.w, "%d-%d %s\n", a.Start, a.End, a.Record.Summary)
		return err
	}
	_, err := fmt.Fprintln(s.w, a.String())
	return err
}
