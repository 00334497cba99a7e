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

	"jinr.ru/greenlab/go-pmbus/pkg/pmbus"
)

// Record is a finalized transaction together with what the command table
// and the value decoder made of it
type Record struct {
	Transaction
	Name    string       `json:"name,omitempty"`
	Value   *pmbus.Value `json:"value,omitempty"`
	Summary string       `json:"summary"`
}

// Formatter renders finalized transactions with the profile's command
// table and labels
type Formatter struct {
	Profile *Profile
}

// Render builds the record of a finalized transaction. A write to VOUT_MODE
// is recorded by values before the payload is decoded.
func (f *Formatter) Render(tx Transaction, values *pmbus.ValueDecoder) Record {
	rec := Record{Transaction: tx}
	labels := f.Profile.Labels

	if tx.HasCommand {
		values.Observe(tx.Command, tx.WriteData)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Addr:%02X(%s)", tx.DeviceAddress(), labels.Direction(tx.Direction))

	var cmd pmbus.Command
	known := false
	if tx.HasCommand {
		fmt.Fprintf(&sb, " Reg:%02X", tx.Command)
		cmd, known = f.Profile.Commands.Lookup(tx.Command)
		if known {
			rec.Name = cmd.Name
			fmt.Fprintf(&sb, " (%s)", cmd.Name)
		}
	}

	data, dir := tx.Payload()
	if len(data) > 0 {
		fmt.Fprintf(&sb, " %s:%s", labels.Direction(dir), data)
		if known {
			if value, ok := values.Decode(cmd.Encoding, data); ok {
				rec.Value = &value
				fmt.Fprintf(&sb, " (%s)", value)
			}
		}
	}

	rec.Summary = sb.String()
	return rec
}
