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

package pmbus

import (
	"testing"
)

func TestCommandTableLookup(t *testing.T) {
	tests := []struct {
		table    *CommandTable
		code     byte
		wantOk   bool
		wantName string
		wantEnc  Encoding
	}{
		{PMBusCommands, CmdReadVout, true, "READ_VOUT", Linear11},
		{PMBusCommands, CmdStatusWord, true, "STATUS_WORD", NoEncoding},
		{PMBusCommands, CmdVoutScaleMonitor, false, "", NoEncoding},
		{PMBusCommands, 0x05, false, "", NoEncoding},
		{SMBusCommands, CmdReadVout, false, "", NoEncoding},
		{SMBusCommands, 0x05, false, "", NoEncoding},
		{XDPE19284CCommands, CmdReadVout, true, "READ_VOUT", VoltageMode},
		{XDPE19284CCommands, CmdReadIout, true, "READ_IOUT", Linear11},
		{XDPE19284CCommands, CmdStatusWord, true, "STATUS_WORD", Bitfield(TagStatusWord)},
		{XDPE19284CCommands, CmdStatusTemperature, true, "STATUS_TEMPERATURE", Bitfield(TagStatusTemperature)},
		{XDPE19284CCommands, CmdVoutScaleMonitor, true, "VOUT_SCALE_MONITOR", VoltageMode},
		{XDPE19284CCommands, CmdFrequencySwitch, true, "FREQUENCY_SWITCH", Linear11},
		{XDPE19284CCommands, 0xA6, true, "MFR_VOUT_TRIM_DELAY", NoEncoding},
		{XDPE19284CCommands, 0xFE, true, "MFR_FW_COMMAND", NoEncoding},
		{XDPE19284CCommands, 0x05, false, "", NoEncoding},
		{XDPE19284CCommands, 0xAF, false, "", NoEncoding},
	}
	for _, tt := range tests {
		cmd, ok := tt.table.Lookup(tt.code)
		if ok != tt.wantOk {
			t.Errorf("%s: Lookup(0x%02X) ok = %v, want %v", tt.table.Name, tt.code, ok, tt.wantOk)
			continue
		}
		if cmd.Name != tt.wantName || cmd.Encoding != tt.wantEnc {
			t.Errorf("%s: Lookup(0x%02X) = %s/%s, want %s/%s",
				tt.table.Name, tt.code, cmd.Name, cmd.Encoding, tt.wantName, tt.wantEnc)
		}
		if ok && cmd.Code != tt.code {
			t.Errorf("%s: Lookup(0x%02X).Code = 0x%02X", tt.table.Name, tt.code, cmd.Code)
		}
	}
}

func TestCommandTableContents(t *testing.T) {
	if n := SMBusCommands.Len(); n != 0 {
		t.Errorf("smbus table has %d entries, want 0", n)
	}
	if PMBusCommands.Len() >= XDPE19284CCommands.Len() {
		t.Errorf("extended table (%d) must be a superset of the pmbus table (%d)",
			XDPE19284CCommands.Len(), PMBusCommands.Len())
	}
	for _, cmd := range PMBusCommands.Commands() {
		if cmd.Encoding.Kind == EncodingVoltageMode || cmd.Encoding.Kind == EncodingBitfield {
			t.Errorf("pmbus table entry %s uses %s", cmd.Name, cmd.Encoding)
		}
		ext, ok := XDPE19284CCommands.Lookup(cmd.Code)
		if !ok || ext.Name != cmd.Name {
			t.Errorf("extended table lacks 0x%02X %s", cmd.Code, cmd.Name)
		}
	}
	if _, ok := PMBusCommands.Lookup(CmdVoutMode); !ok {
		t.Error("VOUT_MODE missing from pmbus table")
	}
}

func TestCommandsSorted(t *testing.T) {
	cmds := XDPE19284CCommands.Commands()
	for i := 1; i < len(cmds); i++ {
		if cmds[i-1].Code >= cmds[i].Code {
			t.Fatalf("Commands() not sorted at %d: 0x%02X >= 0x%02X", i, cmds[i-1].Code, cmds[i].Code)
		}
	}
}

func TestExtendOverrides(t *testing.T) {
	table := PMBusCommands.Extend("custom",
		Command{Code: 0x05, Name: "MY_CMD", Encoding: Linear11},
		Command{Code: CmdReadVout, Name: "READ_VOUT", Encoding: VoltageMode},
	)
	if cmd, ok := table.Lookup(0x05); !ok || cmd.Name != "MY_CMD" {
		t.Errorf("Lookup(0x05) = %v, %v", cmd, ok)
	}
	if cmd, _ := table.Lookup(CmdReadVout); cmd.Encoding != VoltageMode {
		t.Errorf("READ_VOUT encoding = %s, want vout", cmd.Encoding)
	}
	if cmd, _ := PMBusCommands.Lookup(CmdReadVout); cmd.Encoding != Linear11 {
		t.Error("Extend modified the base table")
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", NoEncoding, false},
		{"none", NoEncoding, false},
		{"linear", Linear11, false},
		{"vout", VoltageMode, false},
		{"status_word", Bitfield(TagStatusWord), false},
		{"status_temp", Bitfield(TagStatusTemperature), false},
		{"operation", Bitfield(TagOperation), false},
		{"ieee754", NoEncoding, true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEncoding(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEncoding(%q) = %s, want %s", tt.in, got, tt.want)
		}
		if !tt.wantErr {
			text, _ := got.MarshalText()
			var back Encoding
			if err := back.UnmarshalText(text); err != nil || back != got {
				t.Errorf("text round trip of %q = %v, %v", tt.in, back, err)
			}
		}
	}
}
