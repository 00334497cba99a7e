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
	"reflect"
	"testing"
)

func TestDecodeOperation(t *testing.T) {
	tests := []struct {
		value byte
		want  []string
	}{
		{0xC0, []string{"On", "Margin High"}},
		{0x00, []string{"Off", "No Margin"}},
		{0xA0, []string{"On", "Margin Low"}},
		{0x60, []string{"Off", "No Margin"}},
		{0x80, []string{"On", "No Margin"}},
		{0x1F, []string{"Off", "No Margin"}},
	}
	for _, tt := range tests {
		got := DecodeOperation(tt.value)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DecodeOperation(0x%02X) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestDecodeStatusWord(t *testing.T) {
	got := DecodeStatusWord(0x8041)
	want := []string{"IOUT/POUT", "UNKNOWN", "VOUT_OV_FAULT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeStatusWord(0x8041) = %v, want %v", got, want)
	}
	if got := DecodeStatusWord(0); len(got) != 0 {
		t.Errorf("DecodeStatusWord(0) = %v, want none", got)
	}
}

func TestDecodeBitfield(t *testing.T) {
	tests := []struct {
		name  string
		tag   BitfieldTag
		value uint16
		want  []string
	}{
		{"on_off_config", TagOnOffConfig, 0x1F, []string{"CMD", "CPI", "POL", "PU", "EN"}},
		{"write_protect", TagWriteProtect, 0x81, []string{"DISABLE_ALL", "PAGE_0"}},
		{"write_protect unused bits", TagWriteProtect, 0x78, nil},
		{"capability", TagCapability, 0xB0, []string{"PEC", "SMBus"}},
		{"status_byte", TagStatusByte, 0x88, []string{"VOUT", "POWER_GOOD#"}},
		{"status_vout", TagStatusVout, 0x90, []string{"OV_FAULT", "UV_FAULT"}},
		{"status_iout", TagStatusIout, 0x01, []string{"IN_PWR_LIMIT"}},
		{"status_input", TagStatusInput, 0x08, []string{"IIN_OC_FAULT"}},
		{"status_temp", TagStatusTemperature, 0xC0, []string{"OT_FAULT", "OT_WARN"}},
		{"status_temp low bits", TagStatusTemperature, 0x0F, nil},
		{"status_cml", TagStatusCml, 0x86, []string{"INVALID_CMD", "COMM_OTHER"}},
		{"status_cml bit 2", TagStatusCml, 0x04, nil},
		{"status_other", TagStatusOther, 0x03, []string{"OTP", "ORING"}},
		{"status_mfr", TagStatusMfr, 0x20, []string{"CRC_FAIL"}},
		{"operation", TagOperation, 0x40, []string{"Off", "Margin High"}},
		{"status_word", TagStatusWord, 0x0180, []string{"VOUT", "BUSY"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeBitfield(tt.tag, tt.value)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeBitfield(%s, 0x%X) = %v, want %v", tt.tag, tt.value, got, tt.want)
			}
		})
	}
}
