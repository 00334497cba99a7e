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

type flagBit struct {
	bit  uint
	name string
}

// Flag tables, highest bit first
var (
	onOffConfigBits = []flagBit{
		{4, "CMD"}, {3, "CPI"}, {2, "POL"}, {1, "PU"}, {0, "EN"},
	}
	writeProtectBits = []flagBit{
		{7, "DISABLE_ALL"}, {2, "PAGE_2"}, {1, "PAGE_1"}, {0, "PAGE_0"},
	}
	capabilityBits = []flagBit{
		{7, "PEC"}, {6, "ALERT#"}, {5, "SMBus"},
	}
	statusByteBits = []flagBit{
		{7, "VOUT"}, {6, "IOUT/POUT"}, {5, "INPUT"}, {4, "MFR"},
		{3, "POWER_GOOD#"}, {2, "FANS"}, {1, "OTHER"}, {0, "UNKNOWN"},
	}
	// high byte of STATUS_WORD
	statusWordHighBits = []flagBit{
		{7, "VOUT_OV_FAULT"}, {6, "IOUT_OC_FAULT"}, {5, "VIN_UV_FAULT"}, {4, "OT_FAULT"},
		{3, "TON_MAX_FAULT"}, {2, "CML"}, {1, "NONE"}, {0, "BUSY"},
	}
	statusVoutBits = []flagBit{
		{7, "OV_FAULT"}, {6, "OV_WARN"}, {5, "UV_WARN"}, {4, "UV_FAULT"},
		{3, "MAX"}, {2, "TON_MAX"}, {1, "TOFF_MAX"}, {0, "VOUT_TRACK"},
	}
	statusIoutBits = []flagBit{
		{7, "OC_FAULT"}, {6, "OC_WARN"}, {5, "UC_FAULT"}, {4, "CURRENT_SHARE"},
		{3, "PWR_LIMIT"}, {2, "POUT_OP_FAULT"}, {1, "POUT_OP_WARN"}, {0, "IN_PWR_LIMIT"},
	}
	statusInputBits = []flagBit{
		{7, "VIN_OV_FAULT"}, {6, "VIN_OV_WARN"}, {5, "VIN_UV_WARN"}, {4, "VIN_UV_FAULT"},
		{3, "IIN_OC_FAULT"}, {2, "IIN_OC_WARN"}, {1, "PIN_OP_WARN"}, {0, "UNIT_OFF"},
	}
	statusTemperatureBits = []flagBit{
		{7, "OT_FAULT"}, {6, "OT_WARN"}, {5, "UT_WARN"}, {4, "UT_FAULT"},
	}
	statusCmlBits = []flagBit{
		{7, "INVALID_CMD"}, {6, "INVALID_DATA"}, {5, "PEC_FAIL"}, {4, "MEM_FAULT"},
		{3, "PROC_FAULT"}, {1, "COMM_OTHER"}, {0, "OTHER"},
	}
	statusOtherBits = []flagBit{
		{7, "MFR_SPEC"}, {6, "INPUT_A"}, {5, "INPUT_B"}, {4, "INPUT_C"},
		{3, "FANS_3_4"}, {2, "FANS_1_2"}, {1, "OTP"}, {0, "ORING"},
	}
	statusMfrBits = []flagBit{
		{7, "TRIM_FAIL"}, {6, "VMON_FAIL"}, {5, "CRC_FAIL"}, {4, "NVM_FAIL"},
		{3, "VDR_FAIL"}, {2, "VREF_FAIL"}, {1, "TSEN_FAIL"}, {0, "DRV_FAIL"},
	}
)

var flagTables = map[BitfieldTag][]flagBit{
	TagOnOffConfig:       onOffConfigBits,
	TagWriteProtect:      writeProtectBits,
	TagCapability:        capabilityBits,
	TagStatusByte:        statusByteBits,
	TagStatusVout:        statusVoutBits,
	TagStatusIout:        statusIoutBits,
	TagStatusInput:       statusInputBits,
	TagStatusTemperature: statusTemperatureBits,
	TagStatusCml:         statusCmlBits,
	TagStatusOther:       statusOtherBits,
	TagStatusMfr:         statusMfrBits,
}

func decodeFlags(value byte, table []flagBit) []string {
	var flags []string
	for _, f := range table {
		if value&(1<<f.bit) != 0 {
			flags = append(flags, f.name)
		}
	}
	return flags
}

// DecodeOperation decodes the OPERATION register. It always yields two
// items: the on/off state and the margin state.
func DecodeOperation(value byte) []string {
	flags := make([]string, 0, 2)
	if value&0x80 != 0 {
		flags = append(flags, "On")
	} else {
		flags = append(flags, "Off")
	}
	switch value & 0x60 {
	case 0x40:
		flags = append(flags, "Margin High")
	case 0x20:
		flags = append(flags, "Margin Low")
	default:
		flags = append(flags, "No Margin")
	}
	return flags
}

// DecodeStatusWord decodes the low byte like STATUS_BYTE followed by the high byte flags
func DecodeStatusWord(value uint16) []string {
	flags := decodeFlags(byte(value), statusByteBits)
	return append(flags, decodeFlags(byte(value>>8), statusWordHighBits)...)
}

// DecodeBitfield returns the names of the flags set in value for the given tag
func DecodeBitfield(tag BitfieldTag, value uint16) []string {
	switch tag {
	case TagOperation:
		return DecodeOperation(byte(value))
	case TagStatusWord:
		return DecodeStatusWord(value)
	}
	return decodeFlags(byte(value), flagTables[tag])
}
