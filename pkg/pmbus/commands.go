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
	"sort"
)

// Standard PMBus command codes
const (
	CmdPage               byte = 0x00
	CmdOperation          byte = 0x01
	CmdOnOffConfig        byte = 0x02
	CmdClearFaults        byte = 0x03
	CmdWriteProtect       byte = 0x10
	CmdCapability         byte = 0x19
	CmdVoutMode           byte = 0x20
	CmdVoutCommand        byte = 0x21
	CmdVoutTrim           byte = 0x22
	CmdVoutCalOffset      byte = 0x23
	CmdVoutMax            byte = 0x24
	CmdVoutMarginHigh     byte = 0x25
	CmdVoutMarginLow      byte = 0x26
	CmdVoutTransitionRate byte = 0x27
	CmdVoutScaleLoop      byte = 0x29
	CmdFrequencySwitch    byte = 0x33
	CmdVoutScaleMonitor   byte = 0x34
	CmdVinOn              byte = 0x35
	CmdVinOff             byte = 0x36
	CmdIoutCalGain        byte = 0x3A
	CmdIoutCalOffset      byte = 0x3B
	CmdVinOvFaultLimit    byte = 0x40
	CmdVinUvFaultLimit    byte = 0x42
	CmdVinUvWarnLimit     byte = 0x44
	CmdIoutOcFaultLimit   byte = 0x46
	CmdIoutUcFaultLimit   byte = 0x4A
	CmdOtFaultLimit       byte = 0x4F
	CmdOtFaultResponse    byte = 0x50
	CmdOtWarnLimit        byte = 0x51
	CmdIinOcFaultLimit    byte = 0x55
	CmdIinOcWarnLimit     byte = 0x57
	CmdFanConfig12        byte = 0x5D
	CmdFanConfig34        byte = 0x5E
	CmdFanCommand1        byte = 0x5F
	CmdFanCommand2        byte = 0x60
	CmdFanCommand3        byte = 0x61
	CmdFanCommand4        byte = 0x62
	CmdStatusByte         byte = 0x78
	CmdStatusWord         byte = 0x79
	CmdStatusVout         byte = 0x7A
	CmdStatusIout         byte = 0x7B
	CmdStatusInput        byte = 0x7C
	CmdStatusTemperature  byte = 0x7D
	CmdStatusCml          byte = 0x7E
	CmdStatusOther        byte = 0x7F
	CmdStatusMfrSpecific  byte = 0x80
	CmdStatusFans12       byte = 0x81
	CmdStatusFans34       byte = 0x82
	CmdReadVin            byte = 0x88
	CmdReadIin            byte = 0x89
	CmdReadVout           byte = 0x8B
	CmdReadIout           byte = 0x8C
	CmdReadTemperature1   byte = 0x8D
	CmdReadTemperature2   byte = 0x8E
	CmdReadTemperature3   byte = 0x8F
	CmdReadFanSpeed1      byte = 0x90
	CmdReadFanSpeed2      byte = 0x91
	CmdReadFanSpeed3      byte = 0x92
	CmdReadFanSpeed4      byte = 0x93
	CmdReadPout           byte = 0x96
	CmdReadPin            byte = 0x97
	CmdPmbusRevision      byte = 0x98
	CmdMfrId              byte = 0x99
	CmdMfrModel           byte = 0x9A
	CmdMfrRevision        byte = 0x9B
	CmdMfrLocation        byte = 0x9C
	CmdMfrDate            byte = 0x9D
	CmdMfrSerial          byte = 0x9E
)

// Command is a single entry of a command table
type Command struct {
	Code     byte     `json:"code"`
	Name     string   `json:"name"`
	Encoding Encoding `json:"encoding"`
}

// CommandTable maps command codes to names and encodings. Tables are
// immutable after construction and safe to share between decoders.
type CommandTable struct {
	Name     string
	commands map[byte]Command
}

// NewCommandTable builds a table from a code -> entry map, the Code field of
// the entries is filled from the map keys.
func NewCommandTable(name string, entries map[byte]Command) *CommandTable {
	t := &CommandTable{
		Name:     name,
		commands: make(map[byte]Command, len(entries)),
	}
	for code, cmd := range entries {
		cmd.Code = code
		t.commands[code] = cmd
	}
	return t
}

// Lookup returns the entry for the code. Unknown codes yield false and must
// still be rendered by the caller as raw hex.
func (t *CommandTable) Lookup(code byte) (Command, bool) {
	if t == nil {
		return Command{}, false
	}
	cmd, ok := t.commands[code]
	return cmd, ok
}

func (t *CommandTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.commands)
}

// Commands returns all entries ordered by code
func (t *CommandTable) Commands() []Command {
	if t == nil {
		return nil
	}
	result := make([]Command, 0, len(t.commands))
	for _, cmd := range t.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result
}

// Extend returns a new table holding all entries of t overridden by cmds
func (t *CommandTable) Extend(name string, cmds ...Command) *CommandTable {
	entries := make(map[byte]Command, t.Len()+len(cmds))
	if t != nil {
		for code, cmd := range t.commands {
			entries[code] = cmd
		}
	}
	for _, cmd := range cmds {
		entries[cmd.Code] = cmd
	}
	return NewCommandTable(name, entries)
}

var pmbusCommands = map[byte]Command{
	CmdPage:               {Name: "PAGE"},
	CmdOperation:          {Name: "OPERATION"},
	CmdOnOffConfig:        {Name: "ON_OFF_CONFIG"},
	CmdClearFaults:        {Name: "CLEAR_FAULTS"},
	CmdWriteProtect:       {Name: "WRITE_PROTECT"},
	CmdCapability:         {Name: "CAPABILITY"},
	CmdVoutMode:           {Name: "VOUT_MODE"},
	CmdVoutCommand:        {Name: "VOUT_COMMAND", Encoding: Linear11},
	CmdVoutTrim:           {Name: "VOUT_TRIM", Encoding: Linear11},
	CmdVoutCalOffset:      {Name: "VOUT_CAL_OFFSET", Encoding: Linear11},
	CmdVoutMax:            {Name: "VOUT_MAX", Encoding: Linear11},
	CmdVoutMarginHigh:     {Name: "VOUT_MARGIN_HIGH", Encoding: Linear11},
	CmdVoutMarginLow:      {Name: "VOUT_MARGIN_LOW", Encoding: Linear11},
	CmdVoutTransitionRate: {Name: "VOUT_TRANSITION_RATE", Encoding: Linear11},
	CmdVoutScaleLoop:      {Name: "VOUT_SCALE_LOOP", Encoding: Linear11},
	CmdFrequencySwitch:    {Name: "FREQUENCY_SWITCH", Encoding: Linear11},
	CmdVinOn:              {Name: "VIN_ON", Encoding: Linear11},
	CmdVinOff:             {Name: "VIN_OFF", Encoding: Linear11},
	CmdIoutCalGain:        {Name: "IOUT_CAL_GAIN", Encoding: Linear11},
	CmdIoutCalOffset:      {Name: "IOUT_CAL_OFFSET", Encoding: Linear11},
	CmdVinOvFaultLimit:    {Name: "VIN_OV_FAULT_LIMIT", Encoding: Linear11},
	CmdVinUvFaultLimit:    {Name: "VIN_UV_FAULT_LIMIT", Encoding: Linear11},
	CmdVinUvWarnLimit:     {Name: "VIN_UV_WARN_LIMIT", Encoding: Linear11},
	CmdIoutOcFaultLimit:   {Name: "IOUT_OC_FAULT_LIMIT", Encoding: Linear11},
	CmdIoutUcFaultLimit:   {Name: "IOUT_UC_FAULT_LIMIT", Encoding: Linear11},
	CmdOtFaultLimit:       {Name: "OT_FAULT_LIMIT", Encoding: Linear11},
	CmdOtFaultResponse:    {Name: "OT_FAULT_RESPONSE"},
	CmdOtWarnLimit:        {Name: "OT_WARN_LIMIT", Encoding: Linear11},
	CmdIinOcFaultLimit:    {Name: "IIN_OC_FAULT_LIMIT", Encoding: Linear11},
	CmdIinOcWarnLimit:     {Name: "IIN_OC_WARN_LIMIT", Encoding: Linear11},
	CmdFanConfig12:        {Name: "FAN_CONFIG_1_2"},
	CmdFanConfig34:        {Name: "FAN_CONFIG_3_4"},
	CmdFanCommand1:        {Name: "FAN_COMMAND_1", Encoding: Linear11},
	CmdFanCommand2:        {Name: "FAN_COMMAND_2", Encoding: Linear11},
	CmdFanCommand3:        {Name: "FAN_COMMAND_3", Encoding: Linear11},
	CmdFanCommand4:        {Name: "FAN_COMMAND_4", Encoding: Linear11},
	CmdStatusByte:         {Name: "STATUS_BYTE"},
	CmdStatusWord:         {Name: "STATUS_WORD"},
	CmdStatusVout:         {Name: "STATUS_VOUT"},
	CmdStatusIout:         {Name: "STATUS_IOUT"},
	CmdStatusInput:        {Name: "STATUS_INPUT"},
	CmdStatusTemperature:  {Name: "STATUS_TEMPERATURE"},
	CmdStatusCml:          {Name: "STATUS_CML"},
	CmdStatusOther:        {Name: "STATUS_OTHER"},
	CmdStatusMfrSpecific:  {Name: "STATUS_MFR_SPECIFIC"},
	CmdStatusFans12:       {Name: "STATUS_FANS_1_2"},
	CmdStatusFans34:       {Name: "STATUS_FANS_3_4"},
	CmdReadVin:            {Name: "READ_VIN", Encoding: Linear11},
	CmdReadIin:            {Name: "READ_IIN", Encoding: Linear11},
	CmdReadVout:           {Name: "READ_VOUT", Encoding: Linear11},
	CmdReadIout:           {Name: "READ_IOUT", Encoding: Linear11},
	CmdReadTemperature1:   {Name: "READ_TEMPERATURE_1", Encoding: Linear11},
	CmdReadTemperature2:   {Name: "READ_TEMPERATURE_2", Encoding: Linear11},
	CmdReadTemperature3:   {Name: "READ_TEMPERATURE_3", Encoding: Linear11},
	CmdReadFanSpeed1:      {Name: "READ_FAN_SPEED_1", Encoding: Linear11},
	CmdReadFanSpeed2:      {Name: "READ_FAN_SPEED_2", Encoding: Linear11},
	CmdReadFanSpeed3:      {Name: "READ_FAN_SPEED_3", Encoding: Linear11},
	CmdReadFanSpeed4:      {Name: "READ_FAN_SPEED_4", Encoding: Linear11},
	CmdReadPout:           {Name: "READ_POUT", Encoding: Linear11},
	CmdReadPin:            {Name: "READ_PIN", Encoding: Linear11},
	CmdPmbusRevision:      {Name: "PMBUS_REVISION"},
	CmdMfrId:              {Name: "MFR_ID"},
	CmdMfrModel:           {Name: "MFR_MODEL"},
	CmdMfrRevision:        {Name: "MFR_REVISION"},
	CmdMfrLocation:        {Name: "MFR_LOCATION"},
	CmdMfrDate:            {Name: "MFR_DATE"},
	CmdMfrSerial:          {Name: "MFR_SERIAL"},
}

// Standard command encodings overridden by the XDPE19284C table. Output
// voltage related commands follow VOUT_MODE there and the control/status
// registers are decoded as flags.
var xdpeOverrides = map[byte]Encoding{
	CmdOperation:          Bitfield(TagOperation),
	CmdOnOffConfig:        Bitfield(TagOnOffConfig),
	CmdWriteProtect:       Bitfield(TagWriteProtect),
	CmdCapability:         Bitfield(TagCapability),
	CmdVoutCommand:        VoltageMode,
	CmdVoutTrim:           VoltageMode,
	CmdVoutCalOffset:      VoltageMode,
	CmdVoutMax:            VoltageMode,
	CmdVoutMarginHigh:     VoltageMode,
	CmdVoutMarginLow:      VoltageMode,
	CmdVoutTransitionRate: VoltageMode,
	CmdVoutScaleLoop:      VoltageMode,
	CmdVinOn:              VoltageMode,
	CmdVinOff:             VoltageMode,
	CmdVinOvFaultLimit:    VoltageMode,
	CmdVinUvFaultLimit:    VoltageMode,
	CmdVinUvWarnLimit:     VoltageMode,
	CmdStatusByte:         Bitfield(TagStatusByte),
	CmdStatusWord:         Bitfield(TagStatusWord),
	CmdStatusVout:         Bitfield(TagStatusVout),
	CmdStatusIout:         Bitfield(TagStatusIout),
	CmdStatusInput:        Bitfield(TagStatusInput),
	CmdStatusTemperature:  Bitfield(TagStatusTemperature),
	CmdStatusCml:          Bitfield(TagStatusCml),
	CmdStatusOther:        Bitfield(TagStatusOther),
	CmdStatusMfrSpecific:  Bitfield(TagStatusMfr),
	CmdReadVin:            VoltageMode,
	CmdReadVout:           VoltageMode,
}

// Manufacturer specific commands of the Infineon XDPE19284C
var xdpeMfrCommands = map[byte]Command{
	CmdVoutScaleMonitor: {Name: "VOUT_SCALE_MONITOR", Encoding: VoltageMode},
	0xA0:                {Name: "MFR_VOUT_TRIM_UP_RATE", Encoding: VoltageMode},
	0xA1:                {Name: "MFR_VOUT_TRIM_DOWN_RATE", Encoding: VoltageMode},
	0xA2:                {Name: "MFR_VOUT_TRIM_UP_STEP", Encoding: VoltageMode},
	0xA3:                {Name: "MFR_VOUT_TRIM_DOWN_STEP", Encoding: VoltageMode},
	0xA4:                {Name: "MFR_VOUT_TRIM_UP_MAX", Encoding: VoltageMode},
	0xA5:                {Name: "MFR_VOUT_TRIM_DOWN_MIN", Encoding: VoltageMode},
	0xA6:                {Name: "MFR_VOUT_TRIM_DELAY"},
	0xA7:                {Name: "MFR_VOUT_TRIM_DECAY"},
	0xA8:                {Name: "MFR_VOUT_CMD_MIN", Encoding: VoltageMode},
	0xA9:                {Name: "MFR_VOUT_CMD_MAX", Encoding: VoltageMode},
	0xAA:                {Name: "MFR_VOUT_CMD_STEP", Encoding: VoltageMode},
	0xAB:                {Name: "MFR_VOUT_OFFSET", Encoding: VoltageMode},
	0xAC:                {Name: "MFR_VOUT_SCALE", Encoding: VoltageMode},
	0xAD:                {Name: "MFR_IC_DEVICE_ID"},
	0xAE:                {Name: "MFR_IC_DEVICE_REV"},
	0xB0:                {Name: "MFR_IOUT_OC_FAST_FAULT_RESPONSE"},
	0xB1:                {Name: "MFR_IOUT_OC_FAST_FAULT_LIMIT", Encoding: Linear11},
	0xB2:                {Name: "MFR_IOUT_OC_SLOW_FAULT_RESPONSE"},
	0xB3:                {Name: "MFR_IOUT_OC_SLOW_FAULT_LIMIT", Encoding: Linear11},
	0xB4:                {Name: "MFR_IOUT_OC_WARN_LIMIT_LOOP", Encoding: Linear11},
	0xB5:                {Name: "MFR_IOUT_UC_FAULT_RESPONSE_LOOP"},
	0xB6:                {Name: "MFR_IOUT_UC_FAULT_LIMIT_LOOP", Encoding: Linear11},
	0xB7:                {Name: "MFR_IOUT_OFFSET", Encoding: Linear11},
	0xB8:                {Name: "MFR_IOUT_SCALE", Encoding: Linear11},
	0xB9:                {Name: "MFR_IOUT_CAL_OFFSET_ADC", Encoding: Linear11},
	0xBA:                {Name: "MFR_IOUT_CAL_GAIN_ADC", Encoding: Linear11},
	0xBB:                {Name: "MFR_IOUT_TEMP_COEFF", Encoding: Linear11},
	0xBC:                {Name: "MFR_IOUT_TEMP_COMP"},
	0xC0:                {Name: "MFR_LOOP_POLE_ZERO_CONFIG"},
	0xC1:                {Name: "MFR_LOOP_GAIN_CONFIG"},
	0xC2:                {Name: "MFR_LOOP_PID_CONFIG"},
	0xC3:                {Name: "MFR_LOOP_MISC_CONFIG"},
	0xC4:                {Name: "MFR_LOOP_VOUT_CONFIG"},
	0xC5:                {Name: "MFR_LOOP_IOUT_CONFIG"},
	0xC6:                {Name: "MFR_LOOP_IIN_CONFIG"},
	0xC7:                {Name: "MFR_LOOP_VIN_CONFIG"},
	0xC8:                {Name: "MFR_LOOP_TELEMETRY_CONFIG"},
	0xC9:                {Name: "MFR_LOOP_STATUS_CONFIG"},
	0xCA:                {Name: "MFR_LOOP_FAULT_CONFIG"},
	0xCB:                {Name: "MFR_LOOP_PIN_CONFIG"},
	0xCC:                {Name: "MFR_LOOP_FAN_CONFIG"},
	0xCD:                {Name: "MFR_LOOP_PMBUS_CONFIG"},
	0xCE:                {Name: "MFR_REGISTER_POINTER"},
	0xCF:                {Name: "MFR_LOOP_USER_CONFIG"},
	0xD0:                {Name: "MFR_VOUT_PEAK", Encoding: VoltageMode},
	0xD1:                {Name: "MFR_IOUT_PEAK", Encoding: Linear11},
	0xD2:                {Name: "MFR_VIN_PEAK", Encoding: VoltageMode},
	0xD3:                {Name: "MFR_IIN_PEAK", Encoding: Linear11},
	0xD4:                {Name: "MFR_PIN_PEAK", Encoding: Linear11},
	0xD5:                {Name: "MFR_POUT_PEAK", Encoding: Linear11},
	0xD6:                {Name: "MFR_TEMPERATURE_PEAK", Encoding: Linear11},
	0xD7:                {Name: "MFR_DUTY_CYCLE_PEAK", Encoding: Linear11},
	0xD8:                {Name: "MFR_FREQUENCY_PEAK", Encoding: Linear11},
	0xD9:                {Name: "MFR_FW_VERSION"},
	0xDA:                {Name: "MFR_TRIM_CONTROL"},
	0xDB:                {Name: "MFR_TRIM_SELECT"},
	0xDC:                {Name: "MFR_TRIM_VALUE"},
	0xDD:                {Name: "MFR_TRIM_STATUS"},
	0xDE:                {Name: "MFR_REG_WRITE"},
	0xDF:                {Name: "MFR_REG_READ"},
	0xE0:                {Name: "MFR_SPECIFIC_00"},
	0xE1:                {Name: "MFR_SPECIFIC_01"},
	0xE2:                {Name: "MFR_SPECIFIC_02"},
	0xE3:                {Name: "MFR_SPECIFIC_03"},
	0xE4:                {Name: "MFR_SPECIFIC_04"},
	0xE5:                {Name: "MFR_SPECIFIC_05"},
	0xE6:                {Name: "MFR_SPECIFIC_06"},
	0xE7:                {Name: "MFR_SPECIFIC_07"},
	0xE8:                {Name: "MFR_SPECIFIC_08"},
	0xE9:                {Name: "MFR_SPECIFIC_09"},
	0xEA:                {Name: "MFR_SPECIFIC_0A"},
	0xEB:                {Name: "MFR_SPECIFIC_0B"},
	0xEC:                {Name: "MFR_SPECIFIC_0C"},
	0xED:                {Name: "MFR_SPECIFIC_0D"},
	0xEE:                {Name: "MFR_SPECIFIC_0E"},
	0xEF:                {Name: "MFR_COMMON"},
	0xF0:                {Name: "MFR_QUERY"},
	0xF1:                {Name: "MFR_DEVICE_ID"},
	0xF2:                {Name: "MFR_DEVICE_INFO"},
	0xF3:                {Name: "MFR_RESET"},
	0xF4:                {Name: "MFR_STORE"},
	0xF5:                {Name: "MFR_RESTORE"},
	0xF6:                {Name: "MFR_CRC"},
	0xF7:                {Name: "MFR_PASSWORD"},
	0xF8:                {Name: "MFR_CONFIG_ALL"},
	0xF9:                {Name: "MFR_CONFIG_CRC"},
	0xFA:                {Name: "MFR_PAGE_ALL"},
	0xFB:                {Name: "MFR_OTP_CTRL"},
	0xFC:                {Name: "MFR_OTP_STATUS"},
	0xFD:                {Name: "MFR_FW_COMMAND_DATA"},
	0xFE:                {Name: "MFR_FW_COMMAND"},
}

var (
	// PMBusCommands is the standard command set, only Linear11 values are decoded
	PMBusCommands = NewCommandTable("pmbus", pmbusCommands)
	// SMBusCommands is empty: plain SMBus traffic is shown without names or values
	SMBusCommands = NewCommandTable("smbus", nil)
	// XDPE19284CCommands extends the standard set with the Infineon XDPE19284C
	// manufacturer commands, VOUT_MODE dependent voltages and status flags.
	XDPE19284CCommands = newXDPECommands()
)

func newXDPECommands() *CommandTable {
	var cmds []Command
	for code, enc := range xdpeOverrides {
		cmd := pmbusCommands[code]
		cmd.Code = code
		cmd.Encoding = enc
		cmds = append(cmds, cmd)
	}
	for code, cmd := range xdpeMfrCommands {
		cmd.Code = code
		cmds = append(cmds, cmd)
	}
	return PMBusCommands.Extend("xdpe19284c", cmds...)
}

// CommandTables returns the built-in tables by name
func CommandTables() map[string]*CommandTable {
	return map[string]*CommandTable{
		PMBusCommands.Name:      PMBusCommands,
		SMBusCommands.Name:      SMBusCommands,
		XDPE19284CCommands.Name: XDPE19284CCommands,
	}
}
