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
	"sort"
	"strings"

	"jinr.ru/greenlab/go-pmbus/pkg/pmbus"
)

// RepeatedStartPolicy decides what a START inside a transaction does
type RepeatedStartPolicy int

const (
	// FinalizeAlways ends the current transaction on every repeated START
	FinalizeAlways RepeatedStartPolicy = iota + 1
	// FinalizeIfNoCommand ends the current transaction only if no command
	// byte was captured, so that "write command, repeated START, read value"
	// stays one transaction
	FinalizeIfNoCommand
)

var policyNames = map[RepeatedStartPolicy]string{
	FinalizeAlways:      "finalize-always",
	FinalizeIfNoCommand: "finalize-if-no-command",
}

func (p RepeatedStartPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("RepeatedStartPolicy(%d)", int(p))
}

func ParseRepeatedStartPolicy(s string) (RepeatedStartPolicy, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// Transitions is the role of the byte following an acknowledged byte
type Transitions struct {
	AfterAddressWrite Role
	AfterAddressRead  Role
	AfterCommand      Role
	AfterData         Role
}

var (
	// PMBus reads carry data right after the address
	PMBusTransitions = Transitions{
		AfterAddressWrite: RoleCommand,
		AfterAddressRead:  RoleData,
		AfterCommand:      RoleData,
		AfterData:         RoleData,
	}
	// SMBus expects a command byte after every address
	SMBusTransitions = Transitions{
		AfterAddressWrite: RoleCommand,
		AfterAddressRead:  RoleCommand,
		AfterCommand:      RoleData,
		AfterData:         RoleData,
	}
)

// Labels are the texts a profile puts into annotations. Verbose byte
// annotations carry a field name ("Addr:40", "Reg:8B (READ_VOUT)") instead
// of bare hex.
type Labels struct {
	Start   string
	Stop    string
	Read    string
	Write   string
	Verbose bool
}

func (l Labels) Direction(d Direction) string {
	if d == Read {
		return l.Read
	}
	return l.Write
}

// Profile is everything that differs between bus variants
type Profile struct {
	Name          string
	Description   string
	Transitions   Transitions
	RepeatedStart RepeatedStartPolicy
	Commands      *pmbus.CommandTable
	Labels        Labels
	Linear11      pmbus.Linear11Exponent
}

func validRole(r Role) bool {
	return r == RoleCommand || r == RoleData
}

// Validate checks that the profile can drive a decoder
func (p *Profile) Validate() error {
	if p == nil {
		return ErrInvalidProfile{What: "nil profile"}
	}
	invalid := func(what string, args ...interface{}) error {
		return ErrInvalidProfile{Profile: p.Name, What: fmt.Sprintf(what, args...)}
	}
	if p.Name == "" {
		return invalid("empty name")
	}
	roles := []struct {
		name string
		role Role
	}{
		{"after_address_write", p.Transitions.AfterAddressWrite},
		{"after_address_read", p.Transitions.AfterAddressRead},
		{"after_command", p.Transitions.AfterCommand},
		{"after_data", p.Transitions.AfterData},
	}
	for _, r := range roles {
		if !validRole(r.role) {
			return invalid("transition %s: %s is not a command or data role", r.name, r.role)
		}
	}
	if _, ok := policyNames[p.RepeatedStart]; !ok {
		return invalid("unknown repeated start policy %s", p.RepeatedStart)
	}
	if _, ok := linear11Rules[p.Linear11]; !ok {
		return invalid("unknown Linear11 exponent rule %s", p.Linear11)
	}
	if p.Commands == nil {
		return invalid("no command table")
	}
	if p.Labels.Read == "" || p.Labels.Write == "" || p.Labels.Start == "" || p.Labels.Stop == "" {
		return invalid("empty label")
	}
	return nil
}

var linear11Rules = map[pmbus.Linear11Exponent]bool{
	pmbus.Linear11TwosComplement: true,
	pmbus.Linear11Offset16:       true,
}

// NextRole returns the role of the byte that follows a byte of the given
// role. For address bytes the direction bit of value is taken into account.
func (p *Profile) NextRole(done Role, value byte) Role {
	switch done {
	case RoleAddress:
		if value&1 == 1 {
			return p.Transitions.AfterAddressRead
		}
		return p.Transitions.AfterAddressWrite
	case RoleCommand:
		return p.Transitions.AfterCommand
	}
	return p.Transitions.AfterData
}

var (
	PMBusProfile = &Profile{
		Name:          "pmbus",
		Description:   "PMBus, reads return data of the last command, Linear11 values",
		Transitions:   PMBusTransitions,
		RepeatedStart: FinalizeIfNoCommand,
		Commands:      pmbus.PMBusCommands,
		Labels:        Labels{Start: "Start", Stop: "Stop", Read: "Read", Write: "Write"},
		Linear11:      pmbus.Linear11Offset16,
	}
	SMBusProfile = &Profile{
		Name:          "smbus",
		Description:   "SMBus, raw addressed transfers without command names",
		Transitions:   SMBusTransitions,
		RepeatedStart: FinalizeAlways,
		Commands:      pmbus.SMBusCommands,
		Labels:        Labels{Start: "Start", Stop: "Stop", Read: "R", Write: "W"},
		Linear11:      pmbus.Linear11Offset16,
	}
	XDPE19284CProfile = &Profile{
		Name:          "xdpe19284c",
		Description:   "Infineon XDPE19284C, manufacturer commands, VOUT_MODE voltages and status flags",
		Transitions:   SMBusTransitions,
		RepeatedStart: FinalizeAlways,
		Commands:      pmbus.XDPE19284CCommands,
		Labels:        Labels{Start: "S", Stop: "P", Read: "Read", Write: "Write", Verbose: true},
		Linear11:      pmbus.Linear11Offset16,
	}
)

var builtinProfiles = map[string]*Profile{
	PMBusProfile.Name:      PMBusProfile,
	SMBusProfile.Name:      SMBusProfile,
	XDPE19284CProfile.Name: XDPE19284CProfile,
}

// Profiles returns the built-in profiles ordered by name
func Profiles() []*Profile {
	result := make([]*Profile, 0, len(builtinProfiles))
	for _, p := range builtinProfiles {
		result = append(result, p)
	}
	sortProfiles(result)
	return result
}

func sortProfiles(profiles []*Profile) {
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
}

// LookupProfile returns a built-in profile by name
func LookupProfile(name string) (*Profile, error) {
	if p, ok := builtinProfiles[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, ErrUnknownProfile{Name: name}
}
