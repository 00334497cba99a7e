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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-pmbus/pkg/log"
	"jinr.ru/greenlab/go-pmbus/pkg/pmbus"
)

type TransitionsFile struct {
	AfterAddressWrite string `yaml:"after_address_write" json:"after_address_write"`
	AfterAddressRead  string `yaml:"after_address_read" json:"after_address_read"`
	AfterCommand      string `yaml:"after_command" json:"after_command"`
	AfterData         string `yaml:"after_data" json:"after_data"`
}

type LabelsFile struct {
	Start   string `yaml:"start,omitempty" json:"start,omitempty"`
	Stop    string `yaml:"stop,omitempty" json:"stop,omitempty"`
	Read    string `yaml:"read,omitempty" json:"read,omitempty"`
	Write   string `yaml:"write,omitempty" json:"write,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty" json:"verbose,omitempty"`
}

type CommandFile struct {
	Code     int    `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	Encoding string `yaml:"encoding,omitempty" json:"encoding,omitempty"`
}

// ProfileFile is the on-disk form of a profile:
//
//	name: my-vr
//	transitions:
//	  after_address_write: command
//	  after_address_read: data
//	  after_command: data
//	  after_data: data
//	repeated_start: finalize-if-no-command
//	command_table: pmbus
//	commands:
//	  - {code: 0xD0, name: MFR_VOUT_PEAK, encoding: linear}
type ProfileFile struct {
	Name             string          `yaml:"name" json:"name"`
	Description      string          `yaml:"description,omitempty" json:"description,omitempty"`
	Transitions      TransitionsFile `yaml:"transitions" json:"transitions"`
	RepeatedStart    string          `yaml:"repeated_start" json:"repeated_start"`
	CommandTable     string          `yaml:"command_table,omitempty" json:"command_table,omitempty"`
	Commands         []CommandFile   `yaml:"commands,omitempty" json:"commands,omitempty"`
	Labels           LabelsFile      `yaml:"labels,omitempty" json:"labels,omitempty"`
	Linear11Exponent string          `yaml:"linear11_exponent,omitempty" json:"linear11_exponent,omitempty"`
}

// Profile converts the file form into a validated profile
func (f *ProfileFile) Profile() (*Profile, error) {
	invalid := func(what string, args ...interface{}) error {
		return ErrInvalidProfile{Profile: f.Name, What: fmt.Sprintf(what, args...)}
	}

	p := &Profile{
		Name:        f.Name,
		Description: f.Description,
		Labels: Labels{
			Start:   "Start",
			Stop:    "Stop",
			Read:    "Read",
			Write:   "Write",
			Verbose: f.Labels.Verbose,
		},
	}

	roles := []struct {
		name string
		text string
		role *Role
	}{
		{"after_address_write", f.Transitions.AfterAddressWrite, &p.Transitions.AfterAddressWrite},
		{"after_address_read", f.Transitions.AfterAddressRead, &p.Transitions.AfterAddressRead},
		{"after_command", f.Transitions.AfterCommand, &p.Transitions.AfterCommand},
		{"after_data", f.Transitions.AfterData, &p.Transitions.AfterData},
	}
	for _, r := range roles {
		role, ok := ParseRole(r.text)
		if !ok {
			return nil, invalid("transition %s: unknown role %q", r.name, r.text)
		}
		*r.role = role
	}

	policy, ok := ParseRepeatedStartPolicy(f.RepeatedStart)
	if !ok {
		return nil, invalid("unknown repeated start policy %q", f.RepeatedStart)
	}
	p.RepeatedStart = policy

	base := pmbus.SMBusCommands
	if f.CommandTable != "" {
		base, ok = pmbus.CommandTables()[strings.ToLower(f.CommandTable)]
		if !ok {
			return nil, invalid("unknown command table %q", f.CommandTable)
		}
	}
	var extra []pmbus.Command
	for _, c := range f.Commands {
		if c.Code < 0 || c.Code > 0xFF {
			return nil, invalid("command code %d out of range", c.Code)
		}
		enc, err := pmbus.ParseEncoding(c.Encoding)
		if err != nil {
			return nil, invalid("command 0x%02X: %s", c.Code, err)
		}
		extra = append(extra, pmbus.Command{Code: byte(c.Code), Name: c.Name, Encoding: enc})
	}
	p.Commands = base.Extend(f.Name, extra...)

	exp, err := pmbus.ParseLinear11Exponent(f.Linear11Exponent)
	if err != nil {
		return nil, invalid("%s", err)
	}
	p.Linear11 = exp

	if f.Labels.Start != "" {
		p.Labels.Start = f.Labels.Start
	}
	if f.Labels.Stop != "" {
		p.Labels.Stop = f.Labels.Stop
	}
	if f.Labels.Read != "" {
		p.Labels.Read = f.Labels.Read
	}
	if f.Labels.Write != "" {
		p.Labels.Write = f.Labels.Write
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewProfileFile returns the file form of a profile. Commands are listed in
// full, the base table is left empty.
func NewProfileFile(p *Profile) *ProfileFile {
	f := &ProfileFile{
		Name:        p.Name,
		Description: p.Description,
		Transitions: TransitionsFile{
			AfterAddressWrite: p.Transitions.AfterAddressWrite.String(),
			AfterAddressRead:  p.Transitions.AfterAddressRead.String(),
			AfterCommand:      p.Transitions.AfterCommand.String(),
			AfterData:         p.Transitions.AfterData.String(),
		},
		RepeatedStart: p.RepeatedStart.String(),
		Labels: LabelsFile{
			Start:   p.Labels.Start,
			Stop:    p.Labels.Stop,
			Read:    p.Labels.Read,
			Write:   p.Labels.Write,
			Verbose: p.Labels.Verbose,
		},
		Linear11Exponent: p.Linear11.String(),
	}
	for _, c := range p.Commands.Commands() {
		f.Commands = append(f.Commands, CommandFile{
			Code:     int(c.Code),
			Name:     c.Name,
			Encoding: c.Encoding.String(),
		})
	}
	return f
}

// ParseProfile parses a YAML profile document
func ParseProfile(data []byte) (*Profile, error) {
	f := &ProfileFile{}
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, err
	}
	return f.Profile()
}

func LoadProfile(path string) (*Profile, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadProfilesDir loads every *.yaml and *.yml file of dir. A missing
// directory yields no profiles.
func LoadProfilesDir(dir string) ([]*Profile, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profiles []*Profile
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		p, err := LoadProfile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		log.Debug("Loaded profile %s from %s", p.Name, dir)
		profiles = append(profiles, p)
	}
	sortProfiles(profiles)
	return profiles, nil
}

// ResolveProfile looks the name up among the built-in profiles first and
// then among the profiles stored in dir.
func ResolveProfile(name, dir string) (*Profile, error) {
	if p, err := LookupProfile(name); err == nil {
		return p, nil
	}
	profiles, err := LoadProfilesDir(dir)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ErrUnknownProfile{Name: name}
}

// AllProfiles returns the built-in profiles followed by the ones found in dir
func AllProfiles(dir string) ([]*Profile, error) {
	user, err := LoadProfilesDir(dir)
	if err != nil {
		return nil, err
	}
	return append(Profiles(), user...), nil
}
