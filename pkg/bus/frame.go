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

// Role of a byte within a transaction, decided by the assembler state and
// never by the byte content
type Role int

const (
	RoleAddress Role = iota
	RoleCommand
	RoleData
)

var roleNames = map[Role]string{
	RoleAddress: "address",
	RoleCommand: "command",
	RoleData:    "data",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for role, name := range roleNames {
		if name == s {
			return role, true
		}
	}
	return 0, false
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCollectingBits
	PhaseAwaitingAck
)

type FrameKind int

const (
	FrameBit FrameKind = iota
	FrameByte
	FrameAck
)

// Frame is emitted by the FrameAssembler on rising clock edges.
// Bit frames carry the sampled bit in Value, byte frames the assembled byte
// and its role, ack frames set Nack when the receiver did not acknowledge.
type Frame struct {
	Kind  FrameKind
	Start uint64
	End   uint64
	Value byte
	Role  Role
	Nack  bool
}

// FrameAssembler groups clock edges into bits, bytes and acknowledge bits
type FrameAssembler struct {
	profile   *Profile
	phase     Phase
	role      Role
	bitCount  int
	shift     byte
	byteStart uint64
}

func NewFrameAssembler(profile *Profile) *FrameAssembler {
	return &FrameAssembler{profile: profile}
}

func (a *FrameAssembler) Phase() Phase {
	return a.phase
}

func (a *FrameAssembler) Role() Role {
	return a.role
}

// Push feeds one bus event and appends the resulting frames to out
func (a *FrameAssembler) Push(ev Event, out []Frame) []Frame {
	switch ev.Kind {
	case StartCondition:
		a.phase = PhaseCollectingBits
		a.role = RoleAddress
		a.bitCount = 0
		a.shift = 0
	case StopCondition:
		// a partial byte is dropped
		a.phase = PhaseIdle
		a.bitCount = 0
		a.shift = 0
	case RisingClockEdge:
		var bit byte
		if ev.SDA {
			bit = 1
		}
		switch a.phase {
		case PhaseCollectingBits:
			if a.bitCount == 0 {
				a.byteStart = ev.Start
			}
			out = append(out, Frame{Kind: FrameBit, Start: ev.Start, End: ev.End, Value: bit})
			a.shift = a.shift<<1 | bit
			a.bitCount++
			if a.bitCount == 8 {
				out = append(out, Frame{
					Kind:  FrameByte,
					Start: a.byteStart,
					End:   ev.End,
					Value: a.shift,
					Role:  a.role,
				})
				a.phase = PhaseAwaitingAck
			}
		case PhaseAwaitingAck:
			out = append(out, Frame{Kind: FrameAck, Start: ev.Start, End: ev.End, Nack: bit == 1})
			a.role = a.profile.NextRole(a.role, a.shift)
			a.phase = PhaseCollectingBits
			a.bitCount = 0
			a.shift = 0
		}
	}
	return out
}

func (a *FrameAssembler) Reset() {
	a.phase = PhaseIdle
	a.role = RoleAddress
	a.bitCount = 0
	a.shift = 0
	a.byteStart = 0
}
