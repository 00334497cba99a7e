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
)

// Sample is one synchronized reading of both bus lines
type Sample struct {
	SCL   bool
	SDA   bool
	Index uint64
}

type EventKind int

const (
	RisingClockEdge EventKind = iota
	StartCondition
	StopCondition
)

func (k EventKind) String() string {
	switch k {
	case RisingClockEdge:
		return "rising-clock"
	case StartCondition:
		return "start"
	case StopCondition:
		return "stop"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a bus event derived from two consecutive samples. It spans from
// the index of the previous sample to the index of the current one. SDA is
// the data level after the transition.
type Event struct {
	Kind  EventKind
	Start uint64
	End   uint64
	SDA   bool
}

// Classify derives the bus event between two consecutive samples.
// START and STOP require the clock held high, a falling clock edge or an
// unchanged clock low produce nothing.
func Classify(prev, curr Sample) (Event, bool) {
	ev := Event{Start: prev.Index, End: curr.Index, SDA: curr.SDA}
	switch {
	case prev.SCL && curr.SCL:
		if prev.SDA && !curr.SDA {
			ev.Kind = StartCondition
			return ev, true
		}
		if !prev.SDA && curr.SDA {
			ev.Kind = StopCondition
			return ev, true
		}
	case !prev.SCL && curr.SCL:
		ev.Kind = RisingClockEdge
		return ev, true
	}
	return Event{}, false
}

// EdgeClassifier keeps the previous sample between calls of Classify.
// The first sample pushed only seeds it.
type EdgeClassifier struct {
	prev   Sample
	seeded bool
}

func (c *EdgeClassifier) Push(s Sample) (Event, bool) {
	if !c.seeded {
		c.prev = s
		c.seeded = true
		return Event{}, false
	}
	ev, ok := Classify(c.prev, s)
	c.prev = s
	return ev, ok
}

func (c *EdgeClassifier) Reset() {
	c.prev = Sample{}
	c.seeded = false
}
