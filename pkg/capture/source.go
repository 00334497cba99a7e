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

package capture

import (
	"io"
	"math"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
)

// EdgeSource merges the transitions of the clock and data channels into
// bus samples. The first sample holds the initial levels at index 0, every
// following one is taken at a transition of either line. Transitions of
// both lines at the same time make a single sample.
type EdgeSource struct {
	scl     *Channel
	sda     *Channel
	rate    float64
	begin   float64
	i, j    int
	level   bus.Sample
	started bool
}

// NewEdgeSource returns a bus.Source over two channels. A sample rate of 0
// selects DefaultSampleRate.
func NewEdgeSource(scl, sda *Channel, sampleRate float64) *EdgeSource {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &EdgeSource{
		scl:   scl,
		sda:   sda,
		rate:  sampleRate,
		begin: math.Min(scl.Begin, sda.Begin),
		level: bus.Sample{SCL: scl.Initial, SDA: sda.Initial},
	}
}

// Index converts a time in seconds into a sample index
func (s *EdgeSource) Index(t float64) uint64 {
	d := (t - s.begin) * s.rate
	if d <= 0 {
		return 0
	}
	return uint64(math.Round(d))
}

// Time converts a sample index back into seconds since the capture start
func (s *EdgeSource) Time(index uint64) float64 {
	return float64(index) / s.rate
}

func (s *EdgeSource) Next() (bus.Sample, error) {
	if !s.started {
		s.started = true
		return s.level, nil
	}
	haveSCL := s.i < len(s.scl.Transitions)
	haveSDA := s.j < len(s.sda.Transitions)
	if !haveSCL && !haveSDA {
		return bus.Sample{}, io.EOF
	}

	var t float64
	switch {
	case haveSCL && haveSDA:
		t = math.Min(s.scl.Transitions[s.i], s.sda.Transitions[s.j])
	case haveSCL:
		t = s.scl.Transitions[s.i]
	default:
		t = s.sda.Transitions[s.j]
	}
	if haveSCL && s.scl.Transitions[s.i] == t {
		s.level.SCL = !s.level.SCL
		s.i++
	}
	if haveSDA && s.sda.Transitions[s.j] == t {
		s.level.SDA = !s.level.SDA
		s.j++
	}
	s.level.Index = s.Index(t)
	return s.level, nil
}

// ChannelsFromSamples turns a sample sequence back into the two channels it
// was taken from, sample index i lying at i/sampleRate seconds.
func ChannelsFromSamples(samples []bus.Sample, sampleRate float64) (*Channel, *Channel) {
	scl := &Channel{Name: "scl"}
	sda := &Channel{Name: "sda"}
	if len(samples) == 0 {
		return scl, sda
	}
	scl.Initial, sda.Initial = samples[0].SCL, samples[0].SDA
	prev := samples[0]
	for _, s := range samples[1:] {
		t := float64(s.Index) / sampleRate
		if s.SCL != prev.SCL {
			scl.Transitions = append(scl.Transitions, t)
		}
		if s.SDA != prev.SDA {
			sda.Transitions = append(sda.Transitions, t)
		}
		prev = s
	}
	end := float64(samples[len(samples)-1].Index) / sampleRate
	scl.End, sda.End = end, end
	return scl, sda
}
