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
	"context"
	"fmt"
	"io"

	"jinr.ru/greenlab/go-pmbus/pkg/log"
	"jinr.ru/greenlab/go-pmbus/pkg/pmbus"
)

type Options struct {
	// ShowBits enables one annotation per data bit
	ShowBits bool
}

// Source delivers samples at the edges of either line. It returns io.EOF
// when the capture is exhausted.
type Source interface {
	Next() (Sample, error)
}

type Sink interface {
	Annotate(a Annotation) error
}

type SinkFunc func(a Annotation) error

func (f SinkFunc) Annotate(a Annotation) error {
	return f(a)
}

type multiSink []Sink

func (m multiSink) Annotate(a Annotation) error {
	for _, s := range m {
		if err := s.Annotate(a); err != nil {
			return err
		}
	}
	return nil
}

// MultiSink passes every annotation to all sinks in order
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

// SliceSource replays samples from memory
type SliceSource struct {
	Samples []Sample
	pos     int
}

func (s *SliceSource) Next() (Sample, error) {
	if s.pos >= len(s.Samples) {
		return Sample{}, io.EOF
	}
	sample := s.Samples[s.pos]
	s.pos++
	return sample, nil
}

// Decoder is a decoding session: it owns the whole pipeline from the edge
// classifier to the formatter and the device mode state. Sessions share
// nothing, a decoder must not be used from several goroutines at once.
type Decoder struct {
	profile   *Profile
	options   Options
	edges     EdgeClassifier
	frames    *FrameAssembler
	txs       *TransactionAggregator
	formatter Formatter
	values    *pmbus.ValueDecoder
	frameBuf  []Frame
}

// NewDecoder returns a session for the profile or ErrInvalidProfile
func NewDecoder(profile *Profile, options Options) (*Decoder, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	log.Debug("New %s decoder, show bits: %t", profile.Name, options.ShowBits)
	return &Decoder{
		profile:   profile,
		options:   options,
		frames:    NewFrameAssembler(profile),
		txs:       NewTransactionAggregator(profile.RepeatedStart),
		formatter: Formatter{Profile: profile},
		values:    pmbus.NewValueDecoder(profile.Linear11),
	}, nil
}

func (d *Decoder) Profile() *Profile {
	return d.profile
}

// DeviceMode returns the device state observed so far
func (d *Decoder) DeviceMode() pmbus.DeviceMode {
	return d.values.Mode
}

// Reset returns the session to its initial state including the device mode
func (d *Decoder) Reset() {
	d.edges.Reset()
	d.frames.Reset()
	d.txs.Reset()
	d.values.Reset()
}

// Push feeds one sample and returns the annotations it completes
func (d *Decoder) Push(s Sample) []Annotation {
	ev, ok := d.edges.Push(s)
	if !ok {
		return nil
	}
	var result []Annotation
	labels := d.profile.Labels

	switch ev.Kind {
	case StartCondition:
		if tx, ok := d.txs.Start(ev); ok {
			result = append(result, d.transaction(tx))
		}
		d.frames.Push(ev, nil)
		result = append(result, Annotation{Start: ev.Start, End: ev.End, Category: CategoryStart, Text: labels.Start})
	case StopCondition:
		d.frames.Push(ev, nil)
		result = append(result, Annotation{Start: ev.Start, End: ev.End, Category: CategoryStop, Text: labels.Stop})
		if tx, ok := d.txs.Stop(ev); ok {
			result = append(result, d.transaction(tx))
		} else {
			log.Debug("Stop at %d: nothing addressed, transaction discarded", ev.End)
		}
	case RisingClockEdge:
		d.frameBuf = d.frames.Push(ev, d.frameBuf[:0])
		for _, f := range d.frameBuf {
			switch f.Kind {
			case FrameBit:
				if d.options.ShowBits {
					result = append(result, Annotation{Start: f.Start, End: f.End, Category: CategoryBit, Text: fmt.Sprintf("%d", f.Value)})
				}
			case FrameByte:
				d.txs.Byte(f)
				result = append(result, d.byteAnnotation(f))
			case FrameAck:
				a := Annotation{Start: f.Start, End: f.End, Category: CategoryAck, Text: "ACK"}
				if f.Nack {
					a.Category = CategoryNack
					a.Text = "NACK"
				}
				result = append(result, a)
			}
		}
	}
	return result
}

func (d *Decoder) transaction(tx Transaction) Annotation {
	rec := d.formatter.Render(tx, d.values)
	return Annotation{
		Start:    tx.StartSample,
		End:      tx.EndSample,
		Category: CategoryTransaction,
		Text:     rec.Summary,
		Record:   &rec,
	}
}

func (d *Decoder) byteAnnotation(f Frame) Annotation {
	labels := d.profile.Labels
	a := Annotation{Start: f.Start, End: f.End}
	switch f.Role {
	case RoleAddress:
		a.Category = CategoryAddrWrite
		if f.Value&1 == 1 {
			a.Category = CategoryAddrRead
		}
		a.Text = fmt.Sprintf("%02X", f.Value>>1)
		if labels.Verbose {
			a.Text = "Addr:" + a.Text
		}
	case RoleCommand:
		a.Category = CategoryReg
		a.Text = fmt.Sprintf("%02X", f.Value)
		if labels.Verbose {
			a.Text = "Reg:" + a.Text
			if cmd, ok := d.profile.Commands.Lookup(f.Value); ok && cmd.Name != "" {
				a.Text += fmt.Sprintf(" (%s)", cmd.Name)
			}
		}
	case RoleData:
		dir := d.txs.Direction()
		a.Category = CategoryDataWrite
		if dir == Read {
			a.Category = CategoryDataRead
		}
		a.Text = fmt.Sprintf("%02X", f.Value)
		if labels.Verbose {
			a.Text = labels.Direction(dir) + ":" + a.Text
		}
	}
	return a
}

// Run pulls samples from src until it is exhausted or ctx is done and
// passes every annotation to sink. Exhausting the source is not an error.
func (d *Decoder) Run(ctx context.Context, src Source, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for _, a := range d.Push(s) {
			if err := sink.Annotate(a); err != nil {
				return err
			}
		}
	}
}
