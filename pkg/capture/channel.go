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
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/saleae"
)

const (
	// DefaultSampleRate turns transition times in seconds into nanosecond indices
	DefaultSampleRate = 1e9

	// offset of NumTransitions in the digital file header
	numTransitionsOffset = 36
	digitalHeaderSize    = 44
)

// Channel is one digital line: its level at Begin and the times (seconds)
// at which it toggled
type Channel struct {
	Name        string
	Initial     bool
	Begin       float64
	End         float64
	Transitions []float64
}

func NewChannel(name string, df *saleae.DigitalFile) *Channel {
	return &Channel{
		Name:        name,
		Initial:     df.Header.InitialState != 0,
		Begin:       df.Header.Begin,
		End:         df.Header.End,
		Transitions: df.Data,
	}
}

// DigitalFile converts the channel back into the Saleae binary form
func (c *Channel) DigitalFile() *saleae.DigitalFile {
	df := &saleae.DigitalFile{
		Header: saleae.DigitalHeader{
			Info:           saleae.FileHeader{Version: 0, Type: saleae.FileTypeDigital},
			Begin:          c.Begin,
			End:            c.End,
			NumTransitions: uint64(len(c.Transitions)),
		},
		Data: c.Transitions,
	}
	if c.Initial {
		df.Header.InitialState = 1
	}
	return df
}

// ReadChannelFile reads a Logic 2 digital export (digital_N.bin)
func ReadChannelFile(path string) (*Channel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	r := bufio.NewReader(f)
	header, err := r.Peek(digitalHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	// the reader cannot handle files without transitions
	if binary.LittleEndian.Uint64(header[numTransitionsOffset:]) == 0 {
		return nil, ErrEmptyChannel{Name: name}
	}
	df, err := saleae.ReadDigitalFile(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewChannel(name, df), nil
}

// WriteChannelFile stores the channel as a Logic 2 digital export
func WriteChannelFile(path string, c *Channel) error {
	if len(c.Transitions) == 0 {
		return ErrEmptyChannel{Name: c.Name}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := c.DigitalFile().WriteTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCaptureChannels reads two digital channels of a .sal capture
func ReadCaptureChannels(path string, scl, sda int) (sclCh *Channel, sdaCh *Channel, err error) {
	defer func() {
		// the reader panics on channels without transitions
		if r := recover(); r != nil {
			sclCh, sdaCh = nil, nil
			err = fmt.Errorf("%s: %v", path, r)
		}
	}()
	c, err := saleae.ReadCaptureFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	count := len(c.DigitalFiles)
	for _, index := range []int{scl, sda} {
		if index < 0 || index >= count {
			return nil, nil, ErrChannelNotFound{Index: index, Count: count}
		}
	}
	sclCh = NewChannel(fmt.Sprintf("digital_%d", scl), &c.DigitalFiles[scl])
	sdaCh = NewChannel(fmt.Sprintf("digital_%d", sda), &c.DigitalFiles[sda])
	return sclCh, sdaCh, nil
}
