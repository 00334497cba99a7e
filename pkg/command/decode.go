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

package command

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/capture"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
	"jinr.ru/greenlab/go-pmbus/pkg/export"
	"jinr.ru/greenlab/go-pmbus/pkg/log"
	"jinr.ru/greenlab/go-pmbus/pkg/store"
)

const (
	FormatText    = "text"
	FormatSummary = "summary"
	FormatYAML    = "yaml"
	FormatPcap    = "pcap"

	CaptureExt = ".sal"
)

type DecodeOptions struct {
	// Input is a .sal capture or the binary export of the clock line
	Input string
	// SDAInput is the binary export of the data line, unused for .sal captures
	SDAInput   string
	SCLChannel int
	SDAChannel int
	Format     string
	// Output file, "-" or empty for stdout
	Output string
	// Capture, if set, is the name the transactions are stored under
	Capture string
	// Bus is the adapter number written into pcap records
	Bus uint8
	// Rows limits text output to these annotation rows, all rows if empty
	Rows []string
}

// LoadChannels reads the clock and data lines of a capture
func LoadChannels(opts DecodeOptions) (*capture.Channel, *capture.Channel, error) {
	if strings.EqualFold(filepath.Ext(opts.Input), CaptureExt) {
		return capture.ReadCaptureChannels(opts.Input, opts.SCLChannel, opts.SDAChannel)
	}
	if opts.SDAInput == "" {
		return nil, nil, ErrMissingInput{What: "binary export of the data line"}
	}
	scl, err := capture.ReadChannelFile(opts.Input)
	if err != nil {
		return nil, nil, err
	}
	sda, err := capture.ReadChannelFile(opts.SDAInput)
	if err != nil {
		return nil, nil, err
	}
	return scl, sda, nil
}

func newSink(w io.Writer, profile *bus.Profile, opts DecodeOptions, src *capture.EdgeSource) (bus.Sink, error) {
	switch opts.Format {
	case FormatText, "":
		sink := export.NewTextSink(w, false)
		if err := sink.SelectRows(opts.Rows...); err != nil {
			return nil, err
		}
		return sink, nil
	case FormatSummary:
		return export.NewTextSink(w, true), nil
	case FormatYAML:
		return export.NewYAMLSink(w), nil
	case FormatPcap:
		epoch := time.Unix(0, 0)
		if fi, err := os.Stat(opts.Input); err == nil {
			epoch = fi.ModTime()
		}
		return export.NewPcapSink(w, profile, export.PcapOptions{Bus: opts.Bus, Epoch: epoch, Clock: src.Time})
	}
	return nil, ErrUnknownFormat{Format: opts.Format}
}

// Decode runs a decoding session over a capture with the decoder settings
// of cfg and writes the annotations in the requested format.
func Decode(ctx context.Context, cfg *config.Config, opts DecodeOptions) error {
	profile, err := bus.ResolveProfile(cfg.Profile, cfg.ProfilesDir)
	if err != nil {
		return err
	}
	log.Debug("Decoding %s with profile %s", opts.Input, profile.Name)
	decoder, err := bus.NewDecoder(profile, bus.Options{ShowBits: cfg.ShowBits})
	if err != nil {
		return err
	}

	scl, sda, err := LoadChannels(opts)
	if err != nil {
		return err
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = capture.DefaultSampleRate
	}
	src := capture.NewEdgeSource(scl, sda, rate)

	w, err := export.NewWriter(opts.Output)
	if err != nil {
		return err
	}
	sink, err := newSink(w, profile, opts, src)
	if err != nil {
		w.Close()
		return err
	}

	if opts.Capture != "" {
		state, err := store.NewState(ctx, cfg.DBPath)
		if err != nil {
			w.Close()
			return err
		}
		defer state.Close()
		if err := state.DeleteCapture(opts.Capture); err != nil {
			w.Close()
			return err
		}
		sink = bus.MultiSink(sink, &store.Recorder{State: state, Capture: opts.Capture})
	}

	if err := decoder.Run(ctx, src, sink); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
