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
	"errors"
	"io/ioutil"
	"net"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/bus/bustest"
	"jinr.ru/greenlab/go-pmbus/pkg/capture"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
	"jinr.ru/greenlab/go-pmbus/pkg/srv"
	"jinr.ru/greenlab/go-pmbus/pkg/store"
)

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.SetPath(filepath.Join(dir, config.ConfigFile))
	cfg.DBPath = filepath.Join(dir, config.DBFile)
	cfg.ProfilesDir = filepath.Join(dir, config.ProfilesDir)
	cfg.ShowBits = false
	return cfg
}

// writeExport stores samples as a pair of binary channel exports
func writeExport(t *testing.T, dir string, samples []bus.Sample) (string, string) {
	t.Helper()
	scl, sda := capture.ChannelsFromSamples(samples, capture.DefaultSampleRate)
	sclPath := filepath.Join(dir, "digital_0.bin")
	sdaPath := filepath.Join(dir, "digital_1.bin")
	if err := capture.WriteChannelFile(sclPath, scl); err != nil {
		t.Fatalf("WriteChannelFile: %v", err)
	}
	if err := capture.WriteChannelFile(sdaPath, sda); err != nil {
		t.Fatalf("WriteChannelFile: %v", err)
	}
	return sclPath, sdaPath
}

func TestDecodeSummary(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	samples := append(bustest.WriteWord(0x40, 0x21, 0xE864), bustest.ReadWord(0x40, 0x8B, 0xE864)...)
	sclPath, sdaPath := writeExport(t, dir, samples)
	out := filepath.Join(dir, "out.txt")

	err := Decode(context.Background(), cfg, DecodeOptions{
		Input:    sclPath,
		SDAInput: sdaPath,
		Format:   FormatSummary,
		Output:   out,
		Capture:  "run1",
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"Addr:40(Write) Reg:21 (VOUT_COMMAND) Write:64 E8 (819200.0000)",
		"Addr:40(Read) Reg:8B (READ_VOUT) Read:64 E8 (819200.0000)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %s", len(lines), len(want), data)
	}
	for i := range want {
		if !strings.HasSuffix(lines[i], want[i]) {
			t.Errorf("line %d: got %q, want suffix %q", i, lines[i], want[i])
		}
	}

	state, err := store.NewState(context.Background(), cfg.DBPath)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	defer state.Close()
	records, err := state.GetRecords("run1")
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d stored records, want 2", len(records))
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	sclPath, sdaPath := writeExport(t, dir, bustest.WriteWord(0x40, 0x21, 0xE864))

	err := Decode(context.Background(), cfg, DecodeOptions{Input: sclPath})
	if !errors.As(err, &ErrMissingInput{}) {
		t.Errorf("got %v, want ErrMissingInput", err)
	}
	err = Decode(context.Background(), cfg, DecodeOptions{Input: sclPath, SDAInput: sdaPath, Format: "xml", Output: filepath.Join(dir, "x")})
	if !errors.As(err, &ErrUnknownFormat{}) {
		t.Errorf("got %v, want ErrUnknownFormat", err)
	}
	err = Decode(context.Background(), cfg, DecodeOptions{Input: sclPath, SDAInput: sdaPath, Rows: []string{"wires"}, Output: filepath.Join(dir, "y")})
	if !errors.As(err, &bus.ErrUnknownRow{}) {
		t.Errorf("got %v, want ErrUnknownRow", err)
	}
	cfg.Profile = "nope"
	err = Decode(context.Background(), cfg, DecodeOptions{Input: sclPath, SDAInput: sdaPath})
	if !errors.As(err, &bus.ErrUnknownProfile{}) {
		t.Errorf("got %v, want ErrUnknownProfile", err)
	}
}

func TestApiClient(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	sclPath, sdaPath := writeExport(t, dir, bustest.WriteWord(0x40, 0x21, 0xE864))
	if err := Decode(context.Background(), cfg, DecodeOptions{
		Input: sclPath, SDAInput: sdaPath, Format: FormatYAML, Output: filepath.Join(dir, "out.yaml"), Capture: "run1",
	}); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	state, err := store.NewState(context.Background(), cfg.DBPath)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	defer state.Close()
	s, err := srv.NewApiServer(context.Background(), cfg, state)
	if err != nil {
		t.Fatalf("NewApiServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	host, port, err := net.SplitHostPort(strings.TrimPrefix(ts.URL, "http://"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.IP = host
	cfg.ApiPort, _ = strconv.Atoi(port)
	c := NewApiClient(cfg)

	names, err := c.Captures()
	if err != nil || len(names) != 1 || names[0] != "run1" {
		t.Errorf("Captures: got %v %v, want [run1]", names, err)
	}
	records, err := c.Transactions("run1")
	if err != nil || len(records) != 1 {
		t.Fatalf("Transactions: got %v %v, want one record", records, err)
	}
	if records[0].Name != "VOUT_COMMAND" {
		t.Errorf("got name %q, want VOUT_COMMAND", records[0].Name)
	}
	reg, err := c.RegRead("run1", 0x40, 0x21)
	if err != nil || reg.Value == nil || reg.Value.Number != 819200 {
		t.Errorf("RegRead: got %+v %v", reg, err)
	}
	regs, err := c.RegReadAll("run1")
	if err != nil || len(regs) != 1 {
		t.Errorf("RegReadAll: got %v %v", regs, err)
	}
	if _, err := c.RegRead("run1", 0x40, 0x22); err == nil {
		t.Errorf("RegRead of an unseen register must fail")
	}
	profiles, err := c.Profiles()
	if err != nil || len(profiles) != len(bus.Profiles()) {
		t.Errorf("Profiles: got %v %v", profiles, err)
	}
	if err := c.DeleteCapture("run1"); err != nil {
		t.Errorf("DeleteCapture: %v", err)
	}
	if _, err := c.Transactions("run1"); err == nil {
		t.Errorf("Transactions of a deleted capture must fail")
	}
}
