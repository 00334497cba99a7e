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

package cmd

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"jinr.ru/greenlab/go-pmbus/pkg/bus/bustest"
	"jinr.ru/greenlab/go-pmbus/pkg/capture"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(ioutil.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileCommands(t *testing.T) {
	out, err := execute(t, "profile", "list")
	if err != nil {
		t.Fatalf("profile list: %v", err)
	}
	for _, name := range []string{"pmbus", "smbus", "xdpe19284c"} {
		if !strings.Contains(out, name) {
			t.Errorf("profile list lacks %s:\n%s", name, out)
		}
	}

	out, err = execute(t, "profile", "show", "xdpe19284c")
	if err != nil {
		t.Fatalf("profile show: %v", err)
	}
	if !strings.Contains(out, "name: xdpe19284c") {
		t.Errorf("got:\n%s", out)
	}

	if _, err := execute(t, "profile", "show", "nope"); err == nil {
		t.Errorf("profile show of an unknown profile must fail")
	}
}

func TestDecodeCommand(t *testing.T) {
	dir := t.TempDir()
	scl, sda := capture.ChannelsFromSamples(bustest.WriteWord(0x40, 0x21, 0xE864), capture.DefaultSampleRate)
	sclPath := filepath.Join(dir, "digital_0.bin")
	sdaPath := filepath.Join(dir, "digital_1.bin")
	if err := capture.WriteChannelFile(sclPath, scl); err != nil {
		t.Fatal(err)
	}
	if err := capture.WriteChannelFile(sdaPath, sda); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.txt")

	_, err := execute(t, "decode", sclPath, sdaPath, "--profile", "xdpe19284c", "--format", "summary", "-o", outPath)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, err := ioutil.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "Addr:40(Write) Reg:21 (VOUT_COMMAND) Write:64 E8"
	if !strings.Contains(string(data), want) {
		t.Errorf("got %q, want it to contain %q", data, want)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		out, err := execute(t, "completion", shell)
		if err != nil || len(out) == 0 {
			t.Errorf("completion %s: got %d bytes, %v", shell, len(out), err)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Errorf("completion for tcsh must fail")
	}
}
