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

package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-pmbus/pkg/log"
)

type DecoderConfig struct {
	// Profile is a built-in profile name or the name of a file in ProfilesDir
	Profile  string `yaml:"profile"`
	ShowBits bool   `yaml:"show_bits"`
	// SampleRate in samples per second, 0 takes the rate of the capture
	SampleRate  float64 `yaml:"sample_rate"`
	ProfilesDir string  `yaml:"profiles_dir"`
}

type Config struct {
	LogLevel       string `yaml:"log_level"`
	IP             string `yaml:"ip"`
	ApiPort        int    `yaml:"api_port"`
	DBPath         string `yaml:"db_path"`
	*DecoderConfig `yaml:"decoder"`
	filepath       string
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

// ApiAddress is the listen address of the API server
func (c *Config) ApiAddress() string {
	return fmt.Sprintf("%s:%d", c.IP, c.ApiPort)
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidConfig{What: err.Error()}
	}
	if c.ApiPort <= 0 || c.ApiPort > 65535 {
		return ErrInvalidConfig{What: fmt.Sprintf("api_port %d out of range", c.ApiPort)}
	}
	if c.DecoderConfig == nil {
		return ErrInvalidConfig{What: "decoder section is missing"}
	}
	if c.SampleRate < 0 {
		return ErrInvalidConfig{What: fmt.Sprintf("negative sample_rate %g", c.SampleRate)}
	}
	return nil
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the current values. A missing file
// leaves them untouched.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if os.IsNotExist(err) {
		log.Debug("Config file %s not found, using defaults", c.filepath)
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	return c.Validate()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		IP:       DefaultIP,
		ApiPort:  DefaultApiPort,
		DBPath:   filepath.Join(homeDir(), DBFile),
		DecoderConfig: &DecoderConfig{
			Profile:     DefaultProfile,
			ShowBits:    DefaultShowBits,
			ProfilesDir: filepath.Join(homeDir(), ProfilesDir),
		},
		filepath: DefaultConfigPath(),
	}
}
