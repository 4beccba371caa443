// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/consensys/go-secd/pkg/secd/machine"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DEFAULT_CONFIG_FILE is read (if present) when no configuration file is given
// explicitly.
const DEFAULT_CONFIG_FILE = "secd.toml"

// Config captures settings which can be given in a configuration file, and
// subsequently overridden on the command line.
type Config struct {
	Machine MachineConfig `toml:"machine"`
	Log     LogConfig     `toml:"log"`
	Trace   TraceConfig   `toml:"trace"`
}

// MachineConfig configures how programs are executed.
type MachineConfig struct {
	// Halt when Control is exhausted, rather than failing.
	ImplicitStop bool `toml:"implicit_stop"`
	// Maximum number of steps to execute (or zero for unbounded).
	MaxSteps uint `toml:"max_steps"`
	// Number of steps executed between checks.
	Chunk uint `toml:"chunk"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of the logrus level names (e.g. "debug", "info").
	Level string `toml:"level"`
}

// TraceConfig configures execution tracing.
type TraceConfig struct {
	// Maximum number of steps retained (or zero for all).
	Limit uint `toml:"limit"`
}

// DefaultConfig returns the configuration used in the absence of any
// configuration file.
func DefaultConfig() Config {
	return Config{
		Machine: MachineConfig{Chunk: machine.DEFAULT_CHUNK},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadConfig reads a configuration file, filling in defaults for anything it
// does not set.
func LoadConfig(path string) (Config, error) {
	var config = DefaultConfig()
	//
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("cannot read %s: %w", path, err)
	}
	//
	meta, err := toml.Decode(string(data), &config)
	if err != nil {
		return config, fmt.Errorf("parse error in %s: %w", path, err)
	}
	//
	for _, key := range meta.Undecoded() {
		log.Warnf("ignoring unknown configuration key \"%s\" in %s", key, path)
	}
	//
	if config.Machine.Chunk == 0 {
		return config, fmt.Errorf("invalid configuration in %s: chunk must be positive", path)
	}
	//
	return config, nil
}

// Apply the configuration to logging.
func (c Config) Apply() error {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	//
	log.SetLevel(level)
	//
	return nil
}

// Runtime constructs the machine configuration described.
func (c Config) Runtime() machine.Config {
	return machine.Config{ImplicitStop: c.Machine.ImplicitStop, MaxSteps: c.Machine.MaxSteps}
}

// Determine the configuration for a given command.  This is read from the file
// given by --config (or the default file, if present), after which any flags
// given explicitly take precedence.
func getConfig(cmd *cobra.Command) Config {
	var (
		config = DefaultConfig()
		path   = GetString(cmd, "config")
		err    error
	)
	//
	if path != "" {
		config, err = LoadConfig(path)
	} else if _, serr := os.Stat(DEFAULT_CONFIG_FILE); serr == nil {
		config, err = LoadConfig(DEFAULT_CONFIG_FILE)
	} else if !errors.Is(serr, fs.ErrNotExist) {
		err = serr
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	// Flags override
	if cmd.Flags().Changed("implicit-stop") {
		config.Machine.ImplicitStop = GetFlag(cmd, "implicit-stop")
	}
	//
	if cmd.Flags().Changed("max-steps") {
		config.Machine.MaxSteps = GetUint(cmd, "max-steps")
	}
	//
	if cmd.Flags().Changed("trace-limit") {
		config.Trace.Limit = GetUint(cmd, "trace-limit")
	}
	//
	if GetFlag(cmd, "verbose") {
		config.Log.Level = "debug"
	}
	//
	if err := config.Apply(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return config
}
