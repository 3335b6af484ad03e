// cmd/perfbrief/config.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/mmp/perfbrief/log"
)

const currentConfigVersion = 1

// Config holds the per-user defaults that -save-defaults writes: the home
// airport and the usual weight, plus a manual magnetic variation for pilots
// who fly somewhere the NOAA lookup can't reach.
type Config struct {
	Version     int
	HomeAirport string
	WeightLb    int
	MagVarDeg   *float32
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "perfbrief")
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(lg *log.Logger) error {
	lg.Infof("Saving config to: %s", configFilePath(lg))
	f, err := os.Create(configFilePath(lg))
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

// LoadOrMakeDefaultConfig returns the saved configuration, or a fresh one if
// there is no config file yet. A corrupt file is reported through the error
// return but still yields a usable default config.
func LoadOrMakeDefaultConfig(lg *log.Logger) (*Config, error) {
	fn := configFilePath(lg)
	lg.Infof("Loading config from: %s", fn)

	config := &Config{Version: currentConfigVersion}

	contents, err := os.ReadFile(fn)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	d := json.NewDecoder(bytes.NewReader(contents))
	if err := d.Decode(config); err != nil {
		return &Config{Version: currentConfigVersion}, err
	}
	config.Version = currentConfigVersion
	return config, nil
}
