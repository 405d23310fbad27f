//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/markkurossi/picogram/oram"
)

// Config defines the session configuration file.
//
//	seed = 42
//
//	[network]
//	addr = "127.0.0.1:8080"
//	addr2 = "127.0.0.1:8081"
//
//	[oram]
//	addr_width = 4
//	word_width = 8
//	num_accesses = 256
//	shuffle_interval = 0
//
// Top-level keys must come before the first table.
type Config struct {
	Network Network     `toml:"network"`
	ORAM    oram.Params `toml:"oram"`
	Seed    int64       `toml:"seed"`
}

// Network defines the peer addresses. If Addr2 is set, the session
// uses a dedicated socket for each direction.
type Network struct {
	Addr  string `toml:"addr"`
	Addr2 string `toml:"addr2"`
}

// LoadConfig loads the configuration file into config. Fields not set
// in the file keep their values.
func LoadConfig(file string, config *Config) error {
	md, err := toml.DecodeFile(file, config)
	if err != nil {
		return err
	}
	undecoded := md.Undecoded()
	if len(undecoded) > 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("%s: unknown configuration keys: %s",
			file, strings.Join(keys, ", "))
	}
	return config.ORAM.Validate()
}
