//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements the global environment for the ORAM system.
package env

import (
	"crypto/rand"
	"io"
	"log"
)

// Config defines the global system configuration. It configures
// system operation for all modules. Config must not be modified after
// being passed to any module. It is safe for concurrent use by
// multiple modules as they do not modify it. A nil Config uses the
// defaults.
type Config struct {
	Rand    io.Reader
	Verbose bool
}

// GetRandom returns the source of entropy for Delta, labels, hash
// seeds, and shuffle permutations.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// Debugf logs the message if the configuration is verbose.
func (config *Config) Debugf(format string, a ...interface{}) {
	if config != nil && config.Verbose {
		log.Printf(format, a...)
	}
}
