package engine

import (
	"go.uber.org/zap"
)

// Defaults match the stack budget and prime bound PARI's own examples use.
const (
	DefaultStackSize  uint64 = 100000000
	DefaultMaxPrime   uint64 = 2
	DefaultMinVersion        = ">= 2.11.0"
)

// Config holds configuration for engine creation
type Config struct {
	// Logger overrides the package logger for this engine.
	Logger *zap.Logger

	// MinVersion is a semver constraint the linked PARI must satisfy.
	// Empty disables the check.
	MinVersion string

	// StackSize is the size of PARI's main stack in bytes.
	// 0 means DefaultStackSize.
	StackSize uint64

	// MaxPrime bounds the table of small primes PARI precomputes.
	// 0 means DefaultMaxPrime.
	MaxPrime uint64

	// PrecisionBits is the default precision for transcendental functions.
	// 0 means PARI's DEFAULTPREC.
	PrecisionBits int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		StackSize:  DefaultStackSize,
		MaxPrime:   DefaultMaxPrime,
		MinVersion: DefaultMinVersion,
	}
}

func (c Config) withDefaults() Config {
	if c.StackSize == 0 {
		c.StackSize = DefaultStackSize
	}
	if c.MaxPrime == 0 {
		c.MaxPrime = DefaultMaxPrime
	}
	if c.Logger == nil {
		c.Logger = Logger()
	}
	return c
}
