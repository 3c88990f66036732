// Package config loads runtime settings from flags, GOPARI_* environment
// variables and an optional YAML or JSON file, validating them against an
// embedded JSON schema. Other formats are rejected by the schema check.
package config

import (
	"encoding/json"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/engine"
	"github.com/wippyai/pari-runtime/errors"
)

// EnvPrefix prefixes every environment variable: GOPARI_STACK_SIZE and so on.
const EnvPrefix = "GOPARI"

// Setting keys.
const (
	KeyStackSize     = "stack_size"
	KeyMaxPrime      = "max_prime"
	KeyPrecision     = "precision"
	KeyRealPrecision = "realprecision"
	KeyMinVersion    = "min_version"
	KeyVerbose       = "verbose"
)

// Settings is the validated configuration.
type Settings struct {
	MinVersion    string `json:"min_version"`
	StackSize     uint64 `json:"stack_size"`
	MaxPrime      uint64 `json:"max_prime"`
	Precision     int    `json:"precision"`
	RealPrecision int    `json:"realprecision"`
	Verbose       bool   `json:"verbose"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	d := engine.DefaultConfig()
	return Settings{
		MinVersion: d.MinVersion,
		StackSize:  d.StackSize,
		MaxPrime:   d.MaxPrime,
	}
}

// New returns a viper instance with defaults and environment binding set
// up. Flags are bound by the caller with BindPFlag.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyStackSize, d.StackSize)
	v.SetDefault(KeyMaxPrime, d.MaxPrime)
	v.SetDefault(KeyPrecision, d.Precision)
	v.SetDefault(KeyRealPrecision, d.RealPrecision)
	v.SetDefault(KeyMinVersion, d.MinVersion)
	v.SetDefault(KeyVerbose, d.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, if any, and returns the validated
// settings. A missing path is not an error; an unreadable or invalid
// file is.
func Load(v *viper.Viper, path string) (Settings, error) {
	if path != "" {
		res, err := ValidateFile(path)
		if err != nil {
			return Settings{}, err
		}
		if err := res.Err(); err != nil {
			return Settings{}, err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Load("read config "+path, err)
		}
	}

	s := Settings{
		MinVersion:    v.GetString(KeyMinVersion),
		StackSize:     v.GetUint64(KeyStackSize),
		MaxPrime:      v.GetUint64(KeyMaxPrime),
		Precision:     v.GetInt(KeyPrecision),
		RealPrecision: v.GetInt(KeyRealPrecision),
		Verbose:       v.GetBool(KeyVerbose),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks s against the schema.
func (s Settings) Validate() error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.PhaseInit, errors.KindInvalidData, err, "encode settings")
	}
	res, err := validateJSON(data)
	if err != nil {
		return err
	}
	return res.Err()
}

// Engine converts s to an engine configuration using log.
func (s Settings) Engine(log *zap.Logger) engine.Config {
	return engine.Config{
		Logger:        log,
		MinVersion:    s.MinVersion,
		StackSize:     s.StackSize,
		MaxPrime:      s.MaxPrime,
		PrecisionBits: s.Precision,
	}
}
