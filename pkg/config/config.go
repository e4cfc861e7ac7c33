// Package config resolves the runtime settings shared by the command line
// tools: memory size, step limit and tracing.
//
// Values come from .env files first and are then overridden by the process
// environment. Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvMemorySize = "MINICPU_MEMORY_SIZE"
	EnvMaxSteps   = "MINICPU_MAX_STEPS"
	EnvVerbose    = "MINICPU_VERBOSE"

	// DefaultEnvFile is read when Load is called without file names.
	DefaultEnvFile = ".env"
)

const (
	DefaultMemorySize = 256
	DefaultMaxSteps   = 10000
	MaxMemorySize     = 65536
	memoryGranularity = 16
)

type Config struct {
	MemorySize int
	MaxSteps   int
	Verbose    bool
}

func Default() Config {
	return Config{
		MemorySize: DefaultMemorySize,
		MaxSteps:   DefaultMaxSteps,
	}
}

// Load reads the given .env files in order, later files winning, and then
// the environment. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}

	vals := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", f, err)
		}
		maps.Copy(vals, m)
	}
	for _, key := range []string{EnvMemorySize, EnvMaxSteps, EnvVerbose} {
		if v, ok := os.LookupEnv(key); ok {
			vals[key] = v
		}
	}
	return FromMap(vals)
}

// FromMap builds a validated Config from key/value pairs. Absent keys keep
// their defaults.
func FromMap(vals map[string]string) (Config, error) {
	cfg := Default()

	if v, ok := vals[EnvMemorySize]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: invalid integer %q", EnvMemorySize, v)
		}
		cfg.MemorySize = n
	}
	if v, ok := vals[EnvMaxSteps]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: invalid integer %q", EnvMaxSteps, v)
		}
		cfg.MaxSteps = n
	}
	if v, ok := vals[EnvVerbose]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: invalid boolean %q", EnvVerbose, v)
		}
		cfg.Verbose = b
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the memory size is a multiple of 16 between 16 and
// 65536 bytes and that the step limit is positive.
func (c Config) Validate() error {
	if c.MemorySize < memoryGranularity || c.MemorySize > MaxMemorySize || c.MemorySize%memoryGranularity != 0 {
		return fmt.Errorf("memory size must be a multiple of %d between %d and %d, got %d",
			memoryGranularity, memoryGranularity, MaxMemorySize, c.MemorySize)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("step limit must be positive, got %d", c.MaxSteps)
	}
	return nil
}
