// Package config loads the settings of the ccgcheck command from the environment. An optional
// .env file in the working directory is read first and never overrides variables that are
// already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvCompiler = "CCG2XML"
	EnvTimeout  = "CCG2XML_TIMEOUT"
	EnvKeep     = "CCGCHECK_KEEP"

	defaultCompiler = "ccg2xml"
	defaultTimeout  = 2 * time.Minute
)

type Config struct {
	// Compiler is the command line of the ccg2xml compiler. It may contain arguments, as in
	// `python3 ccg2xml.py`.
	Compiler string
	Timeout  time.Duration
	// Keep leaves the regenerated XML files in place after a round trip.
	Keep bool
}

// Load reads envFiles, or .env when none is given, and builds a Config from the environment.
// A missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Cannot load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("Cannot load the environment files: %w", err)
	}

	timeout := defaultTimeout
	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%v must be a duration such as 90s: %w", EnvTimeout, err)
		}
		timeout = d
	}

	keep := false
	if raw := strings.TrimSpace(os.Getenv(EnvKeep)); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%v must be a boolean: %w", EnvKeep, err)
		}
		keep = b
	}

	return &Config{
		Compiler: firstNonEmpty(strings.TrimSpace(os.Getenv(EnvCompiler)), defaultCompiler),
		Timeout:  timeout,
		Keep:     keep,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
