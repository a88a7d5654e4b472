package main

import (
	"fmt"
	"time"

	"github.com/nihei9/xml2ccg/config"
)

func loadConfig() (*config.Config, error) {
	if *rootFlags.envFile != "" {
		return config.Load(*rootFlags.envFile)
	}
	return config.Load()
}

func parseTimeout(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("--timeout must be a duration such as 90s: %w", err)
	}
	return d, nil
}
