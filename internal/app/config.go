package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string   // root fragment
	Profiles   []string // activation order matters
	Process    string
	Attempt    int

	OutputFormat string
	LogFormat    string
	LogLevel     string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Attempt == 0 {
		cfg.Attempt = 1
	}
	if cfg.Attempt < 1 {
		return nil, errors.New("Attempt must be >= 1")
	}
	return &cfg, nil
}
