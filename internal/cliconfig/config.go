package cliconfig

import (
	"fmt"
	"time"
)

// Config holds CLI configuration for kinship.
type Config struct {
	Stream string

	Region   string
	RoleARN  string
	RoleName string
	Account  string

	PartitionKey  string
	FlushDelay    time.Duration
	MaxFlushDelay time.Duration
	LogBatches    bool

	TrimHorizon bool
	PollDelay   time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FlushDelay:    200 * time.Millisecond,
		MaxFlushDelay: 5 * time.Second,
		PollDelay:     2 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Stream == "" {
		return fmt.Errorf("stream is required")
	}
	if c.Account != "" && c.RoleName == "" {
		return fmt.Errorf("account requires role-name")
	}
	if c.RoleName != "" && c.RoleARN != "" {
		return fmt.Errorf("specify role-name or role-arn, not both")
	}
	if c.FlushDelay <= 0 {
		return fmt.Errorf("flush delay must be positive")
	}
	if c.MaxFlushDelay < c.FlushDelay {
		return fmt.Errorf("max flush delay must be at least the flush delay")
	}
	if c.PollDelay <= 0 {
		return fmt.Errorf("poll delay must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence: a value is only applied when the corresponding flag was not
// set explicitly on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value != "" && !s.changed[flag] {
		*dst = value
	}
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value != nil && !s.changed[flag] {
		*dst = *value
	}
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true"/"1" as true; anything else is false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
