package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config but uses strings for durations to make TOML friendly.
type fileConfig struct {
	Stream        string `toml:"stream"`
	Region        string `toml:"region"`
	RoleARN       string `toml:"role_arn"`
	RoleName      string `toml:"role_name"`
	Account       string `toml:"account"`
	PartitionKey  string `toml:"partition_key"`
	FlushDelay    string `toml:"flush_delay"`
	MaxFlushDelay string `toml:"max_flush_delay"`
	LogBatches    *bool  `toml:"log_batches"`
	TrimHorizon   *bool  `toml:"trim_horizon"`
	PollDelay     string `toml:"poll_delay"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.kinship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".kinship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc fileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("stream", fc.Stream, &cfg.Stream)
	s.setString("region", fc.Region, &cfg.Region)
	s.setString("role-arn", fc.RoleARN, &cfg.RoleARN)
	s.setString("role-name", fc.RoleName, &cfg.RoleName)
	s.setString("account", fc.Account, &cfg.Account)
	s.setString("partition-key", fc.PartitionKey, &cfg.PartitionKey)

	if err := s.setDuration("flush-delay", fc.FlushDelay, &cfg.FlushDelay); err != nil {
		return err
	}
	if err := s.setDuration("max-flush-delay", fc.MaxFlushDelay, &cfg.MaxFlushDelay); err != nil {
		return err
	}
	if err := s.setDuration("poll-delay", fc.PollDelay, &cfg.PollDelay); err != nil {
		return err
	}

	s.setBool("log-batches", fc.LogBatches, &cfg.LogBatches)
	s.setBool("trim-horizon", fc.TrimHorizon, &cfg.TrimHorizon)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
