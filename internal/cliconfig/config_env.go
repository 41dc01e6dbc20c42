package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (KINSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("stream", os.Getenv("KINSHIP_STREAM"), &cfg.Stream)
	s.setString("region", os.Getenv("KINSHIP_REGION"), &cfg.Region)
	s.setString("role-arn", os.Getenv("KINSHIP_ROLE_ARN"), &cfg.RoleARN)
	s.setString("role-name", os.Getenv("KINSHIP_ROLE_NAME"), &cfg.RoleName)
	s.setString("account", os.Getenv("KINSHIP_ACCOUNT"), &cfg.Account)
	s.setString("partition-key", os.Getenv("KINSHIP_PARTITION_KEY"), &cfg.PartitionKey)

	if err := s.setDuration("flush-delay", os.Getenv("KINSHIP_FLUSH_DELAY"), &cfg.FlushDelay); err != nil {
		return err
	}
	if err := s.setDuration("max-flush-delay", os.Getenv("KINSHIP_MAX_FLUSH_DELAY"), &cfg.MaxFlushDelay); err != nil {
		return err
	}
	if err := s.setDuration("poll-delay", os.Getenv("KINSHIP_POLL_DELAY"), &cfg.PollDelay); err != nil {
		return err
	}

	s.setBoolFromString("log-batches", os.Getenv("KINSHIP_LOG_BATCHES"), &cfg.LogBatches)
	s.setBoolFromString("trim-horizon", os.Getenv("KINSHIP_TRIM_HORIZON"), &cfg.TrimHorizon)

	return nil
}
