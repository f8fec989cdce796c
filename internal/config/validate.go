package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna/selector"
	"github.com/himanishpuri/DupeDNA/pkg/logger"
)

var validFormats = []string{"table", "json", "yaml"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDedupe(); err != nil {
		return err
	}
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %v, got %q", validFormats, c.Output.Format)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validateDedupe() error {
	if c.Dedupe.Threshold < 0 || c.Dedupe.Threshold > 100 {
		return fmt.Errorf("dedupe.threshold must be between 0 and 100, got %d", c.Dedupe.Threshold)
	}
	if c.Dedupe.Top < 0 {
		return errors.New("dedupe.top must not be negative")
	}
	if c.Dedupe.Workers < 0 {
		return errors.New("dedupe.workers must not be negative")
	}
	if _, err := selector.StrategyByName(c.Dedupe.Strategy); err != nil {
		return fmt.Errorf("dedupe.strategy: %w", err)
	}
	return nil
}

// RequireDBFolder reports an error when no catalog folder was configured.
func (c *Config) RequireDBFolder() error {
	if c.Catalog.DBFolder == "" {
		return fmt.Errorf("catalog.db_folder is required. Pass --db-folder-path, set %s, or edit the config file", envDBFolder)
	}
	return nil
}
