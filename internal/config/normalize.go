package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	envDBFolder     = "DUPEDNA_DB_FOLDER"
	envOutputScript = "DUPEDNA_OUTPUT_SCRIPT"
	envDestination  = "DUPEDNA_DESTINATION"
	envLogLevel     = "LOG_LEVEL"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	if err := c.normalizeDedupe(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeServer()
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := lookupEnv(envDBFolder); ok {
		c.Catalog.DBFolder = value
	}
	if value, ok := lookupEnv(envOutputScript); ok {
		c.Output.Script = value
	}
	if value, ok := lookupEnv(envDestination); ok {
		c.Dedupe.Destination = value
	}
	if value, ok := lookupEnv(envLogLevel); ok {
		c.Logging.Level = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (c *Config) normalizeCatalog() error {
	var err error
	if c.Catalog.DBFolder, err = expandPath(strings.TrimSpace(c.Catalog.DBFolder)); err != nil {
		return fmt.Errorf("catalog.db_folder: %w", err)
	}
	if strings.TrimSpace(c.Catalog.CatalogFile) == "" {
		c.Catalog.CatalogFile = defaultCatalogFile
	}
	if strings.TrimSpace(c.Catalog.SimilarityFile) == "" {
		c.Catalog.SimilarityFile = defaultSimilarityFile
	}
	return nil
}

func (c *Config) normalizeDedupe() error {
	c.Dedupe.Strategy = strings.ToLower(strings.TrimSpace(c.Dedupe.Strategy))
	if c.Dedupe.Strategy == "" {
		c.Dedupe.Strategy = defaultStrategy
	}
	if c.Dedupe.Workers == 0 {
		c.Dedupe.Workers = defaultWorkers
	}
	// The destination ends up inside the script, so it keeps its relative
	// form; only ~ is resolved because the quoted argument would not expand.
	c.Dedupe.Destination = strings.TrimSpace(c.Dedupe.Destination)
	if c.Dedupe.Destination == "" {
		c.Dedupe.Destination = defaultDestination
	}
	var err error
	if c.Dedupe.Destination, err = expandHome(c.Dedupe.Destination); err != nil {
		return fmt.Errorf("dedupe.destination: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if strings.TrimSpace(c.Output.Script) == "" {
		c.Output.Script = defaultScript
	}
	if c.Output.Script, err = expandHome(strings.TrimSpace(c.Output.Script)); err != nil {
		return fmt.Errorf("output.script: %w", err)
	}
	if c.Output.SourceRoot, err = expandHome(strings.TrimSpace(c.Output.SourceRoot)); err != nil {
		return fmt.Errorf("output.source_root: %w", err)
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultFormat
	}
	return nil
}

func (c *Config) normalizeServer() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultServerPort
	}
	origins := make([]string, 0, len(c.Server.AllowedOrigins))
	for _, o := range c.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.Server.AllowedOrigins = origins
}
