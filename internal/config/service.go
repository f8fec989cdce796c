package config

import "github.com/himanishpuri/DupeDNA/pkg/dupedna"

// ServiceOptions maps the loaded settings onto service options.
func (c *Config) ServiceOptions() []dupedna.Option {
	return []dupedna.Option{
		dupedna.WithDBFolder(c.Catalog.DBFolder),
		dupedna.WithCatalogFiles(c.Catalog.CatalogFile, c.Catalog.SimilarityFile),
		dupedna.WithDestination(c.Dedupe.Destination),
		dupedna.WithStrategy(c.Dedupe.Strategy),
		dupedna.WithWorkers(c.Dedupe.Workers),
		dupedna.WithSourceRoot(c.Output.SourceRoot),
	}
}

// FindOptions returns the search parameters from the [dedupe] section.
func (c *Config) FindOptions() dupedna.FindOptions {
	return dupedna.FindOptions{
		ThresholdPercent: c.Dedupe.Threshold,
		Top:              c.Dedupe.Top,
	}
}
