package config

const (
	defaultConfigPath     = "~/.config/dupedna/config.toml"
	projectConfigFile     = "dupedna.toml"
	defaultCatalogFile    = "digikam4.db"
	defaultSimilarityFile = "similarity.db"
	defaultThreshold      = 90
	defaultStrategy       = "earliest-creation"
	defaultDestination    = "duplicates"
	defaultWorkers        = 1
	defaultScript         = "move_duplicates.sh"
	defaultFormat         = "table"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Catalog: Catalog{
			CatalogFile:    defaultCatalogFile,
			SimilarityFile: defaultSimilarityFile,
		},
		Dedupe: Dedupe{
			Threshold:   defaultThreshold,
			Strategy:    defaultStrategy,
			Destination: defaultDestination,
			Workers:     defaultWorkers,
		},
		Output: Output{
			Script: defaultScript,
			Format: defaultFormat,
		},
		Server: Server{
			Port:           defaultServerPort,
			AllowedOrigins: []string{"*"},
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
