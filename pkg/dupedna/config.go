package dupedna

const (
	DefaultDestination    = "duplicates"
	DefaultThreshold      = 90
	DefaultOutputScript   = "move_duplicates.sh"
	DefaultCatalogFile    = "digikam4.db"
	DefaultSimilarityFile = "similarity.db"
)

// Config holds everything NewService needs. Nil collaborators get defaults.
type Config struct {
	DBFolder       string
	CatalogFile    string
	SimilarityFile string
	Destination    string
	Strategy       string
	Workers        int
	SourceRoot     string
	Logger         Logger
	Storage        Storage
	Emitter        Emitter
}

// Option configures a Service.
type Option func(*Config)

// WithDBFolder sets the folder holding digikam4.db and similarity.db.
func WithDBFolder(folder string) Option {
	return func(c *Config) {
		c.DBFolder = folder
	}
}

// WithCatalogFiles overrides the catalog file names. Empty names keep the defaults.
func WithCatalogFiles(catalog, similarity string) Option {
	return func(c *Config) {
		if catalog != "" {
			c.CatalogFile = catalog
		}
		if similarity != "" {
			c.SimilarityFile = similarity
		}
	}
}

// WithDestination sets the folder duplicates are moved to.
func WithDestination(dir string) Option {
	return func(c *Config) {
		c.Destination = dir
	}
}

// WithStrategy selects the keep rule by name. An empty name keeps the default.
func WithStrategy(name string) Option {
	return func(c *Config) {
		c.Strategy = name
	}
}

// WithWorkers bounds how many clusters are decided at once.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithSourceRoot prefixes album-relative sources in the generated script.
func WithSourceRoot(dir string) Option {
	return func(c *Config) {
		c.SourceRoot = dir
	}
}

// WithLogger replaces the process-wide logger.
func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithStorage replaces the SQLite catalog reader.
func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithEmitter replaces the bash script writer.
func WithEmitter(emitter Emitter) Option {
	return func(c *Config) {
		c.Emitter = emitter
	}
}

func defaultConfig() *Config {
	return &Config{
		DBFolder:       ".",
		CatalogFile:    DefaultCatalogFile,
		SimilarityFile: DefaultSimilarityFile,
		Destination:    DefaultDestination,
		Workers:        1,
	}
}
