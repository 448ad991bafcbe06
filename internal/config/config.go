package config

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the catalog pipeline.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"   yaml:"store"`
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
	Images  ImagesConfig  `mapstructure:"images"  yaml:"images"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// StoreConfig selects and configures the catalog store backend.
type StoreConfig struct {
	Type    string `mapstructure:"type"     yaml:"type"` // fs, mongo
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`

	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// ExtractConfig controls the saved-page extraction run.
type ExtractConfig struct {
	PagesDir string `mapstructure:"pages_dir" yaml:"pages_dir"`
	Limit    int    `mapstructure:"limit"     yaml:"limit"`
}

// ImagesConfig controls variant generation.
type ImagesConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Type:            "fs",
			BaseDir:         "./data",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "catalog",
			MongoCollection: "categories",
		},
		Extract: ExtractConfig{
			PagesDir: "./saved_pages",
		},
		Images: ImagesConfig{
			Workers: 0, // 0 selects min(8, NumCPU)
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
