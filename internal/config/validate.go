package config

import (
	"fmt"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Store.Type != "fs" && cfg.Store.Type != "mongo" {
		return fmt.Errorf("store.type must be 'fs' or 'mongo', got %q", cfg.Store.Type)
	}
	if cfg.Store.Type == "fs" && cfg.Store.BaseDir == "" {
		return fmt.Errorf("store.base_dir must be set for the fs store")
	}
	if cfg.Store.Type == "mongo" {
		if cfg.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri must be set for the mongo store")
		}
		if cfg.Store.MongoDatabase == "" || cfg.Store.MongoCollection == "" {
			return fmt.Errorf("store.mongo_database and store.mongo_collection must be set")
		}
	}

	if cfg.Extract.Limit < 0 {
		return fmt.Errorf("extract.limit must be >= 0, got %d", cfg.Extract.Limit)
	}
	if cfg.Images.Workers < 0 {
		return fmt.Errorf("images.workers must be >= 0, got %d", cfg.Images.Workers)
	}
	if cfg.Images.Workers > 64 {
		return fmt.Errorf("images.workers must be <= 64, got %d", cfg.Images.Workers)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}
