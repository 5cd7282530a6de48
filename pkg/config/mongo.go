package config

import (
	"fmt"
	"strings"
	"time"
)

type MongoConfig struct {
	URI        string        `koanf:"uri"`
	Database   string        `koanf:"database"`
	Collection string        `koanf:"collection"`
	Timeout    time.Duration `koanf:"timeout"`
}

func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("mongodb URI is not configured")
	}
	if !isValidMongoURI(c.URI) {
		return fmt.Errorf("mongodb URI must start with 'mongodb://': %s", c.URI)
	}
	if c.Database == "" {
		return fmt.Errorf("mongodb database is not configured")
	}
	if c.Collection == "" {
		return fmt.Errorf("mongodb collection is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("mongodb connect timeout is not configured")
	}
	return nil
}

// isValidMongoURI checks if the provided URI uses a MongoDB connection scheme
func isValidMongoURI(uri string) bool {
	return strings.HasPrefix(uri, "mongodb://") ||
		strings.HasPrefix(uri, "mongodb+srv://")
}
