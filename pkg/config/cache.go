package config

import (
	"fmt"
	"strings"
	"time"
)

type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Addr    string        `koanf:"addr"`
	TTL     time.Duration `koanf:"ttl"`
}

// String returns a string representation of the cache configuration.
func (c *CacheConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Cache ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  address: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  ttl: %s\n", c.TTL))
	return b.String()
}

func (c *CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("cache is enabled but address is not configured")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache is enabled but entry TTL is not configured")
	}
	return nil
}
