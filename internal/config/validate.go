package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Wiki.URL == "" {
		return fmt.Errorf("wiki.url must not be empty")
	}
	if !strings.HasPrefix(c.Wiki.URL, "http://") && !strings.HasPrefix(c.Wiki.URL, "https://") {
		return fmt.Errorf("wiki.url must be an http(s) URL (got %q)", c.Wiki.URL)
	}

	if c.Dump.Path == "" {
		return fmt.Errorf("dump.path must not be empty")
	}

	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be > 0 (got %d)", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must be within [0, max_conns] (got %d)", c.Database.MinConns)
	}

	if c.Analyser.Timeout <= 0 {
		return fmt.Errorf("analyser.timeout must be > 0 (got %v)", c.Analyser.Timeout)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}
