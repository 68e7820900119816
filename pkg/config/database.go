package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers selectable with database.driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
)

// Dialects supported by the gorm driver.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver        string        `koanf:"driver"`
	Dialect       string        `koanf:"dialect"`
	URL           string        `koanf:"url"`
	Timeout       time.Duration `koanf:"timeout"`
	SlowThreshold time.Duration `koanf:"slowthreshold"`
}

// String returns a string representation of the database configuration with credentials masked.
func (c *DatabaseConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Database ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	if c.Driver == DriverGorm {
		b.WriteString(fmt.Sprintf("  dialect: %s\n", c.Dialect))
	}
	b.WriteString(fmt.Sprintf("  url: %s\n", MaskURL(c.URL)))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
		if !isValidPostgresURL(c.URL) {
			return fmt.Errorf("database URL must start with 'postgres://': %s", MaskURL(c.URL))
		}
	case DriverGorm:
		switch c.Dialect {
		case DialectPostgres:
			if !isValidPostgresURL(c.URL) {
				return fmt.Errorf("database URL must start with 'postgres://': %s", MaskURL(c.URL))
			}
		case DialectMySQL, DialectSQLite:
			if c.URL == "" {
				return fmt.Errorf("database URL is not configured")
			}
		default:
			return fmt.Errorf("unsupported database dialect %q", c.Dialect)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database connect timeout must be greater than 0")
	}
	return nil
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}

// MaskURL hides everything before the host part of a connection string.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	if i := strings.LastIndex(url, "@"); i >= 0 {
		return "****@" + url[i+1:]
	}
	return "****"
}
