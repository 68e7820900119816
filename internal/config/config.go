// Package config defines the configuration of the product catalog process.
package config

import (
	"errors"
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var (
	_ configloader.Validator = (*Config)(nil)
	_ configloader.Defaulter = (*Config)(nil)
)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Probes     config.ProbesConfig     `koanf:"probes"`
	Seed       config.SeedConfig       `koanf:"seed"`
}

// Defaults runs the in-memory store with ops endpoints on their usual ports.
func (c *Config) Defaults() map[string]any {
	return map[string]any{
		"server.port":                       8080,
		"server.maxheaderbytes":             1 << 20,
		"server.timeout.read":               "5s",
		"server.timeout.write":              "10s",
		"server.timeout.idle":               "60s",
		"server.timeout.readheader":         "2s",
		"database.driver":                   config.DriverMemory,
		"database.dialect":                  config.DialectPostgres,
		"database.timeout":                  "5s",
		"database.slowthreshold":            "200ms",
		"log.level":                         "info",
		"log.format":                        config.LogFormatJSON,
		"pprof.enabled":                     false,
		"pprof.addr":                        "localhost:6060",
		"grpc.port":                         "9090",
		"grpc.reflection":                   false,
		"shutdown.timeout":                  "10s",
		"telemetry.enabled":                 false,
		"telemetry.traces.otlphttp.timeout": "5s",
		"probes.interval":                   "10s",
		"probes.timeout":                    "2s",
		"seed.count":                        0,
		"seed.reset":                        false,
	}
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Probes.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Seed.String())
	return b.String()
}

// Validate checks every section and reports all failures together.
func (c *Config) Validate() error {
	return errors.Join(
		c.HTTPServer.Validate(),
		c.Database.Validate(),
		c.Log.Validate(),
		c.PProf.Validate(),
		c.GRPC.Validate(),
		c.Shutdown.Validate(),
		c.Telemetry.Validate(),
		c.Probes.Validate(),
		c.Seed.Validate(),
	)
}
