package config

import (
	"fmt"
	"strings"
)

// SeedConfig controls the sample products created at startup.
type SeedConfig struct {
	Count int  `koanf:"count"`
	Reset bool `koanf:"reset"`
}

func (c *SeedConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Seed ---\n")
	b.WriteString(fmt.Sprintf("  count: %d\n", c.Count))
	b.WriteString(fmt.Sprintf("  reset: %t\n", c.Reset))
	return b.String()
}

func (c *SeedConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("seed count must not be negative: %d", c.Count)
	}
	return nil
}
