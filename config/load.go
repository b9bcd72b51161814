package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"
)

// Load reads a run file, .hjson/.json or .yaml/.yml, and applies defaults.
// The result is not validated.
func Load(fp string) (*Config, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf(" config.Load %v", err)
	}
	var c Config
	switch strings.ToLower(filepath.Ext(fp)) {
	case ".hjson", ".json":
		err = hjson.Unmarshal(b, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &c)
	default:
		return nil, fmt.Errorf(" config.Load: unknown file type %s", fp)
	}
	if err != nil {
		return nil, fmt.Errorf(" config.Load %s: %v", fp, err)
	}
	c.ApplyDefaults()
	return &c, nil
}

// Save writes the configuration in the format implied by the extension.
func (c *Config) Save(fp string) error {
	var b []byte
	var err error
	switch strings.ToLower(filepath.Ext(fp)) {
	case ".hjson":
		b, err = hjson.Marshal(c)
	case ".yaml", ".yml":
		b, err = yaml.Marshal(c)
	default:
		return fmt.Errorf(" config.Save: unknown file type %s", fp)
	}
	if err != nil {
		return fmt.Errorf(" config.Save %v", err)
	}
	return os.WriteFile(fp, b, 0644)
}
