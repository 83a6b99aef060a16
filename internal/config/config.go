// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Runtime names accepted by the runtime setting.
const (
	RuntimeAuto   = "auto"
	RuntimeNative = "native"
	RuntimeSim    = "sim"
)

type runtime struct {
	Backend   string `json:"backend" mapstructure:"backend"`
	LeakCheck bool   `json:"leak_check" mapstructure:"leak_check"`
}

type output struct {
	Theme string `json:"theme" mapstructure:"theme"`
	Color bool   `json:"color" mapstructure:"color"`
}

// Config is the configuration struct
type Config struct {
	Runtime runtime `json:"runtime" mapstructure:"runtime"`
	Output  output  `json:"output" mapstructure:"output"`
}

func (c *Config) verify() error {
	switch c.Runtime.Backend {
	case "":
		c.Runtime.Backend = RuntimeAuto
	case RuntimeAuto, RuntimeNative, RuntimeSim:
	default:
		return fmt.Errorf("config: unknown runtime %q (expected %s, %s or %s)",
			c.Runtime.Backend, RuntimeAuto, RuntimeNative, RuntimeSim)
	}
	if c.Output.Theme == "" {
		c.Output.Theme = "nord"
	}
	return nil
}

// Dir returns the directory the configuration file is searched in.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get user home directory: %v", err)
	}
	return filepath.Join(home, ".config", "choco"), nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	return load(viper.GetViper())
}

func load(v *viper.Viper) (*Config, error) {
	var c *Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = &Config{}
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}
