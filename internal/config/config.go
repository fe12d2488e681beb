package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile = "/etc/jwks-issuer/config.yaml"
)

type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Keys   KeysConfig   `yaml:"keys" json:"keys"`
	Tokens TokensConfig `yaml:"tokens" json:"tokens"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Load reads the YAML file at fileName. An empty fileName means
// DefaultFile, which may be absent, in which case only defaults apply.
func Load(fileName string) (*Config, error) {
	explicit := fileName != ""
	if !explicit {
		fileName = DefaultFile
	}

	var cfg Config
	f, err := os.Open(fileName)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file '%s': %w", fileName, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logrus.WithField("file", fileName).Debug("config file not found, using defaults")
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if err := cfg.ValidateAndInitialize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ValidateAndInitialize() error {
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			allLevels := make([]string, 0, len(logrus.AllLevels))
			for _, l := range logrus.AllLevels {
				allLevels = append(allLevels, l.String())
			}
			return fmt.Errorf("log.level '%s' must be one of [%s]", c.Log.Level, strings.Join(allLevels, ", "))
		}
	}
	if err := c.Server.validateAndInitialize(); err != nil {
		return err
	}
	if err := c.Keys.validateAndInitialize(); err != nil {
		return err
	}
	if err := c.Tokens.validateAndInitialize(); err != nil {
		return err
	}
	return nil
}
