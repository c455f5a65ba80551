// Package config resolves menued settings from defaults, an optional YAML
// config file, MENUED_* environment variables and command flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "MENUED"

// Keys understood by Load.
const (
	KeyPort            = "port"
	KeySeed            = "seed"
	KeyWatch           = "watch"
	KeyIndentation     = "indentation"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyTLSCert         = "tls_cert"
	KeyTLSKey          = "tls_key"
)

// Config is the resolved service configuration.
type Config struct {
	Port            int           `mapstructure:"port"`
	Seed            string        `mapstructure:"seed"`
	Watch           bool          `mapstructure:"watch"`
	Indentation     float64       `mapstructure:"indentation"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TLSCert         string        `mapstructure:"tls_cert"`
	TLSKey          string        `mapstructure:"tls_key"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 9876)
	v.SetDefault(KeySeed, "")
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyIndentation, 64)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyShutdownTimeout, 5*time.Second)
	v.SetDefault(KeyTLSCert, "")
	v.SetDefault(KeyTLSKey, "")
}

// DefaultPath is $HOME/.config/menued/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "menued", "config.yaml")
}

// Load resolves the configuration into v and decodes it. An explicit cfgFile
// must exist; the default config file is optional.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	} else if p := DefaultPath(); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil && !missing(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", p, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Indentation <= 0 {
		return fmt.Errorf("invalid indentation %v: must be positive", c.Indentation)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("tls_cert and tls_key must be set together")
	}
	if c.Watch && c.Seed == "" {
		return errors.New("watch requires a seed file")
	}
	return nil
}

func missing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
