// Package config loads trustcheck configuration from a file, the
// environment and command-line flags.
package config

import (
	"time"

	"github.com/pkg/errors"
)

// Config is the root trustcheck configuration.
type Config struct {
	TrustStore TrustStoreConfig `koanf:"truststore"`
	Log        LogConfig        `koanf:"log"`
	Dial       DialConfig       `koanf:"dial"`
}

// TrustStoreConfig locates the keystore and selects how it is read.
type TrustStoreConfig struct {
	// Path of the keystore. Empty means the system trust store.
	Path string `koanf:"path" usage:"keystore file (default: system trust store)"`

	// Type is jks, pkcs12 or pem.
	Type string `koanf:"type" usage:"keystore type: jks, pkcs12 or pem"`

	Password string `koanf:"password" usage:"keystore password"`

	// Algorithm selects the trust manager factory.
	Algorithm string `koanf:"algorithm" usage:"trust manager algorithm"`
}

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level  string `koanf:"level" usage:"log level: debug, info, warn or error"`
	Format string `koanf:"format" usage:"log format: text or json"`
}

// DialConfig configures the dial command.
type DialConfig struct {
	Timeout string `koanf:"timeout" usage:"TLS dial timeout"`
}

// Default returns the configuration used for unset keys.
func Default() Config {
	return Config{
		TrustStore: TrustStoreConfig{
			Type:      "jks",
			Algorithm: "PKIX",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Dial: DialConfig{
			Timeout: "10s",
		},
	}
}

// DialTimeout parses Dial.Timeout.
func (c *Config) DialTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Dial.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid dial timeout %q", c.Dial.Timeout)
	}
	if d <= 0 {
		return 0, errors.Errorf("dial timeout must be positive, got %s", d)
	}

	return d, nil
}
