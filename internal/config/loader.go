package config

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRUSTCHECK_"

// Load builds a Config from, in increasing precedence, the defaults, the
// file at path (skipped when empty), TRUSTCHECK_* environment variables and
// flags that were set on the command line.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key := flagKey(f.Name)
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, errors.Wrap(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	}

	return nil, errors.Errorf("unsupported config file extension %q", filepath.Ext(path))
}

// envKey maps TRUSTCHECK_TRUSTSTORE_PATH to truststore.path.
func envKey(s string) string {
	return sectionKey(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_")
}

var sections = map[string]bool{"truststore": true, "log": true, "dial": true}

// flagKey maps --truststore-path to truststore.path. Flags outside a config
// section yield "".
func flagKey(name string) string {
	key := sectionKey(name, "-")
	section, _, ok := strings.Cut(key, ".")
	if !ok || !sections[section] {
		return ""
	}

	return key
}

// sectionKey turns the first separator into the koanf delimiter and the rest
// into underscores.
func sectionKey(s, sep string) string {
	section, field, ok := strings.Cut(s, sep)
	if !ok {
		return s
	}

	return section + "." + strings.ReplaceAll(field, sep, "_")
}
