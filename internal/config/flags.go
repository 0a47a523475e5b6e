package config

import (
	"reflect"
	"strings"

	"github.com/spf13/pflag"
)

// RegisterFlags adds a flag for every Config field, named after its koanf
// path with dashes (truststore.path becomes --truststore-path). Defaults
// come from Default, so an unset flag never overrides a lower layer with
// an empty value.
func RegisterFlags(fs *pflag.FlagSet) {
	def := reflect.ValueOf(Default())
	t := def.Type()

	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		prefix := section.Tag.Get("koanf")
		if prefix == "" || section.Type.Kind() != reflect.Struct {
			continue
		}

		for j := 0; j < section.Type.NumField(); j++ {
			field := section.Type.Field(j)
			name := field.Tag.Get("koanf")
			if name == "" || field.Type.Kind() != reflect.String {
				continue
			}

			flagName := prefix + "-" + strings.ReplaceAll(name, "_", "-")
			fs.String(flagName, def.Field(i).Field(j).String(), field.Tag.Get("usage"))
		}
	}
}
