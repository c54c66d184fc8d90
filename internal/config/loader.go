// Package config provides configuration loading for the reader service.
// Values come from a YAML file, with environment variable overrides applied
// through `env` struct tags.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading from files and environment variables.
type Loader struct {
	envFiles []string
}

// NewLoader creates a configuration loader. Optional .env files are loaded
// before environment overrides are applied; missing files are ignored.
func NewLoader(envFiles ...string) *Loader {
	return &Loader{envFiles: envFiles}
}

// Load reads the YAML file at path into cfg and then applies environment
// variable overrides based on `env` struct tags.
func (l *Loader) Load(path string, cfg any) error {
	for _, f := range l.envFiles {
		// Ignore missing .env files; they are a local convenience only.
		_ = godotenv.Load(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return fmt.Errorf("apply env overrides: %w", err)
	}

	return nil
}

// LoadWithDefaults loads configuration and then calls the config's
// SetDefaults method to fill in any unset values.
func (l *Loader) LoadWithDefaults(path string, cfg interface{ SetDefaults() }) error {
	if err := l.Load(path, cfg); err != nil {
		return err
	}
	cfg.SetDefaults()
	return nil
}

// GetConfigPath returns the configuration file path, honouring the
// CONFIG_PATH environment variable when set.
func GetConfigPath(defaultPath string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultPath
}

// applyEnvOverrides walks the struct and overrides any field carrying an
// `env` tag with the corresponding environment variable, when present.
func applyEnvOverrides(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config must be a pointer to a struct")
	}
	return applyEnvToStruct(v.Elem())
}

func applyEnvToStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := applyEnvToStruct(field); err != nil {
				return err
			}
			continue
		}

		tag := t.Field(i).Tag.Get("env")
		if tag == "" {
			continue
		}

		val, ok := os.LookupEnv(tag)
		if !ok {
			continue
		}

		if err := setField(field, val); err != nil {
			return fmt.Errorf("field %s from env %s: %w", t.Field(i).Name, tag, err)
		}
	}
	return nil
}

func setField(field reflect.Value, val string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(val, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			field.Set(reflect.ValueOf(out))
			return nil
		}
		return fmt.Errorf("unsupported slice type %s", field.Type())
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
