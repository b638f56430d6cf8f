package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file looked up in the working directory when no
// explicit path is given.
const DefaultFile = "settings.yaml"

// EnvPrefix namespaces environment overrides, e.g. SWEEP_BATCH_SIZE=8.
const EnvPrefix = "SWEEP_"

// Load layers settings from (last wins): built-in defaults, an optional YAML
// file, then SWEEP_* environment variables. The result is validated once at
// the end so a bad file never reaches a run.
func Load(path string) (Settings, error) {
	s := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No local settings file is fine, defaults apply.
	default:
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	if err := applyEnv(&s); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("loaded settings invalid: %w", err)
	}
	return s, nil
}

func applyEnv(s *Settings) error {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		raw, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(tag))
		if !ok {
			continue
		}
		if err := setFromString(v.Field(i), raw); err != nil {
			return fmt.Errorf("environment override %s%s: %w", EnvPrefix, strings.ToUpper(tag), err)
		}
	}
	return nil
}

func setFromString(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
