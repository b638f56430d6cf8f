package settings

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Settings holds every tunable of a training run with its default value.
// Fields are addressed by their yaml tag when mutated through a Store.
type Settings struct {
	RunName  string `yaml:"run_name" json:"run_name"`
	Seed     int64  `yaml:"seed" json:"seed"`
	Device   string `yaml:"device,omitempty" json:"device,omitempty"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	OutDir   string `yaml:"out_dir" json:"out_dir"`

	// Command invoked by the shell runner for one training run.
	TrainerCommand string `yaml:"trainer_command,omitempty" json:"trainer_command,omitempty"`

	NbClasses          int `yaml:"nb_classes" json:"nb_classes"`
	TrainPointPerClass int `yaml:"train_point_per_class" json:"train_point_per_class"`
	TestPointPerClass  int `yaml:"test_point_per_class" json:"test_point_per_class"`

	BatchSize    int     `yaml:"batch_size" json:"batch_size"`
	NbEpoch      int     `yaml:"nb_epoch" json:"nb_epoch"`
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
}

// Defaults returns the built-in settings, before any file or env layering.
func Defaults() Settings {
	return Settings{
		Seed:               42,
		Device:             "auto",
		LogLevel:           "info",
		OutDir:             "./out",
		NbClasses:          4,
		TrainPointPerClass: 200,
		TestPointPerClass:  50,
		BatchSize:          4,
		NbEpoch:            4,
		LearningRate:       0.01,
	}
}

var runNamePattern = regexp.MustCompile(`^[\w.-]*$`)

var validLogLevels = map[string]bool{
	"panic": true, "fatal": true, "error": true,
	"warn": true, "warning": true, "info": true,
	"debug": true, "trace": true,
}

// Validate checks the whole settings state and returns the first violation.
func (s *Settings) Validate() error {
	if !runNamePattern.MatchString(s.RunName) {
		return fmt.Errorf("run_name %q contains characters unsafe for a directory name", s.RunName)
	}
	if !validLogLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("unknown log_level %q", s.LogLevel)
	}
	if s.NbClasses <= 0 {
		return fmt.Errorf("nb_classes must be positive, got %d", s.NbClasses)
	}
	if s.TrainPointPerClass <= 0 {
		return fmt.Errorf("train_point_per_class must be positive, got %d", s.TrainPointPerClass)
	}
	if s.TestPointPerClass <= 0 {
		return fmt.Errorf("test_point_per_class must be positive, got %d", s.TestPointPerClass)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", s.BatchSize)
	}
	if s.NbEpoch <= 0 {
		return fmt.Errorf("nb_epoch must be at least 1, got %d", s.NbEpoch)
	}
	if s.LearningRate <= 0 || s.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0, 1], got %g", s.LearningRate)
	}
	return nil
}

// ConfigurationError reports a mutation rejected by validation or an
// unknown/incompatible key. The store state is unchanged when it is returned.
type ConfigurationError struct {
	Key    string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("setting %q rejected value %v: %s", e.Key, e.Value, e.Reason)
}

// ChangeHook observes successful mutations. Observability only: errors are not
// expected and the hook cannot veto a change.
type ChangeHook func(key string, oldValue, newValue interface{})

// Store wraps a Settings value with keyed access and synchronous validation.
// Every Set either commits a valid state or leaves the previous state intact.
type Store struct {
	current Settings
	fields  map[string]int // yaml tag -> struct field index
	hooks   []ChangeHook
}

// NewStore creates a store around an initial settings state.
// The initial state must already be valid.
func NewStore(initial Settings) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("initial settings invalid: %w", err)
	}
	return &Store{current: initial, fields: fieldIndex()}, nil
}

func fieldIndex() map[string]int {
	idx := make(map[string]int)
	t := reflect.TypeOf(Settings{})
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
		if tag != "" && tag != "-" {
			idx[tag] = i
		}
	}
	return idx
}

// OnChange registers a hook called after every committed mutation.
func (s *Store) OnChange(hook ChangeHook) {
	s.hooks = append(s.hooks, hook)
}

// Get returns the current value for a setting key.
func (s *Store) Get(key string) (interface{}, error) {
	i, ok := s.fields[key]
	if !ok {
		return nil, &ConfigurationError{Key: key, Reason: "unknown setting"}
	}
	return reflect.ValueOf(s.current).Field(i).Interface(), nil
}

// Set assigns a value to a setting key and validates the resulting state.
// On any failure the previous state is kept and a *ConfigurationError returned.
func (s *Store) Set(key string, value interface{}) error {
	i, ok := s.fields[key]
	if !ok {
		return &ConfigurationError{Key: key, Value: value, Reason: "unknown setting"}
	}

	previous := s.current
	field := reflect.ValueOf(&s.current).Elem().Field(i)
	converted, err := coerce(value, field.Type())
	if err != nil {
		return &ConfigurationError{Key: key, Value: value, Reason: err.Error()}
	}
	oldValue := field.Interface()
	field.Set(converted)

	if err := s.current.Validate(); err != nil {
		s.current = previous
		return &ConfigurationError{Key: key, Value: value, Reason: err.Error()}
	}

	for _, hook := range s.hooks {
		hook(key, oldValue, converted.Interface())
	}
	return nil
}

// coerce adapts loosely typed sweep values (yaml scalars come back as int,
// float64, bool or string) to the target field type.
func coerce(value interface{}, target reflect.Type) (reflect.Value, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("nil value")
	}
	if v.Type() == target {
		return v, nil
	}
	switch target.Kind() {
	case reflect.Int, reflect.Int64:
		switch v.Kind() {
		case reflect.Int, reflect.Int64:
			return v.Convert(target), nil
		case reflect.Float64:
			f := v.Float()
			if f != float64(int64(f)) {
				return reflect.Value{}, fmt.Errorf("expected integer, got %g", f)
			}
			return reflect.ValueOf(int64(f)).Convert(target), nil
		}
	case reflect.Float64:
		switch v.Kind() {
		case reflect.Int, reflect.Int64:
			return reflect.ValueOf(float64(v.Int())), nil
		case reflect.Float64:
			return v.Convert(target), nil
		}
	case reflect.String:
		if v.Kind() == reflect.String {
			return v.Convert(target), nil
		}
	case reflect.Bool:
		if v.Kind() == reflect.Bool {
			return v.Convert(target), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, target)
}

// Snapshot returns a copy of the current settings state.
func (s *Store) Snapshot() Settings {
	return s.current
}
