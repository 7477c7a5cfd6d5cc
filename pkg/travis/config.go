// Package travis models the `.travis.yml` build manifest format: the
// recognized top-level keys, the build matrix they imply, and the `KEY=VALUE`
// environment lists that partition the matrix.
//
// The package only interprets the manifest; it never executes anything the
// manifest names.  Executing is the CI runner's job, not ours.
package travis

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Config is the typed form of a manifest.  Only the keys listed here are
// recognized; anything else the document carries at the top level ends up in
// Unknown, in document order, for the linter to complain about.
type Config struct {
	Language string      `yaml:"language,omitempty"`
	Cache    *Cache      `yaml:"cache,omitempty"`
	Python   VersionList `yaml:"python,omitempty"`
	Sudo     *Sudo       `yaml:"sudo,omitempty"`
	Env      *EnvConfig  `yaml:"env,omitempty"`

	BeforeInstall CommandList `yaml:"before_install,omitempty"`
	Install       CommandList `yaml:"install,omitempty"`
	Script        CommandList `yaml:"script,omitempty"`
	AfterSuccess  CommandList `yaml:"after_success,omitempty"`

	Matrix *MatrixConfig `yaml:"matrix,omitempty"`

	Unknown []string `yaml:"-"`
}

// Cache is the `cache` key; only the directory-set form is modeled.  The
// directories are a persistence hint to the CI runner: they need not exist.
type Cache struct {
	Directories []string `yaml:"directories"`
}

// Sudo is the legacy `sudo` key.  YAML gives it as a bool or as the string
// "required"; either way it is normalized to its string form.
type Sudo string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Sudo) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		*s = Sudo(strconv.FormatBool(b))
		return nil
	}
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	*s = Sudo(str)
	return nil
}

// EnvConfig is the `env` key.  The long form has `global` and `matrix`
// sub-keys; the short form is a bare list, which means `matrix`.
type EnvConfig struct {
	Global []Env `yaml:"global,omitempty"`
	Matrix []Env `yaml:"matrix,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *EnvConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var short []Env
	if err := unmarshal(&short); err == nil {
		*e = EnvConfig{Matrix: short}
		return nil
	}
	type envConfig EnvConfig // avoid recursing in to this method
	var long envConfig
	if err := unmarshal(&long); err != nil {
		return err
	}
	*e = EnvConfig(long)
	return nil
}

// MatrixConfig is the `matrix` key: explicit rows to add to the expansion,
// rows to remove from it, and rows whose failure the CI runner tolerates.
type MatrixConfig struct {
	Include       []Entry `yaml:"include,omitempty"`
	Exclude       []Entry `yaml:"exclude,omitempty"`
	AllowFailures []Entry `yaml:"allow_failures,omitempty"`
}

// Parse decodes manifest bytes in to a Config.  Unrecognized top-level keys
// are not an error; they are recorded in Config.Unknown so that callers can
// distinguish "invalid YAML" from "valid YAML saying something we don't
// understand".
func Parse(data []byte) (*Config, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("travis.Parse: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("travis.Parse: %w", err)
	}

	for _, item := range doc {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("travis.Parse: non-string top-level key: %v", item.Key)
		}
		if !knownKeys[key] {
			cfg.Unknown = append(cfg.Unknown, key)
		}
	}

	return &cfg, nil
}

var knownKeys = map[string]bool{
	"language":       true,
	"cache":          true,
	"python":         true,
	"sudo":           true,
	"env":            true,
	"before_install": true,
	"install":        true,
	"script":         true,
	"after_success":  true,
	"matrix":         true,
}

// KnownKeys returns the top-level keys that Parse recognizes.
func KnownKeys() []string {
	ret := make([]string, 0, len(knownKeys))
	for key := range knownKeys {
		ret = append(ret, key)
	}
	return ret
}
