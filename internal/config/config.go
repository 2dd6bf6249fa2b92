// Package config loads the macro-derive YAML configuration.
//
// The file is optional. Missing fields take their defaults, so an empty file
// and no file at all behave the same.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "macro-derive.yaml"

const (
	defaultVersion      = "1"
	defaultAttribute    = "macro_derive"
	defaultPrefix       = "__TypeMacroAlias"
	defaultSuffixLength = 12
)

// Config is the root of the configuration file.
type Config struct {
	// Version of the file format.
	Version string `yaml:"version" validate:"required,oneof=1"`
	// Requires is a semver constraint on the tool version.
	Requires string `yaml:"requires,omitempty" validate:"omitempty,semver_constraint"`
	// Attribute is the attribute name that marks items for expansion.
	Attribute string `yaml:"attribute" validate:"required,rust_ident"`
	// Alias controls generated alias names and markup.
	Alias AliasConfig `yaml:"alias"`
	// Traits controls trait-list parsing.
	Traits TraitConfig `yaml:"traits"`
}

// AliasConfig configures generated aliases.
type AliasConfig struct {
	Prefix       string `yaml:"prefix" validate:"required,rust_ident"`
	SuffixLength int    `yaml:"suffix_length" validate:"gte=8,lte=26"`
	// Hidden emits #[doc(hidden)] on aliases. Nil means true.
	Hidden *bool `yaml:"hidden,omitempty"`
}

// TraitConfig configures trait-list parsing.
type TraitConfig struct {
	// Strict turns malformed trait names into errors instead of warnings.
	Strict bool `yaml:"strict"`
}

// IsHidden reports whether aliases are marked hidden.
func (a AliasConfig) IsHidden() bool {
	return a.Hidden == nil || *a.Hidden
}

var (
	validate  = newValidator()
	identExpr = regexp.MustCompile(`^(r#)?[A-Za-z_][A-Za-z0-9_]*$`)
)

func newValidator() *validator.Validate {
	v := validator.New()

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("rust_ident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "_" && identExpr.MatchString(s)
	})
	_ = v.RegisterValidation("semver_constraint", func(fl validator.FieldLevel) bool {
		_, err := semver.NewConstraint(fl.Field().String())
		return err == nil
	})

	return v
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// Load reads path, or DefaultFileName when path is empty. A missing default
// file yields Default(); a missing explicit path is an error.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	c, err := LoadFile(DefaultFileName)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return c, err
}

// LoadFile loads, parses and validates a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Parse parses and validates YAML data.
func Parse(data []byte) (*Config, error) {
	var c Config

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := Validate(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.Version == "" {
		c.Version = defaultVersion
	}

	if c.Attribute == "" {
		c.Attribute = defaultAttribute
	}

	if c.Alias.Prefix == "" {
		c.Alias.Prefix = defaultPrefix
	}

	if c.Alias.SuffixLength == 0 {
		c.Alias.SuffixLength = defaultSuffixLength
	}
}

// Validate checks field constraints.
func Validate(c *Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Namespace()+": "+formatValidationError(ve))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "rust_ident":
		return fmt.Sprintf("%q is not an identifier", ve.Value())
	case "semver_constraint":
		return fmt.Sprintf("%q is not a version constraint", ve.Value())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// CheckCompatible reports an error when the running tool version does not
// satisfy the Requires constraint.
func (c *Config) CheckCompatible(toolVersion string) error {
	if c.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
	}

	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("config requires macro-derive %s, running %s", c.Requires, v)
	}

	return nil
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes a Config to the given path.
func WriteFile(c *Config, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
