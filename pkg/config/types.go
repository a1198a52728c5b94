// Package config provides configuration loading and validation for castclean.
package config

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// ExtraFilters are exact output payloads removed in addition to the defaults.
	ExtraFilters []string `yaml:"extra_filters,omitempty"`

	// DisableRebase keeps the original timestamps.
	DisableRebase bool `yaml:"disable_rebase,omitempty"`

	// Precision is the number of decimal digits kept when rebasing.
	Precision *int `yaml:"precision,omitempty"`

	// TrimTrailing overrides the payloads trimmed from the end of a recording.
	TrimTrailing []string `yaml:"trim_trailing,omitempty"`
}

// RebasePrecision returns the configured precision or the default.
func (c *Config) RebasePrecision() int {
	if c.Precision == nil {
		return DefaultPrecision
	}
	return *c.Precision
}
