package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConfigurationType tells the admin UI which editor to render and decides
// how a submitted value is normalised.
type ConfigurationType string

const (
	ConfigurationTypeString  ConfigurationType = "STRING"
	ConfigurationTypeBoolean ConfigurationType = "BOOLEAN"
	ConfigurationTypeEnum    ConfigurationType = "ENUM"
)

var errUnsupportedConfigurationType = errors.New("unsupported configuration type")

// Normalize canonicalises value for the type: booleans become "true" or
// "false", enum values are upper-cased and must be one of options, strings are
// trimmed and must not be empty.
func (t ConfigurationType) Normalize(value string, options []string) (string, error) {
	value = strings.TrimSpace(value)
	switch t {
	case ConfigurationTypeBoolean:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return "true", nil
		case "false", "0", "no", "off":
			return "false", nil
		}
		return "", fmt.Errorf("expects boolean value, got %q", value)
	case ConfigurationTypeEnum:
		upper := strings.ToUpper(value)
		for _, option := range options {
			if upper == option {
				return upper, nil
			}
		}
		return "", fmt.Errorf("expects one of %s", strings.Join(options, ", "))
	case ConfigurationTypeString:
		if value == "" {
			return "", errors.New("requires a value")
		}
		return value, nil
	}
	return "", errUnsupportedConfigurationType
}

// Configuration is one row of the configurations table.
type Configuration struct {
	Key         string            `db:"key" json:"key"`
	Value       string            `db:"value" json:"value"`
	Type        ConfigurationType `db:"type" json:"type"`
	Description *string           `db:"description" json:"description,omitempty"`
	UpdatedBy   *string           `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`
}

// DescriptionOr returns the stored description, or fallback when none was saved.
func (c Configuration) DescriptionOr(fallback string) string {
	if c.Description != nil && strings.TrimSpace(*c.Description) != "" {
		return *c.Description
	}
	return fallback
}
