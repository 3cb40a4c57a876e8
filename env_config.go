// env_config.go: environment variable expansion for configuration values
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// EnvConfigOptions configures environment variable expansion behavior.
//
// Example usage:
//
//	options := EnvConfigOptions{
//	    Prefix:         "KERNELSPEC_",
//	    FailOnMissing:  false,
//	    ValidateValues: true,
//	}
type EnvConfigOptions struct {
	// Prefix tried before the bare variable name (e.g. "KERNELSPEC_")
	Prefix string `json:"prefix" yaml:"prefix"`

	// Whether to fail when a referenced variable resolves to nothing
	FailOnMissing bool `json:"fail_on_missing" yaml:"fail_on_missing"`

	// Whether to validate expanded values for security
	ValidateValues bool `json:"validate_values" yaml:"validate_values"`

	// Default values for undefined environment variables
	Defaults map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// Environment-specific override values
	Overrides map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// DefaultEnvConfigOptions returns production-ready defaults for environment
// expansion: the standard KERNELSPEC_ prefix, missing variables tolerated,
// values validated.
func DefaultEnvConfigOptions() EnvConfigOptions {
	return EnvConfigOptions{
		Prefix:         "KERNELSPEC_",
		FailOnMissing:  false,
		ValidateValues: true,
		Defaults:       make(map[string]string),
		Overrides:      make(map[string]string),
	}
}

// variablePattern matches ${VAR} and ${VAR:-default} placeholders.
var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// ExpandEnvironmentVariables expands ${VAR} placeholders in a configuration
// value.
//
// Supported syntax:
//   - ${VAR} - simple variable expansion
//   - ${VAR:-default} - variable with inline default value
//   - ${PREFIX_VAR} - prefixed variable expansion
//
// A placeholder that resolves to nothing expands to the empty string, or
// fails the whole expansion when FailOnMissing is set.
func ExpandEnvironmentVariables(input string, options EnvConfigOptions) (string, error) {
	if input == "" {
		return input, nil
	}

	var expandErr error
	result := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := variablePattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match // Return original if parsing fails
		}

		varName := submatches[1]
		inlineDefault := ""
		if len(submatches) >= 4 {
			inlineDefault = submatches[3]
		}

		expanded, err := expandSingleEnvironmentVariable(varName, inlineDefault, options)
		if err != nil {
			if expandErr == nil {
				expandErr = err
			}
			return match
		}

		return expanded
	})

	if expandErr != nil {
		return "", expandErr
	}
	return result, nil
}

// expandSingleEnvironmentVariable resolves one variable reference.
//
// Resolution priority:
//  1. Prefixed environment variable
//  2. Unprefixed environment variable
//  3. Configured override value
//  4. Inline default value (from ${VAR:-default} syntax)
//  5. Global default value
//  6. Empty string, or an error when FailOnMissing is set
func expandSingleEnvironmentVariable(varName, inlineDefault string, options EnvConfigOptions) (string, error) {
	prefixedName := options.Prefix + varName
	if value := os.Getenv(prefixedName); value != "" {
		return validateAndSanitizeValue(value, options)
	}

	if value := os.Getenv(varName); value != "" {
		return validateAndSanitizeValue(value, options)
	}

	if value, exists := options.Overrides[varName]; exists {
		return validateAndSanitizeValue(value, options)
	}

	if inlineDefault != "" {
		return validateAndSanitizeValue(inlineDefault, options)
	}

	if value, exists := options.Defaults[varName]; exists {
		return validateAndSanitizeValue(value, options)
	}

	if options.FailOnMissing {
		return "", NewConfigValidationError(fmt.Sprintf("required environment variable not found: %s (also tried %s)", varName, prefixedName), nil)
	}

	return "", nil
}

// validateAndSanitizeValue validates an expanded value before it is spliced
// into configuration: no null bytes, no control characters beyond common
// whitespace, bounded length.
func validateAndSanitizeValue(value string, options EnvConfigOptions) (string, error) {
	if !options.ValidateValues {
		return value, nil // Skip validation if disabled
	}

	if strings.Contains(value, "\x00") {
		return "", NewConfigValidationError("environment variable value contains null byte", nil)
	}

	maxLength := 4096
	if len(value) > maxLength {
		return "", NewConfigValidationError(fmt.Sprintf("environment variable value too long: %d bytes (max %d)", len(value), maxLength), nil)
	}

	for i, r := range value {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return "", NewConfigValidationError(fmt.Sprintf("environment variable contains control character at position %d", i), nil)
		}
	}

	return value, nil
}

// ProcessConfigurationWithEnv expands environment placeholders in the path
// fields of a configuration structure. Only path-valued fields are expanded;
// kernel names on the allow-list are taken literally.
func ProcessConfigurationWithEnv(config interface{}, options EnvConfigOptions) error {
	switch v := config.(type) {
	case *ManagerConfig:
		return processManagerConfigWithEnv(v, options)
	default:
		return nil // Skip unknown types
	}
}

// processManagerConfigWithEnv expands ManagerConfig path fields in place.
func processManagerConfigWithEnv(config *ManagerConfig, options EnvConfigOptions) error {
	var err error

	if config.DataDir != "" {
		config.DataDir, err = ExpandEnvironmentVariables(config.DataDir, options)
		if err != nil {
			return NewConfigValidationError("failed to expand data dir", err)
		}
	}

	if config.UserKernelDir != "" {
		config.UserKernelDir, err = ExpandEnvironmentVariables(config.UserKernelDir, options)
		if err != nil {
			return NewConfigValidationError("failed to expand user kernel dir", err)
		}
	}

	for i, dir := range config.KernelDirs {
		expanded, err := ExpandEnvironmentVariables(dir, options)
		if err != nil {
			return NewConfigValidationError(fmt.Sprintf("failed to expand kernel dir %d", i), err)
		}
		config.KernelDirs[i] = expanded
	}

	if config.Audit.OutputFile != "" {
		config.Audit.OutputFile, err = ExpandEnvironmentVariables(config.Audit.OutputFile, options)
		if err != nil {
			return NewConfigValidationError("failed to expand audit output file", err)
		}
	}

	return nil
}
