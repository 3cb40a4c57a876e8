// config_loader.go: multi-format configuration loading with Argus integration
//
// Format detection and parsing are delegated to Argus, which handles JSON,
// TOML, INI and friends; YAML goes through gopkg.in/yaml.v3 for full spec
// support. Every value is passed through environment expansion before the
// configuration is validated.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"
)

// maxConfigFileSize bounds configuration reads to keep a corrupted or
// malicious file from exhausting memory.
const maxConfigFileSize = int64(10 * 1024 * 1024)

// LoadConfigFromFile loads a ManagerConfig from a configuration file with
// automatic format detection.
//
// Supported formats (by extension): JSON, YAML, TOML, HCL, INI, Properties.
// The file path is validated against traversal and special files, the
// content is size-capped, and ${VAR} placeholders in path fields are
// expanded with the KERNELSPEC_ prefix convention before validation.
//
// Example usage:
//
//	config, err := gokernelspec.LoadConfigFromFile("kernelspec.yaml")
//	if err != nil {
//	    log.Fatalf("Failed to load config: %v", err)
//	}
//	manager := gokernelspec.NewKernelSpecManager()
//	if err := manager.ApplyConfig(&config); err != nil {
//	    log.Fatal(err)
//	}
func LoadConfigFromFile(path string) (ManagerConfig, error) {
	var config ManagerConfig

	securePath, err := validateConfigFilePath(path)
	if err != nil {
		return config, err
	}

	configBytes, err := readConfigFileSecurely(securePath)
	if err != nil {
		return config, err
	}

	format := argus.DetectFormat(securePath)
	if err := parseConfigWithHybridStrategy(configBytes, format, &config); err != nil {
		return config, NewConfigParseError(securePath, err).
			WithContext("format", format.String())
	}

	if err := ProcessConfigurationWithEnv(&config, DefaultEnvConfigOptions()); err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	config.ApplyDefaults()

	return config, nil
}

// validateConfigFilePath normalizes the path and rejects anything that is
// not a plain readable file of reasonable size.
func validateConfigFilePath(path string) (string, error) {
	if path == "" {
		return "", NewConfigPathError(path, "empty file path provided")
	}

	if strings.Contains(path, "\x00") {
		return "", NewConfigPathError(path, "null byte detected in path")
	}

	if strings.Contains(path, "..") {
		return "", NewConfigPathError(path, "path traversal detected")
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", NewConfigFileError(path, "failed to resolve absolute path", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NewConfigNotFoundError(absPath)
		}
		return "", NewConfigFileError(absPath, "cannot access config file", err)
	}

	if !info.Mode().IsRegular() {
		return "", NewConfigPathError(absPath, "config path is not a regular file")
	}

	if info.Size() > maxConfigFileSize {
		return "", NewConfigPathError(absPath, fmt.Sprintf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize))
	}

	return absPath, nil
}

// readConfigFileSecurely reads the validated config file, re-checking that
// it is still a regular non-empty file at read time.
func readConfigFileSecurely(path string) ([]byte, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0) // #nosec G304 - path validated by validateConfigFilePath
	if err != nil {
		return nil, NewConfigFileError(path, "failed to open config file", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, NewConfigFileError(path, "failed to stat config file", err)
	}

	if !info.Mode().IsRegular() {
		return nil, NewConfigPathError(path, "config file is no longer a regular file")
	}
	if info.Size() > maxConfigFileSize {
		return nil, NewConfigPathError(path, "config file size exceeds limit")
	}

	content, err := os.ReadFile(path) // #nosec G304 - path validated by validateConfigFilePath
	if err != nil {
		return nil, NewConfigFileError(path, "failed to read config file content", err)
	}

	if len(content) == 0 {
		return nil, NewConfigFileError(path, "config file is empty", nil)
	}

	return content, nil
}

// parseConfigWithHybridStrategy uses Argus for simple formats but a
// specialized parser for YAML.
//
// Strategy:
//   - YAML: gopkg.in/yaml.v3 (full YAML spec support)
//   - JSON and the rest (TOML, HCL, INI, Properties): Argus parsing into a
//     map, then a JSON round-trip bind onto the typed struct
func parseConfigWithHybridStrategy(configBytes []byte, format argus.ConfigFormat, config *ManagerConfig) error {
	if format == argus.FormatYAML {
		return parseYAMLConfig(configBytes, config)
	}

	configMap, err := argus.ParseConfig(configBytes, format)
	if err != nil {
		return err
	}
	return bindManagerConfig(configMap, config)
}

// parseYAMLConfig parses YAML directly into the typed struct.
func parseYAMLConfig(configBytes []byte, config *ManagerConfig) error {
	return yaml.Unmarshal(configBytes, config)
}

// bindManagerConfig converts an Argus-parsed map to a ManagerConfig via a
// JSON round-trip, keeping one set of field tags authoritative for every
// input format.
func bindManagerConfig(configMap map[string]interface{}, config *ManagerConfig) error {
	if configMap == nil {
		return fmt.Errorf("configuration map is nil")
	}

	jsonBytes, err := json.Marshal(configMap)
	if err != nil {
		return err
	}

	return json.Unmarshal(jsonBytes, config)
}

// CreateSampleConfig writes a starter configuration file showing the
// available settings.
//
// Example:
//
//	if err := gokernelspec.CreateSampleConfig("kernelspec.json"); err != nil {
//	    log.Fatal(err)
//	}
func CreateSampleConfig(filename string) error {
	sampleConfig := ManagerConfig{
		KernelDirs: []string{
			"/usr/share/jupyter/kernels",
			"/usr/local/share/jupyter/kernels",
			"${HOME}/.local/share/jupyter/kernels",
		},
		Whitelist: []string{"python3"},
		Audit: AuditTrailConfig{
			Enabled:    false,
			OutputFile: "kernelspec-audit.jsonl",
		},
	}

	configBytes, err := json.MarshalIndent(sampleConfig, "", "  ")
	if err != nil {
		return NewSpecEncodeError(err)
	}

	return writeConfigFileSecurely(filename, configBytes)
}

// writeConfigFileSecurely writes a configuration file with restrictive
// permissions, creating parent directories as needed.
func writeConfigFileSecurely(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return NewConfigFileError(filename, "failed to create config directory", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return NewConfigFileError(filename, "failed to write config file", err)
	}

	return nil
}
