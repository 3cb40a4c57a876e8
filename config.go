// config.go: manager configuration structure, validation and defaults
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import "fmt"

// ManagerConfig is the on-disk configuration for a KernelSpecManager.
// Every field is optional; zero-valued fields leave the manager's defaults
// in place when applied, so a file may override a single setting.
//
// Example (YAML):
//
//	data_dir: /srv/notebooks/data
//	kernel_dirs:
//	  - /usr/share/jupyter/kernels
//	  - ${HOME}/.local/share/jupyter/kernels
//	whitelist:
//	  - python3
//	  - ir
//	audit:
//	  enabled: true
//	  output_file: /var/log/kernelspec-audit.jsonl
type ManagerConfig struct {
	// DataDir overrides the per-user data directory.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`

	// UserKernelDir overrides the user-level kernel registry directory.
	UserKernelDir string `json:"user_kernel_dir,omitempty" yaml:"user_kernel_dir,omitempty"`

	// KernelDirs overrides the search directories, lowest priority first.
	KernelDirs []string `json:"kernel_dirs,omitempty" yaml:"kernel_dirs,omitempty"`

	// Whitelist restricts discovery to the named kernels. Entries are
	// matched case-insensitively; an empty list allows every kernel.
	Whitelist []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`

	// Audit configures the install/removal audit trail.
	Audit AuditTrailConfig `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// AuditTrailConfig configures the tamper-evident audit trail for registry
// mutations (installs, removals, configuration reloads).
type AuditTrailConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
}

// Validate checks structural and business rules on the configuration:
// search directories must be non-empty strings and allow-list entries must
// be plausible kernel names.
func (c *ManagerConfig) Validate() error {
	for i, dir := range c.KernelDirs {
		if dir == "" {
			return NewConfigValidationError(fmt.Sprintf("kernel dir %d is empty", i), nil)
		}
	}

	for _, name := range c.Whitelist {
		if err := ValidateKernelName(name); err != nil {
			return NewConfigValidationError(fmt.Sprintf("invalid whitelist entry %q", name), err)
		}
	}

	return nil
}

// ApplyDefaults fills configuration gaps that have sensible defaults.
// Currently that is only the audit output file.
func (c *ManagerConfig) ApplyDefaults() {
	if c.Audit.Enabled && c.Audit.OutputFile == "" {
		c.Audit.OutputFile = "kernelspec-audit.jsonl"
	}
}
