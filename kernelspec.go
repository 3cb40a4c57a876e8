// kernelspec.go: the KernelSpec type and kernel.json loading
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// kernelSpecFileName is the descriptor every kernel directory must contain.
const kernelSpecFileName = "kernel.json"

// KernelSpec describes one launchable kernel: the command template to start
// it, a human-readable label, the language it executes, and any extra
// environment variables, plus the directory the descriptor was loaded from.
//
// The four descriptor fields map one-to-one onto kernel.json keys. Unknown
// keys in the file are ignored, and missing keys leave the field at its zero
// value. ResourceDir is set at construction and never serialized.
type KernelSpec struct {
	// Argv is the launch command template.
	Argv []string `json:"argv"`

	// DisplayName is the human-readable kernel label.
	DisplayName string `json:"display_name"`

	// Language identifies the language the kernel executes.
	Language string `json:"language"`

	// Env holds extra environment variables set when the kernel is launched.
	Env map[string]string `json:"env"`

	// ResourceDir is the absolute path of the directory holding kernel.json
	// and any auxiliary resources (icons, scripts).
	ResourceDir string `json:"-"`
}

// LoadKernelSpec reads <resourceDir>/kernel.json and constructs a KernelSpec
// with ResourceDir set to the absolute form of resourceDir.
//
// A missing or unreadable file yields a spec read error and invalid JSON
// yields a spec parse error; both carry the underlying cause.
func LoadKernelSpec(resourceDir string) (*KernelSpec, error) {
	absDir, err := filepath.Abs(resourceDir)
	if err != nil {
		return nil, NewSpecReadError(resourceDir, err)
	}

	specPath := filepath.Join(absDir, kernelSpecFileName)
	data, err := os.ReadFile(specPath) // #nosec G304 - path is rooted in the caller-supplied resource dir
	if err != nil {
		return nil, NewSpecReadError(absDir, err)
	}

	var spec KernelSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, NewSpecParseError(specPath, err)
	}

	spec.ResourceDir = absDir
	return &spec, nil
}

// ToMap returns the serializable form of the spec: exactly the four keys
// argv, env, display_name and language. ResourceDir is intentionally
// excluded. Nil argv and env are emitted as empty rather than null so the
// output is always a complete descriptor.
func (s *KernelSpec) ToMap() map[string]any {
	argv := s.Argv
	if argv == nil {
		argv = []string{}
	}
	env := s.Env
	if env == nil {
		env = map[string]string{}
	}

	return map[string]any{
		"argv":         argv,
		"env":          env,
		"display_name": s.DisplayName,
		"language":     s.Language,
	}
}

// ToJSON returns ToMap encoded as a JSON object.
func (s *KernelSpec) ToJSON() (string, error) {
	data, err := json.Marshal(s.ToMap())
	if err != nil {
		return "", NewSpecEncodeError(err)
	}
	return string(data), nil
}
