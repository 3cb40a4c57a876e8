// paths.go: platform path resolution for kernel spec search and install targets
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variables honored by EnvPathResolver.
const (
	// EnvDataDir overrides the per-user data directory.
	EnvDataDir = "KERNELSPEC_DATA_DIR"

	// EnvSearchPath lists extra search directories, highest priority first,
	// separated by the platform list separator.
	EnvSearchPath = "KERNELSPEC_PATH"

	// EnvSystemPath overrides the system-wide base directories, highest
	// priority first, separated by the platform list separator.
	EnvSystemPath = "KERNELSPEC_SYSTEM_PATH"
)

// kernelsDirName is the registry subdirectory scanned under each search path.
const kernelsDirName = "kernels"

// PathResolver supplies the platform directories kernel spec operations run
// over. Implementations decide where the per-user data directory lives, which
// base directories are searched for "kernels" registries, and where
// system-wide installs land.
type PathResolver interface {
	// UserDataDir returns the per-user data directory.
	UserDataDir() (string, error)

	// SearchPaths returns the base directories that may hold a "kernels"
	// registry, ordered lowest priority first. During discovery a kernel
	// found under a later entry shadows one with the same name found under
	// an earlier entry.
	SearchPaths() []string

	// SystemPrefix returns the preferred system-wide base directory, the
	// destination for non-user installs.
	SystemPrefix() (string, error)
}

// EnvPathResolver resolves paths from the process environment using the
// Jupyter filesystem conventions, so kernel specs installed by other tools in
// that ecosystem are found and specs installed through this library are found
// by them.
//
// Resolution order for the user data directory:
//  1. KERNELSPEC_DATA_DIR, when set
//  2. macOS: ~/Library/Jupyter
//  3. Windows: %APPDATA%\jupyter
//  4. elsewhere: $XDG_DATA_HOME/jupyter, falling back to ~/.local/share/jupyter
type EnvPathResolver struct{}

var _ PathResolver = (*EnvPathResolver)(nil)

// NewEnvPathResolver creates the default environment-backed path resolver.
func NewEnvPathResolver() *EnvPathResolver {
	return &EnvPathResolver{}
}

// UserDataDir implements PathResolver.
func (r *EnvPathResolver) UserDataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Jupyter"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "jupyter"), nil
		}
		return filepath.Join(home, ".jupyter", "data"), nil
	default:
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			dataHome = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(dataHome, "jupyter"), nil
	}
}

// SearchPaths implements PathResolver. The returned slice is ordered lowest
// priority first: system bases, then the user data directory, then any
// KERNELSPEC_PATH entries, so user-installed kernels shadow system ones and
// explicit path entries shadow both.
func (r *EnvPathResolver) SearchPaths() []string {
	paths := make([]string, 0, 4)

	bases := r.systemBases()
	for i := len(bases) - 1; i >= 0; i-- {
		paths = append(paths, bases[i])
	}

	if userDir, err := r.UserDataDir(); err == nil {
		paths = append(paths, userDir)
	}

	if extra := os.Getenv(EnvSearchPath); extra != "" {
		entries := filepath.SplitList(extra)
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i] != "" {
				paths = append(paths, entries[i])
			}
		}
	}

	return paths
}

// SystemPrefix implements PathResolver.
func (r *EnvPathResolver) SystemPrefix() (string, error) {
	bases := r.systemBases()
	if len(bases) == 0 {
		return "", NewNoSystemPrefixError()
	}
	return bases[0], nil
}

// systemBases returns the system-wide base directories, highest priority
// first.
func (r *EnvPathResolver) systemBases() []string {
	if override := os.Getenv(EnvSystemPath); override != "" {
		var bases []string
		for _, entry := range filepath.SplitList(override) {
			if entry != "" {
				bases = append(bases, entry)
			}
		}
		return bases
	}

	if runtime.GOOS == "windows" {
		if programData := os.Getenv("PROGRAMDATA"); programData != "" {
			return []string{filepath.Join(programData, "jupyter")}
		}
		return nil
	}

	return []string{
		filepath.Join("/usr", "local", "share", "jupyter"),
		filepath.Join("/usr", "share", "jupyter"),
	}
}
