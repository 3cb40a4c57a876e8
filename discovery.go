// discovery.go: filesystem discovery of installed kernel specs
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"os"
	"path/filepath"
	"strings"
)

// FindKernelSpecs scans every configured search directory and returns a
// mapping of kernel name (lowercased) to resource directory.
//
// Directories are merged in KernelDirs order with later entries overwriting
// earlier ones on name collision, so higher-priority registries shadow
// lower-priority ones. A search directory that does not exist, or is not a
// directory, contributes nothing. When an allow-list is set, entries whose
// names are not on it are dropped after the merge.
//
// Results are never cached; every call re-reads the filesystem.
func (m *KernelSpecManager) FindKernelSpecs() (map[string]string, error) {
	specs := make(map[string]string)

	for _, dir := range m.KernelDirs() {
		kernels, err := listKernelsIn(dir)
		if err != nil {
			return nil, err
		}
		for name, resourceDir := range kernels {
			specs[name] = resourceDir
			m.logger.Debug("Found kernel spec",
				"name", name,
				"resource_dir", resourceDir)
		}
	}

	for name := range specs {
		if !m.isWhitelisted(name) {
			m.logger.Debug("Kernel spec filtered by allow-list", "name", name)
			delete(specs, name)
		}
	}

	return specs, nil
}

// GetKernelSpec resolves a kernel name to a loaded KernelSpec.
//
// Lookup is case-insensitive. When the name is absent from the discovered
// mapping the returned error carries the originally requested name, casing
// intact; IsKernelNotFound and NotFoundKernelName recognize it.
func (m *KernelSpecManager) GetKernelSpec(kernelName string) (*KernelSpec, error) {
	specs, err := m.FindKernelSpecs()
	if err != nil {
		return nil, err
	}

	resourceDir, ok := specs[strings.ToLower(kernelName)]
	if !ok {
		return nil, NewKernelNotFoundError(kernelName)
	}

	return LoadKernelSpec(resourceDir)
}

// GetAllSpecs loads every discovered kernel spec. Specs whose kernel.json
// fails to load are logged and skipped rather than failing the whole call,
// so one broken install does not hide the rest.
func (m *KernelSpecManager) GetAllSpecs() (map[string]*KernelSpec, error) {
	found, err := m.FindKernelSpecs()
	if err != nil {
		return nil, err
	}

	specs := make(map[string]*KernelSpec, len(found))
	for name, resourceDir := range found {
		spec, err := LoadKernelSpec(resourceDir)
		if err != nil {
			m.logger.Warn("Skipping unloadable kernel spec",
				"name", name,
				"resource_dir", resourceDir,
				"error", err)
			continue
		}
		specs[name] = spec
	}

	return specs, nil
}

// listKernelsIn returns the kernel directories directly under dir, keyed by
// lowercased directory name. A missing dir (or a non-directory) yields an
// empty result; a readable-but-failing scan surfaces the OS error as is.
func listKernelsIn(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, nil
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	kernels := make(map[string]string)
	for _, entry := range entries {
		resourceDir := filepath.Join(dir, entry.Name())
		if !isKernelDir(resourceDir) {
			continue
		}
		kernels[strings.ToLower(entry.Name())] = resourceDir
	}
	return kernels, nil
}

// isKernelDir reports whether path is a directory containing a regular file
// named kernel.json. Stat is used deliberately so symlinked kernel
// directories qualify.
func isKernelDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	specInfo, err := os.Stat(filepath.Join(path, kernelSpecFileName))
	return err == nil && specInfo.Mode().IsRegular()
}
