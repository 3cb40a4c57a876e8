// Package gokernelspec provides discovery, loading, installation and removal
// of Jupyter-style kernel specifications for Go applications. A kernel spec is
// a directory containing a kernel.json file that describes how to launch a
// language kernel, plus optional resources such as icons.
//
// Key Features:
//   - Kernel spec discovery across user, system and environment-defined paths
//   - Case-insensitive kernel naming with later-path-wins shadowing
//   - Whitelist filtering to restrict the visible kernel set
//   - Safe installation and removal with kernel name validation
//   - Multi-format configuration (JSON, YAML, TOML) with hot reload via Argus
//   - Environment variable expansion with ${VAR} syntax
//   - Comprehensive audit logging and structured error codes
//
// Basic Usage:
//
//	// Create a manager with default search paths
//	manager := gokernelspec.NewKernelSpecManager()
//
//	// Discover all installed kernels
//	kernels, err := manager.FindKernelSpecs()
//	if err != nil {
//		log.Fatal(err)
//	}
//	for name, dir := range kernels {
//		fmt.Printf("%s -> %s\n", name, dir)
//	}
//
//	// Load a specific kernel spec
//	spec, err := manager.GetKernelSpec("python3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(spec.Argv, spec.DisplayName)
//
//	// Install a kernel spec directory for the current user
//	dest, err := manager.InstallKernelSpec("./mykernel", gokernelspec.InstallOptions{User: true})
//
// Search Paths:
// Kernel specs are discovered under "kernels" subdirectories of the Jupyter
// data paths: system locations (/usr/share/jupyter, /usr/local/share/jupyter),
// the per-user data directory, and any directories listed in the
// KERNELSPEC_PATH environment variable. When the same kernel name appears in
// several locations the highest-priority one wins.
//
// Security:
// Kernel names are validated against path traversal and shell metacharacters
// before any filesystem mutation, and all install and remove operations can be
// recorded to a tamper-evident audit trail.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package gokernelspec
