// simple_api.go: package-level convenience wrappers over a default manager
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

// The functions below construct a fresh default-configured manager per call
// and delegate to it. They carry no shared state; use a KernelSpecManager
// directly when you need custom search paths, an allow-list, logging, or an
// audit trail.

// FindKernelSpecs returns a mapping of kernel names to resource directories
// using the platform default search paths.
func FindKernelSpecs() (map[string]string, error) {
	return NewKernelSpecManager().FindKernelSpecs()
}

// GetKernelSpec returns the KernelSpec for the given kernel name using the
// platform default search paths.
func GetKernelSpec(kernelName string) (*KernelSpec, error) {
	return NewKernelSpecManager().GetKernelSpec(kernelName)
}

// InstallKernelSpec installs a kernel spec directory into the default user
// or system registry and returns the destination path.
func InstallKernelSpec(sourceDir string, opts InstallOptions) (string, error) {
	return NewKernelSpecManager().InstallKernelSpec(sourceDir, opts)
}

// RemoveKernelSpec removes an installed kernel spec by name and returns the
// path that was deleted.
func RemoveKernelSpec(kernelName string) (string, error) {
	return NewKernelSpecManager().RemoveKernelSpec(kernelName)
}

// InstallNativeKernelSpec installs the native kernel's spec through the
// registered installer hook.
//
// Deprecated: native kernel providers ship their own installers; call those
// directly, or install the spec directory with InstallKernelSpec.
func InstallNativeKernelSpec(user bool) error {
	return NewKernelSpecManager().InstallNativeKernelSpec(user)
}
