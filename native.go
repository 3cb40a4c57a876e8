// native.go: deprecated native-kernel install delegation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import "sync"

// NativeKernelName is the conventional name of the host application's own
// kernel.
const NativeKernelName = "python3"

// NativeKernelInstaller installs the native kernel's spec through the given
// manager. Implementations are provided by the native kernel package itself
// and registered at startup.
type NativeKernelInstaller func(m *KernelSpecManager, user bool) error

var (
	nativeInstallerMu sync.RWMutex
	nativeInstaller   NativeKernelInstaller
)

// RegisterNativeKernelInstaller registers the hook InstallNativeKernelSpec
// delegates to. Passing nil clears the registration.
func RegisterNativeKernelInstaller(installer NativeKernelInstaller) {
	nativeInstallerMu.Lock()
	nativeInstaller = installer
	nativeInstallerMu.Unlock()
}

// InstallNativeKernelSpec installs the spec for the native kernel by
// delegating to the registered NativeKernelInstaller. A deprecation warning
// is logged and the operation still proceeds.
//
// Deprecated: native kernel providers ship their own installers; call those
// directly, or install the spec directory with InstallKernelSpec.
func (m *KernelSpecManager) InstallNativeKernelSpec(user bool) error {
	m.logger.Warn("InstallNativeKernelSpec is deprecated; use the native kernel's own installer")

	nativeInstallerMu.RLock()
	installer := nativeInstaller
	nativeInstallerMu.RUnlock()

	if installer == nil {
		return NewNoNativeInstallerError()
	}

	if err := installer(m, user); err != nil {
		return NewNativeInstallerFailureError(err)
	}
	return nil
}
