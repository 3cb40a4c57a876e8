// install.go: installing and removing kernel spec directories
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// InstallOptions controls where an install lands and how collisions are
// handled.
type InstallOptions struct {
	// KernelName names the installed kernel. When empty the basename of the
	// source directory is used. The name is lowercased either way.
	KernelName string

	// User selects the per-user registry instead of the system-wide one.
	// System-wide installs typically require elevated privileges.
	User bool

	// Replace removes an existing kernel directory of the same name before
	// copying. Without it a pre-existing destination fails the install.
	Replace bool
}

// InstallKernelSpec installs a kernel spec by copying its directory into the
// user or system registry and returns the destination path.
//
// The copy is not transactional: a failure partway through leaves a partial
// destination tree in place. Filesystem failures surface as raw OS errors,
// so a destination collision without Replace satisfies
// errors.Is(err, fs.ErrExist).
func (m *KernelSpecManager) InstallKernelSpec(sourceDir string, opts InstallOptions) (string, error) {
	kernelName := opts.KernelName
	if kernelName == "" {
		kernelName = filepath.Base(sourceDir)
	}
	kernelName = strings.ToLower(kernelName)

	if err := ValidateKernelName(kernelName); err != nil {
		return "", err
	}

	destination, err := m.destinationDir(kernelName, opts.User)
	if err != nil {
		return "", err
	}

	m.logger.Debug("Installing kernelspec",
		"name", kernelName,
		"source_dir", sourceDir,
		"destination", destination)

	if opts.Replace {
		if info, statErr := os.Stat(destination); statErr == nil && info.IsDir() {
			if err := os.RemoveAll(destination); err != nil {
				return "", err
			}
		}
	}

	if err := copyTree(sourceDir, destination); err != nil {
		return "", err
	}

	m.auditEvent("kernel_spec_installed", "Kernel spec installed", map[string]interface{}{
		"kernel_name":  kernelName,
		"source_dir":   sourceDir,
		"destination":  destination,
		"user_install": opts.User,
		"replace":      opts.Replace,
	})

	return destination, nil
}

// RemoveKernelSpec deletes an installed kernel spec by name and returns the
// path that was removed. A symlinked spec directory is unlinked rather than
// descended into.
func (m *KernelSpecManager) RemoveKernelSpec(kernelName string) (string, error) {
	name := strings.ToLower(kernelName)
	if err := ValidateKernelName(name); err != nil {
		return "", err
	}

	specs, err := m.FindKernelSpecs()
	if err != nil {
		return "", err
	}

	specDir, ok := specs[name]
	if !ok {
		return "", NewKernelNotFoundError(kernelName)
	}

	m.logger.Debug("Removing kernelspec",
		"name", name,
		"resource_dir", specDir)

	info, err := os.Lstat(specDir)
	if err != nil {
		return "", err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		err = os.Remove(specDir)
	} else {
		err = os.RemoveAll(specDir)
	}
	if err != nil {
		return "", err
	}

	m.auditEvent("kernel_spec_removed", "Kernel spec removed", map[string]interface{}{
		"kernel_name":  name,
		"resource_dir": specDir,
	})

	return specDir, nil
}

// destinationDir computes where an install for kernelName lands.
func (m *KernelSpecManager) destinationDir(kernelName string, user bool) (string, error) {
	if user {
		userDir, err := m.UserKernelDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(userDir, kernelName), nil
	}

	prefix, err := m.resolver.SystemPrefix()
	if err != nil {
		return "", err
	}
	return filepath.Join(prefix, kernelsDirName, kernelName), nil
}

// copyTree recursively copies the directory tree rooted at src to dst,
// preserving file permission bits and recreating symlinks. Parents of dst
// are created as needed but dst itself must not exist yet. All failures are
// raw OS errors.
func copyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Mkdir(dst, 0o755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return err
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return err
			}
		case info.IsDir():
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
				return err
			}
		}
	}

	// Directory mode is applied last so a read-only source directory does
	// not block the copy of its own children.
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// copyFile copies a single regular file, creating dst with the given
// permission bits up front.
func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src) // #nosec G304 - paths come from the tree walk above
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) // #nosec G304
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
