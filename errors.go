// errors.go: structured error definitions for the go-kernelspec system
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"errors"

	goerrors "github.com/agilira/go-errors"
)

// Error codes for the go-kernelspec system
const (
	// Kernel spec errors (1000-1099)
	ErrCodeInvalidKernelName = "KERNELSPEC_1001"
	ErrCodeKernelNotFound    = "KERNELSPEC_1002"
	ErrCodeSpecReadError     = "KERNELSPEC_1003"
	ErrCodeSpecParseError    = "KERNELSPEC_1004"
	ErrCodeSpecEncodeError   = "KERNELSPEC_1005"

	// Installation errors (1100-1199)
	ErrCodeInstallSourceError     = "INSTALL_1101"
	ErrCodeInstallTargetError     = "INSTALL_1102"
	ErrCodeNoSystemPrefix         = "INSTALL_1103"
	ErrCodeNoNativeInstaller      = "INSTALL_1104"
	ErrCodeNativeInstallerFailure = "INSTALL_1105"

	// Configuration management errors (1700-1799)
	ErrCodeConfigNotFound        = "CONFIG_1701"
	ErrCodeConfigParseError      = "CONFIG_1702"
	ErrCodeConfigValidationError = "CONFIG_1703"
	ErrCodeConfigWatcherError    = "CONFIG_1704"
	ErrCodeConfigPathError       = "CONFIG_1705"
	ErrCodeConfigFileError       = "CONFIG_1706"

	// Security errors (1800-1899)
	ErrCodeSecurityValidationError = "SECURITY_1801"
	ErrCodePathTraversalError      = "SECURITY_1802"
	ErrCodeAuditError              = "SECURITY_1803"
)

// Kernel spec error constructors

func NewInvalidKernelNameError(name string, reason string) *goerrors.Error {
	return goerrors.New(ErrCodeInvalidKernelName, "Invalid kernel name: "+reason).
		WithUserMessage("The kernel name contains characters that are not allowed").
		WithContext("kernel_name", name).
		WithSeverity("error")
}

func NewKernelNotFoundError(name string) *goerrors.Error {
	return goerrors.New(ErrCodeKernelNotFound, "No such kernel: "+name).
		WithUserMessage("The requested kernel spec is not installed or not on the search path").
		WithContext("kernel_name", name).
		WithSeverity("error")
}

func NewSpecReadError(resourceDir string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeSpecReadError, "Failed to read kernel spec").
		WithUserMessage("The kernel.json file could not be read from the resource directory").
		WithContext("resource_dir", resourceDir).
		WithSeverity("error")
}

func NewSpecParseError(path string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeSpecParseError, "Failed to parse kernel spec").
		WithUserMessage("The kernel.json file is not valid JSON").
		WithContext("spec_path", path).
		WithSeverity("error")
}

func NewSpecEncodeError(cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeSpecEncodeError, "Failed to encode kernel spec").
		WithUserMessage("The kernel spec could not be serialized to JSON").
		WithSeverity("error")
}

// Installation error constructors

func NewInstallSourceError(sourceDir string, message string) *goerrors.Error {
	return goerrors.New(ErrCodeInstallSourceError, "Invalid install source: "+message).
		WithUserMessage("The source directory does not contain an installable kernel spec").
		WithContext("source_dir", sourceDir).
		WithSeverity("error")
}

func NewInstallTargetError(path string, message string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeInstallTargetError, "Install target error: "+message).
		WithUserMessage("The kernel spec could not be written to the destination").
		WithContext("target_dir", path).
		WithSeverity("error")
}

func NewNoSystemPrefixError() *goerrors.Error {
	return goerrors.New(ErrCodeNoSystemPrefix, "No system kernel directory available").
		WithUserMessage("A system-wide install requires at least one system kernel directory").
		WithSeverity("error")
}

func NewNoNativeInstallerError() *goerrors.Error {
	return goerrors.New(ErrCodeNoNativeInstaller, "No native kernel installer registered").
		WithUserMessage("Register a native kernel installer before calling the deprecated native install path").
		WithSeverity("error")
}

func NewNativeInstallerFailureError(cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeNativeInstallerFailure, "Native kernel installer failed").
		WithUserMessage("The registered native kernel installer returned an error").
		WithSeverity("error")
}

// Configuration management error constructors

func NewConfigNotFoundError(path string) *goerrors.Error {
	return goerrors.New(ErrCodeConfigNotFound, "Configuration file not found").
		WithUserMessage("The configuration file could not be found").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigParseError(path string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeConfigParseError, "Configuration parse error").
		WithUserMessage("Failed to parse configuration file").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigValidationError(message string, cause error) *goerrors.Error {
	err := goerrors.New(ErrCodeConfigValidationError, "Configuration validation error: "+message).
		WithUserMessage("Configuration validation failed").
		WithSeverity("error")
	if cause != nil {
		return goerrors.Wrap(cause, ErrCodeConfigValidationError, "Configuration validation error: "+message).
			WithUserMessage("Configuration validation failed").
			WithSeverity("error")
	}
	return err
}

func NewConfigWatcherError(message string, cause error) *goerrors.Error {
	if cause == nil {
		return goerrors.New(ErrCodeConfigWatcherError, "Configuration watcher error: "+message).
			WithUserMessage("Configuration monitoring failed").
			WithSeverity("error")
	}
	return goerrors.Wrap(cause, ErrCodeConfigWatcherError, "Configuration watcher error: "+message).
		WithUserMessage("Configuration monitoring failed").
		WithSeverity("error")
}

func NewConfigPathError(path string, message string) *goerrors.Error {
	return goerrors.New(ErrCodeConfigPathError, "Configuration path error: "+message).
		WithUserMessage("Invalid configuration file path").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigFileError(path string, message string, cause error) *goerrors.Error {
	if cause == nil {
		return goerrors.New(ErrCodeConfigFileError, "Configuration file error: "+message).
			WithUserMessage("Configuration file access failed").
			WithContext("config_path", path).
			WithSeverity("error")
	}
	return goerrors.Wrap(cause, ErrCodeConfigFileError, "Configuration file error: "+message).
		WithUserMessage("Configuration file access failed").
		WithContext("config_path", path).
		WithSeverity("error")
}

// Security error constructors

func NewSecurityValidationError(message string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeSecurityValidationError, "Security validation error: "+message).
		WithUserMessage("Security validation failed").
		WithSeverity("error")
}

func NewPathTraversalError(path string) *goerrors.Error {
	return goerrors.New(ErrCodePathTraversalError, "Path traversal attempt detected").
		WithUserMessage("Invalid file path detected").
		WithContext("attempted_path", path).
		WithSeverity("error")
}

func NewAuditError(message string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, ErrCodeAuditError, "Audit error: "+message).
		WithUserMessage("Security audit logging failed").
		WithSeverity("warning")
}

// IsKernelNotFound reports whether err is a kernel lookup failure.
func IsKernelNotFound(err error) bool {
	if err == nil {
		return false
	}
	var kernelErr *goerrors.Error
	if errors.As(err, &kernelErr) {
		return kernelErr.Code == ErrCodeKernelNotFound
	}
	return false
}

// NotFoundKernelName returns the kernel name a lookup failure was raised
// for, with its original casing preserved. It returns "" when err is not
// a kernel-not-found error.
func NotFoundKernelName(err error) string {
	var kernelErr *goerrors.Error
	if errors.As(err, &kernelErr) && kernelErr.Code == ErrCodeKernelNotFound {
		if name, ok := kernelErr.Context["kernel_name"].(string); ok {
			return name
		}
	}
	return ""
}

// IsInvalidKernelName reports whether err was raised by kernel name
// validation.
func IsInvalidKernelName(err error) bool {
	if err == nil {
		return false
	}
	var kernelErr *goerrors.Error
	if errors.As(err, &kernelErr) {
		return kernelErr.Code == ErrCodeInvalidKernelName ||
			kernelErr.Code == ErrCodePathTraversalError ||
			kernelErr.Code == ErrCodeSecurityValidationError
	}
	return false
}
