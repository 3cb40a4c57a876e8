// security.go: kernel name validation for filesystem-facing operations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import "strings"

// ValidateKernelName validates a kernel name before it is used as a path
// component under a kernel registry directory.
//
// Install and removal operations create or delete directories named after
// the kernel, so names must not smuggle in path traversal sequences,
// separators, control bytes, or shell metacharacters. Discovery does not
// call this: names found on disk are already plain directory entries.
func ValidateKernelName(name string) error {
	if name == "" {
		return NewInvalidKernelNameError(name, "name is empty")
	}

	if err := checkPathTraversalPatterns(name); err != nil {
		return err
	}

	if err := checkControlCharacters(name); err != nil {
		return err
	}

	return checkDangerousPatterns(name)
}

// checkPathTraversalPatterns validates against path traversal attacks
func checkPathTraversalPatterns(name string) error {
	if strings.Contains(name, "..") {
		return NewPathTraversalError(name)
	}

	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return NewSecurityValidationError("kernel name contains path separator characters", nil).
			WithContext("kernel_name", name).
			WithContext("invalid_characters", "path_separators")
	}

	return nil
}

// checkControlCharacters validates against control characters and null bytes
func checkControlCharacters(name string) error {
	for _, r := range name {
		if r < 32 || r == 127 {
			return NewSecurityValidationError("kernel name contains control character", nil).
				WithContext("kernel_name", name).
				WithContext("control_character_code", r).
				WithContext("validation_type", "control_character_check")
		}
	}

	if strings.Contains(name, "\x00") {
		return NewSecurityValidationError("kernel name contains null byte", nil).
			WithContext("kernel_name", name).
			WithContext("validation_type", "null_byte_check")
	}

	return nil
}

// checkDangerousPatterns validates against shell injection and dangerous characters
func checkDangerousPatterns(name string) error {
	dangerousPatterns := []string{"~", "|", "&", ";", "$", "`", "(", ")", "[", "]", "{", "}", "<", ">"}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return NewSecurityValidationError("kernel name contains dangerous character", nil).
				WithContext("kernel_name", name).
				WithContext("dangerous_character", pattern).
				WithContext("validation_type", "dangerous_character_check")
		}
	}
	return nil
}
