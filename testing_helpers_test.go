// testing_helpers_test.go: shared test fixtures for go-kernelspec
//
// Builds throwaway kernel registries on disk and provides the small
// assertion helpers used across the suite.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/agilira/go-errors"
)

// TestEnvironment creates kernel registry trees under temporary
// directories that vanish when the test ends.
type TestEnvironment struct {
	t *testing.T
}

// NewTestEnvironment creates a test environment bound to t.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	return &TestEnvironment{t: t}
}

// CreateKernelsDir returns a fresh, empty kernels directory.
func (env *TestEnvironment) CreateKernelsDir() string {
	env.t.Helper()
	return env.t.TempDir()
}

// CreateKernelDir materializes a kernel spec directory named name under
// kernelsDir, with a kernel.json serialized from spec. Returns the
// resource directory path.
func (env *TestEnvironment) CreateKernelDir(kernelsDir, name string, spec KernelSpec) string {
	env.t.Helper()

	dir := filepath.Join(kernelsDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		env.t.Fatalf("Failed to create kernel dir %s: %v", dir, err)
	}

	data, err := json.MarshalIndent(spec.ToMap(), "", "  ")
	if err != nil {
		env.t.Fatalf("Failed to marshal kernel spec for %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "kernel.json"), data, 0o644); err != nil {
		env.t.Fatalf("Failed to write kernel.json for %s: %v", name, err)
	}
	return dir
}

// WriteKernelJSON writes raw content as the kernel.json of a kernel
// directory, for malformed-spec scenarios. Returns the resource
// directory path.
func (env *TestEnvironment) WriteKernelJSON(kernelsDir, name, content string) string {
	env.t.Helper()

	dir := filepath.Join(kernelsDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		env.t.Fatalf("Failed to create kernel dir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "kernel.json"), []byte(content), 0o644); err != nil {
		env.t.Fatalf("Failed to write kernel.json for %s: %v", name, err)
	}
	return dir
}

// SampleSpec returns a minimal valid kernel spec for tests.
func SampleSpec(displayName, language string) KernelSpec {
	return KernelSpec{
		Argv:        []string{"/usr/bin/env", language, "-m", "testkernel", "-f", "{connection_file}"},
		DisplayName: displayName,
		Language:    language,
		Env:         map[string]string{"TEST_KERNEL": "1"},
	}
}

// stubResolver is a PathResolver with fixed answers, for tests that need
// full control over path resolution.
type stubResolver struct {
	dataDir string
	paths   []string
	prefix  string
}

func (s *stubResolver) UserDataDir() (string, error) { return s.dataDir, nil }

func (s *stubResolver) SearchPaths() []string { return s.paths }

func (s *stubResolver) SystemPrefix() (string, error) {
	if s.prefix == "" {
		return "", NewNoSystemPrefixError()
	}
	return s.prefix, nil
}

// TestAssertions provides common assertion helpers.
type TestAssertions struct {
	t *testing.T
}

// NewTestAssertions creates assertion helpers bound to t.
func NewTestAssertions(t *testing.T) *TestAssertions {
	t.Helper()
	return &TestAssertions{t: t}
}

// AssertNoError fails the test if err is non-nil.
func (ta *TestAssertions) AssertNoError(err error, message string) {
	ta.t.Helper()
	if err != nil {
		ta.t.Fatalf("%s: unexpected error: %v", message, err)
	}
}

// AssertError fails the test if err is nil.
func (ta *TestAssertions) AssertError(err error, message string) {
	ta.t.Helper()
	if err == nil {
		ta.t.Fatalf("%s: expected error but got none", message)
	}
}

// AssertEqual fails the test if expected != actual.
func (ta *TestAssertions) AssertEqual(expected, actual interface{}, message string) {
	ta.t.Helper()
	if expected != actual {
		ta.t.Errorf("%s: expected %v, got %v", message, expected, actual)
	}
}

// AssertTrue fails the test if condition is false.
func (ta *TestAssertions) AssertTrue(condition bool, message string) {
	ta.t.Helper()
	if !condition {
		ta.t.Errorf("%s: expected true, got false", message)
	}
}

// WaitForCondition polls condition until it returns true or the timeout
// elapses, failing the test on timeout.
func (ta *TestAssertions) WaitForCondition(condition func() bool, timeout time.Duration, message string) {
	ta.t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	ta.t.Fatalf("%s: condition not met within %v", message, timeout)
}

// requireErrorCode fails the test unless err is a structured error
// carrying the given code.
func requireErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	if err == nil {
		t.Fatalf("Expected error with code %s, got nil", code)
	}
	var goErr *goerrors.Error
	if !errors.As(err, &goErr) {
		t.Fatalf("Expected structured error with code %s, got %T: %v", code, err, err)
	}
	if string(goErr.Code) != code {
		t.Fatalf("Expected error code %s, got %s: %v", code, goErr.Code, err)
	}
}
