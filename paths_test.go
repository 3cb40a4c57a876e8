// paths_test.go: tests for platform path resolution
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestEnvPathResolverUserDataDir(t *testing.T) {
	resolver := NewEnvPathResolver()

	t.Run("environment override wins", func(t *testing.T) {
		custom := filepath.Join(t.TempDir(), "jupyter-data")
		t.Setenv(EnvDataDir, custom)

		dir, err := resolver.UserDataDir()
		if err != nil {
			t.Fatalf("UserDataDir failed: %v", err)
		}
		if dir != custom {
			t.Errorf("Expected %q, got %q", custom, dir)
		}
	})

	t.Run("XDG data home on unix", func(t *testing.T) {
		if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
			t.Skip("XDG resolution applies to unix-like platforms only")
		}
		t.Setenv(EnvDataDir, "")
		dataHome := t.TempDir()
		t.Setenv("XDG_DATA_HOME", dataHome)

		dir, err := resolver.UserDataDir()
		if err != nil {
			t.Fatalf("UserDataDir failed: %v", err)
		}
		expected := filepath.Join(dataHome, "jupyter")
		if dir != expected {
			t.Errorf("Expected %q, got %q", expected, dir)
		}
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
			t.Skip("XDG resolution applies to unix-like platforms only")
		}
		t.Setenv(EnvDataDir, "")
		t.Setenv("XDG_DATA_HOME", "")

		home, err := os.UserHomeDir()
		if err != nil {
			t.Skipf("No home directory available: %v", err)
		}

		dir, err := resolver.UserDataDir()
		if err != nil {
			t.Fatalf("UserDataDir failed: %v", err)
		}
		expected := filepath.Join(home, ".local", "share", "jupyter")
		if dir != expected {
			t.Errorf("Expected %q, got %q", expected, dir)
		}
	})

	t.Run("macOS library directory", func(t *testing.T) {
		if runtime.GOOS != "darwin" {
			t.Skip("macOS-specific resolution")
		}
		t.Setenv(EnvDataDir, "")

		home, err := os.UserHomeDir()
		if err != nil {
			t.Skipf("No home directory available: %v", err)
		}

		dir, err := resolver.UserDataDir()
		if err != nil {
			t.Fatalf("UserDataDir failed: %v", err)
		}
		expected := filepath.Join(home, "Library", "Jupyter")
		if dir != expected {
			t.Errorf("Expected %q, got %q", expected, dir)
		}
	})
}

func TestEnvPathResolverSearchPaths(t *testing.T) {
	resolver := NewEnvPathResolver()
	sep := string(os.PathListSeparator)

	t.Run("ordering is lowest priority first", func(t *testing.T) {
		t.Setenv(EnvSystemPath, "/sys1"+sep+"/sys2")
		t.Setenv(EnvDataDir, "/user/data")
		t.Setenv(EnvSearchPath, "/extra1"+sep+"/extra2")

		paths := resolver.SearchPaths()

		expected := []string{"/sys2", "/sys1", "/user/data", "/extra2", "/extra1"}
		if len(paths) != len(expected) {
			t.Fatalf("Expected %d paths, got %d: %v", len(expected), len(paths), paths)
		}
		for i, want := range expected {
			if paths[i] != want {
				t.Errorf("paths[%d]: expected %q, got %q", i, want, paths[i])
			}
		}
	})

	t.Run("empty search path entries are skipped", func(t *testing.T) {
		t.Setenv(EnvSystemPath, "/sys")
		t.Setenv(EnvDataDir, "/user/data")
		t.Setenv(EnvSearchPath, sep+"/only"+sep)

		paths := resolver.SearchPaths()

		for _, p := range paths {
			if p == "" {
				t.Errorf("Expected no empty entries, got %v", paths)
			}
		}
		if paths[len(paths)-1] != "/only" {
			t.Errorf("Expected /only as highest priority entry, got %v", paths)
		}
	})

	t.Run("without extra path the user dir is highest priority", func(t *testing.T) {
		t.Setenv(EnvSystemPath, "/sys")
		t.Setenv(EnvDataDir, "/user/data")
		t.Setenv(EnvSearchPath, "")

		paths := resolver.SearchPaths()

		if len(paths) != 2 {
			t.Fatalf("Expected 2 paths, got %v", paths)
		}
		if paths[0] != "/sys" || paths[1] != "/user/data" {
			t.Errorf("Unexpected ordering: %v", paths)
		}
	})

	t.Run("default system bases on linux", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("Linux default bases")
		}
		t.Setenv(EnvSystemPath, "")
		t.Setenv(EnvDataDir, "/user/data")
		t.Setenv(EnvSearchPath, "")

		paths := resolver.SearchPaths()

		// /usr/share/jupyter is the lowest priority, /usr/local/share/jupyter
		// shadows it, and the user dir shadows both.
		joined := strings.Join(paths, "|")
		expected := "/usr/share/jupyter|/usr/local/share/jupyter|/user/data"
		if joined != expected {
			t.Errorf("Expected %q, got %q", expected, joined)
		}
	})
}

func TestEnvPathResolverSystemPrefix(t *testing.T) {
	resolver := NewEnvPathResolver()
	sep := string(os.PathListSeparator)

	t.Run("override first entry wins", func(t *testing.T) {
		t.Setenv(EnvSystemPath, "/sys1"+sep+"/sys2")

		prefix, err := resolver.SystemPrefix()
		if err != nil {
			t.Fatalf("SystemPrefix failed: %v", err)
		}
		if prefix != "/sys1" {
			t.Errorf("Expected /sys1, got %q", prefix)
		}
	})

	t.Run("no usable base yields error", func(t *testing.T) {
		// A separator-only override produces zero usable entries.
		t.Setenv(EnvSystemPath, sep)

		_, err := resolver.SystemPrefix()
		requireErrorCode(t, err, ErrCodeNoSystemPrefix)
	})

	t.Run("linux default prefix", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("Linux default bases")
		}
		t.Setenv(EnvSystemPath, "")

		prefix, err := resolver.SystemPrefix()
		if err != nil {
			t.Fatalf("SystemPrefix failed: %v", err)
		}
		if prefix != filepath.Join("/usr", "local", "share", "jupyter") {
			t.Errorf("Unexpected prefix %q", prefix)
		}
	})
}
