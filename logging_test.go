// logging_test.go: tests for the pluggable logging system
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"context"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("Logger interface passes through", func(t *testing.T) {
		testLogger := NewTestLogger()
		logger := NewLogger(testLogger)

		if logger != Logger(testLogger) {
			t.Error("Expected the same logger instance back")
		}
	})

	t.Run("nil yields a silent logger", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("Expected non-nil logger")
		}
		// Must not panic.
		logger.Debug("debug")
		logger.Info("info")
		logger.Warn("warn")
		logger.Error("error")
	})

	t.Run("unsupported type panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for unsupported logger type")
			}
		}()
		NewLogger("not a logger")
	})
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()

	logger.Debug("message", "key", "value")
	logger.Info("message")
	logger.Warn("message")
	logger.Error("message")

	if with := logger.With("key", "value"); with != Logger(logger) {
		t.Error("Expected With to return the same stateless instance")
	}
}

func TestTestLogger(t *testing.T) {
	t.Run("captures messages by level", func(t *testing.T) {
		logger := NewTestLogger()

		logger.Debug("debug message", "k", 1)
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		if len(logger.Messages) != 4 {
			t.Fatalf("Expected 4 messages, got %d", len(logger.Messages))
		}
		if !logger.HasMessage("DEBUG", "debug message") {
			t.Error("Expected captured debug message")
		}
		if !logger.HasMessage("INFO", "info message") {
			t.Error("Expected captured info message")
		}
		if !logger.HasMessage("WARN", "warn message") {
			t.Error("Expected captured warn message")
		}
		if !logger.HasMessage("ERROR", "error message") {
			t.Error("Expected captured error message")
		}
	})

	t.Run("HasMessage matches level and text exactly", func(t *testing.T) {
		logger := NewTestLogger()
		logger.Info("exact text")

		if logger.HasMessage("DEBUG", "exact text") {
			t.Error("Level must be part of the match")
		}
		if logger.HasMessage("INFO", "exact") {
			t.Error("Partial text must not match")
		}
	})

	t.Run("Clear removes captured messages", func(t *testing.T) {
		logger := NewTestLogger()
		logger.Info("before clear")

		logger.Clear()
		if len(logger.Messages) != 0 {
			t.Errorf("Expected no messages after clear, got %d", len(logger.Messages))
		}
		if logger.HasMessage("INFO", "before clear") {
			t.Error("Cleared message must not match")
		}
	})

	t.Run("With copies captured state", func(t *testing.T) {
		logger := NewTestLogger()
		logger.Info("shared")

		child := logger.With("component", "discovery")
		childLogger, ok := child.(*TestLogger)
		if !ok {
			t.Fatalf("Expected *TestLogger, got %T", child)
		}
		if !childLogger.HasMessage("INFO", "shared") {
			t.Error("Child logger must carry earlier messages")
		}

		childLogger.Info("child only")
		if logger.HasMessage("INFO", "child only") {
			t.Error("Parent logger must not see child messages")
		}
	})
}

func TestLoggerContext(t *testing.T) {
	t.Run("round-trips through context", func(t *testing.T) {
		logger := NewTestLogger()
		ctx := ContextWithLogger(context.Background(), logger)

		got := LoggerFromContext(ctx)
		if got != Logger(logger) {
			t.Error("Expected the stored logger back")
		}
	})

	t.Run("missing logger falls back to default", func(t *testing.T) {
		got := LoggerFromContext(context.Background())
		if got == nil {
			t.Fatal("Expected a fallback logger")
		}
		// The fallback is silent.
		got.Info("must not panic")
	})
}

func TestDefaultAndDiscardLoggers(t *testing.T) {
	if DefaultLogger() == nil {
		t.Error("Expected non-nil default logger")
	}
	if DiscardLogger() == nil {
		t.Error("Expected non-nil discard logger")
	}
}
