// config_watcher.go: configuration hot reload with Argus integration
//
// Watches a kernel spec configuration file and applies changes to a running
// KernelSpecManager without restart: search directories, whitelist entries,
// data directory overrides and audit settings can all be updated live.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// ConfigWatcher manages hot reload of kernel spec manager configuration.
//
// File change detection is delegated to Argus. On every change the
// configuration file is reloaded through the same validation pipeline as
// LoadConfigFromFile and applied to the manager; a reload that fails to
// parse or validate leaves the previous configuration in effect.
//
// Usage example:
//
//	watcher, err := gokernelspec.NewConfigWatcher(manager, "/etc/kernelspec/config.yaml",
//	    gokernelspec.DefaultWatcherOptions(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := watcher.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer watcher.Stop()
type ConfigWatcher struct {
	manager *KernelSpecManager
	logger  Logger

	// Argus integration components
	watcher     *argus.Watcher
	auditLogger *argus.AuditLogger

	// Configuration management
	configPath    string
	currentConfig atomic.Pointer[ManagerConfig]

	// Lifecycle management
	enabled  atomic.Bool // Thread-safe enabled/disabled state
	stopped  atomic.Bool // Permanent stop flag to prevent restart
	stopOnce sync.Once   // Ensures Stop() is called exactly once
	mutex    sync.Mutex  // Protects start/stop operations only

	options WatcherOptions
}

// WatcherOptions configures the behavior of the configuration watcher.
type WatcherOptions struct {
	// Argus polling interval for file changes
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// Cache TTL for file stat operations
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// Audit configuration for tracking configuration changes
	AuditConfig argus.AuditConfig `json:"audit_config" yaml:"audit_config"`

	// Custom error handler for file watching errors
	ErrorHandler func(error, string) `json:"-" yaml:"-"`
}

// DefaultWatcherOptions returns production-ready defaults for config watching.
//
// Default values:
//   - PollInterval: 10 seconds (kernel spec config changes infrequently)
//   - CacheTTL: 5 seconds (balance between freshness and performance)
//   - Audit: enabled, writing to kernelspec-config-audit.jsonl
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{
		PollInterval: 10 * time.Second,
		CacheTTL:     5 * time.Second,
		AuditConfig: argus.AuditConfig{
			Enabled:       true,
			OutputFile:    "kernelspec-config-audit.jsonl",
			MinLevel:      argus.AuditInfo,
			BufferSize:    1000,
			FlushInterval: 10 * time.Second,
		},
	}
}

// NewConfigWatcher creates a configuration watcher for the given manager.
//
// The watcher is created in a stopped state; call Start to load the initial
// configuration and begin monitoring. The logger parameter accepts the same
// types as NewLogger.
func NewConfigWatcher(manager *KernelSpecManager, configPath string, options WatcherOptions, logger any) (*ConfigWatcher, error) {
	internalLogger := NewLogger(logger)

	watcher := argus.New(createArgusConfig(options, internalLogger))

	var auditLogger *argus.AuditLogger
	if options.AuditConfig.Enabled {
		var err error
		auditLogger, err = argus.NewAuditLogger(options.AuditConfig)
		if err != nil {
			return nil, NewConfigValidationError("failed to create audit logger", err)
		}
	}

	return &ConfigWatcher{
		manager:     manager,
		logger:      internalLogger,
		watcher:     watcher,
		auditLogger: auditLogger,
		configPath:  configPath,
		options:     options,
	}, nil
}

// createArgusConfig creates Argus configuration tuned for kernel spec config
// files, which are few and change rarely.
func createArgusConfig(options WatcherOptions, logger Logger) argus.Config {
	return argus.Config{
		PollInterval:         options.PollInterval,
		CacheTTL:             options.CacheTTL,
		MaxWatchedFiles:      5,
		Audit:                options.AuditConfig,
		OptimizationStrategy: argus.OptimizationSingleEvent,
		ErrorHandler: func(err error, filepath string) {
			if options.ErrorHandler != nil {
				options.ErrorHandler(err, filepath)
			} else {
				logger.Error("Config file watching error", "error", err, "file", filepath)
			}
		},
	}
}

// Start loads the initial configuration, applies it to the manager, and
// begins watching the configuration file for changes.
//
// Returns an error if the watcher is already running or permanently stopped,
// if the initial configuration cannot be loaded or applied, or if the Argus
// watcher fails to start.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	// Prevent restart if watcher was permanently stopped
	if cw.stopped.Load() {
		return NewConfigWatcherError("config watcher has been permanently stopped and cannot be restarted", nil)
	}

	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	// Use atomic compare-and-swap to ensure only one goroutine starts the watcher
	if !cw.enabled.CompareAndSwap(false, true) {
		return NewConfigWatcherError("config watcher is already running", nil)
	}

	initialConfig, err := LoadConfigFromFile(cw.configPath)
	if err != nil {
		cw.enabled.Store(false) // Reset state on failure
		return NewConfigWatcherError("failed to load initial configuration", err)
	}

	if err := cw.manager.ApplyConfig(&initialConfig); err != nil {
		cw.enabled.Store(false)
		return NewConfigWatcherError("failed to apply initial configuration", err)
	}

	cw.currentConfig.Store(&initialConfig)

	cw.auditEvent("configuration_loaded", map[string]interface{}{
		"path":   cw.configPath,
		"source": "initial_load",
	})

	if err := cw.watcher.Watch(cw.configPath, cw.handleConfigChange); err != nil {
		cw.enabled.Store(false)
		return NewConfigWatcherError("failed to watch config file", err)
	}

	if err := cw.watcher.Start(); err != nil {
		cw.enabled.Store(false)
		return NewConfigWatcherError("failed to start Argus watcher", err)
	}

	cw.logger.Info("Configuration watcher started successfully",
		"config_path", cw.configPath,
		"poll_interval", cw.options.PollInterval)

	cw.auditEvent("config_watcher_started", map[string]interface{}{
		"config_path":   cw.configPath,
		"poll_interval": cw.options.PollInterval.String(),
	})

	return nil
}

// Stop gracefully stops the configuration watcher.
//
// The stop operation is permanent: the watcher cannot be restarted after
// stopping. sync.Once guarantees the underlying Argus Stop() is called
// exactly once even under concurrent Stop calls.
func (cw *ConfigWatcher) Stop() error {
	// Fast path: return immediately if already stopped
	if cw.stopped.Load() {
		return NewConfigWatcherError("config watcher is already stopped", nil)
	}

	var stopErr error
	cw.stopOnce.Do(func() {
		cw.mutex.Lock()
		defer cw.mutex.Unlock()

		if !cw.enabled.CompareAndSwap(true, false) {
			stopErr = NewConfigWatcherError("config watcher is not running", nil)
			return
		}

		// Mark as permanently stopped before calling Argus Stop()
		cw.stopped.Store(true)

		if argusErr := cw.watcher.Stop(); argusErr != nil {
			cw.enabled.Store(true)
			stopErr = NewConfigWatcherError("failed to stop Argus watcher", argusErr)
			return
		}

		if cw.auditLogger != nil {
			if closeErr := cw.auditLogger.Close(); closeErr != nil {
				cw.logger.Warn("Failed to close audit logger during shutdown", "error", closeErr)
			}
		}

		cw.logger.Info("Configuration watcher stopped successfully")

		cw.auditEvent("config_watcher_stopped", map[string]interface{}{
			"config_path": cw.configPath,
		})
	})

	return stopErr
}

// IsRunning returns whether the config watcher is currently active.
func (cw *ConfigWatcher) IsRunning() bool {
	return cw.enabled.Load() && !cw.stopped.Load()
}

// GetCurrentConfig returns the current configuration (thread-safe).
//
// Returns nil before the first successful load.
func (cw *ConfigWatcher) GetCurrentConfig() *ManagerConfig {
	return cw.currentConfig.Load()
}

// GetWatcherStats returns statistics from the underlying Argus watcher.
func (cw *ConfigWatcher) GetWatcherStats() argus.CacheStats {
	return cw.watcher.GetCacheStats()
}

// handleConfigChange processes configuration file changes reported by Argus.
//
// A reload that fails at any stage is logged and audited but does not
// disturb the configuration already applied to the manager.
func (cw *ConfigWatcher) handleConfigChange(event argus.ChangeEvent) {
	cw.logger.Info("Configuration file change detected",
		"path", event.Path,
		"mod_time", event.ModTime,
		"size", event.Size,
		"is_create", event.IsCreate,
		"is_delete", event.IsDelete,
		"is_modify", event.IsModify)

	// Skip delete events - cannot reload from a deleted file
	if event.IsDelete {
		cw.logger.Warn("Configuration file was deleted, skipping reload", "path", event.Path)
		cw.auditEvent("config_file_deleted", map[string]interface{}{
			"path": event.Path,
		})
		return
	}

	newConfig, err := LoadConfigFromFile(event.Path)
	if err != nil {
		cw.logger.Error("Failed to load new configuration", "error", err, "path", event.Path)
		cw.auditEvent("config_load_failed", map[string]interface{}{
			"path":  event.Path,
			"error": err.Error(),
		})
		return
	}

	if err := cw.manager.ApplyConfig(&newConfig); err != nil {
		cw.logger.Error("Failed to apply configuration changes", "error", err)
		cw.auditEvent("config_apply_failed", map[string]interface{}{
			"path":  event.Path,
			"error": err.Error(),
		})
		return
	}

	oldConfig := cw.currentConfig.Swap(&newConfig)

	changes := calculateConfigChanges(oldConfig, &newConfig)
	cw.logger.Info("Configuration reload completed successfully", "changes", changes)

	cw.auditEvent("configuration_changed", map[string]interface{}{
		"path":    event.Path,
		"changes": changes,
	})
}

// calculateConfigChanges summarizes which sections changed for audit logs.
//
// Argus already detected the file change; this only names the affected
// sections so audit consumers can filter without diffing files.
func calculateConfigChanges(oldConfig, newConfig *ManagerConfig) []string {
	if oldConfig == nil {
		return []string{"initial_configuration"}
	}

	changes := make([]string, 0, 4)
	if oldConfig.DataDir != newConfig.DataDir {
		changes = append(changes, "data_dir")
	}
	if oldConfig.UserKernelDir != newConfig.UserKernelDir {
		changes = append(changes, "user_kernel_dir")
	}
	if !slices.Equal(oldConfig.KernelDirs, newConfig.KernelDirs) {
		changes = append(changes, "kernel_dirs")
	}
	if !slices.Equal(oldConfig.Whitelist, newConfig.Whitelist) {
		changes = append(changes, "whitelist")
	}
	if oldConfig.Audit != newConfig.Audit {
		changes = append(changes, "audit")
	}

	if len(changes) == 0 {
		return []string{"configuration_updated"}
	}
	return changes
}

// auditEvent records configuration lifecycle events when auditing is enabled.
func (cw *ConfigWatcher) auditEvent(eventType string, context map[string]interface{}) {
	if cw.auditLogger != nil {
		cw.auditLogger.LogSecurityEvent(eventType, "Kernel spec configuration change", context)
	}
}

// EnableDynamicConfig creates and starts a config watcher for the given
// manager and configuration file.
//
// Example:
//
//	manager := gokernelspec.NewKernelSpecManager()
//
//	watcher, err := gokernelspec.EnableDynamicConfig(manager, "config.json",
//	    gokernelspec.DefaultWatcherOptions(), logger)
//	if err != nil {
//	    log.Printf("Dynamic config disabled: %v", err)
//	} else {
//	    defer watcher.Stop()
//	}
func EnableDynamicConfig(manager *KernelSpecManager, configPath string, options WatcherOptions, logger any) (*ConfigWatcher, error) {
	watcher, err := NewConfigWatcher(manager, configPath, options, logger)
	if err != nil {
		return nil, NewConfigWatcherError("failed to create dynamic config watcher", err)
	}

	if err := watcher.Start(context.Background()); err != nil {
		return nil, NewConfigWatcherError("failed to start dynamic config watcher", err)
	}

	return watcher, nil
}
