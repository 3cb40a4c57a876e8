// manager.go: kernel spec manager configuration and state
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package gokernelspec

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/agilira/argus"
	"github.com/agilira/go-timecache"
)

// KernelSpecManager discovers, resolves, installs and removes kernel specs.
//
// The manager holds configuration only: the directories to search, an
// optional allow-list of kernel names, and the destinations for installs.
// It never caches discovery results; every find or lookup re-reads the
// filesystem. Construct one per use or keep one around, both are fine.
//
// Example usage:
//
//	manager := NewKernelSpecManager()
//
//	specs, err := manager.FindKernelSpecs()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for name, dir := range specs {
//	    fmt.Printf("%s -> %s\n", name, dir)
//	}
//
//	spec, err := manager.GetKernelSpec("python3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(spec.DisplayName)
type KernelSpecManager struct {
	logger   Logger
	resolver PathResolver

	// mu guards the mutable configuration below. Hot reload through a
	// ConfigWatcher swaps these while discovery calls read them; filesystem
	// operations themselves are deliberately uncoordinated.
	mu            sync.RWMutex
	dataDir       string
	userKernelDir string
	kernelDirs    []string
	whitelist     map[string]struct{}

	audit    *argus.AuditLogger
	ownAudit bool
}

// Option configures a KernelSpecManager (functional options pattern).
type Option func(*KernelSpecManager)

// WithLogger sets the logger used for discovery and install breadcrumbs.
// Accepts a Logger implementation or nil for silent operation.
func WithLogger(logger any) Option {
	return func(m *KernelSpecManager) {
		m.logger = NewLogger(logger)
	}
}

// WithPathResolver replaces the platform path resolver.
func WithPathResolver(resolver PathResolver) Option {
	return func(m *KernelSpecManager) {
		m.resolver = resolver
	}
}

// WithDataDir overrides the per-user data directory.
func WithDataDir(dir string) Option {
	return func(m *KernelSpecManager) {
		m.dataDir = dir
	}
}

// WithUserKernelDir overrides the user-level kernel registry directory.
func WithUserKernelDir(dir string) Option {
	return func(m *KernelSpecManager) {
		m.userKernelDir = dir
	}
}

// WithKernelDirs overrides the search directories. Later entries take
// priority over earlier ones when kernel names collide.
func WithKernelDirs(dirs []string) Option {
	return func(m *KernelSpecManager) {
		m.kernelDirs = append([]string(nil), dirs...)
	}
}

// WithWhitelist restricts discovery to the given kernel names. Entries are
// lowercased on the way in; matching is case-insensitive. An empty list
// means no filtering.
func WithWhitelist(names []string) Option {
	return func(m *KernelSpecManager) {
		m.whitelist = lowercaseSet(names)
	}
}

// WithAuditLogger attaches an audit trail for install and removal events.
// The caller retains ownership and must close the audit logger itself.
func WithAuditLogger(audit *argus.AuditLogger) Option {
	return func(m *KernelSpecManager) {
		m.audit = audit
		m.ownAudit = false
	}
}

// NewKernelSpecManager creates a manager with platform defaults, then applies
// the given options.
func NewKernelSpecManager(opts ...Option) *KernelSpecManager {
	m := &KernelSpecManager{
		logger:   DefaultLogger(),
		resolver: NewEnvPathResolver(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// DataDir returns the per-user data directory: the explicit override when
// one was set, otherwise the resolver's answer.
func (m *KernelSpecManager) DataDir() (string, error) {
	m.mu.RLock()
	dir := m.dataDir
	m.mu.RUnlock()

	if dir != "" {
		return dir, nil
	}
	return m.resolver.UserDataDir()
}

// UserKernelDir returns the directory user-level installs land in,
// <data_dir>/kernels unless overridden.
func (m *KernelSpecManager) UserKernelDir() (string, error) {
	m.mu.RLock()
	dir := m.userKernelDir
	m.mu.RUnlock()

	if dir != "" {
		return dir, nil
	}

	dataDir, err := m.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, kernelsDirName), nil
}

// KernelDirs returns the search directories in priority order, lowest first.
// Without an explicit override the list is derived fresh from the resolver on
// every call, so environment changes take effect immediately.
func (m *KernelSpecManager) KernelDirs() []string {
	m.mu.RLock()
	override := m.kernelDirs
	m.mu.RUnlock()

	if override != nil {
		return append([]string(nil), override...)
	}

	bases := m.resolver.SearchPaths()
	dirs := make([]string, 0, len(bases))
	for _, base := range bases {
		dirs = append(dirs, filepath.Join(base, kernelsDirName))
	}
	return dirs
}

// SetKernelDirs replaces the search directories. Passing nil restores the
// resolver-derived default.
func (m *KernelSpecManager) SetKernelDirs(dirs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dirs == nil {
		m.kernelDirs = nil
		return
	}
	m.kernelDirs = append([]string(nil), dirs...)
}

// SetWhitelist replaces the allow-list. Entries are lowercased on the way
// in. An empty or nil list disables filtering.
func (m *KernelSpecManager) SetWhitelist(names []string) {
	set := lowercaseSet(names)
	m.mu.Lock()
	m.whitelist = set
	m.mu.Unlock()
}

// Whitelist returns the current allow-list entries, lowercased and sorted.
// An empty slice means no filtering is in effect.
func (m *KernelSpecManager) Whitelist() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.whitelist))
	for name := range m.whitelist {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyConfig applies a loaded configuration to the manager. Zero-valued
// fields leave the corresponding setting untouched, so a minimal file only
// overrides what it names.
func (m *KernelSpecManager) ApplyConfig(config *ManagerConfig) error {
	if config == nil {
		return nil
	}

	m.mu.Lock()
	if config.DataDir != "" {
		m.dataDir = config.DataDir
	}
	if config.UserKernelDir != "" {
		m.userKernelDir = config.UserKernelDir
	}
	if config.KernelDirs != nil {
		m.kernelDirs = append([]string(nil), config.KernelDirs...)
	}
	if config.Whitelist != nil {
		m.whitelist = lowercaseSet(config.Whitelist)
	}
	m.mu.Unlock()

	if config.Audit.Enabled && m.audit == nil {
		auditLogger, err := argus.NewAuditLogger(argus.AuditConfig{
			Enabled:    true,
			OutputFile: config.Audit.OutputFile,
			MinLevel:   argus.AuditInfo,
		})
		if err != nil {
			return NewAuditError("failed to initialize audit trail", err)
		}
		m.audit = auditLogger
		m.ownAudit = true
	}

	return nil
}

// Close releases resources the manager created itself, currently only a
// config-initialized audit trail. Injected audit loggers are left open.
func (m *KernelSpecManager) Close() error {
	if m.audit != nil && m.ownAudit {
		err := m.audit.Close()
		m.audit = nil
		return err
	}
	return nil
}

// isWhitelisted reports whether a lowercased kernel name passes the
// allow-list. An empty allow-list admits everything.
func (m *KernelSpecManager) isWhitelisted(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.whitelist) == 0 {
		return true
	}
	_, ok := m.whitelist[name]
	return ok
}

// auditEvent records a security-relevant registry mutation when an audit
// trail is attached.
func (m *KernelSpecManager) auditEvent(eventType, message string, context map[string]interface{}) {
	if m.audit == nil {
		return
	}
	if context == nil {
		context = make(map[string]interface{})
	}
	context["timestamp_ns"] = timecache.CachedTimeNano()
	m.audit.LogSecurityEvent(eventType, message, context)
}

// lowercaseSet builds a lowercase membership set from a list of names,
// skipping empty entries.
func lowercaseSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}
