package config

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Manager owns the live configuration snapshot. Get is lock-free; Load
// swaps a fully-built snapshot in atomically and notifies watchers.
type Manager struct {
	configPtr unsafe.Pointer
	path      string

	watcherMu sync.RWMutex
	watchers  []func(*Config)
}

// NewManager creates a manager seeded with defaults. path may be empty, in
// which case Load applies only defaults and environment overrides.
func NewManager(path string) *Manager {
	m := &Manager{path: path}
	atomic.StorePointer(&m.configPtr, unsafe.Pointer(DefaultConfig()))
	return m
}

// Get returns the current snapshot. Callers must treat it as read-only.
func (m *Manager) Get() *Config {
	return (*Config)(atomic.LoadPointer(&m.configPtr))
}

// Load rebuilds the snapshot from defaults, the config file and the
// environment, then publishes it. An invalid result is rejected and the
// previous snapshot stays live.
func (m *Manager) Load() error {
	cfg := DefaultConfig()

	if m.path != "" {
		if err := loadYAMLFile(m.path, cfg); err != nil {
			return fmt.Errorf("config file %s: %w", m.path, err)
		}
	}
	applyEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	atomic.StorePointer(&m.configPtr, unsafe.Pointer(cfg))
	m.notifyWatchers(cfg)
	return nil
}

// OnChange registers a callback invoked with each newly published
// snapshot.
func (m *Manager) OnChange(fn func(*Config)) {
	m.watcherMu.Lock()
	defer m.watcherMu.Unlock()
	m.watchers = append(m.watchers, fn)
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.watcherMu.RLock()
	defer m.watcherMu.RUnlock()
	for _, fn := range m.watchers {
		fn(cfg)
	}
}
