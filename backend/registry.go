// Package backend is the registry of tex.Device implementations.
//
// Backend packages register a factory from init(), so importing a backend
// for side effects makes it selectable by name:
//
//	import _ "github.com/gogpu/tex/backend/soft"
//
//	dev, caps, err := backend.Open("soft")
//	ctx := tex.NewContext(dev, caps)
//
// Default opens the first backend in priority order (opengl, soft) whose
// factory succeeds.
package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/tex"
)

// Backend names used for priority ordering.
const (
	BackendOpenGL = "opengl"
	BackendSoft   = "soft"
)

var (
	// ErrBackendNotAvailable is returned when no backend can be opened.
	ErrBackendNotAvailable = errors.New("backend: no backend available")

	// ErrUnknownBackend is returned by Open for unregistered names.
	ErrUnknownBackend = errors.New("backend: unknown backend")
)

// Factory opens a device together with the capabilities it reports.
type Factory func() (tex.Device, tex.Capabilities, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// First entry that opens successfully wins.
	priority = []string{BackendOpenGL, BackendSoft}
)

// Register registers a backend factory under name, replacing any previous one.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a backend. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the sorted names of registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open opens the named backend.
func Open(name string) (tex.Device, tex.Capabilities, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	dev, caps, err := f()
	if err != nil {
		return nil, nil, fmt.Errorf("backend: open %s: %w", name, err)
	}
	return dev, caps, nil
}

// Default opens the best available backend. Backends in the priority list
// are tried first, then any other registered backend in name order.
func Default() (tex.Device, tex.Capabilities, error) {
	tried := make(map[string]bool, len(priority))
	for _, name := range priority {
		tried[name] = true
		if !IsRegistered(name) {
			continue
		}
		dev, caps, err := Open(name)
		if err == nil {
			return dev, caps, nil
		}
		tex.Logger().Debug("backend: skipping", "backend", name, "err", err)
	}

	for _, name := range Available() {
		if tried[name] {
			continue
		}
		if dev, caps, err := Open(name); err == nil {
			return dev, caps, nil
		}
	}
	return nil, nil, ErrBackendNotAvailable
}
