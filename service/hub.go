package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// Sentinel errors
var (
	ErrDuplicateService  = errors.New("service already registered")
	ErrUnknownDependency = errors.New("dependency not registered")
	ErrDependencyCycle   = errors.New("dependency cycle")
)

// Hub registers services and runs their lifecycle in dependency order
// Stop runs in reverse order and only for services that started
type Hub struct {
	mu       sync.RWMutex
	services map[string]Service
	order    []string // Resolved on first InitAll, reset by Register
	running  []string // Started services, in start order
}

func NewHub() *Hub {
	return &Hub{services: make(map[string]Service)}
}

// Register adds svc under its Name
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, dup := h.services[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateService, name)
	}
	h.services[name] = svc
	h.order = nil
	return nil
}

func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.services[name]
	return svc, ok
}

// MustGet returns the named service as T, panicking when absent or of another type
func MustGet[T any](h *Hub, name string) T {
	svc, ok := h.Get(name)
	if !ok {
		panic(fmt.Sprintf("service %q not registered", name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("service %q is %T", name, svc))
	}
	return typed
}

// InitAll initializes every service after its dependencies
// args[name] is passed to that service's Init. When an Init fails the
// services initialized before it are stopped, newest first
func (h *Hub) InitAll(args map[string][]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolveOrder()
		if err != nil {
			return err
		}
		h.order = order
	}

	for i, name := range h.order {
		if err := h.services[name].Init(args[name]...); err != nil {
			h.stopReverse(h.order[:i])
			return fmt.Errorf("init %s: %w", name, err)
		}
	}
	return nil
}

// StartAll starts services in dependency order
// When a Start fails the services already started are stopped, newest first
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.running = h.running[:0]
	for _, name := range h.order {
		if err := h.services[name].Start(); err != nil {
			h.stopReverse(h.running)
			h.running = nil
			return fmt.Errorf("start %s: %w", name, err)
		}
		h.running = append(h.running, name)
	}
	return nil
}

// StopAll stops every started service in reverse start order
// Stop errors are logged; every service still gets its Stop call
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopReverse(h.running)
	h.running = nil
}

func (h *Hub) stopReverse(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		if err := h.services[names[i]].Stop(); err != nil {
			log.Printf("[service] WARN stop %s: %v", names[i], err)
		}
	}
}

// Order returns the resolved lifecycle order, nil before InitAll
func (h *Hub) Order() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.order...)
}

// Names returns every registered service name, sorted
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sortedNames()
}

func (h *Hub) sortedNames() []string {
	names := make([]string, 0, len(h.services))
	for name := range h.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveOrder walks dependencies depth-first; names and dependency lists are
// visited sorted so the order is stable between runs
func (h *Hub) resolveOrder() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(h.services))
	order := make([]string, 0, len(h.services))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w at %s", ErrDependencyCycle, name)
		}
		state[name] = visiting

		deps := append([]string(nil), h.services[name].Dependencies()...)
		sort.Strings(deps)
		for _, dep := range deps {
			if _, ok := h.services[dep]; !ok {
				return fmt.Errorf("%w: %s needs %s", ErrUnknownDependency, name, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range h.sortedNames() {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
