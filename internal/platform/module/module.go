// Package module defines the contract between feature modules and the
// composition root. A module owns its routes under Prefix and the entity
// models it persists; the root only registers and mounts it.
package module

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
)

var (
	ErrDuplicateModule = errors.New("module already registered")
	ErrDuplicatePrefix = errors.New("route prefix already owned by another module")
	ErrInvalidModule   = errors.New("invalid module")
)

type Module interface {
	Name() string
	// Prefix is the route prefix the module owns; "" means the module exposes no routes.
	Prefix() string
	// Models lists entity models eligible for schema auto-sync.
	Models() []any
	Mount(r chi.Router)
}

// Registry keeps modules in registration order.
type Registry struct {
	modules  []Module
	names    map[string]struct{}
	prefixes map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		names:    make(map[string]struct{}),
		prefixes: make(map[string]string),
	}
}

func (r *Registry) Register(m Module) error {
	if m == nil || strings.TrimSpace(m.Name()) == "" {
		return ErrInvalidModule
	}
	name := m.Name()
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, name)
	}

	prefix := m.Prefix()
	if prefix != "" {
		if !strings.HasPrefix(prefix, "/") || prefix == "/" {
			return fmt.Errorf("%w: %s has prefix %q", ErrInvalidModule, name, prefix)
		}
		if owner, exists := r.prefixes[prefix]; exists {
			return fmt.Errorf("%w: %s wants %s owned by %s", ErrDuplicatePrefix, name, prefix, owner)
		}
		r.prefixes[prefix] = name
	}

	r.names[name] = struct{}{}
	r.modules = append(r.modules, m)
	return nil
}

// RegisterAll registers in order and stops at the first failure.
func (r *Registry) RegisterAll(modules ...Module) error {
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Modules() []Module {
	return append([]Module(nil), r.modules...)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		names = append(names, m.Name())
	}
	return names
}

func (r *Registry) Models() []any {
	var models []any
	for _, m := range r.modules {
		models = append(models, m.Models()...)
	}
	return models
}

func (r *Registry) MountAll(router chi.Router) {
	for _, m := range r.modules {
		if m.Prefix() == "" {
			continue
		}
		router.Route(m.Prefix(), m.Mount)
	}
}
