package pagination

import "github.com/go-chi/chi/v5"

// Module registers pagination as a shared feature with no routes or entities.
type Module struct{}

func NewModule() Module { return Module{} }

func (Module) Name() string { return "pagination" }
func (Module) Prefix() string { return "" }
func (Module) Models() []any { return nil }
func (Module) Mount(chi.Router) {}
