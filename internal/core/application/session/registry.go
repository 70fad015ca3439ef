package session

import (
	"sync"

	"pos/internal/pkg/errs"
)

// Registry hands out one Controller per terminal, created on first use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Controller
	create   func(terminal string) *Controller
}

func NewRegistry(create func(terminal string) *Controller) *Registry {
	return &Registry{sessions: map[string]*Controller{}, create: create}
}

func (r *Registry) Get(terminal string) (*Controller, error) {
	if terminal == "" {
		return nil, errs.NewValueIsRequiredError("terminal")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.sessions[terminal]
	if !ok {
		c = r.create(terminal)
		r.sessions[terminal] = c
	}
	return c, nil
}
