package session

import (
	"fmt"
	"sync"
)

// Registry maps names to callables so configuration read from files can refer
// to Go functions. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	actions     map[string]ActionFunc
	normalizers map[string]NormalizeFunc
	validators  map[string]ClientValidationFunc
	fetchers    map[string]FetchFunc
	requests    map[string]RequestFunc
	responses   map[string]ResponseFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:     make(map[string]ActionFunc),
		normalizers: make(map[string]NormalizeFunc),
		validators:  make(map[string]ClientValidationFunc),
		fetchers:    make(map[string]FetchFunc),
		requests:    make(map[string]RequestFunc),
		responses:   make(map[string]ResponseFunc),
	}
}

func register[F any](r *Registry, m map[string]F, name string, fn F) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := m[name]; ok {
		return fmt.Errorf("%w: %q", ErrFunctionAlreadyRegistered, name)
	}
	m[name] = fn
	return nil
}

func lookup[F any](r *Registry, m map[string]F, name string) (F, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := m[name]
	return fn, ok
}

func (r *Registry) RegisterAction(name string, fn ActionFunc) error {
	return register(r, r.actions, name, fn)
}

func (r *Registry) RegisterNormalizer(name string, fn NormalizeFunc) error {
	return register(r, r.normalizers, name, fn)
}

func (r *Registry) RegisterClientValidation(name string, fn ClientValidationFunc) error {
	return register(r, r.validators, name, fn)
}

func (r *Registry) RegisterFetch(name string, fn FetchFunc) error {
	return register(r, r.fetchers, name, fn)
}

func (r *Registry) RegisterRequest(name string, fn RequestFunc) error {
	return register(r, r.requests, name, fn)
}

func (r *Registry) RegisterResponse(name string, fn ResponseFunc) error {
	return register(r, r.responses, name, fn)
}

// Action looks up a registered action callback.
func (r *Registry) Action(name string) (ActionFunc, bool) {
	return lookup(r, r.actions, name)
}

func (r *Registry) Normalizer(name string) (NormalizeFunc, bool) {
	return lookup(r, r.normalizers, name)
}

func (r *Registry) ClientValidation(name string) (ClientValidationFunc, bool) {
	return lookup(r, r.validators, name)
}

func (r *Registry) Fetch(name string) (FetchFunc, bool) {
	return lookup(r, r.fetchers, name)
}

func (r *Registry) Request(name string) (RequestFunc, bool) {
	return lookup(r, r.requests, name)
}

func (r *Registry) Response(name string) (ResponseFunc, bool) {
	return lookup(r, r.responses, name)
}
