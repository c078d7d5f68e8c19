// Package transport defines how a rendered message is handed off for delivery.
// A Transport receives the complete message text and the envelope. Backends
// are registered by name in a Registry and opened with backend-specific
// arguments.
//
// Errors from a backend are returned wrapped in *Error and are never retried.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

var (
	// ErrUnknownTransport is returned by Open when no backend is registered
	// under the requested name.
	ErrUnknownTransport = errors.New("unknown transport")

	// ErrMissingArg is returned by a backend constructor when a required
	// argument is not given.
	ErrMissingArg = errors.New("missing transport argument")
)

// Envelope is the sender and recipients handed to the transport, which need
// not match the header of the message.
type Envelope struct {
	From       string
	Recipients []string
}

// Transport delivers a rendered message.
type Transport interface {
	// Deliver hands off msg for delivery to the envelope recipients.
	Deliver(ctx context.Context, env Envelope, msg []byte) error
}

// Func is a Transport implemented by a plain function. It is the way to plug
// in a custom delivery callback.
type Func func(ctx context.Context, env Envelope, msg []byte) error

// Deliver calls f.
func (f Func) Deliver(ctx context.Context, env Envelope, msg []byte) error {
	return f(ctx, env, msg)
}

// Args are the backend-specific arguments given to a Constructor. The core
// never interprets them.
type Args map[string]string

// Get returns the named argument or def if it is not set.
func (a Args) Get(name, def string) string {
	if v, ok := a[name]; ok && v != "" {
		return v
	}
	return def
}

// Require returns the named argument or an error matching ErrMissingArg.
func (a Args) Require(name string) (string, error) {
	if v, ok := a[name]; ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrMissingArg, name)
}

// Bool returns the named argument parsed as a boolean, or def if it is not set.
func (a Args) Bool(name string, def bool) (bool, error) {
	v, ok := a[name]
	if !ok || v == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("transport argument %q: %w", name, err)
	}
	return b, nil
}

// Constructor creates a Transport from its arguments.
type Constructor func(args Args) (Transport, error)

// Error wraps a failure reported by a backend.
type Error struct {
	Transport string // the registered name of the backend
	Err       error  // the error from the backend
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("transport %q failed: %v", e.Transport, e.Err)
}

// Unwrap returns the backend error.
func (e *Error) Unwrap() error {
	return e.Err
}

// named wraps the errors of an opened transport.
type named struct {
	name string
	t    Transport
}

func (n *named) Deliver(ctx context.Context, env Envelope, msg []byte) error {
	if err := n.t.Deliver(ctx, env, msg); err != nil {
		return &Error{Transport: n.name, Err: err}
	}
	return nil
}

// Registry maps backend names to constructors. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// Default is the registry the backend packages register themselves with.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: map[string]Constructor{}}
}

// Register adds a backend, replacing any other backend with the same name.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = c
}

// RegisterFunc adds a custom callback backend. The arguments given to Open are
// ignored.
func (r *Registry) RegisterFunc(name string, f Func) {
	r.Register(name, func(Args) (Transport, error) {
		return f, nil
	})
}

// Open constructs the named backend. It returns ErrUnknownTransport if there is
// no such backend. Errors returned by the Transport are wrapped in *Error.
func (r *Registry) Open(name string, args Args) (Transport, error) {
	r.mu.RLock()
	c, ok := r.ctors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
	}

	if args == nil {
		args = Args{}
	}

	t, err := c(args)
	if err != nil {
		return nil, fmt.Errorf("unable to open transport %q: %w", name, err)
	}

	return &named{name: name, t: t}, nil
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for n := range r.ctors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
