package message

import (
	"fmt"
	"strings"
)

// AttachOption modifies the behavior of Attach and AttachConfig.
type AttachOption func(*attachOptions)

type attachOptions struct {
	promoteAs string
}

// PromoteAs sets the media type a leaf is given when Attach turns it into a
// container. The default is DefaultMultipartContentType.
func PromoteAs(mt string) AttachOption {
	return func(o *attachOptions) {
		o.promoteAs = normalizeType(mt)
	}
}

func newAttachOptions(opts []AttachOption) *attachOptions {
	o := &attachOptions{promoteAs: DefaultMultipartContentType}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// checkAttach returns an error if nothing may be attached to e.
func (e *Entity) checkAttach(o *attachOptions) error {
	if e.IsMultipart() && !IsMultipartType(e.mediaType) {
		return fmt.Errorf("%w: cannot attach to a container of type %q", ErrState, e.mediaType)
	}

	if !e.IsMultipart() && !IsMultipartType(o.promoteAs) {
		return fmt.Errorf("%w: cannot promote to non-multipart type %q", ErrConfig, o.promoteAs)
	}

	return nil
}

// Attach appends child to the parts of e.
//
// If e is a leaf, it is first promoted to a container: a new first part is
// created carrying the type, encoding, body, content attributes, and any
// custom Content-* fields of e. Then e becomes a multipart/mixed container
// (see PromoteAs), keeping its other header fields.
//
// It returns ErrState if child already has a parent, if child is e or one of
// its ancestors, or if e is a container whose type is not multipart. On error,
// neither e nor child is changed.
func (e *Entity) Attach(child *Entity, opts ...AttachOption) error {
	o := newAttachOptions(opts)

	switch {
	case child == nil:
		return fmt.Errorf("%w: cannot attach a nil part", ErrState)
	case child.owned:
		return fmt.Errorf("%w: part already has a parent", ErrState)
	case child == e || child.contains(e):
		return fmt.Errorf("%w: cannot attach a part to itself or its descendant", ErrState)
	}

	if err := e.checkAttach(o); err != nil {
		return err
	}

	e.adopt(child, o)
	return nil
}

// AttachConfig builds a new entity from c and attaches it to e. The new entity
// is built with the options of e. It returns the new entity.
//
// It returns ErrState if any of c.Parts is e or one of its ancestors. On error,
// e and c.Parts are not changed.
func (e *Entity) AttachConfig(c Config, opts ...AttachOption) (*Entity, error) {
	o := newAttachOptions(opts)
	if err := e.checkAttach(o); err != nil {
		return nil, err
	}

	for i, p := range c.Parts {
		if p != nil && (p == e || p.contains(e)) {
			return nil, fmt.Errorf("%w: part %d is the entity attached to or its ancestor", ErrState, i)
		}
	}

	child, err := Build(c, inherit(e.options()))
	if err != nil {
		return nil, err
	}

	e.adopt(child, o)
	return child, nil
}

// adopt does the work of attaching after every check has passed.
func (e *Entity) adopt(child *Entity, o *attachOptions) {
	if !e.IsMultipart() {
		e.promote(o.promoteAs)
	}

	child.owned = true
	e.parts = append(e.parts, child)
	e.resolved = false
}

// promote moves the body of e into a new first part and turns e into a
// container of type mt.
func (e *Entity) promote(mt string) {
	first := &Entity{
		mediaType: e.mediaType,
		encoding:  e.encoding,
		attrs:     make(map[string]string, len(e.attrs)),
		src:       e.src,
		owned:     true,
		opts:      e.opts,
	}

	for k, v := range e.attrs {
		if k != AttrBoundary {
			first.attrs[k] = v
		}
	}

	moved := map[string]struct{}{}
	for _, f := range e.Fields() {
		if strings.HasPrefix(strings.ToLower(f.Name), "content-") {
			first.Add(f.Name, f.Body)
			moved[f.Name] = struct{}{}
		}
	}
	for name := range moved {
		e.Delete(name)
	}

	attrs := map[string]string{}
	if b, ok := e.attrs[AttrBoundary]; ok {
		attrs[AttrBoundary] = b
	}

	e.mediaType = mt
	e.encoding = ""
	e.attrs = attrs
	e.src = nil
	e.parts = []*Entity{first}
	e.resolved = false
}

// contains returns true if target is somewhere beneath e.
func (e *Entity) contains(target *Entity) bool {
	for _, p := range e.parts {
		if p == target || p.contains(target) {
			return true
		}
	}
	return false
}

// inherit copies the given options.
func inherit(from *Options) Option {
	return func(o *Options) {
		*o = *from
	}
}
