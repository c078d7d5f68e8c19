package message

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/transfer"
)

// Attribute names understood by Attr and SetAttr. An attribute is named for
// the field it belongs to, optionally followed by a dot and the parameter
// name. Any other "content-type.*" or "content-disposition.*" name is
// rendered as an extra parameter of that field.
const (
	AttrCharset     = "content-type.charset"
	AttrName        = "content-type.name"
	AttrBoundary    = "content-type.boundary"
	AttrDisposition = "content-disposition"
	AttrFilename    = "content-disposition.filename"
	AttrID          = "content-id"

	attrType     = "content-type"
	attrEncoding = "content-transfer-encoding"
)

// Entity is a node in a MIME message tree. It is either a leaf with a body or a
// multipart container with parts.
//
// The embedded header.Header holds the custom fields (Subject, To, X-*,
// etc.). The Content-Type, Content-Transfer-Encoding, Content-Disposition,
// and Content-ID fields are synthesized from the type, encoding, and
// attributes when the entity is written, unless a custom field of the same
// name has been set.
//
// An Entity is not safe for concurrent use. Attaching to or writing the same
// tree from more than one goroutine at a time is the caller's problem.
type Entity struct {
	header.Header

	mediaType string
	encoding  string
	attrs     map[string]string

	src   source
	parts []*Entity
	owned bool

	// opts are used when this entity is the root
	opts *Options

	// resolution cached by Finalize
	resolved      bool
	finalType     string
	finalEncoding string
}

// Type returns the declared media type, which may be AUTO or TEXT.
func (e *Entity) Type() string {
	return e.mediaType
}

// SetType changes the declared media type.
func (e *Entity) SetType(mt string) {
	e.mediaType = normalizeType(mt)
	e.resolved = false
}

// Encoding returns the declared Content-transfer-encoding. This is empty when
// the encoding is to be picked from the media type.
func (e *Entity) Encoding() string {
	return e.encoding
}

// SetEncoding changes the declared Content-transfer-encoding. It returns
// ErrUnsupportedEncoding if the name is not known.
func (e *Entity) SetEncoding(enc string) error {
	norm, err := transfer.Normalize(enc)
	if err != nil {
		return err
	}

	e.encoding = norm
	e.resolved = false
	return nil
}

// Attr returns the named attribute, or the empty string. The names
// "content-type" and "content-transfer-encoding" return the declared type and
// encoding.
func (e *Entity) Attr(name string) string {
	switch name = strings.ToLower(name); name {
	case attrType:
		return e.mediaType
	case attrEncoding:
		return e.encoding
	}
	return e.attrs[name]
}

// SetAttr sets the named attribute. Setting "content-type" or
// "content-transfer-encoding" is the same as calling SetType or SetEncoding.
// Setting an attribute to the empty string deletes it.
func (e *Entity) SetAttr(name, value string) error {
	switch name = strings.ToLower(name); name {
	case attrType:
		e.SetType(value)
		return nil
	case attrEncoding:
		return e.SetEncoding(value)
	}

	if value == "" {
		e.DeleteAttr(name)
		return nil
	}

	if name == AttrID {
		value = angleBracket(value)
	}

	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}

	e.attrs[name] = value
	e.resolved = false
	return nil
}

// DeleteAttr removes the named attribute.
func (e *Entity) DeleteAttr(name string) {
	delete(e.attrs, strings.ToLower(name))
	e.resolved = false
}

// AttrNames returns the names of every attribute set, sorted.
func (e *Entity) AttrNames() []string {
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Filename returns the filename hint of the entity.
func (e *Entity) Filename() string {
	if fn := e.attrs[AttrFilename]; fn != "" {
		return fn
	}
	return e.attrs[AttrName]
}

// Boundary returns the multipart boundary. It is empty until one is set or the
// entity has been finalized.
func (e *Entity) Boundary() string {
	return e.attrs[AttrBoundary]
}

// Parts returns the parts of a container. The returned slice is a copy.
func (e *Entity) Parts() []*Entity {
	if e.parts == nil {
		return nil
	}
	ps := make([]*Entity, len(e.parts))
	copy(ps, e.parts)
	return ps
}

// IsMultipart returns true if the entity is a container. A container has no
// body of its own.
func (e *Entity) IsMultipart() bool {
	return e.src == nil
}

// HasParent returns true if the entity has been attached to another.
func (e *Entity) HasParent() bool {
	return e.owned
}

// Options returns the options this entity was built with. These only apply
// when the entity is the root of the tree being written.
func (e *Entity) Options() *Options {
	return e.opts
}

// Path returns the file path of the body, if the body is read from a file.
func (e *Entity) Path() string {
	if e.src == nil {
		return ""
	}
	return e.src.path()
}

// Inline returns the body bytes if the body is held in memory.
func (e *Entity) Inline() []byte {
	if e.src == nil {
		return nil
	}
	return e.src.inline()
}

// options returns the options to use when e is the root of the tree.
func (e *Entity) options() *Options {
	if e.opts == nil {
		e.opts = NewOptions()
	}
	return e.opts
}

// angleBracket wraps a Content-ID in angle brackets, unless it already is.
func angleBracket(id string) string {
	if strings.HasPrefix(id, "<") && strings.HasSuffix(id, ">") {
		return id
	}
	return fmt.Sprintf("<%s>", id)
}
