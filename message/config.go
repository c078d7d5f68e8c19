package message

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zostay/go-mimelite/message/charset"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/transfer"
)

// Config describes an entity to Build. Every field is optional, but a leaf must
// have exactly one body source (Data, Lines, Text, Path, or Reader) and a
// container must have none.
type Config struct {
	// Type is the media type. It may be AUTO or TEXT. The default is TEXT, or
	// DefaultMultipartContentType when Parts are given.
	Type string

	// Encoding is the Content-transfer-encoding. It may be transfer.Suggest.
	// When empty, it is picked from the media type (see WithoutAutoEncoding).
	Encoding string

	// Data is the body as bytes. A nil slice means no Data was given.
	Data []byte

	// Lines is the body as a sequence of lines. Each line is terminated with
	// LF, unless it already is.
	Lines []string

	// Text is the body as a Unicode string. It is transcoded to Charset (or
	// utf-8 if it is not ASCII and no Charset is given).
	Text string

	// Path names a file to read the body from when the entity is written.
	Path string

	// Reader is an open handle to read the body from when the entity is
	// written. It is not closed.
	Reader io.Reader

	// ReadNow reads Path into memory during Build.
	ReadNow bool

	// Filename is the filename hint. It is rendered as the Content-Type name
	// and the Content-Disposition filename. The default is the base name of
	// Path.
	Filename string

	// Disposition is the Content-Disposition, usually "inline" or
	// "attachment". When a filename is present, the default is "inline".
	Disposition string

	// ID is the Content-ID, with or without angle brackets.
	ID string

	// Boundary overrides the generated multipart boundary.
	Boundary string

	// Charset is the Content-Type charset parameter.
	Charset string

	// Date is parsed (leniently) and set as the Date field.
	Date string

	// Parts are the parts of a container. They must not have a parent.
	Parts []*Entity

	// Header holds custom header fields in order.
	Header []header.Field
}

// sources returns how many body sources are set.
func (c *Config) sources() int {
	n := 0
	if c.Data != nil {
		n++
	}
	if c.Lines != nil {
		n++
	}
	if c.Text != "" {
		n++
	}
	if c.Path != "" {
		n++
	}
	if c.Reader != nil {
		n++
	}
	return n
}

// Build creates a new entity from the Config. The options govern the tree when
// this entity is the root.
//
// It returns an error matching ErrConfig when the Config is contradictory,
// ErrUnsupportedEncoding for an unknown encoding, ErrState when one of the
// Parts already has a parent, and a *PathError when ReadNow is set and Path
// cannot be read.
func Build(c Config, opts ...Option) (*Entity, error) {
	o := NewOptions(opts...)

	nsrc := c.sources()
	switch {
	case nsrc > 1:
		return nil, fmt.Errorf("%w: more than one body source given", ErrConfig)
	case nsrc > 0 && len(c.Parts) > 0:
		return nil, fmt.Errorf("%w: both a body source and parts given", ErrConfig)
	}

	mt := normalizeType(c.Type)
	if mt == "" {
		if len(c.Parts) > 0 {
			mt = DefaultMultipartContentType
		} else {
			mt = TEXT
		}
	}

	container := nsrc == 0
	switch {
	case len(c.Parts) > 0 && !IsMultipartType(mt):
		return nil, fmt.Errorf("%w: parts given for %q", ErrConfig, mt)
	case container && !IsMultipartType(mt):
		return nil, fmt.Errorf("%w: no body source given for %q", ErrConfig, mt)
	case !container && IsMultipartType(mt):
		return nil, fmt.Errorf("%w: body source given for %q", ErrConfig, mt)
	}

	enc, err := transfer.Normalize(c.Encoding)
	if err != nil {
		return nil, err
	}

	if container && enc != transfer.Suggest && !transfer.IsIdentity(enc) {
		return nil, fmt.Errorf("%w: encoding %q is not permitted on %q", ErrConfig, enc, mt)
	}

	if err := checkParts(c.Parts); err != nil {
		return nil, err
	}

	e := &Entity{
		mediaType: mt,
		encoding:  enc,
		attrs:     make(map[string]string),
		opts:      o,
	}

	if err := e.buildSource(&c, o); err != nil {
		return nil, err
	}

	e.buildAttrs(&c)

	if c.Date != "" {
		t, err := header.ParseTime(c.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date: %v", ErrConfig, err)
		}
		e.SetTime(header.Date, t)
	}

	for _, f := range c.Header {
		e.Add(f.Name, f.Body)
	}

	if container {
		e.parts = make([]*Entity, 0, len(c.Parts))
		for _, p := range c.Parts {
			p.owned = true
			e.parts = append(e.parts, p)
		}
	}

	return e, nil
}

// checkParts makes sure every part may be adopted.
func checkParts(parts []*Entity) error {
	seen := make(map[*Entity]struct{}, len(parts))
	for i, p := range parts {
		if p == nil {
			return fmt.Errorf("%w: part %d is nil", ErrConfig, i)
		}
		if p.owned {
			return fmt.Errorf("%w: part %d already has a parent", ErrState, i)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: part %d is given more than once", ErrState, i)
		}
		seen[p] = struct{}{}
	}
	return nil
}

func (e *Entity) buildSource(c *Config, o *Options) error {
	switch {
	case c.Data != nil:
		e.src = bytesSource(c.Data)
	case c.Lines != nil:
		e.src = linesSource(c.Lines)
	case c.Text != "":
		cs := c.Charset
		if cs == "" && !charset.IsASCII(c.Text) {
			cs = "utf-8"
			e.attrs[AttrCharset] = cs
		}

		b, err := charset.Encode(cs, c.Text, o.Builtin)
		if err != nil {
			if errors.Is(err, charset.ErrUnknownCharset) {
				return fmt.Errorf("%w: %v", ErrConfig, err)
			}
			return err
		}
		e.src = bytesSource(b)
	case c.Path != "" && c.ReadNow:
		b, err := os.ReadFile(c.Path)
		if err != nil {
			return &PathError{Path: c.Path, Err: err}
		}
		e.src = bytesSource(b)
	case c.Path != "":
		e.src = pathSource(c.Path)
	case c.Reader != nil:
		e.src = newReaderSource(c.Reader)
	}
	return nil
}

func (e *Entity) buildAttrs(c *Config) {
	fn := c.Filename
	if fn == "" && c.Path != "" {
		fn = filepath.Base(c.Path)
	}

	if fn != "" {
		e.attrs[AttrName] = fn
		e.attrs[AttrFilename] = fn
	}

	disp := strings.ToLower(c.Disposition)
	if disp == "" && fn != "" {
		disp = "inline"
	}
	if disp != "" {
		e.attrs[AttrDisposition] = disp
	}

	if c.ID != "" {
		e.attrs[AttrID] = angleBracket(c.ID)
	}

	if c.Boundary != "" {
		e.attrs[AttrBoundary] = c.Boundary
	}

	if c.Charset != "" {
		e.attrs[AttrCharset] = strings.ToLower(c.Charset)
	}
}
