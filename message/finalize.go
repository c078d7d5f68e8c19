package message

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/zostay/go-mimelite/internal/version"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/transfer"
)

// Finalize resolves the placeholders of every entity in the tree rooted at e
// using the options of e: AUTO and TEXT types, missing and Suggest encodings,
// and multipart boundaries. The results are cached, so repeated calls (and
// repeated writes) produce the same output until the tree is changed. A
// boundary, once generated, is kept even when the tree changes.
//
// Writing an entity calls Finalize first, so calling it directly is only
// needed to check a tree for errors ahead of time.
//
// It returns ErrState if a container has no parts or a container's type is
// not multipart, and a *PathError if WithVerifyPaths is set and a Path body
// cannot be opened.
func (e *Entity) Finalize() error {
	return e.finalize(e.options(), !e.owned)
}

func (e *Entity) finalize(o *Options, top bool) error {
	if e.IsMultipart() {
		if len(e.parts) == 0 {
			return fmt.Errorf("%w: multipart entity has no parts", ErrState)
		}

		if !IsMultipartType(e.mediaType) {
			return fmt.Errorf("%w: entity with parts has type %q", ErrState, e.mediaType)
		}

		for _, p := range e.parts {
			if err := p.finalize(o, false); err != nil {
				return err
			}
		}
	} else if o.VerifyPaths {
		if ps, isPath := e.src.(pathSource); isPath {
			if err := ps.verify(); err != nil {
				return err
			}
		}
	}

	if top && o.Stamp {
		e.stamp(o)
	}

	if e.resolved {
		return nil
	}

	mt := e.resolveType(o)
	enc, err := e.resolveEncoding(mt, o)
	if err != nil {
		return err
	}

	if e.IsMultipart() && e.attrs[AttrBoundary] == "" {
		if e.attrs == nil {
			e.attrs = make(map[string]string)
		}
		e.attrs[AttrBoundary] = GenerateSafeBoundary(e.inlineCorpus())
	}

	e.finalType = mt
	e.finalEncoding = enc
	e.resolved = true
	return nil
}

// stamp adds the Date and X-Mailer fields, unless they are already present.
func (e *Entity) stamp(o *Options) {
	if !e.Has(header.Date) {
		now := o.Now
		if now == nil {
			now = NewOptions().Now
		}
		e.SetTime(header.Date, now())
	}

	if !e.Has(header.XMailer) {
		e.Set(header.XMailer, version.Mailer())
	}
}

// resolveType turns AUTO and TEXT into real media types.
func (e *Entity) resolveType(o *Options) string {
	switch e.mediaType {
	case TEXT:
		return TextContentType
	case AUTO:
		hint := e.Filename()
		if hint == "" {
			if p := e.Path(); p != "" {
				hint = filepath.Base(p)
			}
		}

		if o.AutoType && hint != "" {
			if mt := LookupType(hint, o.Builtin); mt != "" {
				return mt
			}
		}

		o.Logger.Debug("no media type found for part, using default",
			"filename", hint,
			"type", DefaultContentType)
		return DefaultContentType
	}

	return e.mediaType
}

// resolveEncoding picks the Content-transfer-encoding to use for media type
// mt.
func (e *Entity) resolveEncoding(mt string, o *Options) (string, error) {
	enc := e.encoding
	if e.IsMultipart() {
		if enc == "" || enc == transfer.Suggest {
			return transfer.None, nil
		}
		return enc, nil
	}

	if enc == "" {
		if o.AutoEncoding {
			enc = transfer.ByType(mt)
		} else {
			enc = transfer.Bit7
		}
	}

	if enc == transfer.Suggest {
		return e.suggest(mt, o)
	}

	return enc, nil
}

// suggest scans the body to pick an encoding. Bodies that can only be read
// once are not scanned.
func (e *Entity) suggest(mt string, o *Options) (string, error) {
	if !e.src.scannable() {
		return transfer.SuggestUnscanned(mt), nil
	}

	r, err := e.src.open()
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	return transfer.SuggestEncoding(r, mt, o.lineLimit())
}

// inlineCorpus gathers the in-memory bodies beneath e, which a new boundary
// must not collide with.
func (e *Entity) inlineCorpus() string {
	var buf bytes.Buffer
	var gather func(*Entity)
	gather = func(n *Entity) {
		for _, p := range n.parts {
			if b := p.Inline(); b != nil {
				buf.Write(b)
				buf.WriteByte('\n')
			}
			gather(p)
		}
	}
	gather(e)
	return buf.String()
}
