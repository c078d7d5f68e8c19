package message

import (
	"bytes"
	"io"
	"strings"

	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/header/param"
	"github.com/zostay/go-mimelite/message/transfer"
)

// countWriter keeps track of how many bytes have been written through it.
type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteTo finalizes the entity and writes the complete message to w: the
// header, a blank line, and then either the encoded body or the boundary
// delimited parts.
//
// A body read from a Path is opened and closed during the write. A body read
// from a Reader that is not an io.Seeker can only be written once. Writing it
// again results in ErrState.
func (e *Entity) WriteTo(w io.Writer) (int64, error) {
	if err := e.Finalize(); err != nil {
		return 0, err
	}

	cw := &countWriter{w: w}
	err := e.write(cw, e.options(), !e.owned)
	return cw.n, err
}

// Bytes returns the complete message. It is identical to what WriteTo writes.
func (e *Entity) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the complete message as a string.
func (e *Entity) String() (string, error) {
	b, err := e.Bytes()
	return string(b), err
}

// HeaderString returns the rendered header, including the blank line that
// ends it. HeaderString followed by BodyString is the same as String.
func (e *Entity) HeaderString() (string, error) {
	if err := e.Finalize(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := e.renderHeader(e.options(), !e.owned).WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BodyString returns the encoded body, or the parts with their boundaries for
// a container.
func (e *Entity) BodyString() (string, error) {
	if err := e.Finalize(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.writeBody(&buf, e.options()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *Entity) write(w io.Writer, o *Options, top bool) error {
	if _, err := e.renderHeader(o, top).WriteTo(w); err != nil {
		return err
	}
	return e.writeBody(w, o)
}

func (e *Entity) writeBody(w io.Writer, o *Options) error {
	if e.IsMultipart() {
		return e.writeParts(w, o)
	}
	return e.writeLeaf(w, o)
}

func (e *Entity) writeParts(w io.Writer, o *Options) error {
	lb := o.Break.String()
	delim := "--" + e.attrs[AttrBoundary]

	for _, p := range e.parts {
		if _, err := io.WriteString(w, delim+lb); err != nil {
			return err
		}

		if err := p.write(w, o, false); err != nil {
			return err
		}

		if _, err := io.WriteString(w, lb); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, delim+"--"+lb)
	return err
}

func (e *Entity) writeLeaf(w io.Writer, o *Options) (err error) {
	r, err := e.src.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if e.finalEncoding == transfer.Bit7 {
		w = transfer.NewSevenBitChecker(w, func() {
			o.Logger.Warn("8-bit data found in a 7bit part",
				"type", e.finalType,
				"filename", e.Filename())
		})
	}

	enc, err := transfer.ApplyTransferEncoding(e.finalEncoding, w, o.Break)
	if err != nil {
		return err
	}

	if _, err := io.Copy(enc, r); err != nil {
		_ = enc.Close()
		return err
	}

	return enc.Close()
}

// renderHeader builds the header to write: the custom fields, then the
// synthesized MIME fields that have not been overridden, arranged by the
// field order.
func (e *Entity) renderHeader(o *Options, top bool) *header.Header {
	h := e.Header.Clone()
	h.SetBreak(o.Break)
	h.SetFoldEncoding(foldEncoding(o))

	add := func(name, body string) {
		if body != "" && !h.Has(name) {
			h.Add(name, body)
		}
	}

	if top {
		add(header.MIMEVersion, "1.0")
	}

	add(header.ContentType, e.contentType())

	if enc := e.finalEncoding; enc != transfer.None {
		add(header.ContentTransferEncoding, enc)
	}

	add(header.ContentDisposition, e.contentDisposition())
	add(header.ContentID, e.attrs[AttrID])

	return h.Ordered(o.FieldOrder)
}

// contentType renders the Content-Type field body. The charset, name, and
// boundary parameters come first, followed by any others in name order.
func (e *Entity) contentType() string {
	mods := []param.Modifier{}
	if cs := e.attrs[AttrCharset]; cs != "" {
		mods = append(mods, param.Set(param.Charset, cs))
	}
	if n := e.attrs[AttrName]; n != "" {
		mods = append(mods, param.Set(param.Name, n))
	}
	if e.IsMultipart() {
		mods = append(mods, param.Set(param.Boundary, e.attrs[AttrBoundary]))
	}

	known := map[string]struct{}{AttrCharset: {}, AttrName: {}, AttrBoundary: {}}
	mods = append(mods, e.extraParams("content-type.", known)...)

	return param.Modify(param.New(e.finalType), mods...).String()
}

// contentDisposition renders the Content-Disposition field body, or returns
// the empty string if no disposition is set.
func (e *Entity) contentDisposition() string {
	disp := e.attrs[AttrDisposition]
	if disp == "" {
		return ""
	}

	mods := []param.Modifier{}
	if fn := e.attrs[AttrFilename]; fn != "" {
		mods = append(mods, param.Set(param.Filename, fn))
	}

	known := map[string]struct{}{AttrFilename: {}}
	mods = append(mods, e.extraParams("content-disposition.", known)...)

	return param.Modify(param.New(disp), mods...).String()
}

// extraParams returns modifiers for the attributes under prefix that are not
// in known, in name order.
func (e *Entity) extraParams(prefix string, known map[string]struct{}) []param.Modifier {
	var mods []param.Modifier
	for _, k := range e.AttrNames() {
		if _, isKnown := known[k]; isKnown || !strings.HasPrefix(k, prefix) {
			continue
		}
		mods = append(mods, param.Set(strings.TrimPrefix(k, prefix), e.attrs[k]))
	}
	return mods
}

// foldEncoding returns the header folding for the options. A fold length too
// short to be useful falls back to the default.
func foldEncoding(o *Options) *header.FoldEncoding {
	if o.FoldLength == 0 {
		return header.DefaultFoldEncoding
	}

	vf, err := header.NewFoldEncoding(o.FoldLength)
	if err != nil {
		o.Logger.Warn("ignoring fold length", "length", o.FoldLength, "error", err)
		return header.DefaultFoldEncoding
	}
	return vf
}
