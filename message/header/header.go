package header

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")
)

// These are the fields this library gives special treatment.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-ID"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	MIMEVersion             = "MIME-Version"
	ReturnPath              = "Return-Path"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
	XMailer                 = "X-Mailer"
)

const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// structured lists the fields whose bodies must never be rewritten as encoded
// words because they carry addresses, tokens, or parameters.
var structured = map[string]struct{}{
	"bcc":                       {},
	"cc":                        {},
	"content-disposition":       {},
	"content-id":                {},
	"content-transfer-encoding": {},
	"content-type":              {},
	"date":                      {},
	"from":                      {},
	"message-id":                {},
	"mime-version":              {},
	"reply-to":                  {},
	"return-path":               {},
	"sender":                    {},
	"to":                        {},
}

// Field is a single header field. The Name keeps the case it was declared
// with, but all lookups against it are case-insensitive.
type Field struct {
	Name string
	Body string
}

// Header is an ordered list of header fields. Duplicate fields are permitted.
// The zero value is an empty header ready to use that will render with LF
// line breaks and the DefaultFoldEncoding.
type Header struct {
	lbr    Break
	vf     *FoldEncoding
	fields []Field
}

// Break returns the line break used to separate header fields and terminate the
// header.
func (h *Header) Break() Break {
	if h.lbr == Meh {
		return LF
	}
	return h.lbr
}

// SetBreak changes the line break to use with this header.
func (h *Header) SetBreak(lbr Break) {
	h.lbr = lbr
}

// FoldEncoding returns the value folder used by this header during rendering.
func (h *Header) FoldEncoding() *FoldEncoding {
	if h.vf == nil {
		return DefaultFoldEncoding
	}
	return h.vf
}

// SetFoldEncoding changes the value folder used by this header during rendering.
func (h *Header) SetFoldEncoding(vf *FoldEncoding) {
	h.vf = vf
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of all the fields in the header in order.
func (h *Header) Fields() []Field {
	fs := make([]Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	return &Header{
		lbr:    h.lbr,
		vf:     h.vf,
		fields: h.Fields(),
	}
}

// Has returns true if at least one field with the given name is present.
func (h *Header) Has(name string) bool {
	return len(h.GetIndexesNamed(name)) > 0
}

// GetIndexesNamed returns the indexes of fields with the given name.
func (h *Header) GetIndexesNamed(name string) []int {
	is := make([]int, 0, 2)
	for i, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			is = append(is, i)
		}
	}
	return is
}

// Get retrieves the string value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.fields[ixs[0]].Body
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetAll fetches all the header field bodies for fields with the given
// name and returns them as a slice of strings.
//
// It returns nil with ErrNoSuchField if no field with the given name is set on
// the header.
func (h *Header) GetAll(name string) ([]string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(ixs))
	for i, ix := range ixs {
		bs[i] = h.fields[ix].Body
	}
	return bs, nil
}

// Add appends a new field to the end of the header, even if fields with the
// same name are already present.
func (h *Header) Add(name, body string) {
	h.fields = append(h.fields, Field{name, body})
}

// Set will replace all existing header fields with the given name with a single
// header field with the given name and body. If the field already exists on the
// header, then the first occurrence will be replaced with this value and any
// other values will be deleted. If the field does not exist, it will be
// appended to the end of the header.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.Add(name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		h.deleteIndex(ixs[i])
	}

	h.fields[ixs[0]] = Field{name, body}
}

// Delete removes every field with the given name and returns the number of
// fields removed.
func (h *Header) Delete(name string) int {
	ixs := h.GetIndexesNamed(name)
	for i := len(ixs) - 1; i >= 0; i-- {
		h.deleteIndex(ixs[i])
	}
	return len(ixs)
}

func (h *Header) deleteIndex(n int) {
	copy(h.fields[n:], h.fields[n+1:])
	h.fields = h.fields[:len(h.fields)-1]
}

// Ordered returns a copy of the header with the fields rearranged. Fields named
// in order come first, in the order they are listed there. All other fields
// follow in their original order. Name matching is case-insensitive. Repeated
// fields keep their relative order.
func (h *Header) Ordered(order []string) *Header {
	nh := h.Clone()
	if len(order) == 0 {
		return nh
	}

	rank := make(map[string]int, len(order))
	for i, n := range order {
		k := strings.ToLower(n)
		if _, dup := rank[k]; !dup {
			rank[k] = i
		}
	}

	fs := make([]Field, 0, len(h.fields))
	for i := range order {
		for _, f := range h.fields {
			if r, ok := rank[strings.ToLower(f.Name)]; ok && r == i {
				fs = append(fs, f)
			}
		}
	}

	for _, f := range h.fields {
		if _, ok := rank[strings.ToLower(f.Name)]; !ok {
			fs = append(fs, f)
		}
	}

	nh.fields = fs
	return nh
}

// ParseTime is a function that provides the time parsing used by GetTime() to
// parse dates to be used on any field body. This will attempt to parse the
// date using the format specified by RFC 5322 first and fallback to parsing it
// in many other formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the given date header field as a time.Time.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}

	return ParseTime(body)
}

// SetTime will replace all existing header fields with the given name with a
// single header field with the given name and time. The time will be formatted
// via time.RFC1123Z.
func (h *Header) SetTime(name string, body time.Time) {
	h.Set(name, body.Format(time.RFC1123Z))
}

// ParseAddressList will attempt a strict parse of the email address list.
// However, if that fails, an extremely lenient parsing will be attempted, which
// might result in results that can only be described as "weird" in the effort
// to provide some kind of result.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// GetAddressList returns all the addresses found in every field with the given
// name, in order. It returns ErrNoSuchField if no such field is present.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	bs, err := h.GetAll(name)
	if err != nil {
		return nil, err
	}

	var al addr.AddressList
	for _, b := range bs {
		al = append(al, ParseAddressList(b)...)
	}

	return al, nil
}

// WriteTo writes every field, folded according to the FoldEncoding, followed by
// the blank line that terminates a header.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	lb := h.Break()
	total, err := h.writeFields(w)
	if err != nil {
		return total, err
	}

	n, err := io.WriteString(w, lb.String())
	return total + int64(n), err
}

func (h *Header) writeFields(w io.Writer) (int64, error) {
	lb := h.Break()
	vf := h.FoldEncoding()

	var total int64
	for _, f := range h.fields {
		line := f.Name + ": " + encodeBody(f)
		n, err := vf.Fold(w, []byte(line), lb)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// String returns the fields of the header without the terminating blank line.
func (h *Header) String() string {
	var buf bytes.Buffer
	_, _ = h.writeFields(&buf)
	return buf.String()
}

// encodeBody turns non-ASCII unstructured bodies into RFC 2047 encoded words.
func encodeBody(f Field) string {
	if _, isStructured := structured[strings.ToLower(f.Name)]; isStructured {
		return f.Body
	}

	for i := 0; i < len(f.Body); i++ {
		if f.Body[i] >= utf8.RuneSelf {
			return mime.QEncoding.Encode("utf-8", f.Body)
		}
	}

	return f.Body
}

// parseEmailAddressList is a fallback method for email address parsing. The
// parser in github.com/zostay/go-addr is a strict parser. When that fails we
// still want something useful for the envelope, even if it is technically
// wrong.
//
// It works as follows:
//
// 1. Split the string up by commas.
// 2. Each string resulting from the split is trimmed of whitespace.
// 3. The comments are stripped from each string and held.
// 4. All the words at the start are treated as the display name.
// 5. The last word at the end is treated as the email address, minus any
// angle brackets.
func parseEmailAddressList(v string) addr.AddressList {
	extractComments := func(s string) (string, string) {
		var clean, comment strings.Builder
		nestLevel := 0
		for _, c := range s {
			switch {
			case c == '(':
				nestLevel++
				if nestLevel > 1 {
					comment.WriteRune(c)
				}
			case c == ')':
				nestLevel--
				switch {
				case nestLevel == 0:
					continue
				case nestLevel < 0:
					nestLevel = 0
					clean.WriteRune(c)
				default:
					comment.WriteRune(c)
				}
			case nestLevel > 0:
				comment.WriteRune(c)
			default:
				clean.WriteRune(c)
			}
		}

		return clean.String(), comment.String()
	}

	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		mb, com := extractComments(orig)

		mb = strings.TrimSpace(mb)
		com = strings.TrimSpace(com)

		parts := strings.Fields(mb)

		var dn, email string
		switch {
		case len(parts) == 0:
			continue
		case len(parts) > 1:
			dn = strings.Join(parts[:len(parts)-1], " ")
			email = parts[len(parts)-1]
		default:
			email = parts[0]
		}

		email = strings.Trim(email, "<>")
		if email == "" {
			continue
		}

		var addrSpec *addr.AddrSpec
		if i := strings.Index(email, "@"); i > -1 {
			addrSpec = addr.NewAddrSpecParsed(email[:i], email[i+1:], email)
		} else {
			addrSpec = addr.NewAddrSpecParsed(email, "", email)
		}

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, orig)
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", orig)
		}

		as = append(as, mailbox)
	}

	return as
}
