package param

import (
	"strings"
)

const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-Type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in the
	// Content-Type header.
	Boundary = "boundary"

	// Name is the name of the name parameter that may be present in the
	// Content-Type header.
	Name = "name"

	// Filename is the name of the filename parameter that may be present in the
	// Content-Disposition header.
	Filename = "filename"
)

// tspecials are the characters RFC 2045 forbids in an unquoted token.
const tspecials = `()<>@,;:\"/[]?=`

// Value represents a parameterized header field, such as is used in the
// Content-Type and Content-Disposition headers. Parameters keep the order in
// which they were set. A Value object is immutable: You cannot change it in
// place. However, a Modify() function is provided to perform transformation
// of a Value into a new Value.
type Value struct {
	v     string
	names []string
	ps    map[string]string
}

// New creates a new parameterized header field with no parameters.
func New(v string) *Value {
	return &Value{v: v, ps: map[string]string{}}
}

// Modifier is a modification to apply to a Value when calling the Modify()
// function.
type Modifier func(*Value)

// Change is a Modifier that replaces the primary value of the Value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set is a Modifier that sets a parameter with the given name on the Value.
// Names are case-insensitive and stored in lowercase. Setting an existing
// parameter keeps its position.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		name = strings.ToLower(name)
		if _, exists := pv.ps[name]; !exists {
			pv.names = append(pv.names, name)
		}
		pv.ps[name] = value
	}
}

// Delete is a Modifier that removes the parameter with the given name from the
// Value.
func Delete(name string) Modifier {
	return func(pv *Value) {
		name = strings.ToLower(name)
		if _, exists := pv.ps[name]; !exists {
			return
		}
		delete(pv.ps, name)
		for i, n := range pv.names {
			if n == name {
				pv.names = append(pv.names[:i], pv.names[i+1:]...)
				break
			}
		}
	}
}

// Modify clones a Value, applies the given modifications (if any) and returns
// the new Value. You can pass multiple changes to this function:
//
//	v := param.New("multipart/mixed")
//	nv := param.Modify(v, param.Change("multipart/alternative"), param.Set("boundary", "abc"))
func Modify(pv *Value, changes ...Modifier) *Value {
	copy := pv.Clone()
	for _, change := range changes {
		change(copy)
	}
	return copy
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// MediaType is a synonym for Value() and returns the Content-Type value, e.g.,
// "text/html", "image/jpeg", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type is only intended for use with the Content-Type header. It searches the
// MediaType() for a slash. If found, it will return the string before that
// slash. If no slash is found, it returns an empty string.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype is only intended for use with the Content-Type header. It searches
// the MediaType() for a slash. If found, it will return the string after that
// slash. If no slash is found, it returns an empty string.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Names returns the parameter names in the order they were set.
func (pv *Value) Names() []string {
	ns := make([]string, len(pv.names))
	copy(ns, pv.names)
	return ns
}

// Parameter returns the value of the parameter with the given name.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// String returns the serialized value of the Value including the primary value
// and all parameters, each quoted if necessary.
func (pv *Value) String() string {
	var sb strings.Builder
	sb.WriteString(pv.v)
	for _, n := range pv.names {
		sb.WriteString("; ")
		sb.WriteString(n)
		sb.WriteByte('=')
		sb.WriteString(Quote(pv.ps[n]))
	}
	return sb.String()
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	var copy Value
	copy.v = pv.v
	copy.names = pv.Names()
	copy.ps = make(map[string]string, len(pv.ps))
	for k, v := range pv.ps {
		copy.ps[k] = v
	}
	return &copy
}

// NeedsQuote returns true if the parameter value cannot be written as a bare
// token: it is empty or it contains whitespace, a control character, a
// non-ASCII byte, or one of the RFC 2045 tspecials (which include ';' and '"').
func NeedsQuote(v string) bool {
	if v == "" {
		return true
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(tspecials, c) >= 0 {
			return true
		}
	}
	return false
}

// Quote returns the value as it should appear after the '=' of a parameter.
// Values that need quoting are wrapped in double quotes with any embedded '"'
// or '\' escaped by a backslash.
func Quote(v string) string {
	if !NeedsQuote(v) {
		return v
	}

	var sb strings.Builder
	sb.Grow(len(v) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(v[i])
	}
	sb.WriteByte('"')
	return sb.String()
}
