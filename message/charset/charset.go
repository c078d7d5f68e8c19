// Package charset transcodes inline text into the character set named in a
// Content-type charset parameter.
//
// Two encoders are provided. BuiltinEncoder handles us-ascii, iso-8859-1
// (latin1), and utf-8 without any help. ExtendedEncoder uses the IANA index in
// golang.org/x/text and can encode pretty much any character set found in the
// wild wild world of email.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Substitute is written in place of any character that cannot be represented
// in the target character set.
const Substitute = '\x1a'

// ErrUnknownCharset is returned when the named character set is not supported
// by the encoder.
var ErrUnknownCharset = errors.New("unknown charset")

// Encoder converts a string into bytes of the named character set.
type Encoder func(charset, s string) ([]byte, error)

// Select returns BuiltinEncoder if builtin is true and ExtendedEncoder
// otherwise.
func Select(builtin bool) Encoder {
	if builtin {
		return BuiltinEncoder
	}
	return ExtendedEncoder
}

// Encode is a shortcut for Select(builtin)(charset, s).
func Encode(charset, s string, builtin bool) ([]byte, error) {
	return Select(builtin)(charset, s)
}

// IsASCII returns true if s contains only 7-bit characters.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// BuiltinEncoder is able to handle us-ascii, iso-8859-1 (a.k.a. latin1), and
// utf-8 only. Anything else results in ErrUnknownCharset.
//
// Characters that do not fit in us-ascii or iso-8859-1 are replaced with
// Substitute.
func BuiltinEncoder(charset, s string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		return narrow(s, unicode.MaxASCII), nil
	case "iso-8859-1", "latin1":
		return narrow(s, unicode.MaxLatin1), nil
	case "utf-8", "utf8":
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
	}
}

func narrow(s string, maxRune rune) []byte {
	var buf bytes.Buffer
	for _, c := range s {
		if c > maxRune {
			buf.WriteByte(Substitute)
		} else {
			buf.WriteByte(byte(c))
		}
	}
	return buf.Bytes()
}

// ExtendedEncoder looks up the character set in the IANA MIME index and
// encodes s with it. The character sets handled by BuiltinEncoder are handled
// the same way here.
func ExtendedEncoder(charset, s string) ([]byte, error) {
	if b, err := BuiltinEncoder(charset, s); err == nil {
		return b, nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownCharset, charset, err)
	}

	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
	}

	es, err := encoding.ReplaceUnsupported(e.NewEncoder()).String(s)
	if err != nil {
		return nil, fmt.Errorf("unable to encode text as %q: %w", charset, err)
	}

	return []byte(es), nil
}
