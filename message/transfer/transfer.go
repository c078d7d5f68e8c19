package transfer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zostay/go-mimelite/message/header"
)

const (
	None            = "none"             // no Content-transfer-encoding field, bytes left as-is
	Bit7            = "7bit"             // bytes will be left as-is, line breaks normalized
	Bit8            = "8bit"             // bytes will be left as-is, line breaks normalized
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed between quoted-printable and binary data
	Base64          = "base64"           // bytes will be transformed between base64 and binary data

	// Suggest is not a real encoding. It asks for the encoding to be chosen by
	// scanning the body at serialization time.
	Suggest = "-SUGGEST"
)

// ErrUnsupportedEncoding is returned when an encoding name is not one of the
// names in Transcodings.
var ErrUnsupportedEncoding = errors.New("unsupported content-transfer-encoding")

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer, breaking lines with the
	// given line break. You must call Close() on the returned io.WriteCloser
	// when you are finished.
	Encoder func(io.Writer, header.Break) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// when read and decode the encoded data back into binary form the encoded
	// form.
	Decoder func(io.Reader) io.Reader
}

var (
	// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
	AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

	// LineTranscoder leaves bytes as-is, except that bare LF line endings are
	// written with the requested line break.
	LineTranscoder = Transcoding{NewLineEncoder, NewAsIsDecoder}
)

// Transcodings defines the supported Content-transfer-encodings and how to
// handle them. It can be modified to change the global handling of transfer
// encodings.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            LineTranscoder,
	Bit8:            LineTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// Normalize returns the canonical lower-case form of an encoding name. The
// empty string stays empty, and Suggest is matched without regard to case.
// Names that are neither in Transcodings nor Suggest result in
// ErrUnsupportedEncoding.
func Normalize(name string) (string, error) {
	if name == "" {
		return "", nil
	}

	if strings.EqualFold(name, Suggest) {
		return Suggest, nil
	}

	lname := strings.ToLower(strings.TrimSpace(name))
	if _, ok := Transcodings[lname]; ok {
		return lname, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
}

// Lookup returns the Transcoding for the named encoding. The lookup is not case
// sensitive. An empty name is treated as None.
func Lookup(name string) (Transcoding, error) {
	if name == "" {
		return AsIsTranscoder, nil
	}

	tc, ok := Transcodings[strings.ToLower(name)]
	if !ok {
		return Transcoding{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}

	return tc, nil
}

// IsIdentity returns true when the named encoding leaves body bytes alone.
// These are the only encodings permitted on a multipart container.
func IsIdentity(name string) bool {
	switch strings.ToLower(name) {
	case "", None, Bit7, Bit8, Binary:
		return true
	}
	return false
}

// ApplyTransferEncoding is a helper that returns an io.WriteCloser that will
// write the named encoding to w (or just pass data through if no encoding is
// necessary).
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(name string, w io.Writer, lb header.Break) (io.WriteCloser, error) {
	tc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return tc.Encoder(w, lb), nil
}

// ApplyTransferDecoding returns an io.Reader that will decode incoming bytes
// according to the named transfer encoding.
func ApplyTransferDecoding(name string, r io.Reader) (io.Reader, error) {
	tc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return tc.Decoder(r), nil
}
