package transfer

import (
	"encoding/base64"
	"io"

	"github.com/zostay/go-mimelite/message/header"
)

// Base64LineLength is the length of every full line of base64 output.
const Base64LineLength = 76

// newlineWriter inserts a line break after every "every" bytes written
// through it. Close terminates a partial final line.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if nw.acc == nw.every {
			if _, err := nw.w.Write(nw.lbr); err != nil {
				return n, err
			}
			nw.acc = 0
		}

		chunk := nw.every - nw.acc
		if chunk > len(b) {
			chunk = len(b)
		}

		ln, err := nw.w.Write(b[:chunk])
		n += ln
		nw.acc += ln
		if err != nil {
			return n, err
		}

		b = b[chunk:]
	}

	return n, nil
}

func (nw *newlineWriter) Close() error {
	if nw.acc == 0 {
		return nil
	}
	nw.acc = 0
	_, err := nw.w.Write(nw.lbr)
	return err
}

// base64Closer flushes the base64 encoder before terminating the last line.
type base64Closer struct {
	enc io.WriteCloser
	nw  *newlineWriter
}

func (c *base64Closer) Close() error {
	if err := c.enc.Close(); err != nil {
		return err
	}
	return c.nw.Close()
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the give io.Writer,
// breaking lines with lb every Base64LineLength characters. The last line is
// terminated by lb as well.
func NewBase64Encoder(w io.Writer, lb header.Break) io.WriteCloser {
	if lb == header.Meh {
		lb = header.LF
	}

	nw := &newlineWriter{
		every: Base64LineLength,
		lbr:   lb.Bytes(),
		w:     w,
	}
	enc := base64.NewEncoder(base64.StdEncoding, nw)
	return &writer{enc, &base64Closer{enc, nw}}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader. Line breaks in
// the input are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
