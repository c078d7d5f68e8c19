package transfer

import (
	"bytes"
	"io"

	"github.com/zostay/go-mimelite/message/header"
)

// lineWriter rewrites bare LF bytes as CRLF. Existing CRLF pairs and lone CR
// bytes are passed through untouched.
type lineWriter struct {
	w      io.Writer
	lastCR bool
}

// NewLineEncoder returns an io.WriteCloser that passes bytes through to w. If
// lb is CRLF, every LF not already preceded by CR is written as CRLF. With any
// other break the bytes are written as-is.
func NewLineEncoder(w io.Writer, lb header.Break) io.WriteCloser {
	if lb != header.CRLF {
		return &writer{w, nil}
	}
	return &lineWriter{w: w}
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	n := 0
	for len(p) > 0 {
		ix := bytes.IndexByte(p, '\n')
		if ix < 0 {
			wn, err := lw.w.Write(p)
			n += wn
			lw.lastCR = p[len(p)-1] == '\r'
			return n, err
		}

		prevCR := lw.lastCR
		if ix > 0 {
			prevCR = p[ix-1] == '\r'
		}

		if !prevCR {
			wn, err := lw.w.Write(p[:ix])
			n += wn
			if err != nil {
				return n, err
			}
			if _, err := lw.w.Write([]byte{'\r', '\n'}); err != nil {
				return n, err
			}
		} else {
			wn, err := lw.w.Write(p[:ix+1])
			n += wn - 1
			if err != nil {
				return n, err
			}
		}

		// count the LF itself once
		n++
		lw.lastCR = false
		p = p[ix+1:]
	}

	return n, nil
}

// Close does nothing. It does not close the underlying io.Writer.
func (lw *lineWriter) Close() error {
	return nil
}
