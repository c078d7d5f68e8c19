package transfer

import (
	"io"
	"mime/quotedprintable"

	"github.com/zostay/go-mimelite/message/header"
)

// QuotedPrintableLineLength is the maximum length of an encoded line, not
// counting the line break.
const QuotedPrintableLineLength = 76

const upperhex = "0123456789ABCDEF"

// qpWriter encodes quoted-printable with a configurable line break. The line
// break sequence in the input becomes a hard break in the output. Any other
// CR or LF byte is escaped so that decoding gives back exactly the bytes
// written.
type qpWriter struct {
	w    io.Writer
	lbr  []byte
	crlf bool

	line [QuotedPrintableLineLength]byte
	i    int
	cr   bool
}

// NewQuotedPrintableEncoder will transform all bytes written to the returned
// io.WriteCloser into quoted-printable form and write them to the given
// io.Writer, using the given line break for hard and soft line breaks.
func NewQuotedPrintableEncoder(w io.Writer, lb header.Break) io.WriteCloser {
	if lb == header.Meh {
		lb = header.LF
	}

	return &qpWriter{
		w:    w,
		lbr:  lb.Bytes(),
		crlf: lb == header.CRLF,
	}
}

// Write encodes p and writes it to the underlying writer. Output is buffered
// one line at a time, so Close must be called to flush the final line.
func (w *qpWriter) Write(p []byte) (int, error) {
	for n, b := range p {
		if err := w.writeByte(b); err != nil {
			return n, err
		}
	}
	return len(p), nil
}

func (w *qpWriter) writeByte(b byte) error {
	if w.crlf {
		if w.cr {
			w.cr = false
			if b == '\n' {
				return w.hardBreak()
			}
			if err := w.encode('\r'); err != nil {
				return err
			}
		}

		switch b {
		case '\r':
			w.cr = true
			return nil
		case '\n':
			return w.encode(b)
		}
	} else {
		switch b {
		case '\n':
			return w.hardBreak()
		case '\r':
			return w.encode(b)
		}
	}

	if (b >= '!' && b <= '~' && b != '=') || b == ' ' || b == '\t' {
		return w.literal(b)
	}

	return w.encode(b)
}

func (w *qpWriter) literal(b byte) error {
	if w.i+1 > QuotedPrintableLineLength-1 {
		if err := w.softBreak(); err != nil {
			return err
		}
	}

	w.line[w.i] = b
	w.i++
	return nil
}

func (w *qpWriter) encode(b byte) error {
	if w.i+3 > QuotedPrintableLineLength-1 {
		if err := w.softBreak(); err != nil {
			return err
		}
	}

	w.line[w.i] = '='
	w.line[w.i+1] = upperhex[b>>4]
	w.line[w.i+2] = upperhex[b&0x0f]
	w.i += 3
	return nil
}

// trailingSpace escapes a space or tab at the end of the line, where it would
// otherwise be stripped by a decoder.
func (w *qpWriter) trailingSpace() error {
	if w.i == 0 {
		return nil
	}

	b := w.line[w.i-1]
	if b != ' ' && b != '\t' {
		return nil
	}

	w.i--
	return w.encode(b)
}

func (w *qpWriter) softBreak() error {
	w.line[w.i] = '='
	w.i++
	return w.flush()
}

func (w *qpWriter) hardBreak() error {
	if err := w.trailingSpace(); err != nil {
		return err
	}
	return w.flush()
}

func (w *qpWriter) flush() error {
	if _, err := w.w.Write(w.line[:w.i]); err != nil {
		return err
	}
	if _, err := w.w.Write(w.lbr); err != nil {
		return err
	}

	w.i = 0
	return nil
}

// Close flushes any buffered output. It does not close the underlying
// io.Writer and does not add a line break after the final line.
func (w *qpWriter) Close() error {
	if w.cr {
		w.cr = false
		if err := w.encode('\r'); err != nil {
			return err
		}
	}

	if err := w.trailingSpace(); err != nil {
		return err
	}

	_, err := w.w.Write(w.line[:w.i])
	w.i = 0
	return err
}

// NewQuotedPrintableDecoder will read bytes from the given io.Reader and return
// them in the returned io.Reader after decoding them from quoted-printable
// format.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}
