package transfer

import "io"

// sevenBitChecker passes bytes through and reports the first byte outside of
// 7-bit ASCII.
type sevenBitChecker struct {
	w      io.Writer
	warn   func()
	warned bool
}

// NewSevenBitChecker returns an io.Writer that writes everything to w. The
// first time a byte of 0x80 or higher passes through, warn is called. It is
// never called again for the same writer and the write is never refused.
func NewSevenBitChecker(w io.Writer, warn func()) io.Writer {
	return &sevenBitChecker{w: w, warn: warn}
}

func (c *sevenBitChecker) Write(p []byte) (int, error) {
	if !c.warned {
		for _, b := range p {
			if b >= 0x80 {
				c.warned = true
				if c.warn != nil {
					c.warn()
				}
				break
			}
		}
	}

	return c.w.Write(p)
}
