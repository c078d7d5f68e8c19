package header

import (
	"fmt"
	"strings"
)

// Break represents the linebreak to use when working with an email.
type Break string

// Constants for use when selecting a line break to use with a new header. If
// you are handing the message to an SMTP server, choose CRLF. If you are
// handing it to a local submission program, LF is the norm.
const (
	Meh  Break = ""         // Sometimes it doesn't matter
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
)

// ParseBreak turns a configuration name ("lf" or "crlf", case-insensitive)
// into a Break.
func ParseBreak(name string) (Break, error) {
	switch strings.ToLower(name) {
	case "", "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	}
	return Meh, fmt.Errorf("unknown line break %q", name)
}

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
