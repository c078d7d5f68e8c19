package header

import (
	"bytes"
	"errors"
	"io"
)

const (
	DefaultPreferredFoldLength = 80 // we prefer header lines shorter than this

	DoNotFold = -1 // we prefer not to fold at all
)

var (
	// DefaultFoldEncoding folds at the DefaultPreferredFoldLength. This
	// is the recommended fold encoding.
	DefaultFoldEncoding = &FoldEncoding{DefaultPreferredFoldLength}

	// DoNotFoldEncoding is a FoldEncoding that doesn't perform folding.
	DoNotFoldEncoding = &FoldEncoding{DoNotFold}
)

// ErrFoldLengthTooShort is returned by NewFoldEncoding when the
// preferredFoldLength is too short to hold a field name and a little content.
var ErrFoldLengthTooShort = errors.New("preferred fold length is too short")

// FoldEncoding provides the tooling for folding email message headers.
//
// Folding only ever happens in front of existing whitespace, so unfolding the
// output (removing the line breaks) restores the original field exactly.
// Parameter boundaries (a semicolon followed by a space) are preferred over
// other whitespace. A line that offers no place to break is left long.
type FoldEncoding struct {
	preferredFoldLength int
}

// NewFoldEncoding creates a new FoldEncoding that folds lines longer than
// preferredFoldLength-2 bytes (leaving room for the line break). Pass DoNotFold
// to turn off folding.
func NewFoldEncoding(preferredFoldLength int) (*FoldEncoding, error) {
	if preferredFoldLength != DoNotFold && preferredFoldLength < 10 {
		return nil, ErrFoldLengthTooShort
	}
	return &FoldEncoding{preferredFoldLength}, nil
}

// PreferredFoldLength returns the configured line length.
func (vf *FoldEncoding) PreferredFoldLength() int {
	return vf.preferredFoldLength
}

// Unfold will take a folded header line from an email and unfold it for
// reading. This gives you the proper header body value.
func (vf *FoldEncoding) Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if !isCRLF(b) {
			uf = append(uf, b)
		}
	}
	return uf
}

func isCRLF(c byte) bool  { return c == '\r' || c == '\n' }
func isSpace(c byte) bool { return c == ' ' || c == '\t' }

// Fold will take an unfolded field line ("Name: body") and write it to out,
// breaking it into continuation lines where it runs past the preferred length.
// Every line written, including the last, is terminated with lb.
//
// Returns the number of bytes written and returns an error if there's an error
// writing the data.
func (vf *FoldEncoding) Fold(out io.Writer, f []byte, lb Break) (int64, error) {
	total := int64(0)
	write := func(p []byte) error {
		n, err := out.Write(p)
		total += int64(n)
		if err != nil {
			return err
		}
		n, err = out.Write(lb.Bytes())
		total += int64(n)
		return err
	}

	if vf.preferredFoldLength == DoNotFold {
		return total, write(f)
	}

	limit := vf.preferredFoldLength - 2

	// never fold between the field name and the first word of the body
	start := 1
	if colon := bytes.IndexByte(f, ':'); colon >= 0 {
		start = colon + 2
	}

	for len(f) > limit {
		ix := vf.breakPoint(f, start, limit)
		if ix < 0 {
			break
		}

		if err := write(f[:ix]); err != nil {
			return total, err
		}

		// the whitespace we broke in front of becomes the fold indent
		f = f[ix:]
		start = 1
	}

	return total, write(f)
}

// breakPoint finds the index of the whitespace to break in front of. It
// returns -1 if the line offers no such place after start.
func (vf *FoldEncoding) breakPoint(f []byte, start, limit int) int {
	if start >= len(f) {
		return -1
	}

	if start < limit {
		window := f[:limit]

		// best case, break at a parameter boundary
		if ix := bytes.LastIndex(window, []byte("; ")); ix+1 > start {
			return ix + 1
		}

		// next best, break at any whitespace
		for ix := limit - 1; ix > start; ix-- {
			if isSpace(window[ix]) {
				return ix
			}
		}
	}

	// barring that, take the first whitespace past the limit
	for ix := max(start+1, limit); ix < len(f); ix++ {
		if isSpace(f[ix]) {
			return ix
		}
	}

	return -1
}
