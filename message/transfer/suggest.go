package transfer

import (
	"bufio"
	"io"
	"strings"
)

// DefaultLineLimit is the longest body line, not counting the line break,
// that SuggestEncoding will accept for 7bit.
const DefaultLineLimit = 80

// SuggestEncoding scans body and picks a transfer encoding for it. The result
// is Bit7 when every byte is printable 7-bit ASCII (or TAB, CR, LF) and no line
// is longer than limit bytes. Otherwise the result is QuotedPrintable for
// text/* media types and Base64 for everything else. A limit of zero or less
// uses DefaultLineLimit.
func SuggestEncoding(body io.Reader, mediaType string, limit int) (string, error) {
	clean, err := IsSevenBitClean(body, limit)
	if err != nil {
		return "", err
	}

	if clean {
		return Bit7, nil
	}

	return SuggestUnscanned(mediaType), nil
}

// SuggestUnscanned is the suggestion for a body that cannot be scanned ahead of
// time. It assumes 8-bit data is present.
func SuggestUnscanned(mediaType string) string {
	if isText(mediaType) {
		return QuotedPrintable
	}
	return Base64
}

// ByType picks an encoding from the media type alone: None for multipart
// containers, Suggest for text/* and message/* (so the body gets scanned) and
// Base64 for everything else.
func ByType(mediaType string) string {
	mt := strings.ToLower(mediaType)
	switch {
	case strings.HasPrefix(mt, "multipart/"):
		return None
	case strings.HasPrefix(mt, "text/"), strings.HasPrefix(mt, "message/"):
		return Suggest
	}
	return Base64
}

// IsSevenBitClean reads all of r and returns true if it contains only
// printable 7-bit ASCII plus TAB, CR, and LF, with no line longer than limit.
func IsSevenBitClean(r io.Reader, limit int) (bool, error) {
	if limit <= 0 {
		limit = DefaultLineLimit
	}

	br := bufio.NewReader(r)
	col := 0
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return true, nil
		} else if err != nil {
			return false, err
		}

		switch {
		case b == '\n':
			col = 0
		case b == '\r':
			// only counts against the line when it is not part of CRLF
			if next, err := br.Peek(1); err != nil || next[0] != '\n' {
				col++
			}
		case b == '\t', b >= 0x20 && b <= 0x7e:
			col++
		default:
			return false, nil
		}

		if col > limit {
			return false, nil
		}
	}
}

func isText(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(mediaType), "text/")
}
