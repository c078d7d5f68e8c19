package transfer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mimelite/message/transfer"
)

func TestSuggestEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		mediaType string
		want      string
	}{
		{"plain ascii", "hello\nworld\n", "text/plain", transfer.Bit7},
		{"empty", "", "application/octet-stream", transfer.Bit7},
		{"latin text", "h\xe9llo\n", "text/plain", transfer.QuotedPrintable},
		{"binary", "\x89PNG\r\n\x1a\n", "image/png", transfer.Base64},
		{"control byte", "bell\x07\n", "text/plain", transfer.QuotedPrintable},
		{"line at limit", strings.Repeat("a", 80) + "\r\n", "text/plain", transfer.Bit7},
		{"line over limit", strings.Repeat("a", 81) + "\n", "text/plain", transfer.QuotedPrintable},
		{"long line non-text", strings.Repeat("a", 81), "application/json", transfer.Base64},
	}

	for _, tt := range tests {
		got, err := transfer.SuggestEncoding(strings.NewReader(tt.body), tt.mediaType, 80)
		assert.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestSuggestEncoding_Deterministic(t *testing.T) {
	t.Parallel()

	body := "caf\xc3\xa9 au lait\n"
	first, err := transfer.SuggestEncoding(strings.NewReader(body), "text/plain", 0)
	assert.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := transfer.SuggestEncoding(strings.NewReader(body), "text/plain", 0)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestByType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, transfer.None, transfer.ByType("multipart/mixed"))
	assert.Equal(t, transfer.Suggest, transfer.ByType("text/html"))
	assert.Equal(t, transfer.Suggest, transfer.ByType("message/rfc822"))
	assert.Equal(t, transfer.Base64, transfer.ByType("image/gif"))

	assert.Equal(t, transfer.QuotedPrintable, transfer.SuggestUnscanned("TEXT/plain"))
	assert.Equal(t, transfer.Base64, transfer.SuggestUnscanned("audio/ogg"))
}
