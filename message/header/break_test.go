package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mimelite/message/header"
)

func TestBreak_Bytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{}, header.Meh.Bytes())
	assert.Equal(t, []byte{0x0d, 0x0a}, header.CRLF.Bytes())
	assert.Equal(t, []byte{0x0a}, header.LF.Bytes())
}

func TestBreak_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", header.Meh.String())
	assert.Equal(t, "\r\n", header.CRLF.String())
	assert.Equal(t, "\n", header.LF.String())
}

func TestParseBreak(t *testing.T) {
	t.Parallel()

	lb, err := header.ParseBreak("CRLF")
	assert.NoError(t, err)
	assert.Equal(t, header.CRLF, lb)

	lb, err = header.ParseBreak("")
	assert.NoError(t, err)
	assert.Equal(t, header.LF, lb)

	_, err = header.ParseBreak("lfcr")
	assert.Error(t, err)
}
