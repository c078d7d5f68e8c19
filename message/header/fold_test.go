package header_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimelite/message/header"
)

func TestFoldEncoding_Short(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	n, err := header.DefaultFoldEncoding.Fold(buf, []byte("Subject: short"), header.LF)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), n)
	assert.Equal(t, "Subject: short\n", buf.String())
}

func TestFoldEncoding_ParameterBoundary(t *testing.T) {
	t.Parallel()

	vf, err := header.NewFoldEncoding(44)
	require.NoError(t, err)

	const line = `Content-Type: text/plain; charset=utf-8; name="a long file name.txt"`
	buf := &bytes.Buffer{}
	_, err = vf.Fold(buf, []byte(line), header.CRLF)
	assert.NoError(t, err)

	assert.Equal(t,
		"Content-Type: text/plain; charset=utf-8;\r\n"+
			" name=\"a long file name.txt\"\r\n",
		buf.String())

	assert.Equal(t, line, string(vf.Unfold(bytes.TrimSuffix(buf.Bytes(), []byte("\r\n")))))
}

func TestFoldEncoding_Whitespace(t *testing.T) {
	t.Parallel()

	vf, err := header.NewFoldEncoding(20)
	require.NoError(t, err)

	const line = "Subject: one two three four five six"
	buf := &bytes.Buffer{}
	_, err = vf.Fold(buf, []byte(line), header.LF)
	assert.NoError(t, err)

	for _, l := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len(l), 18)
	}
	assert.Equal(t, line, string(vf.Unfold(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))))
}

func TestFoldEncoding_NoBreakPoint(t *testing.T) {
	t.Parallel()

	vf, err := header.NewFoldEncoding(20)
	require.NoError(t, err)

	line := "X-Token: " + strings.Repeat("x", 40)
	buf := &bytes.Buffer{}
	_, err = vf.Fold(buf, []byte(line), header.LF)
	assert.NoError(t, err)
	assert.Equal(t, line+"\n", buf.String())
}

func TestFoldEncoding_DoNotFold(t *testing.T) {
	t.Parallel()

	line := "Subject: " + strings.Repeat("word ", 40)
	buf := &bytes.Buffer{}
	_, err := header.DoNotFoldEncoding.Fold(buf, []byte(line), header.LF)
	assert.NoError(t, err)
	assert.Equal(t, line+"\n", buf.String())
}

func TestNewFoldEncoding(t *testing.T) {
	t.Parallel()

	_, err := header.NewFoldEncoding(3)
	assert.ErrorIs(t, err, header.ErrFoldLengthTooShort)

	vf, err := header.NewFoldEncoding(header.DoNotFold)
	assert.NoError(t, err)
	assert.Equal(t, header.DoNotFold, vf.PreferredFoldLength())
}
