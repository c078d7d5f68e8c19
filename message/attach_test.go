package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimelite/message"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/transfer"
)

func TestEntity_Attach(t *testing.T) {
	t.Parallel()

	a, err := message.Build(message.Config{Data: []byte("a")})
	require.NoError(t, err)

	m, err := message.Build(message.Config{Parts: []*message.Entity{a}})
	require.NoError(t, err)

	b, err := message.Build(message.Config{Data: []byte("b")})
	require.NoError(t, err)

	require.NoError(t, m.Attach(b))
	assert.Equal(t, []*message.Entity{a, b}, m.Parts())
	assert.True(t, b.HasParent())
}

func TestEntity_Attach_Promote(t *testing.T) {
	t.Parallel()

	e, err := message.Build(message.Config{
		Type:     "text/plain",
		Encoding: transfer.QuotedPrintable,
		Data:     []byte("hello\n"),
		Boundary: "B",
		Charset:  "us-ascii",
		Header: []header.Field{
			{Name: header.Subject, Body: "Hi"},
			{Name: "Content-Language", Body: "en"},
		},
	})
	require.NoError(t, err)

	before, err := e.BodyString()
	require.NoError(t, err)

	png, err := message.Build(message.Config{Type: "image/png", Data: []byte{0, 1, 2}})
	require.NoError(t, err)

	require.NoError(t, e.Attach(png))

	assert.True(t, e.IsMultipart())
	assert.Equal(t, message.DefaultMultipartContentType, e.Type())
	assert.Equal(t, "", e.Encoding())
	assert.Equal(t, "B", e.Boundary())
	assert.Equal(t, "", e.Attr(message.AttrCharset))
	assert.False(t, e.Has("Content-Language"))

	parts := e.Parts()
	require.Len(t, parts, 2)

	first := parts[0]
	assert.True(t, first.HasParent())
	assert.Equal(t, "text/plain", first.Type())
	assert.Equal(t, transfer.QuotedPrintable, first.Encoding())
	assert.Equal(t, "us-ascii", first.Attr(message.AttrCharset))
	assert.Equal(t, "", first.Boundary())
	assert.True(t, first.Has("Content-Language"))
	assert.False(t, first.Has(header.Subject))

	after, err := first.BodyString()
	assert.NoError(t, err)
	assert.Equal(t, before, after)

	s, err := e.String()
	assert.NoError(t, err)
	assert.Equal(t,
		"Subject: Hi\n"+
			"MIME-Version: 1.0\n"+
			"Content-Type: multipart/mixed; boundary=B\n"+
			"\n"+
			"--B\n"+
			"Content-Language: en\n"+
			"Content-Type: text/plain; charset=us-ascii\n"+
			"Content-Transfer-Encoding: quoted-printable\n"+
			"\n"+
			"hello\n\n"+
			"--B\n"+
			"Content-Type: image/png\n"+
			"Content-Transfer-Encoding: base64\n"+
			"\n"+
			"AAEC\n\n"+
			"--B--\n", s)
}

func TestEntity_Attach_PromoteAs(t *testing.T) {
	t.Parallel()

	e, err := message.Build(message.Config{Type: "text/plain", Data: []byte("plain")})
	require.NoError(t, err)

	html, err := message.Build(message.Config{Type: "text/html", Data: []byte("<b>html</b>")})
	require.NoError(t, err)

	require.NoError(t, e.Attach(html, message.PromoteAs("multipart/alternative")))
	assert.Equal(t, "multipart/alternative", e.Type())

	other, err := message.Build(message.Config{Data: []byte("x")})
	require.NoError(t, err)

	err = other.Attach(e, message.PromoteAs("text/html"))
	assert.ErrorIs(t, err, message.ErrConfig)
	assert.False(t, other.IsMultipart())
	assert.False(t, e.HasParent())
}

func TestEntity_Attach_Errors(t *testing.T) {
	t.Parallel()

	a, err := message.Build(message.Config{Data: []byte("a")})
	require.NoError(t, err)

	m, err := message.Build(message.Config{Parts: []*message.Entity{a}})
	require.NoError(t, err)

	assert.ErrorIs(t, m.Attach(nil), message.ErrState)
	assert.ErrorIs(t, m.Attach(a), message.ErrState)
	assert.ErrorIs(t, m.Attach(m), message.ErrState)
	assert.Len(t, m.Parts(), 1)

	// a part may not adopt its own ancestor
	assert.ErrorIs(t, a.Attach(m), message.ErrState)
	assert.False(t, a.IsMultipart())
	assert.Equal(t, []byte("a"), a.Inline())

	other, err := message.Build(message.Config{Data: []byte("b")})
	require.NoError(t, err)

	m.SetType("application/zip")
	assert.ErrorIs(t, m.Attach(other), message.ErrState)
	assert.False(t, other.HasParent())
	assert.Len(t, m.Parts(), 1)
}

func TestEntity_AttachConfig_Cycle(t *testing.T) {
	t.Parallel()

	root, err := message.Build(message.Config{Type: "text/plain", Data: []byte("hi")})
	require.NoError(t, err)

	_, err = root.AttachConfig(message.Config{
		Type:  "multipart/mixed",
		Parts: []*message.Entity{root},
	})
	assert.ErrorIs(t, err, message.ErrState)
	assert.False(t, root.HasParent())
	assert.False(t, root.IsMultipart())
	assert.Equal(t, []byte("hi"), root.Inline())
	assert.NoError(t, root.Finalize())

	a, err := message.Build(message.Config{Data: []byte("a")})
	require.NoError(t, err)

	m, err := message.Build(message.Config{Parts: []*message.Entity{a}})
	require.NoError(t, err)

	// a part may not adopt its own ancestor through a new container either
	_, err = a.AttachConfig(message.Config{Parts: []*message.Entity{m}})
	assert.ErrorIs(t, err, message.ErrState)
	assert.False(t, m.HasParent())
	assert.False(t, a.IsMultipart())
	assert.Equal(t, []*message.Entity{a}, m.Parts())
	assert.NoError(t, m.Finalize())
}

func TestEntity_AttachConfig(t *testing.T) {
	t.Parallel()

	m, err := message.Build(message.Config{
		Type: "text/plain",
		Data: []byte("body\r\n"),
	}, message.WithBreak(header.CRLF), message.Quiet())
	require.NoError(t, err)

	child, err := m.AttachConfig(message.Config{
		Type:        "text/csv",
		Lines:       []string{"a,b", "1,2"},
		Filename:    "data.csv",
		Disposition: "attachment",
	})
	require.NoError(t, err)

	assert.True(t, child.HasParent())
	assert.Equal(t, header.CRLF, child.Options().Break)
	require.Len(t, m.Parts(), 2)
	assert.Same(t, child, m.Parts()[1])

	_, err = m.AttachConfig(message.Config{Data: []byte("x"), Text: "y"})
	assert.ErrorIs(t, err, message.ErrConfig)
	assert.Len(t, m.Parts(), 2)

	b, err := child.BodyString()
	assert.NoError(t, err)
	assert.Equal(t, "a,b\r\n1,2\r\n", b)
}

func TestEntity_Attach_EmptyContainer(t *testing.T) {
	t.Parallel()

	m, err := message.Build(message.Config{Type: "multipart/mixed", Boundary: "frontier"})
	require.NoError(t, err)
	assert.True(t, m.IsMultipart())
	assert.ErrorIs(t, m.Finalize(), message.ErrState)

	txt, err := message.Build(message.Config{Type: "text/plain", Data: []byte("note\n")})
	require.NoError(t, err)

	bin, err := message.Build(message.Config{
		Type:     "application/octet-stream",
		Encoding: transfer.Base64,
		Data:     []byte("\x00\x01\x02"),
	})
	require.NoError(t, err)

	require.NoError(t, m.Attach(txt))
	require.NoError(t, m.Attach(bin))

	s, err := m.String()
	assert.NoError(t, err)
	assert.Equal(t,
		"MIME-Version: 1.0\n"+
			"Content-Type: multipart/mixed; boundary=frontier\n"+
			"\n"+
			"--frontier\n"+
			"Content-Type: text/plain\n"+
			"Content-Transfer-Encoding: 7bit\n"+
			"\n"+
			"note\n\n"+
			"--frontier\n"+
			"Content-Type: application/octet-stream\n"+
			"Content-Transfer-Encoding: base64\n"+
			"\n"+
			"AAEC\n\n"+
			"--frontier--\n", s)
}
