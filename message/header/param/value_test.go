package param_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mimelite/message/header/param"
)

func TestNew(t *testing.T) {
	t.Parallel()

	mt := param.New("image/jpeg")
	assert.Equal(t, "image/jpeg", mt.MediaType())
	assert.Equal(t, "image/jpeg", mt.Value())
	assert.Equal(t, "image", mt.Type())
	assert.Equal(t, "jpeg", mt.Subtype())
	assert.Empty(t, mt.Names())
	assert.Equal(t, "image/jpeg", mt.String())

	mt = param.New("inline")
	assert.Equal(t, "", mt.Type())
	assert.Equal(t, "", mt.Subtype())
}

func TestModify(t *testing.T) {
	t.Parallel()

	mt := param.New("text/plain")
	nmt := param.Modify(mt,
		param.Set("Charset", "utf-8"),
		param.Set(param.Name, "report.txt"),
		param.Change("text/html"),
	)

	assert.Equal(t, "text/plain", mt.String())
	assert.Equal(t, "text/html; charset=utf-8; name=report.txt", nmt.String())
	assert.Equal(t, "utf-8", nmt.Parameter("CHARSET"))

	nmt = param.Modify(nmt, param.Set("charset", "us-ascii"), param.Delete(param.Name))
	assert.Equal(t, []string{"charset"}, nmt.Names())
	assert.Equal(t, "text/html; charset=us-ascii", nmt.String())
}

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, out string
	}{
		{"plain", "plain"},
		{"", `""`},
		{"two words", `"two words"`},
		{"a;b", `"a;b"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"naïve.txt", "\"naïve.txt\""},
		{"_----------=_1.2.3", `"_----------=_1.2.3"`},
		{"tab\there", "\"tab\there\""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.out, param.Quote(tt.in), tt.in)
	}
}

func TestValue_StringQuoted(t *testing.T) {
	t.Parallel()

	mt := param.Modify(param.New("attachment"), param.Set(param.Filename, "my report.pdf"))
	assert.Equal(t, `attachment; filename="my report.pdf"`, mt.String())
}
