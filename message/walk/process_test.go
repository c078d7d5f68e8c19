package walk_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimelite/message"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/walk"
)

// special thanks to plinth:
// https://stackoverflow.com/questions/17279712/what-is-the-smallest-possible-valid-pdf
const microPDF = `%PDF-1.
trailer<</Root<</Pages<</Kids[<</MediaBox[0 0 3 3]>>]>>>>>>`

func buildComplex(t *testing.T) *message.Entity {
	t.Helper()

	html, err := message.Build(message.Config{Type: "text/html", Data: []byte("Hello World!")})
	require.NoError(t, err)

	txt, err := message.Build(message.Config{Type: "text/plain", Data: []byte("Hello World!")})
	require.NoError(t, err)

	alt, err := message.Build(message.Config{
		Type:  "multipart/alternative",
		Parts: []*message.Entity{html, txt},
	})
	require.NoError(t, err)

	pdf, err := message.Build(message.Config{
		Type:        message.AUTO,
		Data:        []byte(microPDF),
		Filename:    "micro.pdf",
		Disposition: "attachment",
	})
	require.NoError(t, err)

	gif, err := message.Build(message.Config{
		Type:        "image/gif",
		Data:        []byte("GIF89a"),
		Filename:    "att-1.gif",
		Disposition: "attachment",
	})
	require.NoError(t, err)

	m, err := message.Build(message.Config{
		Parts: []*message.Entity{alt, pdf, gif},
		Header: []header.Field{
			{Name: header.To, Body: "sterling@example.com"},
			{Name: header.From, Body: "sterling@example.com"},
			{Name: header.Subject, Body: "Hello World"},
		},
	})
	require.NoError(t, err)

	return m
}

func TestAndProcess(t *testing.T) {
	t.Parallel()

	m := buildComplex(t)

	counts := make([]int, 10)
	err := walk.AndProcess(
		func(part *message.Entity, parents []*message.Entity) error {
			count := counts[len(parents)]
			switch {
			case len(parents) == 0 && count == 0:
				assert.True(t, part.IsMultipart())
				assert.Len(t, part.Parts(), 3)

				s, err := part.Get(header.Subject)
				assert.NoError(t, err)
				assert.Equal(t, "Hello World", s)
			case len(parents) == 1 && count == 0:
				assert.True(t, part.IsMultipart())
				assert.Len(t, part.Parts(), 2)
			case len(parents) == 1 && count == 1:
				assert.False(t, part.IsMultipart())
				assert.Equal(t, "micro.pdf", part.Filename())
			case len(parents) == 1 && count == 2:
				assert.False(t, part.IsMultipart())
				assert.Equal(t, "att-1.gif", part.Filename())
			case len(parents) == 2 && count == 0:
				assert.False(t, part.IsMultipart())
				assert.Equal(t, "text/html", part.Type())
			case len(parents) == 2 && count == 1:
				assert.False(t, part.IsMultipart())
				assert.Equal(t, "text/plain", part.Type())
			default:
				assert.Fail(t, "Unexpected part processed")
			}

			counts[len(parents)]++
			return nil
		}, m,
	)

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2, 0, 0, 0, 0, 0, 0, 0}, counts)
}

func TestAndProcessLeaves(t *testing.T) {
	t.Parallel()

	m := buildComplex(t)

	var names []string
	err := walk.AndProcessLeaves(
		func(part *message.Entity, parents []*message.Entity) error {
			assert.False(t, part.IsMultipart())
			names = append(names, part.Type())
			return nil
		}, m,
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{"text/html", "text/plain", message.AUTO, "image/gif"}, names)
}

func TestAndProcessContainers(t *testing.T) {
	t.Parallel()

	m := buildComplex(t)

	counts := make([]int, 10)
	err := walk.AndProcessContainers(
		func(part *message.Entity, parents []*message.Entity) error {
			assert.True(t, part.IsMultipart())
			counts[len(parents)]++
			return nil
		}, m,
	)

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0, 0, 0, 0, 0, 0, 0, 0}, counts)
}

func TestAndProcess_Stop(t *testing.T) {
	t.Parallel()

	m := buildComplex(t)
	stop := errors.New("stop")

	seen := 0
	err := walk.AndProcess(
		func(part *message.Entity, parents []*message.Entity) error {
			seen++
			if len(parents) == 2 {
				return stop
			}
			return nil
		}, m,
	)

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, seen)
}

func TestAndProcess_KeepParents(t *testing.T) {
	t.Parallel()

	leaf := func(body string) *message.Entity {
		e, err := message.Build(message.Config{Data: []byte(body)})
		require.NoError(t, err)
		return e
	}

	left, err := message.Build(message.Config{Parts: []*message.Entity{leaf("l")}})
	require.NoError(t, err)

	right, err := message.Build(message.Config{Parts: []*message.Entity{leaf("r")}})
	require.NoError(t, err)

	m, err := message.Build(message.Config{Parts: []*message.Entity{left, right}})
	require.NoError(t, err)

	kept := map[string][]*message.Entity{}
	err = walk.AndProcessLeaves(
		func(part *message.Entity, parents []*message.Entity) error {
			kept[string(part.Inline())] = parents
			return nil
		}, m,
	)
	require.NoError(t, err)

	assert.Equal(t, []*message.Entity{m, left}, kept["l"])
	assert.Equal(t, []*message.Entity{m, right}, kept["r"])
}
