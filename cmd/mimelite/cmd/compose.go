package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mimelite/message"
	"github.com/zostay/go-mimelite/message/header"
)

// composeFlags describe the message to put together.
type composeFlags struct {
	from     string
	to       []string
	cc       []string
	bcc      []string
	subject  string
	headers  []string
	text     string
	bodyFile string
	bodyType string
	charset  string
	encoding string
}

func (f *composeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.from, "from", "", "the From address")
	fs.StringSliceVar(&f.to, "to", nil, "a To address (repeatable)")
	fs.StringSliceVar(&f.cc, "cc", nil, "a Cc address (repeatable)")
	fs.StringSliceVar(&f.bcc, "bcc", nil, "a Bcc address (repeatable)")
	fs.StringVarP(&f.subject, "subject", "s", "", "the Subject")
	fs.StringArrayVarP(&f.headers, "header", "H", nil, `a custom field as "Name: body" (repeatable)`)
	fs.StringVarP(&f.text, "text", "t", "", "the body text")
	fs.StringVarP(&f.bodyFile, "body-file", "b", "", `read the body from a file ("-" for stdin)`)
	fs.StringVar(&f.bodyType, "type", message.TEXT, "the media type of the body")
	fs.StringVar(&f.charset, "charset", "", "the charset of the body text")
	fs.StringVarP(&f.encoding, "encoding", "e", "", "the transfer encoding of the body")
}

// fields turns the address and header flags into header fields.
func (f *composeFlags) fields() ([]header.Field, error) {
	var hs []header.Field

	add := func(name string, bodies ...string) {
		if len(bodies) == 0 || (len(bodies) == 1 && bodies[0] == "") {
			return
		}
		hs = append(hs, header.Field{Name: name, Body: strings.Join(bodies, ", ")})
	}

	add(header.From, f.from)
	add(header.To, f.to...)
	add(header.Cc, f.cc...)
	add(header.Bcc, f.bcc...)
	add(header.Subject, f.subject)

	for _, h := range f.headers {
		name, body, found := strings.Cut(h, ":")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("header %q is not of the form \"Name: body\"", h)
		}
		add(strings.TrimSpace(name), strings.TrimSpace(body))
	}

	return hs, nil
}

// compose builds the message: the body first, then every attachment named in
// paths.
func (f *composeFlags) compose(stdin io.Reader, paths []string, opts []message.Option) (*message.Entity, error) {
	hs, err := f.fields()
	if err != nil {
		return nil, err
	}

	c := message.Config{
		Type:     f.bodyType,
		Encoding: f.encoding,
		Charset:  f.charset,
		Header:   hs,
	}

	switch {
	case f.bodyFile == "-":
		c.Reader = stdin
	case f.bodyFile != "":
		c.Path = f.bodyFile
		c.Disposition = "inline"
	default:
		c.Text = f.text
		if c.Text == "" {
			c.Data = []byte{}
		}
	}

	msg, err := message.Build(c, opts...)
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, &message.PathError{Path: p, Err: err}
		}

		_, err := msg.AttachConfig(message.Config{
			Type:        message.AUTO,
			Path:        p,
			Disposition: "attachment",
		})
		if err != nil {
			return nil, err
		}
	}

	return msg, nil
}
