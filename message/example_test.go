package message_test

import (
	"context"
	"fmt"

	"github.com/zostay/go-mimelite/message"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/transport"
)

func ExampleBuild() {
	txt, err := message.Build(message.Config{
		Type: "text/plain",
		Text: "Hello World!\n",
	})
	if err != nil {
		panic(err)
	}

	html, err := message.Build(message.Config{
		Type: "text/html",
		Text: "<p>Hello World!</p>\n",
	})
	if err != nil {
		panic(err)
	}

	msg, err := message.Build(message.Config{
		Type:     "multipart/alternative",
		Boundary: "alt",
		Parts:    []*message.Entity{txt, html},
		Header: []header.Field{
			{Name: header.To, Body: "sterling@example.com"},
			{Name: header.From, Body: "steve@example.com"},
			{Name: header.Subject, Body: "Hello"},
		},
	})
	if err != nil {
		panic(err)
	}

	s, err := msg.String()
	if err != nil {
		panic(err)
	}

	fmt.Print(s)
	// Output:
	// To: sterling@example.com
	// From: steve@example.com
	// Subject: Hello
	// MIME-Version: 1.0
	// Content-Type: multipart/alternative; boundary=alt
	//
	// --alt
	// Content-Type: text/plain
	// Content-Transfer-Encoding: 7bit
	//
	// Hello World!
	//
	// --alt
	// Content-Type: text/html
	// Content-Transfer-Encoding: 7bit
	//
	// <p>Hello World!</p>
	//
	// --alt--
}

func ExampleEntity_Attach() {
	msg, err := message.Build(message.Config{
		Text:     "See attached.\n",
		Boundary: "mixed",
	})
	if err != nil {
		panic(err)
	}

	_, err = msg.AttachConfig(message.Config{
		Type:        message.AUTO,
		Data:        []byte("a,b\n"),
		Filename:    "data.csv",
		Disposition: "attachment",
	})
	if err != nil {
		panic(err)
	}

	for _, p := range msg.Parts() {
		fmt.Printf("%s %q\n", p.Type(), p.Filename())
	}
	fmt.Println(msg.Type())
	// Output:
	// TEXT ""
	// AUTO "data.csv"
	// multipart/mixed
}

func ExampleEntity_Send() {
	msg, err := message.Build(message.Config{
		Text: "Hi!\n",
		Header: []header.Field{
			{Name: header.From, Body: "steve@example.com"},
			{Name: header.To, Body: "sterling@example.com"},
		},
	})
	if err != nil {
		panic(err)
	}

	deliver := transport.Func(func(ctx context.Context, env transport.Envelope, msg []byte) error {
		fmt.Println(env.From, env.Recipients)
		return nil
	})

	if err := msg.Send(context.Background(), deliver); err != nil {
		panic(err)
	}
	// Output:
	// steve@example.com [sterling@example.com]
}
