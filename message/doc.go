// Package message builds MIME entities and writes them out as strictly correct
// RFC 2045 messages. A message is a tree of *Entity: each is either a leaf with
// a body or a multipart container with parts.
//
// Entities are created with Build from a Config, which names the body source
// (inline bytes, lines, Unicode text, a file path, or an open reader), the media
// type, the transfer encoding, and the content attributes:
//
//	msg, err := message.Build(message.Config{
//	  Type: "text/plain",
//	  Text: "Hello World!\n",
//	  Header: []header.Field{
//	    {Name: header.Subject, Body: "Hello"},
//	  },
//	})
//	if err != nil {
//	  panic(err)
//	}
//
// Parts are added with Attach or AttachConfig. Attaching to a leaf first turns
// it into a multipart/mixed container whose first part carries the old body.
//
// The media type may be the AUTO placeholder, which is resolved from the
// filename, or TEXT, which is text/plain. The encoding may be left empty to
// pick one from the media type or set to transfer.Suggest to pick one by
// scanning the body. These are resolved by Finalize, which is called whenever
// the message is written with WriteTo, String, Bytes, or Send.
package message
