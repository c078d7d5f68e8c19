package message

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/transport"
)

// Envelope works out the envelope for delivering the message. The sender is
// the first address found in Return-Path, Sender, or From. The recipients are
// every address in To, Cc, and Bcc, without duplicates.
//
// It returns ErrConfig if there are no recipients.
func (e *Entity) Envelope() (transport.Envelope, error) {
	var env transport.Envelope

	for _, name := range []string{header.ReturnPath, header.Sender, header.From} {
		al, err := e.GetAddressList(name)
		if err != nil {
			continue
		}

		for _, a := range al {
			if a.Address() != "" {
				env.From = a.Address()
				break
			}
		}

		if env.From != "" {
			break
		}
	}

	seen := map[string]struct{}{}
	for _, name := range []string{header.To, header.Cc, header.Bcc} {
		al, err := e.GetAddressList(name)
		if err != nil {
			continue
		}

		for _, a := range al {
			rcpt := a.Address()
			if rcpt == "" {
				continue
			}

			key := strings.ToLower(rcpt)
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			env.Recipients = append(env.Recipients, rcpt)
		}
	}

	if len(env.Recipients) == 0 {
		return env, fmt.Errorf("%w: message has no recipients", ErrConfig)
	}

	return env, nil
}

// Send renders the message and hands it to t with the envelope returned by
// Envelope. The Bcc field is left out of the delivered text. Errors returned by
// t are passed back unchanged.
func (e *Entity) Send(ctx context.Context, t transport.Transport) error {
	env, err := e.Envelope()
	if err != nil {
		return err
	}

	if err := e.Finalize(); err != nil {
		return err
	}

	o := e.options()
	h := e.renderHeader(o, !e.owned)
	h.Delete(header.Bcc)

	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		return err
	}

	if err := e.writeBody(&buf, o); err != nil {
		return err
	}

	o.Logger.Debug("delivering message",
		"from", env.From,
		"recipients", len(env.Recipients),
		"size", buf.Len())

	return t.Deliver(ctx, env, buf.Bytes())
}
