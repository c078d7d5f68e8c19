// Package smtp is a transport backend that submits messages to an SMTP server
// using github.com/emersion/go-smtp.
//
// It registers itself with transport.Default as "smtp". The arguments are:
//
//	addr      host:port of the server (required)
//	hello     name to greet the server with (default "localhost")
//	tls       connect with implicit TLS (default false)
//	starttls  upgrade with STARTTLS when offered (default true)
//	username  user to authenticate as
//	password  password for PLAIN authentication
//	token     OAuth 2.0 access token for OAUTHBEARER authentication
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"golang.org/x/oauth2"

	"github.com/zostay/go-mimelite/transport"
)

// Name is the name this backend is registered under.
const Name = "smtp"

func init() {
	Register(transport.Default)
}

// Register adds this backend to the registry.
func Register(r *transport.Registry) {
	r.Register(Name, Open)
}

// Client is the part of *smtp.Client used for delivery.
type Client interface {
	Hello(localName string) error
	StartTLS(config *tls.Config) error
	Extension(ext string) (bool, string)
	Auth(a sasl.Client) error
	SendMail(from string, to []string, r io.Reader) error
	Quit() error
	Close() error
}

// Dialer opens a session with the server.
type Dialer func(ctx context.Context, addr string, implicitTLS bool) (Client, error)

// Config configures the backend.
type Config struct {
	Addr        string
	Hello       string
	ImplicitTLS bool
	StartTLS    bool
	Username    string
	Password    string

	// TokenSource supplies access tokens for OAUTHBEARER. When set, it is
	// used instead of Password.
	TokenSource oauth2.TokenSource

	// Dial defaults to a TCP connection.
	Dial Dialer
}

// Transport delivers messages over SMTP. Each delivery uses a new session.
type Transport struct {
	cfg  Config
	host string
	port int
}

// Open creates the backend from registry arguments.
func Open(args transport.Args) (transport.Transport, error) {
	addr, err := args.Require("addr")
	if err != nil {
		return nil, err
	}

	implicitTLS, err := args.Bool("tls", false)
	if err != nil {
		return nil, err
	}

	startTLS, err := args.Bool("starttls", true)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Addr:        addr,
		Hello:       args.Get("hello", "localhost"),
		ImplicitTLS: implicitTLS,
		StartTLS:    startTLS,
		Username:    args.Get("username", ""),
		Password:    args.Get("password", ""),
	}

	if tok := args.Get("token", ""); tok != "" {
		cfg.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok})
	}

	t, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// New creates the backend.
func New(cfg Config) (*Transport, error) {
	host, portStr, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("bad smtp address %q: %w", cfg.Addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("bad smtp port %q: %w", portStr, err)
	}

	if cfg.Hello == "" {
		cfg.Hello = "localhost"
	}

	if cfg.Dial == nil {
		cfg.Dial = dial
	}

	if cfg.TokenSource != nil {
		cfg.TokenSource = oauth2.ReuseTokenSource(nil, cfg.TokenSource)
	}

	return &Transport{cfg: cfg, host: host, port: port}, nil
}

func dial(ctx context.Context, addr string, implicitTLS bool) (Client, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	var conn net.Conn
	if implicitTLS {
		d := &tls.Dialer{Config: &tls.Config{ServerName: host}}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		d := &net.Dialer{}
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// Deliver opens a session, authenticates if configured, and sends the message.
func (t *Transport) Deliver(ctx context.Context, env transport.Envelope, msg []byte) error {
	c, err := t.cfg.Dial(ctx, t.cfg.Addr, t.cfg.ImplicitTLS)
	if err != nil {
		return fmt.Errorf("unable to connect to %s: %w", t.cfg.Addr, err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Hello(t.cfg.Hello); err != nil {
		return err
	}

	if t.cfg.StartTLS && !t.cfg.ImplicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: t.host}); err != nil {
				return fmt.Errorf("starttls failed: %w", err)
			}
		}
	}

	auth, err := t.auth()
	if err != nil {
		return err
	}

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.SendMail(env.From, env.Recipients, bytes.NewReader(msg)); err != nil {
		return err
	}

	return c.Quit()
}

// auth picks the SASL mechanism, or returns nil if no credentials are set.
func (t *Transport) auth() (sasl.Client, error) {
	if t.cfg.TokenSource != nil {
		tok, err := t.cfg.TokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("unable to get access token: %w", err)
		}

		return sasl.NewOAuthBearerClient(&sasl.OAuthBearerOptions{
			Username: t.cfg.Username,
			Token:    tok.AccessToken,
			Host:     t.host,
			Port:     t.port,
		}), nil
	}

	if t.cfg.Username != "" {
		return sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password), nil
	}

	return nil, nil
}
