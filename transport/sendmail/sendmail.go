// Package sendmail is a transport backend that hands messages to a local mail
// submission program, such as sendmail or one of its many stand-ins.
//
// It registers itself with transport.Default as "sendmail". The arguments are:
//
//	path  the submission program (default "/usr/sbin/sendmail")
package sendmail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/zostay/go-mimelite/transport"
)

const (
	// Name is the name this backend is registered under.
	Name = "sendmail"

	// DefaultPath is the submission program used when no path is given.
	DefaultPath = "/usr/sbin/sendmail"
)

func init() {
	Register(transport.Default)
}

// Register adds this backend to the registry.
func Register(r *transport.Registry) {
	r.Register(Name, Open)
}

// Runner runs the program with the given arguments and standard input.
type Runner func(ctx context.Context, path string, args []string, stdin io.Reader) error

// Transport pipes messages to the standard input of the submission program.
type Transport struct {
	Path string
	Run  Runner
}

// Open creates the backend from registry arguments.
func Open(args transport.Args) (transport.Transport, error) {
	return New(args.Get("path", DefaultPath)), nil
}

// New creates the backend for the program at path.
func New(path string) *Transport {
	if path == "" {
		path = DefaultPath
	}
	return &Transport{Path: path, Run: run}
}

// Args returns the command-line arguments used to submit a message for the
// envelope: "-oi" so a lone dot does not end the message, "-f" with the
// sender if there is one, then the recipients after "--".
func Args(env transport.Envelope) []string {
	args := []string{"-oi"}
	if env.From != "" {
		args = append(args, "-f", env.From)
	}
	args = append(args, "--")
	return append(args, env.Recipients...)
}

// Deliver runs the program and writes the message to it.
func (t *Transport) Deliver(ctx context.Context, env transport.Envelope, msg []byte) error {
	runner := t.Run
	if runner == nil {
		runner = run
	}
	return runner(ctx, t.Path, Args(env), bytes.NewReader(msg))
}

func run(ctx context.Context, path string, args []string, stdin io.Reader) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", path, err, msg)
		}
		return fmt.Errorf("%s failed: %w", path, err)
	}

	return nil
}
