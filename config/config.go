// Package config loads the message options and the delivery transport from a
// YAML file, so that tools built on this library can be configured without
// code changes.
//
// A complete file looks like this:
//
//	field_order: [Date, From, To, Subject]
//	quiet: false
//	auto_type: true
//	auto_encoding: true
//	verify_paths: false
//	builtin: false
//	line_break: crlf
//	fold_length: 78
//	stamp: true
//	transport:
//	  name: smtp
//	  args:
//	    addr: mail.example.com:587
//	    username: me
//	    password: secret
//
// The MIMELITE_TRANSPORT environment variable overrides the transport name.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mimelite/message"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/transport"
)

// EnvTransport names the environment variable that overrides the transport
// name given in the file.
const EnvTransport = "MIMELITE_TRANSPORT"

// ErrNoTransport is returned by OpenTransport when no transport has been
// configured.
var ErrNoTransport = errors.New("no transport configured")

// Config is the contents of a configuration file. Pointer fields are nil when
// the key is absent, leaving the library default in place.
type Config struct {
	FieldOrder   []string        `yaml:"field_order"`
	Quiet        bool            `yaml:"quiet"`
	AutoType     *bool           `yaml:"auto_type"`
	AutoEncoding *bool           `yaml:"auto_encoding"`
	VerifyPaths  bool            `yaml:"verify_paths"`
	Builtin      bool            `yaml:"builtin"`
	LineBreak    string          `yaml:"line_break"`
	FoldLength   int             `yaml:"fold_length"`
	Stamp        bool            `yaml:"stamp"`
	Transport    TransportConfig `yaml:"transport"`
}

// TransportConfig selects a registered transport and its arguments.
type TransportConfig struct {
	Name string            `yaml:"name"`
	Args map[string]string `yaml:"args"`
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvVars()
	return cfg, nil
}

// Parse reads configuration from YAML data. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// an empty file is valid and leaves every default
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := header.ParseBreak(cfg.LineBreak); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.FoldLength != 0 && cfg.FoldLength != header.DoNotFold {
		if _, err := header.NewFoldEncoding(cfg.FoldLength); err != nil {
			return nil, fmt.Errorf("failed to parse config file: fold_length %d: %w", cfg.FoldLength, err)
		}
	}

	return cfg, nil
}

// applyEnvVars overrides configuration with environment variable values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv(EnvTransport); v != "" {
		c.Transport.Name = v
	}
}

// Options returns the message options described by the configuration.
func (c *Config) Options() []message.Option {
	var opts []message.Option

	if len(c.FieldOrder) > 0 {
		opts = append(opts, message.WithFieldOrder(c.FieldOrder...))
	}
	if c.Quiet {
		opts = append(opts, message.Quiet())
	}
	if c.AutoType != nil && !*c.AutoType {
		opts = append(opts, message.WithoutAutoType())
	}
	if c.AutoEncoding != nil && !*c.AutoEncoding {
		opts = append(opts, message.WithoutAutoEncoding())
	}
	if c.VerifyPaths {
		opts = append(opts, message.WithVerifyPaths())
	}
	if c.Builtin {
		opts = append(opts, message.WithBuiltin())
	}

	// validated by Parse
	if lb, err := header.ParseBreak(c.LineBreak); err == nil {
		opts = append(opts, message.WithBreak(lb))
	}

	if c.FoldLength != 0 {
		opts = append(opts, message.WithFoldLength(c.FoldLength))
	}
	if c.Stamp {
		opts = append(opts, message.WithStamp())
	}

	return opts
}

// OpenTransport opens the configured transport from the registry. A nil
// registry means transport.Default.
func (c *Config) OpenTransport(reg *transport.Registry) (transport.Transport, error) {
	if c.Transport.Name == "" {
		return nil, ErrNoTransport
	}

	if reg == nil {
		reg = transport.Default
	}

	return reg.Open(c.Transport.Name, transport.Args(c.Transport.Args))
}
