package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimelite/config"
	"github.com/zostay/go-mimelite/message"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/transport"
)

const fullConfig = `
field_order: [Subject, To, From]
quiet: true
auto_type: false
auto_encoding: false
verify_paths: true
builtin: true
line_break: CRLF
fold_length: 78
stamp: true
transport:
  name: test
  args:
    addr: localhost:25
`

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"Subject", "To", "From"}, cfg.FieldOrder)
	assert.Equal(t, "test", cfg.Transport.Name)
	assert.Equal(t, map[string]string{"addr": "localhost:25"}, cfg.Transport.Args)

	o := message.NewOptions(cfg.Options()...)
	assert.Equal(t, []string{"Subject", "To", "From"}, o.FieldOrder)
	assert.Equal(t, hclog.NewNullLogger(), o.Logger)
	assert.False(t, o.AutoType)
	assert.False(t, o.AutoEncoding)
	assert.True(t, o.VerifyPaths)
	assert.True(t, o.Builtin)
	assert.Equal(t, header.CRLF, o.Break)
	assert.Equal(t, 78, o.FoldLength)
	assert.True(t, o.Stamp)
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(""))
	require.NoError(t, err)

	o := message.NewOptions(cfg.Options()...)
	d := message.NewOptions()
	assert.Equal(t, d.AutoType, o.AutoType)
	assert.Equal(t, d.AutoEncoding, o.AutoEncoding)
	assert.Equal(t, d.Break, o.Break)
	assert.Equal(t, d.FoldLength, o.FoldLength)
	assert.False(t, o.Stamp)
	assert.Empty(t, o.FieldOrder)

	cfg, err = config.Parse([]byte("auto_type: true\n"))
	require.NoError(t, err)
	assert.True(t, message.NewOptions(cfg.Options()...).AutoType)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown key": "colour: blue\n",
		"bad break":   "line_break: lfcr\n",
		"short fold":  "fold_length: 3\n",
		"bad yaml":    "field_order: [\n",
	}

	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "mimelite.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(fullConfig), 0o600))

	t.Setenv(config.EnvTransport, "")
	cfg, err := config.Load(fn)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Transport.Name)

	t.Setenv(config.EnvTransport, "other")
	cfg, err = config.Load(fn)
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.Transport.Name)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_OpenTransport(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(fullConfig))
	require.NoError(t, err)

	var gotArgs transport.Args
	var delivered []byte
	reg := transport.NewRegistry()
	reg.Register("test", func(args transport.Args) (transport.Transport, error) {
		gotArgs = args
		return transport.Func(func(_ context.Context, _ transport.Envelope, msg []byte) error {
			delivered = msg
			return nil
		}), nil
	})

	tr, err := cfg.OpenTransport(reg)
	require.NoError(t, err)
	assert.Equal(t, "localhost:25", gotArgs.Get("addr", ""))

	require.NoError(t, tr.Deliver(context.Background(), transport.Envelope{}, []byte("msg")))
	assert.Equal(t, []byte("msg"), delivered)

	cfg.Transport.Name = "nope"
	_, err = cfg.OpenTransport(reg)
	assert.ErrorIs(t, err, transport.ErrUnknownTransport)

	cfg.Transport.Name = ""
	_, err = cfg.OpenTransport(reg)
	assert.ErrorIs(t, err, config.ErrNoTransport)
}
