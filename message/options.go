package message

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/transfer"
)

// Options govern how an entity tree is finalized and rendered. The options
// given to Build for the root of a tree apply to the whole tree. Options of
// entities attached beneath it are ignored.
type Options struct {
	// FieldOrder lists header field names to render first, in this order.
	FieldOrder []string

	// Logger receives advisory warnings, such as 8-bit data in a 7bit part.
	Logger hclog.Logger

	// AutoType resolves the AUTO type from the filename. When false, AUTO is
	// always application/octet-stream.
	AutoType bool

	// AutoEncoding picks an encoding from the media type when no encoding was
	// given. When false, the default is 7bit.
	AutoEncoding bool

	// VerifyPaths makes Finalize check that every Path source can be opened.
	VerifyPaths bool

	// Builtin turns off the accelerated helpers (golang.org/x/text for
	// charsets and the mime package type table) in favor of the built-in
	// fallbacks.
	Builtin bool

	// Break is the line break used for the header, boundaries, and encoded
	// bodies.
	Break header.Break

	// FoldLength is the preferred header line length and the longest body
	// line permitted by 7bit when suggesting an encoding.
	FoldLength int

	// Stamp adds Date and X-Mailer fields to the top-level entity.
	Stamp bool

	// Now is the clock used when stamping.
	Now func() time.Time
}

// Option is a functional option for Build.
type Option func(*Options)

// NewOptions returns the default options with the given options applied.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		AutoType:     true,
		AutoEncoding: true,
		Break:        header.LF,
		FoldLength:   header.DefaultPreferredFoldLength,
		Now:          time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.Logger == nil {
		o.Logger = hclog.New(&hclog.LoggerOptions{
			Name:  "mimelite",
			Level: hclog.Warn,
		})
	}

	return o
}

// lineLimit is the longest body line allowed for 7bit.
func (o *Options) lineLimit() int {
	if o.FoldLength <= 0 {
		return transfer.DefaultLineLimit
	}
	return o.FoldLength
}

// WithFieldOrder sets the header fields to render first.
func WithFieldOrder(names ...string) Option {
	return func(o *Options) {
		o.FieldOrder = names
	}
}

// WithLogger sets the logger to use for advisory warnings.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Quiet suppresses advisory warnings.
func Quiet() Option {
	return func(o *Options) {
		o.Logger = hclog.NewNullLogger()
	}
}

// WithoutAutoType turns off media type lookup by filename.
func WithoutAutoType() Option {
	return func(o *Options) {
		o.AutoType = false
	}
}

// WithoutAutoEncoding turns off encoding selection by media type.
func WithoutAutoEncoding() Option {
	return func(o *Options) {
		o.AutoEncoding = false
	}
}

// WithVerifyPaths makes Finalize fail if any Path source cannot be opened.
func WithVerifyPaths() Option {
	return func(o *Options) {
		o.VerifyPaths = true
	}
}

// WithBuiltin turns off the accelerated charset and media type helpers.
func WithBuiltin() Option {
	return func(o *Options) {
		o.Builtin = true
	}
}

// WithBreak sets the line break. Use header.CRLF when handing the message to an
// SMTP server.
func WithBreak(lb header.Break) Option {
	return func(o *Options) {
		o.Break = lb
	}
}

// WithFoldLength sets the preferred header line length. Use header.DoNotFold to
// turn off folding.
func WithFoldLength(n int) Option {
	return func(o *Options) {
		o.FoldLength = n
	}
}

// WithStamp adds Date and X-Mailer fields to the top-level entity when they are
// not already present.
func WithStamp() Option {
	return func(o *Options) {
		o.Stamp = true
	}
}

// WithClock sets the clock used by WithStamp.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Now = now
	}
}
