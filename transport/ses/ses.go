// Package ses is a transport backend that sends messages through the Amazon
// SES v2 API as raw messages.
//
// It registers itself with transport.Default as "ses". The arguments are:
//
//	region             AWS region (required)
//	access_key_id      static credentials (default is the AWS credential chain)
//	secret_access_key  static credentials
package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/zostay/go-mimelite/transport"
)

// Name is the name this backend is registered under.
const Name = "ses"

func init() {
	Register(transport.Default)
}

// Register adds this backend to the registry.
func Register(r *transport.Registry) {
	r.Register(Name, Open)
}

// SendEmailAPI is the part of the SES v2 client used by this backend.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Config configures the backend.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Transport sends raw messages with SES.
type Transport struct {
	client SendEmailAPI
}

// Open creates the backend from registry arguments.
func Open(args transport.Args) (transport.Transport, error) {
	region, err := args.Require("region")
	if err != nil {
		return nil, err
	}

	t, err := New(context.Background(), Config{
		Region:          region,
		AccessKeyID:     args.Get("access_key_id", ""),
		SecretAccessKey: args.Get("secret_access_key", ""),
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// New loads the AWS configuration and creates the backend.
func New(ctx context.Context, cfg Config) (*Transport, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(sesv2.NewFromConfig(awsCfg)), nil
}

// NewWithClient creates the backend around an existing client.
func NewWithClient(client SendEmailAPI) *Transport {
	return &Transport{client: client}
}

// Input builds the SendEmail request. The message is sent as-is, and the
// envelope overrides the addresses SES would otherwise take from the header.
func Input(env transport.Envelope, msg []byte) *sesv2.SendEmailInput {
	in := &sesv2.SendEmailInput{
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: msg},
		},
		Destination: &types.Destination{
			ToAddresses: env.Recipients,
		},
	}

	if env.From != "" {
		in.FromEmailAddress = aws.String(env.From)
	}

	return in
}

// Deliver sends the message. Failures are not retried.
func (t *Transport) Deliver(ctx context.Context, env transport.Envelope, msg []byte) error {
	if _, err := t.client.SendEmail(ctx, Input(env, msg)); err != nil {
		return fmt.Errorf("SES send failed: %w", err)
	}
	return nil
}
