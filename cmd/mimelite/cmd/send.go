package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mimelite/config"
	"github.com/zostay/go-mimelite/transport"
	_ "github.com/zostay/go-mimelite/transport/sendmail"
	_ "github.com/zostay/go-mimelite/transport/ses"
	_ "github.com/zostay/go-mimelite/transport/smtp"
)

var (
	sendCmd = &cobra.Command{
		Use:   "send [attachment...]",
		Short: "Build a message and deliver it",
		RunE:  RunSend,
	}

	sendFlags     composeFlags
	transportName string
	transportArgs []string
)

func init() {
	sendFlags.register(sendCmd)
	sendCmd.Flags().StringVarP(&transportName, "transport", "T", "", "the transport to use: "+strings.Join(transport.Default.Names(), ", "))
	sendCmd.Flags().StringArrayVarP(&transportArgs, "arg", "a", nil, "a transport argument as name=value (repeatable)")
}

// transportConfig applies the command line transport flags to the
// configuration.
func transportConfig(cfg *config.Config) error {
	if transportName != "" {
		cfg.Transport.Name = transportName
	}

	for _, a := range transportArgs {
		name, value, found := strings.Cut(a, "=")
		if !found {
			return fmt.Errorf("transport argument %q is not of the form name=value", a)
		}

		if cfg.Transport.Args == nil {
			cfg.Transport.Args = map[string]string{}
		}
		cfg.Transport.Args[name] = value
	}

	return nil
}

// RunSend puts the message together and hands it to the transport.
func RunSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := transportConfig(cfg); err != nil {
		return err
	}

	t, err := cfg.OpenTransport(nil)
	if err != nil {
		return err
	}

	msg, err := sendFlags.compose(cmd.InOrStdin(), args, messageOptions(cfg))
	if err != nil {
		return err
	}

	env, err := msg.Envelope()
	if err != nil {
		return err
	}

	// the delivered copy has no Bcc field, so measure that one
	var size int
	counted := transport.Func(func(ctx context.Context, env transport.Envelope, b []byte) error {
		size = len(b)
		return t.Deliver(ctx, env, b)
	})

	if err := msg.Send(cmd.Context(), counted); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %d %s via %s\n",
		humanize.Bytes(uint64(size)),
		len(env.Recipients),
		plural(len(env.Recipients), "recipient", "recipients"),
		cfg.Transport.Name)

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
