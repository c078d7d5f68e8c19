package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mimelite/message"
	"github.com/zostay/go-mimelite/message/header"
	"github.com/zostay/go-mimelite/message/walk"
)

var (
	buildCmd = &cobra.Command{
		Use:   "build [attachment...]",
		Short: "Build a message and print it",
		RunE:  RunBuild,
	}

	buildFlags composeFlags
	output     string
	crlf       bool
	showTree   bool
)

func init() {
	buildFlags.register(buildCmd)
	buildCmd.Flags().StringVarP(&output, "output", "o", "", "write the message to a file instead of stdout")
	buildCmd.Flags().BoolVar(&crlf, "crlf", false, "use CRLF line breaks")
	buildCmd.Flags().BoolVar(&showTree, "tree", false, "list the parts of the message instead of printing it")
}

// RunBuild puts the message together and writes it out.
func RunBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var extra []message.Option
	if crlf {
		extra = append(extra, message.WithBreak(header.CRLF))
	}

	msg, err := buildFlags.compose(cmd.InOrStdin(), args, messageOptions(cfg, extra...))
	if err != nil {
		return err
	}

	if showTree {
		if err := msg.Finalize(); err != nil {
			return err
		}
		return printTree(cmd.OutOrStdout(), msg)
	}

	out := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	n, err := msg.WriteTo(out)
	if err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s to %s\n", humanize.Bytes(uint64(n)), output)
	}

	return nil
}

// printTree lists every part of msg with its size.
func printTree(w io.Writer, msg *message.Entity) error {
	return walk.AndProcess(
		func(part *message.Entity, parents []*message.Entity) error {
			indent := strings.Repeat("  ", len(parents))
			if part.IsMultipart() {
				_, err := fmt.Fprintf(w, "%s%s (%d parts)\n", indent, part.Type(), len(part.Parts()))
				return err
			}

			size := "stream"
			if b := part.Inline(); b != nil {
				size = humanize.Bytes(uint64(len(b)))
			} else if p := part.Path(); p != "" {
				if fi, err := os.Stat(p); err == nil {
					size = humanize.Bytes(uint64(fi.Size()))
				}
			}

			name := ""
			if fn := part.Filename(); fn != "" {
				name = " " + fn
			}

			_, err := fmt.Fprintf(w, "%s%s%s (%s)\n", indent, part.Type(), name, size)
			return err
		}, msg)
}
