// Package mimelite builds MIME messages in memory and writes them out as
// strictly correct text, ready to hand to a mail submission program, an SMTP
// server, AWS SES, or any callback of your own. It does not parse messages.
//
// The work is split according to part of message. The message package holds
// the entity tree and does the building, finalizing, and serializing. The
// message/header package holds the ordered header fields and folds them on
// output. The message/transfer package applies the Content-transfer-encodings.
// The transport package defines how a finished message is delivered, with
// backends in transport/sendmail, transport/smtp, and transport/ses.
//
// A tool built on this library can take its options and transport from a YAML
// file with the config package. The cmd/mimelite command does exactly that.
package mimelite
