package ops

import (
	"bytes"

	"github.com/emersion/go-message"
	gomail "github.com/emersion/go-message/mail"
	log "github.com/sirupsen/logrus"

	"github.com/kornelski/trapmail/internal/mail"
	"github.com/kornelski/trapmail/internal/store"
)

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	Options mail.Options
	Body    []byte
	Stamper mail.Stamper // optional, tests pin timestamps through this
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	Path     string `json:"path"`
	FileName string `json:"file_name"`
}

// Capture records one submitted message in the store. With
// InlineRecipients set, addresses found in the message's To, Cc and
// Bcc headers are merged into the recorded addressee list.
func Capture(st *store.Store, input CaptureInput) (*CaptureOutput, error) {
	opts := input.Options
	if opts.InlineRecipients {
		opts.Addresses = mergeRecipients(opts.Addresses, input.Body)
	}

	var m *mail.Mail
	if input.Stamper != nil {
		m = mail.NewWithStamper(opts, input.Body, input.Stamper)
	} else {
		m = mail.New(opts, input.Body)
	}

	path, err := st.Add(m)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"path":  path,
		"pid":   m.PID,
		"ppid":  m.PPID,
		"bytes": len(m.RawBody),
	}).Debug("mail captured")

	return &CaptureOutput{Path: path, FileName: m.FileName()}, nil
}

// mergeRecipients parses recipient headers out of the body and appends
// addresses not already listed. A body that does not parse as a
// message leaves the list unchanged; trapping must never lose mail
// over a malformed header.
func mergeRecipients(addrs []string, body []byte) []string {
	ent, err := message.Read(bytes.NewReader(body))
	if err != nil {
		return addrs
	}
	hdr := gomail.Header{Header: ent.Header}

	seen := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		seen[a] = true
	}

	out := addrs
	for _, field := range []string{"To", "Cc", "Bcc"} {
		list, err := hdr.AddressList(field)
		if err != nil {
			continue
		}
		for _, a := range list {
			if seen[a.Address] {
				continue
			}
			seen[a.Address] = true
			out = append(out, a.Address)
		}
	}
	return out
}
