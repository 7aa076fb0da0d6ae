package ops

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/kornelski/trapmail/internal/errors"
	"github.com/kornelski/trapmail/internal/mail"
	"github.com/kornelski/trapmail/internal/store"
)

// Dump loads one stored mail file.
func Dump(path string) (*mail.Mail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLoad(err)
	}
	return mail.Unmarshal(data)
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
)

// Render writes a human-readable rendition of one mail to w.
func Render(w io.Writer, name string, m *mail.Mail) {
	headerColor.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  Time:      %s\n", formatMicros(m.TimestampMicros))
	fmt.Fprintf(w, "  PID/PPID:  %d/%d\n", m.PID, m.PPID)
	fmt.Fprintf(w, "  Addresses: %s\n", strings.Join(m.Options.Addresses, ", "))
	fmt.Fprintf(w, "  Flags:     %s\n", renderFlags(m.Options))
	fmt.Fprintln(w)
	w.Write(m.RawBody)
	if len(m.RawBody) == 0 || m.RawBody[len(m.RawBody)-1] != '\n' {
		fmt.Fprintln(w)
	}
}

// DumpAll renders every mail in the store in arrival order. A file
// that fails to load renders as an error in its position; the rest of
// the store still dumps. Returns the number of failed entries.
func DumpAll(w io.Writer, st *store.Store) (int, error) {
	entries, err := st.List()
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, e := range entries {
		m, err := e.Load()
		if err != nil {
			errorColor.Fprintf(w, "%s\n", e.Name())
			fmt.Fprintf(w, "  %v\n\n", err)
			failed++
			continue
		}
		Render(w, e.Name(), m)
		fmt.Fprintln(w)
	}
	return failed, nil
}

// renderFlags reconstructs the flag part of the original invocation.
func renderFlags(opts mail.Options) string {
	var flags []string
	if opts.Debug {
		flags = append(flags, "--debug")
	}
	if opts.IgnoreDots {
		flags = append(flags, "-i")
	}
	if opts.InlineRecipients {
		flags = append(flags, "-t")
	}
	if len(flags) == 0 {
		return "(none)"
	}
	return strings.Join(flags, " ")
}
