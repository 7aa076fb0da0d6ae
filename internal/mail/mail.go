// Package mail defines the captured mail record and its canonical
// on-disk identity.
package mail

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kornelski/trapmail/internal/errors"
)

// Options is the invocation configuration under which a mail was
// captured. The store treats it as opaque; it is persisted verbatim so
// a later inspection can replay the exact call.
type Options struct {
	// Debug requests non-standard debug output.
	Debug bool `json:"debug"`

	// IgnoreDots disables treating a dot alone on a line as end of input.
	IgnoreDots bool `json:"ignore_dots"`

	// InlineRecipients reads the message itself for the recipient list.
	InlineRecipients bool `json:"inline_recipients"`

	// Addresses is the final addressee list.
	Addresses []string `json:"addresses"`
}

// Mail is one captured message. Records are immutable after
// construction: created once, serialized to disk, and optionally
// deserialized back as read-only copies.
type Mail struct {
	// Options is the invocation configuration at the time of capture.
	Options Options `json:"cli_options"`

	// PID is the id of the capturing process.
	PID int `json:"pid"`

	// PPID is the id of the process that invoked the capture.
	PPID int `json:"ppid"`

	// RawBody is the unparsed message content. JSON encodes it as
	// base64, which round-trips arbitrary bytes exactly.
	RawBody []byte `json:"raw_body"`

	// TimestampMicros is the arrival time in microseconds since the
	// Unix epoch.
	TimestampMicros uint64 `json:"timestamp_us"`
}

// New creates a Mail from the current wall clock and process
// identifiers. The process-wide stamp provider guarantees a timestamp
// strictly greater than any previously issued in this process, so the
// (timestamp, ppid, pid) tuple is unique even under back-to-back calls
// on a coarse clock.
//
// Panics if the system clock reports a time before the Unix epoch.
func New(opts Options, rawBody []byte) *Mail {
	return NewWithStamper(opts, rawBody, defaultStamper)
}

// NewWithStamper is New with an explicit stamp provider, so tests can
// pin timestamps deterministically.
func NewWithStamper(opts Options, rawBody []byte, stamper Stamper) *Mail {
	return &Mail{
		Options:         opts,
		PID:             os.Getpid(),
		PPID:            os.Getppid(),
		RawBody:         rawBody,
		TimestampMicros: stamper.Stamp(),
	}
}

// FileName derives the canonical storage name for this mail. The name
// is both the storage key and the sort key.
func (m *Mail) FileName() string {
	return fmt.Sprintf("trapmail_%d_%d_%d.json", m.TimestampMicros, m.PPID, m.PID)
}

// Marshal encodes the mail for storage. The encoding is indented for
// human inspection; readability is a nicety, round-tripping is the
// contract.
func (m *Mail) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.NewSerialization(err)
	}
	return data, nil
}

// Unmarshal decodes a stored mail. Malformed input yields a
// DESERIALIZATION error.
func Unmarshal(data []byte) (*Mail, error) {
	m := &Mail{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.NewDeserialization(err)
	}
	return m, nil
}
