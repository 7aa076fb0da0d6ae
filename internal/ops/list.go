package ops

import (
	"time"

	"github.com/kornelski/trapmail/internal/store"
)

// ListItem summarizes one stored mail. A file that matched the
// canonical name but failed to load appears with Error set and keeps
// its position; one corrupt file never hides the rest.
type ListItem struct {
	FileName  string   `json:"file_name"`
	Timestamp string   `json:"timestamp,omitempty"`
	PID       int      `json:"pid,omitempty"`
	PPID      int      `json:"ppid,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	BodyBytes int      `json:"body_bytes"`
	Error     string   `json:"error,omitempty"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items  []ListItem `json:"items"`
	Failed int        `json:"failed"`
}

// List enumerates the store in arrival order.
func List(st *store.Store) (*ListOutput, error) {
	entries, err := st.List()
	if err != nil {
		return nil, err
	}

	out := &ListOutput{Items: make([]ListItem, 0, len(entries))}
	for _, e := range entries {
		m, err := e.Load()
		if err != nil {
			out.Items = append(out.Items, ListItem{FileName: e.Name(), Error: err.Error()})
			out.Failed++
			continue
		}
		out.Items = append(out.Items, ListItem{
			FileName:  e.Name(),
			Timestamp: formatMicros(m.TimestampMicros),
			PID:       m.PID,
			PPID:      m.PPID,
			Addresses: m.Options.Addresses,
			BodyBytes: len(m.RawBody),
		})
	}
	return out, nil
}

// formatMicros renders a microsecond timestamp as RFC 3339 with
// microsecond precision.
func formatMicros(us uint64) string {
	return time.UnixMicro(int64(us)).UTC().Format("2006-01-02T15:04:05.000000Z07:00")
}
