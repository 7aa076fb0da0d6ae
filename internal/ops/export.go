package ops

import (
	"io"
	"time"

	"github.com/emersion/go-mbox"

	"github.com/kornelski/trapmail/internal/errors"
	"github.com/kornelski/trapmail/internal/store"
)

// mboxFrom is the envelope sender written on each separator line;
// trapped mail has no real envelope.
const mboxFrom = "trapmail"

// ExportOutput contains the result of the ExportMbox operation.
type ExportOutput struct {
	Exported int `json:"exported"`
	Failed   int `json:"failed"`
}

// ExportMbox streams every stored mail to w as an mbox, in arrival
// order, so the trapped store can be opened in an ordinary mail
// client. Entries that fail to load are counted and skipped; a write
// failure aborts the export.
func ExportMbox(w io.Writer, st *store.Store) (*ExportOutput, error) {
	entries, err := st.List()
	if err != nil {
		return nil, err
	}

	out := &ExportOutput{}
	mw := mbox.NewWriter(w)
	for _, e := range entries {
		m, err := e.Load()
		if err != nil {
			out.Failed++
			continue
		}

		mwr, err := mw.CreateMessage(mboxFrom, time.UnixMicro(int64(m.TimestampMicros)).UTC())
		if err != nil {
			return nil, errors.NewStore(err)
		}
		if _, err := mwr.Write(m.RawBody); err != nil {
			return nil, errors.NewStore(err)
		}
		out.Exported++
	}
	if err := mw.Close(); err != nil {
		return nil, errors.NewStore(err)
	}
	return out, nil
}
