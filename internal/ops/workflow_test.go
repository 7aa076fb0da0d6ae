package ops

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kornelski/trapmail/internal/mail"
	"github.com/kornelski/trapmail/internal/store"
)

// TestFullWorkflow exercises the complete trap lifecycle:
// capture → list → dump → export → purge → list (empty)
func TestFullWorkflow(t *testing.T) {
	st := store.WithRoot(t.TempDir())

	// 1. Capture three messages out of order.
	var paths []string
	for _, us := range []uint64{30, 10, 20} {
		out, err := Capture(st, CaptureInput{
			Options: mail.Options{Addresses: []string{"dev@example.com"}},
			Body:    []byte("Subject: t\n\npayload\n"),
			Stamper: stampAt(us),
		})
		require.NoError(t, err)
		require.NotEmpty(t, out.Path)
		paths = append(paths, out.Path)
	}

	// 2. List returns them in arrival order.
	listOut, err := List(st)
	require.NoError(t, err)
	require.Len(t, listOut.Items, 3)
	require.Equal(t, 0, listOut.Failed)
	require.True(t, strings.HasPrefix(listOut.Items[0].FileName, "trapmail_10_"),
		"first item should be the earliest capture, got %s", listOut.Items[0].FileName)

	// 3. Dump one file back.
	m, err := Dump(paths[1])
	require.NoError(t, err)
	require.Equal(t, uint64(10), m.TimestampMicros)
	require.Equal(t, []string{"dev@example.com"}, m.Options.Addresses)

	// 4. Export the store as mbox.
	var mboxBuf bytes.Buffer
	exportOut, err := ExportMbox(&mboxBuf, st)
	require.NoError(t, err)
	require.Equal(t, 3, exportOut.Exported)
	require.Contains(t, mboxBuf.String(), "payload")

	// 5. Purge everything.
	purgeOut, err := Purge(st)
	require.NoError(t, err)
	require.Equal(t, 3, purgeOut.Purged)

	// 6. Store is empty but still enumerable.
	listOut, err = List(st)
	require.NoError(t, err)
	require.Empty(t, listOut.Items)
}
