package ops

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/kornelski/trapmail/internal/errors"
	"github.com/kornelski/trapmail/internal/store"
)

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged int `json:"purged"`
}

// Purge deletes every mail file in the store, for cleanup between test
// runs. Only files with the canonical name are touched; anything else
// in the directory stays.
func Purge(st *store.Store) (*PurgeOutput, error) {
	entries, err := st.List()
	if err != nil {
		return nil, err
	}

	out := &PurgeOutput{}
	for _, e := range entries {
		if err := os.Remove(e.Path()); err != nil {
			return nil, errors.NewStore(err)
		}
		out.Purged++
	}

	log.WithField("purged", out.Purged).Debug("store purged")
	return out, nil
}
