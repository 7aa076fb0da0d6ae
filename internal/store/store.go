// Package store persists mail records as individual files under one
// flat root directory. The filesystem is the only index: no lock
// files, no subdirectories, no in-memory state.
package store

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/kornelski/trapmail/internal/config"
	"github.com/kornelski/trapmail/internal/errors"
	"github.com/kornelski/trapmail/internal/mail"
)

// fileNameRe matches exactly the filenames generated by mail.FileName.
var fileNameRe = regexp.MustCompile(`^trapmail_(\d+)_(\d+)_(\d+)\.json$`)

// Store is a directory-backed mail repository. Construction never
// touches the filesystem; every operation is a self-contained
// filesystem transaction against the root.
type Store struct {
	root string
}

// New constructs a Store with the root taken from the TRAPMAIL_STORE
// environment variable, falling back to the default path if unset.
func New() *Store {
	root := os.Getenv(config.EnvStorePath)
	if root == "" {
		root = config.DefaultStorePath
	}
	return WithRoot(root)
}

// WithRoot constructs a Store with an explicit root path.
func WithRoot(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory path.
func (s *Store) Root() string {
	return s.root
}

// Add serializes the mail and writes it to root/<FileName>. Names are
// unique per the construction invariant, so no overwrite handling is
// needed. Returns the path of the written file.
func (s *Store) Add(m *mail.Mail) (string, error) {
	data, err := m.Marshal()
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.root, m.FileName())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.NewStore(err)
	}
	return path, nil
}

// sortKey is the numeric identity tuple parsed out of a filename.
type sortKey struct {
	ts, ppid, pid uint64
}

func (k sortKey) less(o sortKey) bool {
	if k.ts != o.ts {
		return k.ts < o.ts
	}
	if k.ppid != o.ppid {
		return k.ppid < o.ppid
	}
	return k.pid < o.pid
}

// Entry is one matched mail file, loadable on demand.
type Entry struct {
	path string
	key  sortKey
}

// Path returns the full path of the entry's file.
func (e Entry) Path() string {
	return e.path
}

// Name returns the entry's file name.
func (e Entry) Name() string {
	return filepath.Base(e.path)
}

// TimestampMicros returns the arrival timestamp encoded in the file name.
func (e Entry) TimestampMicros() uint64 {
	return e.key.ts
}

// Load reads and decodes the entry's file. Each entry loads
// independently; a corrupt file fails here without affecting its
// neighbours.
func (e Entry) Load() (*mail.Mail, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, errors.NewLoad(err)
	}
	return mail.Unmarshal(data)
}

// List enumerates the root directory and returns entries for every
// file whose name matches the canonical pattern, in arrival order.
// Anything else in the directory is not mail owned by this store and
// is skipped silently.
//
// Ordering note: timestamps are written in plain decimal, so raw
// string order diverges from arrival order when the digit count grows
// (a 9-digit vs a 10-digit timestamp). Entries are therefore ordered
// by the parsed numeric (timestamp, ppid, pid) tuple, not by string
// comparison.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.NewDirEnumeration(err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		key, ok := parseFileName(de.Name())
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			path: filepath.Join(s.root, de.Name()),
			key:  key,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key.less(entries[j].key)
	})
	return entries, nil
}

// parseFileName extracts the identity tuple from a canonical filename.
// A name whose digit fields overflow uint64 cannot have been produced
// here and is treated as non-matching.
func parseFileName(name string) (sortKey, bool) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return sortKey{}, false
	}

	var key sortKey
	var err error
	if key.ts, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return sortKey{}, false
	}
	if key.ppid, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return sortKey{}, false
	}
	if key.pid, err = strconv.ParseUint(m[3], 10, 64); err != nil {
		return sortKey{}, false
	}
	return key, true
}
