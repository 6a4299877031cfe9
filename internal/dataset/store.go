package dataset

import (
	"github.com/tabula-dev/tabula/internal/taberr"
)

// Store holds the single live dataset. It is not safe for concurrent use;
// the owning session serializes access.
type Store struct {
	name  string
	frame *Frame
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new dataset, discarding the previous one.
func (s *Store) Replace(name string, f *Frame) {
	s.name = name
	s.frame = f
}

// Current returns the live frame, or an error when no dataset is loaded.
func (s *Store) Current() (*Frame, error) {
	if s.frame == nil {
		return nil, taberr.New(taberr.ErrNoDataset, "no dataset loaded").
			WithHelp("load a dataset first, e.g. the builtin \"iris\"")
	}
	return s.frame, nil
}

// Commit replaces the live frame in place, keeping the dataset name. Used
// after a successful execution to publish the sandbox's working copy.
func (s *Store) Commit(f *Frame) {
	s.frame = f
}

// Name returns the name of the current dataset, or "" when empty.
func (s *Store) Name() string {
	return s.name
}

// Loaded reports whether a dataset is present.
func (s *Store) Loaded() bool {
	return s.frame != nil
}

// Clear discards the current dataset.
func (s *Store) Clear() {
	s.name = ""
	s.frame = nil
}
