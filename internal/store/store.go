// Copyright © 2026 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
)

// Store reads and writes a single world's persistent file.
type Store struct {
	path string
	log  zerolog.Logger
}

// New returns a Store bound to path. It does not touch the filesystem
// until Save or Load is called.
func New(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log.With().Str("component", "store").Logger()}
}

// CheckOrphan logs, but never adopts, a leftover "*.new" file from a
// process that crashed between writing and renaming. Call once at
// startup before Load.
func (s *Store) CheckOrphan() {
	orphan := s.path + ".new"
	if info, err := os.Stat(orphan); err == nil {
		s.log.Warn().
			Str("path", orphan).
			Int64("size", info.Size()).
			Msg("orphaned save file found; leaving it alone")
	}
}

// Save serializes state to a sibling "*.new" file, fsyncs it, and
// renames it over the target path — the rename is atomic on every
// platform this runs on, so a crash mid-write never corrupts the
// previous save.
func (s *Store) Save(state *State) error {
	state.Version = CurrentVersion
	data, err := cbor.Marshal(state)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}

	tmp := s.path + ".new"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: mkdir: %w", err)
	}
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("store: open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("store: write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}

// Load reads and migrates the persisted document to CurrentVersion.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: read: %w", err)
	}
	return Decode(data)
}

// Decode migrates raw bytes to CurrentVersion and returns the typed
// State. Exported so tests can exercise the migration chain without
// touching the filesystem.
func Decode(data []byte) (*State, error) {
	var doc map[string]interface{}
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: unmarshal document: %w", err)
	}

	doc, err := migrate(doc)
	if err != nil {
		return nil, err
	}

	migrated, err := cbor.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("store: remarshal migrated document: %w", err)
	}
	var state State
	if err := cbor.Unmarshal(migrated, &state); err != nil {
		return nil, fmt.Errorf("store: unmarshal state: %w", err)
	}
	return &state, nil
}

// Encode is the inverse of Decode's final step, used by tests to
// produce a fixed-version document without going through Save.
func Encode(state *State) ([]byte, error) {
	return cbor.Marshal(state)
}
