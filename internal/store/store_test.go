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
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
)

func sampleState() *State {
	return &State{
		Version:   CurrentVersion,
		Seed:      42,
		TickCount: 1000,
		Clock:     0,
		Policy: PolicyRecord{
			MaxAliveBots:  64,
			MaxQueuedBots: 256,
			AutoRespawn:   true,
		},
		MapSizeX: 16,
		MapSizeY: 16,
		MapTiles: make([]byte, 16*16*4),
		Alive: []AliveRecord{
			{ID: 1, X: 3, Y: 4, Dir: 0, PC: 0x100, RAM: []byte{1, 2, 3}},
		},
		Queued:    []QueuedRecord{{ID: 2, RAM: []byte{4, 5}}},
		Dead:      []DeadRecord{{ID: 3, Reason: "trap"}},
		Objects:   []ObjectRecord{{ID: 4, Kind: "battery", X: 1, Y: 1}},
		Lives:     []LifeRecord{{ID: 1, Score: 10, Births: 1}},
		NextBotID: 5,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.cbor")
	s := New(path, zerolog.Nop())

	want := sampleState()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	gotBytes, err := Encode(got)
	if err != nil {
		t.Fatalf("Encode got: %v", err)
	}
	wantBytes, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode want: %v", err)
	}
	if string(gotBytes) != string(wantBytes) {
		t.Fatalf("round trip mismatch:\n got=%x\nwant=%x", gotBytes, wantBytes)
	}
}

func TestSaveAtomicRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.cbor")
	s := New(path, zerolog.Nop())

	if err := s.Save(sampleState()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".new"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone after rename, stat err=%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected final file to exist: %v", err)
	}
}

func TestCheckOrphanNeverAdopts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.cbor")
	s := New(path, zerolog.Nop())

	if err := s.Save(sampleState()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	orphanState := sampleState()
	orphanState.TickCount = 999999
	orphanBytes, err := Encode(orphanState)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path+".new", orphanBytes, 0o644); err != nil {
		t.Fatalf("write orphan: %v", err)
	}

	s.CheckOrphan() // must not panic or touch the filesystem

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TickCount == 999999 {
		t.Fatalf("Load must never adopt the orphaned *.new file")
	}
	if _, err := os.Stat(path + ".new"); err != nil {
		t.Fatalf("orphan file should still be present untouched: %v", err)
	}
}

func TestMigrateV1ToV2(t *testing.T) {
	doc := map[string]interface{}{
		"version": uint64(1),
		"ticks":   uint64(777),
		"seed":    int64(1),
	}
	data, err := cbor.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	state, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if state.Version != CurrentVersion {
		t.Fatalf("version = %d, want %d", state.Version, CurrentVersion)
	}
	if state.TickCount != 777 {
		t.Fatalf("tick_count = %d, want 777", state.TickCount)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	doc := map[string]interface{}{
		"version":    uint64(1),
		"ticks":      uint64(5),
		"tick_count": uint64(5),
	}
	once, err := migrate(cloneDoc(doc))
	if err != nil {
		t.Fatalf("migrate once: %v", err)
	}
	twice, err := migrate(cloneDoc(once))
	if err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
	if once["tick_count"] != twice["tick_count"] {
		t.Fatalf("migration not idempotent: once=%v twice=%v", once["tick_count"], twice["tick_count"])
	}
	if _, stillPresent := twice["ticks"]; stillPresent {
		t.Fatalf("stale \"ticks\" key should not reappear after a second migration pass")
	}
}

func TestMigrateRejectsFutureVersion(t *testing.T) {
	doc := map[string]interface{}{"version": uint64(CurrentVersion + 1)}
	if _, err := migrate(doc); err == nil {
		t.Fatalf("expected an error for a document newer than CurrentVersion")
	}
}

func cloneDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
