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

package main

import (
	"path/filepath"
	"testing"

	"github.com/pdxjjb/kartoffels/internal/config"
)

func TestBuildMapKnownThemes(t *testing.T) {
	cfg := config.Default()
	cfg.MapSizeX, cfg.MapSizeY = 16, 16

	for _, theme := range []string{"arena", "cave", "dungeon"} {
		m, err := buildMap(theme, cfg)
		if err != nil {
			t.Fatalf("buildMap(%q): %v", theme, err)
		}
		if size := m.Size(); size.X != cfg.MapSizeX || size.Y != cfg.MapSizeY {
			t.Fatalf("buildMap(%q) size = %+v, want %dx%d", theme, size, cfg.MapSizeX, cfg.MapSizeY)
		}
	}
}

func TestBuildMapUnknownTheme(t *testing.T) {
	cfg := config.Default()
	if _, err := buildMap("not-a-theme", cfg); err == nil {
		t.Fatal("expected an error for an unrecognized theme")
	}
}

func TestBuildMapDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.MapSizeX, cfg.MapSizeY, cfg.Seed = 12, 12, 7

	a, err := buildMap("cave", cfg)
	if err != nil {
		t.Fatalf("buildMap: %v", err)
	}
	b, err := buildMap("cave", cfg)
	if err != nil {
		t.Fatalf("buildMap: %v", err)
	}
	if a.String() != b.String() {
		t.Fatal("same seed produced different caves")
	}
}

func TestTrapKindBucketsOnLeadingWord(t *testing.T) {
	cases := map[string]string{
		"null-pointer store on 0x00000000+4": "null-pointer",
		"out-of-bounds load on 0x00010000+1": "out-of-bounds",
		"stabbed":                            "stabbed",
		"starved":                            "starved",
	}
	for reason, want := range cases {
		if got := trapKind(reason); got != want {
			t.Fatalf("trapKind(%q) = %q, want %q", reason, got, want)
		}
	}
}

func TestStoreFileExists(t *testing.T) {
	if storeFileExists("") {
		t.Fatal("empty path must never exist")
	}
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.cbor")
	if storeFileExists(missing) {
		t.Fatal("non-existent file reported as existing")
	}
}
