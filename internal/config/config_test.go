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

package config

import (
	"flag"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Default()
	if cfg.Addr != want.Addr || cfg.Seed != want.Seed || cfg.MaxAliveBots != want.MaxAliveBots {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestParseFlagOverridesEnv(t *testing.T) {
	t.Setenv("KARTOFFELS_SEED", "99")
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"-seed=7"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Seed != 7 {
		t.Fatalf("Seed = %d, want 7 (flag beats env)", cfg.Seed)
	}
}

func TestParseEnvFallback(t *testing.T) {
	t.Setenv("KARTOFFELS_SEED", "42")
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("Seed = %d, want 42 from KARTOFFELS_SEED", cfg.Seed)
	}
}
