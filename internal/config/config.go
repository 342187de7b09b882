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

// Package config resolves the daemon's settings from flags with an
// environment-variable fallback for each one, the way the teacher's own
// main.go resolves its device path and baud rate: stdlib flag.FlagSet,
// nothing fancier. This is deliberately not a frontend concern (the CLI
// proper lives above the core), just enough to boot one world.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Config is everything cmd/kartoffelsd needs to construct and serve one
// world.
type Config struct {
	Addr         string // listen address for the HTTP/metrics server
	StorePath    string // on-disk save file; empty disables persistence
	Seed         int64
	MapSizeX     uint32
	MapSizeY     uint32
	MaxAliveBots int
	MaxQueued    int
	AutoRespawn  bool
	LogPretty    bool // console-writer output instead of JSON
	LogLevel     string
}

// Default mirrors a small single-world deployment.
func Default() Config {
	return Config{
		Addr:         ":8080",
		Seed:         1,
		MapSizeX:     64,
		MapSizeY:     64,
		MaxAliveBots: 64,
		MaxQueued:    256,
		AutoRespawn:  true,
		LogLevel:     "info",
	}
}

// envFallback returns the value of the KARTOFFELS_<name> environment
// variable, or def if it's unset. Flags always take precedence: this is
// only consulted as flag.FlagSet's default value, so an explicit flag on
// the command line wins.
func envFallback(name, def string) string {
	if v, ok := os.LookupEnv("KARTOFFELS_" + name); ok {
		return v
	}
	return def
}

func envFallbackInt(name string, def int) int {
	v := envFallback(name, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFallbackInt64(name string, def int64) int64 {
	v := envFallback(name, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envFallbackBool(name string, def bool) bool {
	v := envFallback(name, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Parse builds a Config from args (typically os.Args[1:]), with every
// flag's default sourced from its KARTOFFELS_* environment variable
// fallback first.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	d := Default()
	cfg := Config{}

	fs.StringVar(&cfg.Addr, "addr", envFallback("ADDR", d.Addr), "HTTP/metrics listen address")
	fs.StringVar(&cfg.StorePath, "store", envFallback("STORE", ""), "path to the world's save file (empty disables persistence)")
	fs.Int64Var(&cfg.Seed, "seed", envFallbackInt64("SEED", d.Seed), "world RNG seed")
	mapX := fs.Uint("map-size-x", uint(envFallbackInt("MAP_SIZE_X", int(d.MapSizeX))), "map width in tiles")
	mapY := fs.Uint("map-size-y", uint(envFallbackInt("MAP_SIZE_Y", int(d.MapSizeY))), "map height in tiles")
	fs.IntVar(&cfg.MaxAliveBots, "max-alive", envFallbackInt("MAX_ALIVE", d.MaxAliveBots), "max concurrently alive bots")
	fs.IntVar(&cfg.MaxQueued, "max-queued", envFallbackInt("MAX_QUEUED", d.MaxQueued), "max queued bots")
	fs.BoolVar(&cfg.AutoRespawn, "auto-respawn", envFallbackBool("AUTO_RESPAWN", d.AutoRespawn), "re-enqueue bots on death")
	fs.BoolVar(&cfg.LogPretty, "log-pretty", envFallbackBool("LOG_PRETTY", false), "console-writer logging instead of JSON")
	fs.StringVar(&cfg.LogLevel, "log-level", envFallback("LOG_LEVEL", d.LogLevel), "zerolog level name")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	cfg.MapSizeX = uint32(*mapX)
	cfg.MapSizeY = uint32(*mapY)
	return cfg, nil
}
