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

// Command kartoffelsd boots a single kartoffels world, serves its
// metrics over HTTP, and — when stdin is a terminal — offers a raw-mode
// debug console for manually stepping a Manual-clock world.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/config"
	"github.com/pdxjjb/kartoffels/internal/handle"
	"github.com/pdxjjb/kartoffels/internal/snapshot"
	"github.com/pdxjjb/kartoffels/internal/store"
	"github.com/pdxjjb/kartoffels/internal/telemetry"
	"github.com/pdxjjb/kartoffels/internal/world"
	"github.com/pdxjjb/kartoffels/internal/worldmap"
)

const version = "1.0.0"

// shutdownGrace bounds how long a Shutdown request gets to let the
// world finish its current tick and persist before main gives up on it.
const shutdownGrace = 5 * time.Second

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	showVersion := fs.Bool("version", false, "Show version and exit")
	theme := fs.String("theme", "arena", "Map theme: arena, cave, or dungeon")

	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *showVersion {
		fmt.Printf("kartoffelsd v%s\n", version)
		return
	}

	log := telemetry.NewLogger(cfg.LogPretty, cfg.LogLevel)
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	m, err := buildMap(*theme, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build map")
	}

	wcfg := world.Config{
		Seed:           cfg.Seed,
		MapSize:        worldmap.Size{X: cfg.MapSizeX, Y: cfg.MapSizeY},
		Policy:         world.Policy{MaxAliveBots: cfg.MaxAliveBots, MaxQueuedBots: cfg.MaxQueued, AutoRespawn: cfg.AutoRespawn},
		Cooldowns:      bots.DefaultCooldownPolicy(),
		Clock:          world.Normal,
		BroadcastHz:    snapshot.DefaultPublishRate,
		StorePath:      cfg.StorePath,
		SaveEveryTicks: world.BaseHZ * 10,
	}

	w, err := loadOrCreateWorld(wcfg, log, cfg.StorePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load world")
	}
	h := handle.New(w)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(runDone)
	}()

	// A freshly loaded world already has its map restored from the save
	// file; only a brand new one needs the procedurally generated map
	// set explicitly, so SetMap is sent only when no save file exists
	// yet; a resumed world keeps the map it loaded.
	if cfg.StorePath == "" || !storeFileExists(cfg.StorePath) {
		setCtx, setCancel := context.WithTimeout(context.Background(), shutdownGrace)
		if err := h.SetMap(setCtx, m); err != nil {
			log.Error().Err(err).Msg("failed to set initial map")
		}
		setCancel()
	}

	go watchMetrics(ctx, h, metrics)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, unix.SIGWINCH)

	console, consoleDone := startDebugConsole(ctx, h, log)
	defer console.restore()

	for {
		select {
		case sig := <-sigCh:
			if sig == unix.SIGWINCH {
				continue // terminal resize: nothing sized to redraw yet
			}
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
			_ = h.Shutdown(shutdownCtx)
			shutdownCancel()
			_ = srv.Shutdown(context.Background())
			cancel()
			<-runDone
			return
		case <-consoleDone:
			cancel()
			<-runDone
			return
		case <-runDone:
			return
		}
	}
}

// storeFileExists reports whether path already names a save file, so
// main can tell a fresh world from a resumed one without exposing
// store's internals here.
func storeFileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// buildMap constructs the procedurally generated starting map named by
// themeName, using cfg.Seed so a given seed always produces the same
// map for a given theme.
func buildMap(themeName string, cfg config.Config) (*worldmap.Map, error) {
	size := worldmap.Size{X: cfg.MapSizeX, Y: cfg.MapSizeY}
	rng := rand.New(rand.NewSource(cfg.Seed))
	b := worldmap.NewBuilder(size)

	var th worldmap.Theme
	switch themeName {
	case "arena":
		th = worldmap.Arena{Size: size, Gems: 16}
	case "cave":
		th = worldmap.Cave{Size: size, Steps: int(size.X) * int(size.Y) * 4}
	case "dungeon":
		th = worldmap.Dungeon{Size: size, RoomCount: 8, RoomSize: 3}
	default:
		return nil, fmt.Errorf("unknown theme %q (want arena, cave, or dungeon)", themeName)
	}
	return th.Build(rng, b), nil
}

// loadOrCreateWorld resumes world state from path if a save file
// already exists there, or else constructs a brand new world. path
// empty disables persistence entirely.
func loadOrCreateWorld(cfg world.Config, log zerolog.Logger, path string) (*world.World, error) {
	if path == "" {
		return world.New(cfg, log), nil
	}

	s := store.New(path, log)
	s.CheckOrphan()

	if !storeFileExists(path) {
		return world.New(cfg, log), nil
	}

	st, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("main: load %s: %w", path, err)
	}
	return world.Load(cfg, log, st), nil
}

// watchMetrics subscribes to h's snapshot stream and keeps metrics in
// sync with it until ctx is cancelled or the world closes the channel.
func watchMetrics(ctx context.Context, h handle.Handle, metrics *telemetry.Metrics) {
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			metrics.AliveBots.Set(float64(len(snap.Alive)))
			metrics.QueuedBots.Set(float64(len(snap.Queued)))
			metrics.DeadBots.Set(float64(len(snap.Dead)))
			metrics.SnapshotVer.Set(float64(snap.Version))
			for _, d := range snap.Dead {
				metrics.TrapsByKind.WithLabelValues(trapKind(d.Reason)).Inc()
			}
		}
	}
}

// trapKind extracts the leading word of a death reason, e.g.
// "null-pointer store on 0x00000000+4" buckets as "null-pointer", while
// a reason carrying no space ("stabbed", "starved") buckets under
// itself verbatim.
func trapKind(reason string) string {
	if i := strings.IndexByte(reason, ' '); i >= 0 {
		return reason[:i]
	}
	return reason
}

// console wraps whatever terminal state startDebugConsole changed so
// main can always call restore, even when stdin was never a terminal.
type console struct {
	fd    int
	state *term.State
}

func (c console) restore() {
	if c.state != nil {
		term.Restore(c.fd, c.state)
	}
}

// startDebugConsole puts stdin in raw mode (when it's a terminal) and
// reads single keypresses on its own goroutine: space single-steps a
// Manual-clock world one tick, 'q' requests a clean shutdown. Every
// other key is ignored. When stdin isn't a terminal, it returns
// immediately with a console that has nothing to restore and a done
// channel that never fires.
func startDebugConsole(ctx context.Context, h handle.Handle, log zerolog.Logger) (console, <-chan struct{}) {
	done := make(chan struct{})
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return console{}, done
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		log.Warn().Err(err).Msg("failed to set raw mode; debug console disabled")
		return console{}, done
	}

	go func() {
		defer close(done)
		r := bufio.NewReader(os.Stdin)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			switch b {
			case 'q', 'Q':
				return
			case ' ':
				tickCtx, cancel := context.WithTimeout(ctx, time.Second)
				if err := h.Tick(tickCtx, 1); err != nil {
					log.Warn().Err(err).Msg("manual tick failed")
				}
				cancel()
			}
		}
	}()

	return console{fd: fd, state: state}, done
}
