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

// Package world owns the single-threaded simulation loop: the map, the
// bot tables, the RNG, and the request channel every external caller
// funnels through. Exactly one goroutine — the one running Run — ever
// touches the unexported fields below; everything else happens by
// sending a Request and waiting on its reply channel.
package world

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/events"
	"github.com/pdxjjb/kartoffels/internal/snapshot"
	"github.com/pdxjjb/kartoffels/internal/store"
	"github.com/pdxjjb/kartoffels/internal/worldmap"
)

// Config fixes everything a World needs at construction time that isn't
// itself mutable via a Request.
type Config struct {
	Seed             int64
	MapSize          worldmap.Size
	Policy           Policy
	Clock            Clock
	Cooldowns        bots.CooldownPolicy
	WithInventory    bool
	WithInterrupt    bool
	BroadcastHz      float64
	DeadBotsCapacity int
	RequestQueueDepth int
	// SaveEveryTicks is how often the scheduler persists to StorePath; 0
	// disables periodic saves (Save is then only request-driven).
	SaveEveryTicks uint64
	StorePath      string
}

// New constructs a World ready to Run. The map starts entirely Void;
// callers typically follow up with a SetMapReq before admitting bots.
func New(cfg Config, log zerolog.Logger) *World {
	if cfg.DeadBotsCapacity <= 0 {
		cfg.DeadBotsCapacity = bots.DefaultDeadBotsCapacity
	}
	if cfg.RequestQueueDepth <= 0 {
		cfg.RequestQueueDepth = 64
	}

	w := &World{
		log:       log.With().Str("component", "world").Logger(),
		seed:      cfg.Seed,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		mapM:      worldmap.New(cfg.MapSize),
		alive:     bots.NewAliveBots(),
		queued:    bots.NewQueuedBots(),
		dead:      bots.NewDeadBots(cfg.DeadBotsCapacity),
		objects:   make(map[ObjectId]*Object),
		ids:       &bots.IdAllocator{},
		policy:    cfg.Policy,
		clock:     cfg.Clock,
		cooldowns: cfg.Cooldowns,
		withInventory: cfg.WithInventory,
		withInterrupt: cfg.WithInterrupt,
		lives:     NewLives(),
		requests:  make(chan Request, cfg.RequestQueueDepth),
		broadcaster: snapshot.NewBroadcaster(cfg.BroadcastHz),
		saveEvery: cfg.SaveEveryTicks,
		storePath: cfg.StorePath,
	}
	if w.storePath != "" {
		w.persister = store.New(w.storePath, w.log)
	}
	return w
}

// World is the single-threaded simulation: one map, three bot tables, a
// deterministic RNG stream, and the channel everything else talks
// through.
type World struct {
	log zerolog.Logger

	mapM    *worldmap.Map
	alive   *bots.AliveBots
	queued  *bots.QueuedBots
	dead    *bots.DeadBots
	objects map[ObjectId]*Object

	nextObjectID ObjectId
	ids          *bots.IdAllocator
	rng          *rand.Rand
	seed         int64

	policy        Policy
	clock         Clock
	cooldowns     bots.CooldownPolicy
	withInventory bool
	withInterrupt bool
	spawnPos      *direction.IVec2
	spawnDir      *direction.Dir

	lives *Lives
	stats WorldStats
	tick  uint64

	requests    chan Request
	broadcaster *snapshot.Broadcaster
	snapVersion uint64

	persister    *store.Store
	storePath    string
	saveEvery    uint64
	tickAtSave   uint64
	dirty        bool

	paused  bool
	running bool

	pendingMoves []bots.Id
	pendingStabs []bots.Id
	pendingPicks []bots.Id
	pendingKills []killIntent
}

// killIntent defers a kill decided during intent resolution (stab) or a
// trap caught during the bot tick phase until the dedicated kill phase.
type killIntent struct {
	id     bots.Id
	reason string
}

// Requests returns the send side of the request channel: the only way
// a caller outside the scheduler goroutine may affect world state.
func (w *World) Requests() chan<- Request { return w.requests }

// Subscribe registers a new snapshot consumer.
func (w *World) Subscribe() <-chan *snapshot.Snapshot { return w.broadcaster.Subscribe() }

// Unsubscribe removes a snapshot consumer registered with Subscribe.
func (w *World) Unsubscribe(ch <-chan *snapshot.Snapshot) { w.broadcaster.Unsubscribe(ch) }

// objectAt returns the object occupying pos, if any.
func (w *World) objectAt(pos direction.IVec2) *Object {
	for _, o := range w.objects {
		if o.Pos == pos {
			return o
		}
	}
	return nil
}

// scoreOf reports id's current aggregate score, 0 if it has none yet.
func (w *World) scoreOf(id bots.Id) int64 {
	s, ok := w.lives.Get(id)
	if !ok {
		return 0
	}
	return s.Score
}

// recordEvent folds ev into the lives table and, if the bot is still
// alive, appends it to that bot's own event log.
func (w *World) recordEvent(id bots.Id, ev events.Event) {
	w.lives.Fold(id, ev)
	if b, ok := w.alive.Get(id); ok {
		b.Events = append(b.Events, ev)
	}
}
