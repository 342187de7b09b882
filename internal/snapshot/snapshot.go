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

// Package snapshot builds the immutable, versioned world view published
// to UIs and other external observers, and the rate-limited multi-
// consumer broadcaster that fans it out.
package snapshot

import (
	"sort"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/worldmap"
)

// AliveView is a read-only, detached copy of one alive bot's
// snapshot-relevant state. It never aliases the live *bots.AliveBot, so
// nothing about a published snapshot can be mutated out from under a
// subscriber by the next tick.
type AliveView struct {
	ID    bots.Id
	Pos   direction.IVec2
	Dir   direction.Dir
	Score int64
	Born  uint64
}

// QueuedView is a read-only copy of one queued bot's snapshot-relevant
// state.
type QueuedView struct {
	ID    bots.Id
	Place int
}

// DeadView is a read-only copy of one dead bot's snapshot-relevant
// state.
type DeadView struct {
	ID     bots.Id
	Reason string
}

// ObjectView is a read-only copy of a placed object's snapshot-relevant
// state.
type ObjectView struct {
	Kind string
	Pos  direction.IVec2
}

// Snapshot is an immutable view of world state at a point in time.
// Version increases monotonically across every snapshot a given world
// publishes; subscribers can use it to detect drops or reordering.
type Snapshot struct {
	Version uint64
	Clock   string
	Map     *worldmap.Map

	Alive  []AliveView
	Queued []QueuedView
	Dead   []DeadView

	Objects []ObjectView

	// IdxByScores indexes into Alive, sorted by score desc, then age
	// desc (older first), then id asc — a precomputed leaderboard
	// order so no subscriber needs to re-sort it.
	IdxByScores []int
}

// Build assembles a new Snapshot from the current contents of the
// world's tables. The map is cloned and overlaid with a Bot tile at
// each alive bot's position and a BotChevron tile on the adjacent tile
// in its facing direction (when that tile is in bounds) — the live map
// itself is never mutated by bot occupancy.
func Build(version uint64, clock string, m *worldmap.Map, alive *bots.AliveBots, queued *bots.QueuedBots, dead *bots.DeadBots, objects []ObjectView, scoreOf func(bots.Id) int64) *Snapshot {
	tiles := m.Clone()

	s := &Snapshot{
		Version: version,
		Clock:   clock,
		Map:     tiles,
		Objects: objects,
	}

	alive.ForEach(func(slot int, b *bots.AliveBot) {
		dir := b.Dir()
		s.Alive = append(s.Alive, AliveView{
			ID:    b.ID,
			Pos:   b.Pos,
			Dir:   dir,
			Score: scoreOf(b.ID),
			Born:  b.BornAtTick,
		})

		tiles.Set(b.Pos, worldmap.Tile{Kind: worldmap.Bot, Meta: [3]byte{byte(slot), 0, 0}})
		ahead := b.Pos.Add(dir.Vec())
		if tiles.Contains(ahead) {
			tiles.Set(ahead, worldmap.Tile{Kind: worldmap.BotChevron, Meta: [3]byte{byte(slot), byte(dir), 0}})
		}
	})
	queued.ForEach(func(place int, b *bots.QueuedBot) {
		s.Queued = append(s.Queued, QueuedView{ID: b.ID, Place: place})
	})
	dead.ForEach(func(b *bots.DeadBot) {
		s.Dead = append(s.Dead, DeadView{ID: b.ID, Reason: b.Reason})
	})

	s.IdxByScores = make([]int, len(s.Alive))
	for i := range s.IdxByScores {
		s.IdxByScores[i] = i
	}
	sort.Slice(s.IdxByScores, func(i, j int) bool {
		a, b := s.Alive[s.IdxByScores[i]], s.Alive[s.IdxByScores[j]]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Born != b.Born {
			return a.Born < b.Born // older (smaller tick) first
		}
		return a.ID < b.ID
	})

	return s
}
