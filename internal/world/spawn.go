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

package world

import (
	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/cpu"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/events"
)

// maxSpawnAttempts bounds the random-placement retry loop so a nearly
// full map can't spin the spawn phase forever.
const maxSpawnAttempts = 1024

// spawnPhase promotes queued bots to alive while there is room and a
// legal tile to place them on. A bot that can't be placed this tick
// stays at the head of the queue and is retried next tick.
func (w *World) spawnPhase() {
	for w.policy.MaxAliveBots <= 0 || w.alive.Len() < w.policy.MaxAliveBots {
		qb, ok := w.queued.Front()
		if !ok {
			return
		}
		pos, dir, ok := w.placeBot(qb)
		if !ok {
			return
		}
		w.queued.PopFront()
		w.promote(qb, pos, dir)
	}
}

// placeBot resolves a queued bot's spawn position and facing: its own
// explicit request first, then the world's configured spawn point, then
// a bounded number of random passable tiles.
func (w *World) placeBot(qb *bots.QueuedBot) (direction.IVec2, direction.Dir, bool) {
	if qb.Pos != nil && w.tileFree(*qb.Pos) {
		return *qb.Pos, w.resolveDir(qb), true
	}
	if w.spawnPos != nil && w.tileFree(*w.spawnPos) {
		return *w.spawnPos, w.resolveDir(qb), true
	}
	for i := 0; i < maxSpawnAttempts; i++ {
		pos := w.mapM.SamplePos(w.rng)
		if w.tileFree(pos) {
			return pos, w.resolveDir(qb), true
		}
	}
	return direction.IVec2{}, 0, false
}

func (w *World) resolveDir(qb *bots.QueuedBot) direction.Dir {
	if qb.Dir != nil {
		return *qb.Dir
	}
	if w.spawnDir != nil {
		return *w.spawnDir
	}
	return direction.Sample(w.rng)
}

// tileFree reports whether pos is in bounds, passable, unoccupied by
// another bot, and unoccupied by an object.
func (w *World) tileFree(pos direction.IVec2) bool {
	if !w.mapM.Contains(pos) {
		return false
	}
	if !w.mapM.Get(pos).Passable() {
		return false
	}
	if _, occupied := w.alive.LookupAt(pos); occupied {
		return false
	}
	if w.objectAt(pos) != nil {
		return false
	}
	return true
}

// promote instantiates a CPU and peripheral set for qb and inserts it
// into the alive table at pos/dir.
func (w *World) promote(qb *bots.QueuedBot, pos direction.IVec2, dir direction.Dir) *bots.AliveBot {
	c := cpu.New(qb.Firmware)
	periph := bots.NewPeripherals(w.rng, dir, w.cooldowns, w.scanFuncFor(qb.ID), w.withInventory, w.withInterrupt)
	if qb.Serial != nil {
		periph.Serial = qb.Serial
	}

	ab := &bots.AliveBot{
		ID:          qb.ID,
		Pos:         pos,
		CPU:         c,
		Peripherals: periph,
		Firmware:    qb.Firmware,
		Events:      qb.Events,
		Oneshot:     qb.Oneshot,
		BornAtTick:  w.tick,
	}
	w.alive.Add(ab)
	w.stats.BotsBorn++
	w.recordEvent(ab.ID, events.Born())
	return ab
}
