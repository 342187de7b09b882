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
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/cpu"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/firmware"
	"github.com/pdxjjb/kartoffels/internal/snapshot"
	"github.com/pdxjjb/kartoffels/internal/store"
	"github.com/pdxjjb/kartoffels/internal/worldmap"
)

// buildSnapshot assembles the immutable view published to subscribers.
func (w *World) buildSnapshot() *snapshot.Snapshot {
	return snapshot.Build(w.snapVersion, w.clock.String(), w.mapM, w.alive, w.queued, w.dead, w.objectViews(), w.scoreOf)
}

// objectViews projects the live object table into a deterministically
// ordered (by id) slice for the snapshot.
func (w *World) objectViews() []snapshot.ObjectView {
	ids := make([]ObjectId, 0, len(w.objects))
	for id := range w.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	views := make([]snapshot.ObjectView, 0, len(ids))
	for _, id := range ids {
		o := w.objects[id]
		views = append(views, snapshot.ObjectView{Kind: o.Kind, Pos: o.Pos})
	}
	return views
}

// saveNow serializes the current world and writes it atomically. It is
// a no-op, returning nil, if no persistent store is configured.
func (w *World) saveNow() error {
	if w.persister == nil {
		return nil
	}
	return w.persister.Save(w.toState())
}

// toState flattens live world state into the plain, serializable mirror
// store.Save understands. Queued bots waiting on their first spawn have
// no CPU yet, so only their firmware's RAM image is captured (as
// EntryPC/RAM), not a register file.
func (w *World) toState() *store.State {
	st := &store.State{
		Seed:      w.seed,
		TickCount: w.tick,
		Clock:     int(w.clock),
		Policy: store.PolicyRecord{
			MaxAliveBots:     w.policy.MaxAliveBots,
			MaxQueuedBots:    w.policy.MaxQueuedBots,
			AutoRespawn:      w.policy.AutoRespawn,
			AllowBreakpoints: w.policy.AllowBreakpoints,
		},
		MapSizeX:  w.mapM.Size().X,
		MapSizeY:  w.mapM.Size().Y,
		NextBotID: w.ids.Peek(),
	}

	if w.spawnPos != nil && w.spawnDir != nil {
		st.Spawn = &store.SpawnRecord{X: w.spawnPos.X, Y: w.spawnPos.Y, Dir: uint8(*w.spawnDir)}
	}

	st.MapTiles = encodeTiles(w.mapM)

	w.alive.ForEach(func(_ int, b *bots.AliveBot) {
		regs, pc, ram := b.CPU.Snapshot()
		ramCopy := make([]byte, len(ram))
		copy(ramCopy, ram)
		st.Alive = append(st.Alive, store.AliveRecord{
			ID:        uint64(b.ID),
			X:         b.Pos.X,
			Y:         b.Pos.Y,
			Dir:       uint8(b.Dir()),
			Oneshot:   b.Oneshot,
			BornTick:  b.BornAtTick,
			PC:        pc,
			Regs:      regs,
			RAM:       ramCopy,
			EntryPC:   b.Firmware.EntryPC,
			TimerSeed: b.Peripherals.Timer.Seed(),
			Serial:    b.Peripherals.Serial.Visible(),
		})
	})

	w.queued.ForEach(func(_ int, b *bots.QueuedBot) {
		ram, entryPC := b.Firmware.Boot()
		rec := store.QueuedRecord{
			ID:       uint64(b.ID),
			Requeued: b.Requeued,
			Oneshot:  b.Oneshot,
			EntryPC:  entryPC,
			RAM:      ram,
		}
		if b.Pos != nil {
			rec.HasPos = true
			rec.X, rec.Y = b.Pos.X, b.Pos.Y
		}
		if b.Dir != nil {
			rec.HasDir = true
			rec.Dir = uint8(*b.Dir)
		}
		st.Queued = append(st.Queued, rec)
	})

	w.dead.ForEach(func(b *bots.DeadBot) {
		st.Dead = append(st.Dead, store.DeadRecord{ID: uint64(b.ID), Reason: b.Reason})
	})

	for _, id := range sortedObjectIDs(w.objects) {
		o := w.objects[id]
		st.Objects = append(st.Objects, store.ObjectRecord{ID: uint64(o.ID), Kind: o.Kind, X: o.Pos.X, Y: o.Pos.Y})
	}

	w.lives.ForEach(func(id bots.Id, s LifeStats) {
		st.Lives = append(st.Lives, store.LifeRecord{
			ID: uint64(id), Score: s.Score, Births: s.Births, Deaths: s.Deaths, ObjectsPicked: s.ObjectsPicked,
		})
	})
	sort.Slice(st.Lives, func(i, j int) bool { return st.Lives[i].ID < st.Lives[j].ID })

	return st
}

func sortedObjectIDs(objects map[ObjectId]*Object) []ObjectId {
	ids := make([]ObjectId, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func encodeTiles(m *worldmap.Map) []byte {
	size := m.Size()
	out := make([]byte, 0, int(size.X)*int(size.Y)*4)
	m.ForEach(func(_ direction.IVec2, t worldmap.Tile) {
		out = append(out, byte(t.Kind), t.Meta[0], t.Meta[1], t.Meta[2])
	})
	return out
}

func decodeTiles(sizeX, sizeY uint32, data []byte) *worldmap.Map {
	m := worldmap.New(worldmap.Size{X: sizeX, Y: sizeY})
	i := 0
	m.ForEachMut(func(_ direction.IVec2, _ worldmap.Tile) worldmap.Tile {
		t := worldmap.Tile{Kind: worldmap.Kind(data[i]), Meta: [3]byte{data[i+1], data[i+2], data[i+3]}}
		i += 4
		return t
	})
	return m
}

// Load reconstructs a World from a previously saved store.State. The
// caller is responsible for applying any migration (store.Store.Load
// already does this) before calling Load.
func Load(cfg Config, log zerolog.Logger, st *store.State) *World {
	w := New(cfg, log)
	w.seed = st.Seed
	w.rng = rand.New(rand.NewSource(st.Seed))
	w.tick = st.TickCount
	w.clock = Clock(st.Clock)
	w.policy = Policy{
		MaxAliveBots:     st.Policy.MaxAliveBots,
		MaxQueuedBots:    st.Policy.MaxQueuedBots,
		AutoRespawn:      st.Policy.AutoRespawn,
		AllowBreakpoints: st.Policy.AllowBreakpoints,
	}
	if st.Spawn != nil {
		pos := direction.IVec2{X: st.Spawn.X, Y: st.Spawn.Y}
		dir := direction.Dir(st.Spawn.Dir)
		w.spawnPos = &pos
		w.spawnDir = &dir
	}
	w.mapM = decodeTiles(st.MapSizeX, st.MapSizeY, st.MapTiles)
	w.ids = bots.RestoreIdAllocator(st.NextBotID)

	for _, rec := range st.Alive {
		pos := direction.IVec2{X: rec.X, Y: rec.Y}
		dir := direction.Dir(rec.Dir)
		periph := bots.NewPeripherals(w.rng, dir, w.cooldowns, w.scanFuncFor(bots.Id(rec.ID)), w.withInventory, w.withInterrupt)
		periph.Serial = bots.RestoreSerial(rec.Serial)
		periph.Timer = bots.RestoreTimer(rec.TimerSeed)

		fw := &firmware.Firmware{EntryPC: rec.EntryPC, Segments: []firmware.Segment{{Offset: 0, Data: rec.RAM}}}
		ab := &bots.AliveBot{
			ID:          bots.Id(rec.ID),
			Pos:         pos,
			CPU:         cpu.Restore(rec.Regs, rec.PC, rec.RAM),
			Peripherals: periph,
			Firmware:    fw,
			Oneshot:     rec.Oneshot,
			BornAtTick:  rec.BornTick,
		}
		w.alive.Add(ab)
	}
	for _, rec := range st.Queued {
		fw := &firmware.Firmware{EntryPC: rec.EntryPC, Segments: []firmware.Segment{{Offset: 0, Data: rec.RAM}}}
		qb := &bots.QueuedBot{ID: bots.Id(rec.ID), Firmware: fw, Requeued: rec.Requeued, Oneshot: rec.Oneshot}
		if rec.HasPos {
			pos := direction.IVec2{X: rec.X, Y: rec.Y}
			qb.Pos = &pos
		}
		if rec.HasDir {
			dir := direction.Dir(rec.Dir)
			qb.Dir = &dir
		}
		w.queued.PushBack(qb)
	}
	for _, rec := range st.Dead {
		w.dead.Add(&bots.DeadBot{ID: bots.Id(rec.ID), Reason: rec.Reason})
	}
	for _, rec := range st.Objects {
		if ObjectId(rec.ID) > w.nextObjectID {
			w.nextObjectID = ObjectId(rec.ID)
		}
		w.objects[ObjectId(rec.ID)] = &Object{ID: ObjectId(rec.ID), Kind: rec.Kind, Pos: direction.IVec2{X: rec.X, Y: rec.Y}}
	}
	for _, rec := range st.Lives {
		w.lives.restore(bots.Id(rec.ID), LifeStats{Score: rec.Score, Births: rec.Births, Deaths: rec.Deaths, ObjectsPicked: rec.ObjectsPicked})
	}

	return w
}
