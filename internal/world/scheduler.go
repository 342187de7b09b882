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
	"context"
	"time"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/events"
)

// Run is the world's single logical thread: drain requests, run a tick
// unless paused, publish a snapshot, persist if due, pace to the next
// metronome beat. It returns when Shutdown is requested, the request
// channel closes, or ctx is cancelled.
func (w *World) Run(ctx context.Context) {
	w.running = true
	defer w.shutdown()

	for w.running {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.drainPending()
		if !w.running {
			return
		}

		if w.clock == Manual {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-w.requests:
				if !ok {
					w.running = false
					return
				}
				w.handleRequest(req)
			}
			continue
		}

		w.runTick()

		if w.clock != Unlimited {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.clock.BeatInterval()):
			}
		}
	}
}

// drainPending applies every request currently buffered on the channel
// without blocking. A TickReq runs its fuel worth of ticks inline,
// which is how Manual mode advances.
func (w *World) drainPending() {
	for {
		select {
		case req, ok := <-w.requests:
			if !ok {
				w.running = false
				return
			}
			w.handleRequest(req)
		default:
			return
		}
	}
}

// runTick executes phases 2 through 8 of the tick loop: spawn, bot tick,
// intent resolution, kill, lives/stats, snapshot, persistence. Phase 1
// (drain requests) and phase 9 (pacing) live in Run.
func (w *World) runTick() {
	if w.paused {
		return
	}

	w.spawnPhase()
	w.botTickPhase()
	w.resolveIntents()
	w.killPhase()

	w.tick++
	w.stats.Ticks = w.tick

	w.publishSnapshot()
	w.maybePersist()
}

// botTickPhase advances every alive bot's peripherals and CPU by one
// quantum, in deterministic slot order, and collects the intents and
// traps it reads back for the resolve/kill phases that follow.
func (w *World) botTickPhase() {
	w.alive.ForEach(func(_ int, b *bots.AliveBot) {
		b.Peripherals.Tick()
		bus := b.Peripherals.Bus()
		_, trap := b.CPU.Tick(bus)

		if trap != nil {
			w.pendingKills = append(w.pendingKills, killIntent{id: b.ID, reason: trap.Error()})
			return
		}
		if b.Peripherals.Motor.ConsumeMoveIntent() {
			w.pendingMoves = append(w.pendingMoves, b.ID)
		}
		if b.Peripherals.Arm.ConsumeStabIntent() {
			w.pendingStabs = append(w.pendingStabs, b.ID)
		}
		if b.Peripherals.Inventory != nil && b.Peripherals.Inventory.ConsumePickIntent() {
			w.pendingPicks = append(w.pendingPicks, b.ID)
		}
	})
	w.dirty = true
}

// resolveIntents applies the tick's collected intents in the fixed
// order that avoids chained effects within a single tick: moves, then
// stabs, then pickups. A bot killed by a stab this tick is still
// eligible to have been the one moving earlier in this same phase.
func (w *World) resolveIntents() {
	for _, id := range w.pendingMoves {
		b, ok := w.alive.Get(id)
		if !ok {
			continue
		}
		dest := b.Pos.Add(b.Dir().Vec())
		if w.tileFree(dest) {
			w.alive.Relocate(id, dest)
		}
	}
	w.pendingMoves = w.pendingMoves[:0]

	for _, id := range w.pendingStabs {
		b, ok := w.alive.Get(id)
		if !ok {
			continue
		}
		target := b.Pos.Add(b.Dir().Vec())
		if victim, ok := w.alive.LookupAt(target); ok {
			w.pendingKills = append(w.pendingKills, killIntent{id: victim, reason: "stabbed"})
		}
	}
	w.pendingStabs = w.pendingStabs[:0]

	for _, id := range w.pendingPicks {
		b, ok := w.alive.Get(id)
		if !ok {
			continue
		}
		obj := w.objectAt(b.Pos)
		if obj == nil {
			continue
		}
		if b.Peripherals.Inventory != nil {
			b.Peripherals.Inventory.Add(obj.Kind)
		}
		delete(w.objects, obj.ID)
		w.recordEvent(id, events.ObjectPickedUp(obj.Kind))
	}
	w.pendingPicks = w.pendingPicks[:0]
}

// killPhase moves every bot queued for death this tick from alive to
// dead, requeuing it for respawn when policy allows.
func (w *World) killPhase() {
	for _, k := range w.pendingKills {
		w.killBot(k.id, k.reason)
	}
	w.pendingKills = w.pendingKills[:0]
}

// killBot is shared by trap deaths, stab deaths, and admin-initiated
// KillBotReq: it always moves the bot from alive to dead and, if policy
// allows, re-enqueues it at the queue front as requeued. Reports
// whether id was actually alive to kill.
func (w *World) killBot(id bots.Id, reason string) bool {
	b, ok := w.alive.Get(id)
	if !ok {
		return false
	}

	ev := events.Died(reason)
	w.lives.Fold(id, ev)
	b.Events = append(b.Events, ev)

	w.alive.Remove(id)
	w.dead.Add(&bots.DeadBot{ID: id, Reason: reason, Serial: b.Peripherals.Serial, Events: b.Events})
	w.stats.BotsDied++
	w.dirty = true

	if w.policy.AutoRespawn && !b.Oneshot {
		w.queued.PushFront(&bots.QueuedBot{
			ID:       id,
			Firmware: b.Firmware,
			Serial:   b.Peripherals.Serial,
			Events:   b.Events,
			Requeued: true,
			Oneshot:  b.Oneshot,
		})
	}
	return true
}

// publishSnapshot builds a fresh Snapshot and offers it to the
// broadcaster, which rate-limits real-time clocks and publishes every
// tick in Manual mode.
func (w *World) publishSnapshot() {
	if w.clock != Manual && !w.broadcaster.Allow() {
		return
	}
	w.snapVersion++
	snap := w.buildSnapshot()
	w.broadcaster.Publish(snap)
}

// maybePersist writes the world to disk if a store is configured, the
// configured interval has elapsed, and something has actually changed
// since the last save.
func (w *World) maybePersist() {
	if w.persister == nil || w.saveEvery == 0 {
		return
	}
	if !w.dirty {
		return
	}
	if w.tick-w.tickAtSave < w.saveEvery {
		return
	}
	if err := w.saveNow(); err != nil {
		w.log.Error().Err(err).Msg("automatic save failed")
		return
	}
	w.tickAtSave = w.tick
	w.dirty = false
}

// shutdown runs once, when Run is about to return: it persists (if
// configured) and closes every snapshot subscriber.
func (w *World) shutdown() {
	if w.persister != nil {
		if err := w.saveNow(); err != nil {
			w.log.Error().Err(err).Msg("final save on shutdown failed")
		}
	}
	w.broadcaster.CloseAll()
}
