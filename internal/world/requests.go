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
	"fmt"

	"github.com/google/uuid"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/events"
)

// correlationIDOf extracts the tracing id an external caller attached to
// req, or uuid.Nil if it never set one (e.g. a test constructing a
// Request literal directly).
func correlationIDOf(req Request) uuid.UUID {
	switch r := req.(type) {
	case TickReq:
		return r.CorrelationID
	case PauseReq:
		return r.CorrelationID
	case ResumeReq:
		return r.CorrelationID
	case ShutdownReq:
		return r.CorrelationID
	case CreateBotReq:
		return r.CorrelationID
	case KillBotReq:
		return r.CorrelationID
	case DeleteBotReq:
		return r.CorrelationID
	case SetMapReq:
		return r.CorrelationID
	case SetSpawnReq:
		return r.CorrelationID
	case CreateObjectReq:
		return r.CorrelationID
	case DeleteObjectReq:
		return r.CorrelationID
	case OverclockReq:
		return r.CorrelationID
	case SetPolicyReq:
		return r.CorrelationID
	case GetPolicyReq:
		return r.CorrelationID
	case SaveReq:
		return r.CorrelationID
	default:
		return uuid.Nil
	}
}

// handleRequest applies one Request to world state and replies on its
// channel. It is only ever called from the Run goroutine.
func (w *World) handleRequest(req Request) {
	if cid := correlationIDOf(req); cid != uuid.Nil {
		w.log.Debug().Str("correlation_id", cid.String()).Type("request", req).Msg("handling request")
	}

	switch r := req.(type) {
	case TickReq:
		for i := uint64(0); i < r.Fuel && w.running; i++ {
			w.runTick()
		}
		close(r.Reply)

	case PauseReq:
		w.paused = true
		close(r.Reply)

	case ResumeReq:
		w.paused = false
		close(r.Reply)

	case ShutdownReq:
		w.running = false
		close(r.Reply)

	case CreateBotReq:
		r.Reply <- w.createBot(r.Upload)

	case KillBotReq:
		if w.killBot(r.ID, r.Reason) {
			r.Reply <- nil
		} else {
			r.Reply <- fmt.Errorf("world: unknown bot %s", r.ID)
		}

	case DeleteBotReq:
		r.Reply <- w.deleteBot(r.ID)

	case SetMapReq:
		w.mapM = r.Map
		w.dirty = true
		close(r.Reply)

	case SetSpawnReq:
		pos := r.Pos
		dir := r.Dir
		w.spawnPos = &pos
		w.spawnDir = &dir
		w.dirty = true
		close(r.Reply)

	case CreateObjectReq:
		r.Reply <- w.createObject(r.Kind, r.Pos)

	case DeleteObjectReq:
		r.Reply <- w.deleteObject(r.ID)

	case OverclockReq:
		w.clock = r.Clock
		close(r.Reply)

	case SetPolicyReq:
		w.policy = r.Policy
		w.dirty = true
		close(r.Reply)

	case GetPolicyReq:
		r.Reply <- w.policy

	case SaveReq:
		r.Reply <- w.saveNow()

	default:
		w.log.Warn().Type("request", req).Msg("unhandled request type")
	}
}

// createBot queues a new bot. The queue's capacity is enforced here;
// firmware must already have been validated by the caller before a
// CreateBotReq is even constructed.
func (w *World) createBot(up BotUpload) CreateBotResult {
	if w.policy.MaxQueuedBots > 0 && w.queued.Len() >= w.policy.MaxQueuedBots {
		return CreateBotResult{Err: ErrOverloaded}
	}
	id := w.ids.Next()
	qb := &bots.QueuedBot{
		ID:       id,
		Firmware: up.Firmware,
		Pos:      up.Pos,
		Dir:      up.Dir,
		Oneshot:  up.Oneshot,
	}
	w.queued.PushBack(qb)
	w.dirty = true
	return CreateBotResult{ID: id}
}

// deleteBot removes id from whichever table holds it, with no respawn.
func (w *World) deleteBot(id bots.Id) error {
	if _, ok := w.alive.Get(id); ok {
		w.alive.Remove(id)
		w.lives.Fold(id, events.Discarded())
		w.dirty = true
		return nil
	}
	if _, ok := w.queued.Remove(id); ok {
		w.lives.Fold(id, events.Discarded())
		w.dirty = true
		return nil
	}
	if w.dead.Remove(id) {
		w.lives.Fold(id, events.Discarded())
		w.dirty = true
		return nil
	}
	return fmt.Errorf("world: unknown bot %s", id)
}

func (w *World) createObject(kind string, pos direction.IVec2) error {
	if !w.mapM.Contains(pos) {
		return fmt.Errorf("world: object position %v is out of bounds", pos)
	}
	w.nextObjectID++
	id := w.nextObjectID
	w.objects[id] = &Object{ID: id, Kind: kind, Pos: pos}
	w.dirty = true
	return nil
}

func (w *World) deleteObject(id ObjectId) error {
	if _, ok := w.objects[id]; !ok {
		return fmt.Errorf("world: unknown object %d", id)
	}
	delete(w.objects, id)
	w.dirty = true
	return nil
}
