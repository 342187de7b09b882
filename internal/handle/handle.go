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

// Package handle is the only front door external code has onto a
// running world: a small, cloneable client that sends typed requests
// down a channel and awaits a typed reply, never touching world state
// directly. This is what keeps "one goroutine owns the world" true no
// matter how many callers a daemon ends up serving.
package handle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/firmware"
	"github.com/pdxjjb/kartoffels/internal/snapshot"
	"github.com/pdxjjb/kartoffels/internal/world"
	"github.com/pdxjjb/kartoffels/internal/worldmap"
)

// Handle is a cheap, cloneable reference to one running world. The zero
// value is not usable; construct one with New.
type Handle struct {
	requests chan<- world.Request
	w        *world.World
}

// New wraps w's request channel in a Handle. w.Run must be driven by a
// separate goroutine for requests to ever be answered.
func New(w *world.World) Handle {
	return Handle{requests: w.Requests(), w: w}
}

// send delivers req and blocks until the world replies on, or closes,
// the channel it's given, or until ctx is cancelled. It never mutates world state itself —
// that only happens on the world's own goroutine, inside handleRequest.
func send[T any](ctx context.Context, h Handle, reply chan T, build func(cid uuid.UUID) world.Request) (T, error) {
	var zero T
	cid := uuid.New()
	select {
	case h.requests <- build(cid):
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case v, ok := <-reply:
		if !ok {
			return zero, nil
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Subscribe registers a new snapshot consumer. Call Unsubscribe with the
// same channel when the consumer goes away, or its buffer leaks for the
// life of the world.
func (h Handle) Subscribe() <-chan *snapshot.Snapshot { return h.w.Subscribe() }

// Unsubscribe removes a snapshot consumer registered with Subscribe.
func (h Handle) Unsubscribe(ch <-chan *snapshot.Snapshot) { h.w.Unsubscribe(ch) }

// Tick grants the world fuel guest-ticks, used to drive a Manual-clock
// world deterministically from a test or a debug console. It blocks
// until the grant is exhausted.
func (h Handle) Tick(ctx context.Context, fuel uint64) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.TickReq{Fuel: fuel, Reply: reply, CorrelationID: cid}
	})
	return err
}

// Pause stops the spawn/tick/kill phases from advancing; requests still
// drain, but no snapshot is published while the world is paused.
func (h Handle) Pause(ctx context.Context) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.PauseReq{Reply: reply, CorrelationID: cid}
	})
	return err
}

// Resume undoes Pause.
func (h Handle) Resume(ctx context.Context) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.ResumeReq{Reply: reply, CorrelationID: cid}
	})
	return err
}

// Shutdown asks the world to finish its current tick, persist if
// configured, close every subscriber, and exit Run.
func (h Handle) Shutdown(ctx context.Context) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.ShutdownReq{Reply: reply, CorrelationID: cid}
	})
	return err
}

// CreateBotOptions mirrors world.BotUpload without forcing callers to
// import internal/world just to build one.
type CreateBotOptions struct {
	Pos     *direction.IVec2
	Dir     *direction.Dir
	Oneshot bool
}

// CreateBot parses raw as a 32-bit ELF and, on success, queues it. The
// ELF parse happens here, off the world's goroutine, so a malformed
// image never costs the scheduler a tick; only a well-formed image ever
// reaches the request channel.
func (h Handle) CreateBot(ctx context.Context, raw []byte, opts CreateBotOptions) (bots.Id, error) {
	fw, err := firmware.FromELF(raw)
	if err != nil {
		return 0, fmt.Errorf("handle: load firmware: %w", err)
	}

	reply := make(chan world.CreateBotResult)
	res, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.CreateBotReq{
			Upload: world.BotUpload{
				Firmware: fw,
				Pos:      opts.Pos,
				Dir:      opts.Dir,
				Oneshot:  opts.Oneshot,
			},
			Reply:         reply,
			CorrelationID: cid,
		}
	})
	if err != nil {
		return 0, err
	}
	if res.Err != nil {
		return 0, res.Err
	}
	return res.ID, nil
}

// KillBot kills id, attaching reason as the death event's text.
func (h Handle) KillBot(ctx context.Context, id bots.Id, reason string) error {
	reply := make(chan error)
	res, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.KillBotReq{ID: id, Reason: reason, Reply: reply, CorrelationID: cid}
	})
	if err != nil {
		return err
	}
	return res
}

// DeleteBot removes id from whichever table holds it, with no respawn.
func (h Handle) DeleteBot(ctx context.Context, id bots.Id) error {
	reply := make(chan error)
	res, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.DeleteBotReq{ID: id, Reply: reply, CorrelationID: cid}
	})
	if err != nil {
		return err
	}
	return res
}

// SetMap replaces the live map outright (e.g. after procedural
// generation finishes in internal/worldmap's Builder).
func (h Handle) SetMap(ctx context.Context, m *worldmap.Map) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.SetMapReq{Map: m, Reply: reply, CorrelationID: cid}
	})
	return err
}

// SetSpawn configures the default spawn position and facing used when a
// queued bot carries neither of its own.
func (h Handle) SetSpawn(ctx context.Context, pos direction.IVec2, dir direction.Dir) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.SetSpawnReq{Pos: pos, Dir: dir, Reply: reply, CorrelationID: cid}
	})
	return err
}

// CreateObject places a pickable object of the given kind at pos.
func (h Handle) CreateObject(ctx context.Context, kind string, pos direction.IVec2) error {
	reply := make(chan error)
	res, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.CreateObjectReq{Kind: kind, Pos: pos, Reply: reply, CorrelationID: cid}
	})
	if err != nil {
		return err
	}
	return res
}

// DeleteObject removes a previously created object.
func (h Handle) DeleteObject(ctx context.Context, id world.ObjectId) error {
	reply := make(chan error)
	res, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.DeleteObjectReq{ID: id, Reply: reply, CorrelationID: cid}
	})
	if err != nil {
		return err
	}
	return res
}

// Overclock switches the world's pacing clock.
func (h Handle) Overclock(ctx context.Context, clock world.Clock) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.OverclockReq{Clock: clock, Reply: reply, CorrelationID: cid}
	})
	return err
}

// SetPolicy replaces the world's spawn/respawn policy.
func (h Handle) SetPolicy(ctx context.Context, p world.Policy) error {
	reply := make(chan struct{})
	_, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.SetPolicyReq{Policy: p, Reply: reply, CorrelationID: cid}
	})
	return err
}

// GetPolicy returns the world's current policy.
func (h Handle) GetPolicy(ctx context.Context) (world.Policy, error) {
	reply := make(chan world.Policy)
	return send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.GetPolicyReq{Reply: reply, CorrelationID: cid}
	})
}

// Save forces an immediate save, independent of the periodic save
// cadence, and reports any I/O error to the caller.
func (h Handle) Save(ctx context.Context) error {
	reply := make(chan error)
	res, err := send(ctx, h, reply, func(cid uuid.UUID) world.Request {
		return world.SaveReq{Reply: reply, CorrelationID: cid}
	})
	if err != nil {
		return err
	}
	return res
}
