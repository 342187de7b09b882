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
	"errors"

	"github.com/google/uuid"

	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/firmware"
	"github.com/pdxjjb/kartoffels/internal/worldmap"
)

// Request is a closed sum type: every kind of external command the
// scheduler drains at the top of a tick implements it. A handle never
// mutates the world directly — every effect crosses this channel so the
// owning thread keeps exclusive access.
type Request interface {
	isRequest()
}

// BotUpload is what a caller supplies to enqueue a new bot.
type BotUpload struct {
	Firmware *firmware.Firmware
	Pos      *direction.IVec2
	Dir      *direction.Dir
	Oneshot  bool
}

// CreateBotResult is handed back once a bot has been assigned an id and
// queued (not yet spawned). Err is non-nil only for Overloaded (the
// queue is already at policy.MaxQueuedBots); firmware-load errors are
// surfaced earlier, at upload time, before a CreateBotReq is even sent.
type CreateBotResult struct {
	ID  bots.Id
	Err error
}

// ErrOverloaded is returned via CreateBotResult.Err when the queue is
// already at its policy-configured capacity.
var ErrOverloaded = errors.New("world: queue is full")

// CorrelationID is carried by every Request for tracing an external
// caller's request through logs, never for identity: it has no bearing
// on simulation state and must never substitute for a bots.Id.
type CorrelationID = uuid.UUID

type TickReq struct {
	Fuel          uint64
	Reply         chan struct{}
	CorrelationID CorrelationID
}

type PauseReq struct {
	Reply         chan struct{}
	CorrelationID CorrelationID
}
type ResumeReq struct {
	Reply         chan struct{}
	CorrelationID CorrelationID
}
type ShutdownReq struct {
	Reply         chan struct{}
	CorrelationID CorrelationID
}

type CreateBotReq struct {
	Upload        BotUpload
	Reply         chan CreateBotResult
	CorrelationID CorrelationID
}

type KillBotReq struct {
	ID            bots.Id
	Reason        string
	Reply         chan error
	CorrelationID CorrelationID
}

type DeleteBotReq struct {
	ID            bots.Id
	Reply         chan error
	CorrelationID CorrelationID
}

type SetMapReq struct {
	Map           *worldmap.Map
	Reply         chan struct{}
	CorrelationID CorrelationID
}

type SetSpawnReq struct {
	Pos           direction.IVec2
	Dir           direction.Dir
	Reply         chan struct{}
	CorrelationID CorrelationID
}

type CreateObjectReq struct {
	Kind          string
	Pos           direction.IVec2
	Reply         chan error
	CorrelationID CorrelationID
}

type DeleteObjectReq struct {
	ID            ObjectId
	Reply         chan error
	CorrelationID CorrelationID
}

type OverclockReq struct {
	Clock         Clock
	Reply         chan struct{}
	CorrelationID CorrelationID
}

type SetPolicyReq struct {
	Policy        Policy
	Reply         chan struct{}
	CorrelationID CorrelationID
}

type GetPolicyReq struct {
	Reply         chan Policy
	CorrelationID CorrelationID
}

type SaveReq struct {
	Reply         chan error
	CorrelationID CorrelationID
}

func (TickReq) isRequest()         {}
func (PauseReq) isRequest()        {}
func (ResumeReq) isRequest()       {}
func (ShutdownReq) isRequest()     {}
func (CreateBotReq) isRequest()    {}
func (KillBotReq) isRequest()      {}
func (DeleteBotReq) isRequest()    {}
func (SetMapReq) isRequest()       {}
func (SetSpawnReq) isRequest()     {}
func (CreateObjectReq) isRequest() {}
func (DeleteObjectReq) isRequest() {}
func (OverclockReq) isRequest()    {}
func (SetPolicyReq) isRequest()    {}
func (GetPolicyReq) isRequest()    {}
func (SaveReq) isRequest()         {}
