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

package bots

import (
	"github.com/pdxjjb/kartoffels/internal/cpu"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/events"
	"github.com/pdxjjb/kartoffels/internal/firmware"
)

// AliveBot is a bot currently occupying a map tile and executing its
// firmware once per host tick. The world owns it exclusively; nothing
// here ever reaches back into world state directly — motor/arm effects
// are read out as intents and resolved by the scheduler.
type AliveBot struct {
	ID          Id
	Pos         direction.IVec2
	CPU         *cpu.CPU
	Peripherals *Peripherals
	Firmware    *firmware.Firmware
	Events      []events.Event
	Oneshot     bool

	// BornAtTick is the host tick number this bot was promoted from
	// queued to alive, used to break score ties oldest-first in
	// leaderboard ordering.
	BornAtTick uint64
}

// Dir returns the bot's current facing.
func (b *AliveBot) Dir() direction.Dir { return b.Peripherals.Dir }

// QueuedBot is waiting for a spawn slot. Pos and Dir are nil when the
// uploader expressed no preference, in which case placement falls back
// to the world's configured spawn or a random passable tile.
type QueuedBot struct {
	ID       Id
	Firmware *firmware.Firmware
	Pos      *direction.IVec2
	Dir      *direction.Dir
	Serial   *Serial
	Events   []events.Event
	Requeued bool
	Oneshot  bool
}

// DeadBot is retained for post-mortem inspection after being evicted
// from the alive table.
type DeadBot struct {
	ID     Id
	Reason string
	Serial *Serial
	Events []events.Event
}
