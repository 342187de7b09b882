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

// Package events carries the tagged-union log entries every bot and the
// world accumulate: BotBorn, BotDied, and the like. Events drive the
// lives/stats tables and flow on to snapshot subscribers.
package events

import "time"

// Kind tags which fields of an Event are meaningful.
type Kind uint8

const (
	BotBorn Kind = iota
	BotDied
	BotScored
	BotDiscarded
	ObjectPicked
)

func (k Kind) String() string {
	switch k {
	case BotBorn:
		return "born"
	case BotDied:
		return "died"
	case BotScored:
		return "scored"
	case BotDiscarded:
		return "discarded"
	case ObjectPicked:
		return "object-picked"
	default:
		return "unknown"
	}
}

// Event is one entry in a bot's or the world's event log. At is a
// wall-clock timestamp: acceptable here because events are observed
// externally only, never fed back into deterministic simulation state.
type Event struct {
	Kind   Kind
	At     time.Time
	Reason string // death reason, trap text, etc; empty when not applicable
	Points int64  // score delta for BotScored
	Object string // object kind for ObjectPicked
}

// Born returns a BotBorn event timestamped now.
func Born() Event { return Event{Kind: BotBorn, At: time.Now()} }

// Died returns a BotDied event carrying the kill reason (which, for a
// self-inflicted trap, is the trap's Error() text verbatim).
func Died(reason string) Event {
	return Event{Kind: BotDied, At: time.Now(), Reason: reason}
}

// Scored returns a BotScored event for a point delta.
func Scored(points int64) Event {
	return Event{Kind: BotScored, At: time.Now(), Points: points}
}

// Discarded returns a BotDiscarded event for admin-initiated deletion.
func Discarded() Event { return Event{Kind: BotDiscarded, At: time.Now()} }

// ObjectPickedUp returns an ObjectPicked event naming the object kind.
func ObjectPickedUp(object string) Event {
	return Event{Kind: ObjectPicked, At: time.Now(), Object: object}
}
