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
	"github.com/pdxjjb/kartoffels/internal/events"
)

// LifeStats accumulates a single BotId's score and lifecycle counts
// across however many times it has been born, died, and respawned.
// Unlike the alive/queued/dead tables, Lives never forgets an id.
type LifeStats struct {
	Score         int64
	Births        int
	Deaths        int
	ObjectsPicked int
}

// Lives folds events into per-bot aggregates for the whole world. It
// survives bots moving between tables, including after permanent
// deletion, so leaderboards stay stable.
type Lives struct {
	byID map[bots.Id]*LifeStats
}

// NewLives returns an empty lives table.
func NewLives() *Lives {
	return &Lives{byID: make(map[bots.Id]*LifeStats)}
}

// Fold applies one event's effect to id's aggregate, creating the entry
// on first touch.
func (l *Lives) Fold(id bots.Id, ev events.Event) {
	s, ok := l.byID[id]
	if !ok {
		s = &LifeStats{}
		l.byID[id] = s
	}
	switch ev.Kind {
	case events.BotBorn:
		s.Births++
	case events.BotDied:
		s.Deaths++
	case events.BotScored:
		s.Score += ev.Points
	case events.ObjectPicked:
		s.ObjectsPicked++
	}
}

// restore seeds id's aggregate verbatim from a loaded save, bypassing
// the event-folding rules Fold applies for live play.
func (l *Lives) restore(id bots.Id, s LifeStats) {
	l.byID[id] = &s
}

// Get returns id's current aggregate.
func (l *Lives) Get(id bots.Id) (LifeStats, bool) {
	s, ok := l.byID[id]
	if !ok {
		return LifeStats{}, false
	}
	return *s, true
}

// ForEach visits every id with recorded stats. Iteration order is not
// meaningful; callers that need a stable order (e.g. snapshot
// leaderboards) must sort the result themselves.
func (l *Lives) ForEach(fn func(id bots.Id, s LifeStats)) {
	for id, s := range l.byID {
		fn(id, *s)
	}
}

// WorldStats aggregates whole-world counters folded once per tick.
type WorldStats struct {
	Ticks    uint64
	BotsBorn uint64
	BotsDied uint64
}
