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
	"testing"

	"github.com/pdxjjb/kartoffels/internal/direction"
)

func TestAliveBotsReusesLowestFreeSlot(t *testing.T) {
	alive := NewAliveBots()
	a := &AliveBot{ID: 1, Pos: direction.IVec2{X: 0, Y: 0}}
	b := &AliveBot{ID: 2, Pos: direction.IVec2{X: 1, Y: 0}}
	c := &AliveBot{ID: 3, Pos: direction.IVec2{X: 2, Y: 0}}

	idxA := alive.Add(a)
	idxB := alive.Add(b)
	if idxA != 0 || idxB != 1 {
		t.Fatalf("want slots 0,1, got %d,%d", idxA, idxB)
	}
	if !alive.Remove(a.ID) {
		t.Fatal("remove a failed")
	}
	idxC := alive.Add(c)
	if idxC != 0 {
		t.Fatalf("want c to reuse freed slot 0, got %d", idxC)
	}
	if alive.Len() != 2 {
		t.Fatalf("want 2 alive, got %d", alive.Len())
	}
}

func TestAliveBotsNoPositionCollision(t *testing.T) {
	alive := NewAliveBots()
	pos := direction.IVec2{X: 5, Y: 5}
	a := &AliveBot{ID: 1, Pos: pos}
	alive.Add(a)

	if _, ok := alive.LookupAt(pos); !ok {
		t.Fatal("expected a bot at pos")
	}

	alive.Relocate(a.ID, direction.IVec2{X: 6, Y: 5})
	if _, ok := alive.LookupAt(pos); ok {
		t.Fatal("old position should be vacated after relocate")
	}
	if id, ok := alive.LookupAt(direction.IVec2{X: 6, Y: 5}); !ok || id != a.ID {
		t.Fatal("new position should resolve to the relocated bot")
	}
}

func TestAliveBotsForEachIsSlotOrdered(t *testing.T) {
	alive := NewAliveBots()
	ids := []Id{10, 20, 30}
	for i, id := range ids {
		alive.Add(&AliveBot{ID: id, Pos: direction.IVec2{X: int32(i), Y: 0}})
	}
	var seen []Id
	alive.ForEach(func(slot int, b *AliveBot) {
		seen = append(seen, b.ID)
	})
	for i, id := range ids {
		if seen[i] != id {
			t.Fatalf("iteration order mismatch at %d: want %v got %v", i, id, seen[i])
		}
	}
}

func TestQueuedBotsFIFOAndPlaceIndex(t *testing.T) {
	q := NewQueuedBots()
	a := &QueuedBot{ID: 1}
	b := &QueuedBot{ID: 2}
	q.PushBack(a)
	q.PushBack(b)

	if place, ok := q.Place(b.ID); !ok || place != 1 {
		t.Fatalf("want b at place 1, got %d, ok=%v", place, ok)
	}

	front, ok := q.PopFront()
	if !ok || front.ID != a.ID {
		t.Fatalf("want a popped first, got %+v", front)
	}
	if place, ok := q.Place(b.ID); !ok || place != 0 {
		t.Fatalf("want b at place 0 after pop, got %d", place)
	}
}

func TestQueuedBotsPushFrontIsRespawnPriority(t *testing.T) {
	q := NewQueuedBots()
	a := &QueuedBot{ID: 1}
	b := &QueuedBot{ID: 2, Requeued: true}
	q.PushBack(a)
	q.PushFront(b)

	front, _ := q.Front()
	if front.ID != b.ID {
		t.Fatalf("want requeued bot at the front, got %v", front.ID)
	}
	if place, _ := q.Place(a.ID); place != 1 {
		t.Fatalf("want a pushed back to place 1, got %d", place)
	}
}

func TestDeadBotsEvictsOldest(t *testing.T) {
	d := NewDeadBots(2)
	d.Add(&DeadBot{ID: 1})
	d.Add(&DeadBot{ID: 2})
	d.Add(&DeadBot{ID: 3})

	if _, ok := d.Get(1); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := d.Get(3); !ok {
		t.Fatal("newest entry should still be present")
	}
	if d.Len() != 2 {
		t.Fatalf("want len 2, got %d", d.Len())
	}
}
