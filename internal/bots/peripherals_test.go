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
	"math/rand"
	"testing"

	"github.com/pdxjjb/kartoffels/internal/direction"
)

func TestArmStabIntentConsumedOnce(t *testing.T) {
	a := NewArm(rand.New(rand.NewSource(1)), 5, 0)
	if err := a.Store(4, armCmdStab); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.ConsumeStabIntent() {
		t.Fatal("expected a stab intent")
	}
	if a.ConsumeStabIntent() {
		t.Fatal("intent should be cleared after one consume")
	}
}

func TestTimerSeedIsStableAndTicksMonotonic(t *testing.T) {
	tm := NewTimer(rand.New(rand.NewSource(99)))
	seed1, _ := tm.Load(0)
	seed2, _ := tm.Load(0)
	if seed1 != seed2 {
		t.Fatal("seed must not change across reads")
	}
	tm.Tick()
	tm.Tick()
	ticks, _ := tm.Load(4)
	if ticks != 2 {
		t.Fatalf("want 2 ticks, got %d", ticks)
	}
}

func TestInventoryPickIntentAndHeldItems(t *testing.T) {
	inv := NewInventory()
	_ = inv.Store(0, 1)
	if !inv.ConsumePickIntent() {
		t.Fatal("expected a pick intent")
	}
	inv.Add("gem")
	count, _ := inv.Load(0)
	if count != 1 {
		t.Fatalf("want held count 1, got %d", count)
	}
}

func TestPeripheralsBusRoutesToEachDevice(t *testing.T) {
	p := NewPeripherals(rand.New(rand.NewSource(5)), direction.N, DefaultCooldownPolicy(),
		func(int) []uint32 { return nil }, true, true)
	bus := p.Bus()

	if _, err := bus.Load(0); err != nil { // timer seed
		t.Fatalf("timer window: %v", err)
	}
	if err := bus.Store(1024, 'a'); err != nil { // serial data register
		t.Fatalf("serial window: %v", err)
	}
	if v, err := bus.Load(5*1024); err != nil || direction.Dir(v) != direction.N {
		t.Fatalf("compass window: v=%d err=%v", v, err)
	}
}
