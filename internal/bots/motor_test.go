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

func TestMotorStepWhileOnCooldownNeverMoves(t *testing.T) {
	dir := direction.N
	m := NewMotor(&dir, rand.New(rand.NewSource(1)), 10, 20)

	if err := m.Store(4, motorCmdStep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.ConsumeMoveIntent() {
		t.Fatal("expected a move intent from the first step")
	}

	// Cooldown is now active; a second step must be ignored outright.
	if err := m.Store(4, motorCmdStep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ConsumeMoveIntent() {
		t.Fatal("expected no move intent while on cooldown")
	}
}

func TestMotorTurnUpdatesSharedFacingImmediately(t *testing.T) {
	dir := direction.N
	m := NewMotor(&dir, rand.New(rand.NewSource(1)), 10, 20)
	c := NewCompass(&dir)

	if err := m.Store(4, motorCmdTurnRight); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.Load(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if direction.Dir(got) != direction.E {
		t.Fatalf("want E after turning right from N, got %v", direction.Dir(got))
	}
}

func TestMotorReadyFlagTracksCooldown(t *testing.T) {
	dir := direction.N
	m := NewMotor(&dir, rand.New(rand.NewSource(7)), 3, 0)
	if err := m.Store(4, motorCmdStep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ready, _ := m.Load(0)
	if ready != 0 {
		t.Fatal("expected not-ready immediately after a command")
	}
	for i := 0; i < 3; i++ {
		m.Tick()
	}
	ready, _ = m.Load(0)
	if ready != 1 {
		t.Fatal("expected ready after the fixed cooldown elapses")
	}
}

func TestRandCooldownStaysWithinSpread(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const base, pct = 100, 20
	for i := 0; i < 1000; i++ {
		got := randCooldown(rng, base, pct)
		if got < 80 || got > 120 {
			t.Fatalf("cooldown %d out of expected [80,120] range", got)
		}
	}
}
