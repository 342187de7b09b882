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

import "math/rand"

// Timer exposes a random seed sampled once at bot birth and a
// monotonically increasing tick counter. Both registers are read-only;
// the seed lets firmware derive its own PRNG stream without touching
// the world's.
type Timer struct {
	seed  uint32
	ticks uint32
}

// NewTimer samples the birth seed from rng, so it participates in the
// world's deterministic replay stream.
func NewTimer(rng *rand.Rand) *Timer {
	return &Timer{seed: rng.Uint32()}
}

// Load implements mmio.Bus.
func (t *Timer) Load(offset uint32) (uint32, error) {
	switch offset {
	case 0:
		return t.seed, nil
	case 4:
		return t.ticks, nil
	default:
		return 0, ErrBadOffset
	}
}

// Store implements mmio.Bus. Both registers are read-only.
func (t *Timer) Store(offset uint32, value uint32) error {
	return ErrBadOffset
}

// Tick implements mmio.Device, advancing the visible tick counter once
// per host tick.
func (t *Timer) Tick() {
	t.ticks++
}

// Seed returns the birth seed, for persistence.
func (t *Timer) Seed() uint32 { return t.seed }

// RestoreTimer rebuilds a Timer from its persisted birth seed, with the
// tick counter reset to zero: only the seed is observable replay state,
// so an exact tick count isn't worth the extra persisted field.
func RestoreTimer(seed uint32) *Timer {
	return &Timer{seed: seed}
}
