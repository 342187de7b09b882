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

// Package bots implements the per-bot state the scheduler drives each
// tick: the register-level peripherals (timer, serial, motor, arm,
// radar, compass, inventory, interrupt) a bot's firmware sees over MMIO,
// and the three tables (alive, queued, dead) every BotId moves through
// exactly once.
package bots

import (
	"errors"
	"math/rand"
)

// ErrBadOffset is returned by a peripheral's Load/Store for any offset
// or direction (read vs. write) the device does not implement. The
// cpu package turns this into an "out-of-bounds" trap.
var ErrBadOffset = errors.New("bots: bad peripheral offset")

// randCooldown draws a cooldown from base ± base*pct/100, matching the
// "cooldown randomization" peripheral semantic. pct is a percentage
// (e.g. 20 means ±20%). rng is always the world's RNG so replays with
// the same seed reproduce identical cooldowns.
func randCooldown(rng *rand.Rand, base, pct int) int {
	if pct <= 0 || base <= 0 {
		return base
	}
	spread := base * pct / 100
	if spread <= 0 {
		return base
	}
	delta := int(rng.Int31n(int32(2*spread+1))) - spread
	result := base + delta
	if result < 0 {
		return 0
	}
	return result
}
