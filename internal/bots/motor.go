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

	"github.com/pdxjjb/kartoffels/internal/direction"
)

// Motor commands, written to the command register.
const (
	motorCmdStep uint32 = iota + 1
	motorCmdTurnLeft
	motorCmdTurnRight
	motorCmdTurn180
)

// Motor is a ready flag plus a command register. Turns take effect on
// the bot's facing immediately; a step only records a move intent for
// the scheduler to resolve after the CPU tick, since only the
// scheduler is allowed to mutate the map. Writes while the cooldown
// hasn't elapsed are silently ignored.
type Motor struct {
	dir  *direction.Dir // shared with Compass and the owning bot
	rng  *rand.Rand
	base int
	pct  int

	cooldown   int
	moveIntent bool
}

// NewMotor returns a motor sharing dir with the bot's facing and the
// rest of its peripherals. base/pct fix the cooldown distribution for
// this bot's whole lifetime, per world-construction-time policy.
func NewMotor(dir *direction.Dir, rng *rand.Rand, base, pct int) *Motor {
	return &Motor{dir: dir, rng: rng, base: base, pct: pct}
}

// Load implements mmio.Bus.
func (m *Motor) Load(offset uint32) (uint32, error) {
	switch offset {
	case 0: // ready flag
		if m.cooldown == 0 {
			return 1, nil
		}
		return 0, nil
	case 8: // current facing
		return uint32(*m.dir), nil
	default:
		return 0, ErrBadOffset
	}
}

// Store implements mmio.Bus: offset 4 is the command register.
func (m *Motor) Store(offset uint32, value uint32) error {
	if offset != 4 {
		return ErrBadOffset
	}
	if m.cooldown > 0 {
		return nil // ignored, not queued; never moves within this tick
	}
	switch value {
	case motorCmdStep:
		m.moveIntent = true
	case motorCmdTurnLeft:
		*m.dir = m.dir.TurnLeft()
	case motorCmdTurnRight:
		*m.dir = m.dir.TurnRight()
	case motorCmdTurn180:
		*m.dir = m.dir.Turn180()
	default:
		return ErrBadOffset
	}
	m.cooldown = randCooldown(m.rng, m.base, m.pct)
	return nil
}

// Tick implements mmio.Device, decrementing the cooldown.
func (m *Motor) Tick() {
	if m.cooldown > 0 {
		m.cooldown--
	}
}

// ConsumeMoveIntent reports and clears whether this tick's CPU quantum
// asked to step forward. The scheduler resolves it against the map.
func (m *Motor) ConsumeMoveIntent() bool {
	intent := m.moveIntent
	m.moveIntent = false
	return intent
}
