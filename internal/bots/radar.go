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

// ScanFunc performs a (2r+1)^2 scan of the map and other bots centered
// on the radar's owner, returning the window flattened row-major in
// bot-relative coordinates already rotated to the owner's facing. It is
// supplied by the world, which alone holds the map and bot tables.
type ScanFunc func(radius int) []uint32

// radarCooldowns maps each accepted scan radius to its cooldown base: a
// larger radius costs a longer wait, fixed at world-construction time
// alongside the shared percentage spread.
type radarCooldowns map[int]int

// Radar is a ready flag, a command register accepting a scan radius,
// and a streaming data register: once the commanded scan's cooldown
// elapses, firmware reads the result back one word at a time from an
// auto-incrementing cursor, since a 19x19 scan does not fit in one 1KiB
// register window addressed directly.
type Radar struct {
	rng  *rand.Rand
	base radarCooldowns
	pct  int
	scan ScanFunc

	cooldown      int
	pendingRadius int
	buf           []uint32
	cursor        int
}

// NewRadar returns a radar whose legal radii and their cooldown bases
// are fixed for this bot's lifetime. scan is called once per completed
// scan command, off the peripheral's own Tick.
func NewRadar(rng *rand.Rand, base map[int]int, pct int, scan ScanFunc) *Radar {
	cd := make(radarCooldowns, len(base))
	for k, v := range base {
		cd[k] = v
	}
	return &Radar{rng: rng, base: cd, pct: pct, scan: scan}
}

// Load implements mmio.Bus.
func (r *Radar) Load(offset uint32) (uint32, error) {
	switch offset {
	case 0: // ready flag
		if r.cooldown == 0 {
			return 1, nil
		}
		return 0, nil
	case 12: // streaming data register
		if r.cursor >= len(r.buf) {
			return 0, nil
		}
		v := r.buf[r.cursor]
		r.cursor++
		return v, nil
	default:
		return 0, ErrBadOffset
	}
}

// Store implements mmio.Bus: offset 4 commands a scan radius, offset 8
// resets the data cursor to re-read the last completed scan.
func (r *Radar) Store(offset uint32, value uint32) error {
	switch offset {
	case 4:
		if r.cooldown > 0 {
			return nil
		}
		base, ok := r.base[int(value)]
		if !ok {
			return ErrBadOffset
		}
		r.pendingRadius = int(value)
		r.cooldown = randCooldown(r.rng, base, r.pct)
		return nil
	case 8:
		r.cursor = 0
		return nil
	default:
		return ErrBadOffset
	}
}

// Tick implements mmio.Device: decrements the cooldown and, the
// instant it reaches zero with a pending command, performs the scan
// and resets the read cursor.
func (r *Radar) Tick() {
	if r.cooldown == 0 {
		return
	}
	r.cooldown--
	if r.cooldown == 0 && r.pendingRadius > 0 {
		r.buf = r.scan(r.pendingRadius)
		r.cursor = 0
		r.pendingRadius = 0
	}
}
