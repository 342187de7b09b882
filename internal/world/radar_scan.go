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
	"github.com/pdxjjb/kartoffels/internal/direction"
)

// scanBotPresentBit marks an occupied cell in a radar word, above the
// low byte carrying the tile kind.
const scanBotPresentBit = 1 << 8

// scanFuncFor binds a radar scan callback to a specific bot id. The
// bot's current position and facing are looked up at scan time, not
// capture time, since the scan only resolves once its cooldown elapses
// — possibly several ticks after the command was issued.
func (w *World) scanFuncFor(id bots.Id) bots.ScanFunc {
	return func(radius int) []uint32 {
		b, ok := w.alive.Get(id)
		if !ok {
			return nil
		}
		return w.scanAround(b.Pos, b.Dir(), radius)
	}
}

// scanAround samples a (2r+1)^2 window centered on center, rotated so
// "ahead" in the result is always the bot's own facing direction: row 0
// is farthest ahead, row 2r is farthest behind; column 0 is the bot's
// left, column 2r its right.
func (w *World) scanAround(center direction.IVec2, facing direction.Dir, radius int) []uint32 {
	side := 2*radius + 1
	out := make([]uint32, 0, side*side)

	fwd := facing.Vec()
	rgt := facing.TurnRight().Vec()

	for dy := -radius; dy <= radius; dy++ {
		ahead := int32(-dy)
		for dx := -radius; dx <= radius; dx++ {
			right := int32(dx)
			pos := direction.IVec2{
				X: center.X + rgt.X*right + fwd.X*ahead,
				Y: center.Y + rgt.Y*right + fwd.Y*ahead,
			}
			out = append(out, w.scanCell(pos))
		}
	}
	return out
}

// scanCell packs one radar result word: the low byte is the tile kind,
// bit 8 is set when a bot occupies the cell, the scanning bot itself
// included at the centre.
func (w *World) scanCell(pos direction.IVec2) uint32 {
	word := uint32(w.mapM.Get(pos).Kind)
	if _, occupied := w.alive.LookupAt(pos); occupied {
		word |= scanBotPresentBit
	}
	return word
}
