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

package worldmap

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pdxjjb/kartoffels/internal/direction"
)

// Size is the width/height of a rectangular map.
type Size struct {
	X, Y uint32
}

// Map is a rectangular grid of tiles stored in row-major order. Reads
// outside the bounds return a Void tile; writes outside the bounds are
// no-ops: an out-of-range access is absorbed rather than propagated as
// an error (unlike the CPU's memory accessors, which trap).
type Map struct {
	size  Size
	tiles []Tile
}

// New allocates a map of the given size, every tile initialized to Void.
func New(size Size) *Map {
	return &Map{
		size:  size,
		tiles: make([]Tile, int(size.X)*int(size.Y)),
	}
}

// Size returns the map's dimensions.
func (m *Map) Size() Size {
	return m.size
}

// Contains reports whether pos lies within the map's bounds.
func (m *Map) Contains(pos direction.IVec2) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < int32(m.size.X) && pos.Y < int32(m.size.Y)
}

func (m *Map) index(pos direction.IVec2) (int, bool) {
	if !m.Contains(pos) {
		return 0, false
	}
	return int(pos.Y)*int(m.size.X) + int(pos.X), true
}

// Get returns the tile at pos, or a Void tile if pos is out of bounds.
func (m *Map) Get(pos direction.IVec2) Tile {
	idx, ok := m.index(pos)
	if !ok {
		return Tile{Kind: Void}
	}
	return m.tiles[idx]
}

// Set writes tile at pos and reports whether the write landed in bounds.
// Out-of-bounds writes are silently dropped.
func (m *Map) Set(pos direction.IVec2, tile Tile) bool {
	idx, ok := m.index(pos)
	if !ok {
		return false
	}
	m.tiles[idx] = tile
	return true
}

// ForEach visits every tile with its position, in row-major order.
func (m *Map) ForEach(fn func(pos direction.IVec2, t Tile)) {
	for y := uint32(0); y < m.size.Y; y++ {
		for x := uint32(0); x < m.size.X; x++ {
			pos := direction.IVec2{X: int32(x), Y: int32(y)}
			fn(pos, m.tiles[y*m.size.X+x])
		}
	}
}

// ForEachMut visits every tile with its position and lets fn replace it.
func (m *Map) ForEachMut(fn func(pos direction.IVec2, t Tile) Tile) {
	for y := uint32(0); y < m.size.Y; y++ {
		for x := uint32(0); x < m.size.X; x++ {
			idx := y*m.size.X + x
			pos := direction.IVec2{X: int32(x), Y: int32(y)}
			m.tiles[idx] = fn(pos, m.tiles[idx])
		}
	}
}

// SamplePos draws a uniformly random in-bounds position from rng.
func (m *Map) SamplePos(rng *rand.Rand) direction.IVec2 {
	return direction.IVec2{
		X: int32(rng.Intn(int(m.size.X))),
		Y: int32(rng.Intn(int(m.size.Y))),
	}
}

// Line paints an axis-aligned line between p1 and p2 with tile. Only
// horizontal and vertical lines are supported; a diagonal request paints
// just the endpoints.
func (m *Map) Line(p1, p2 direction.IVec2, tile Tile) {
	switch {
	case p1.Y == p2.Y:
		lo, hi := p1.X, p2.X
		if lo > hi {
			lo, hi = hi, lo
		}
		for x := lo; x <= hi; x++ {
			m.Set(direction.IVec2{X: x, Y: p1.Y}, tile)
		}
	case p1.X == p2.X:
		lo, hi := p1.Y, p2.Y
		if lo > hi {
			lo, hi = hi, lo
		}
		for y := lo; y <= hi; y++ {
			m.Set(direction.IVec2{X: p1.X, Y: y}, tile)
		}
	default:
		m.Set(p1, tile)
		m.Set(p2, tile)
	}
}

// Poly paints the outline of a closed polyline through points, tracing
// each consecutive pair (including the wraparound edge) with Line.
func (m *Map) Poly(points []direction.IVec2, tile Tile) {
	if len(points) < 2 {
		return
	}
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		m.Line(a, b, tile)
	}
}

// Rect paints the rectangular outline between corners a and b with tile.
func (m *Map) Rect(a, b direction.IVec2, tile Tile) {
	m.Poly([]direction.IVec2{
		{X: a.X, Y: a.Y},
		{X: b.X, Y: a.Y},
		{X: b.X, Y: b.Y},
		{X: a.X, Y: b.Y},
	}, tile)
}

// Clone returns a deep, independent copy of the map.
func (m *Map) Clone() *Map {
	out := &Map{size: m.size, tiles: make([]Tile, len(m.tiles))}
	copy(out.tiles, m.tiles)
	return out
}

var glyphs = map[Kind]byte{
	Void:       ' ',
	Floor:      '.',
	WallH:      '-',
	WallV:      '|',
	Bot:        '@',
	BotChevron: '^',
	Flag:       'F',
	Gem:        '*',
	Water:      '~',
}

// String renders the map as an ASCII grid for debugging and trace dumps.
func (m *Map) String() string {
	var b strings.Builder
	for y := uint32(0); y < m.size.Y; y++ {
		for x := uint32(0); x < m.size.X; x++ {
			t := m.tiles[y*m.size.X+x]
			g, ok := glyphs[t.Kind]
			if !ok {
				g = '?'
			}
			b.WriteByte(g)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// GoString satisfies fmt.GoStringer so %#v prints the same ASCII grid.
func (m *Map) GoString() string {
	return fmt.Sprintf("worldmap.Map%s", m.String())
}
