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
	"math/rand"

	"github.com/pdxjjb/kartoffels/internal/direction"
)

// Theme builds a Map as a pure function of an RNG seeded deterministically
// by the caller. Two calls with identically-seeded RNGs must produce
// bit-identical maps.
type Theme interface {
	Build(rng *rand.Rand, b *Builder) *Map
}

// Arena is an open rectangular floor ringed by a wall, with scattered gems.
type Arena struct {
	Size   Size
	Gems   int
}

func (a Arena) Build(rng *rand.Rand, b *Builder) *Map {
	for y := uint32(0); y < a.Size.Y; y++ {
		for x := uint32(0); x < a.Size.X; x++ {
			b.Set(direction.IVec2{X: int32(x), Y: int32(y)}, Tile{Kind: Floor})
		}
	}
	top := direction.IVec2{X: 0, Y: 0}
	bot := direction.IVec2{X: int32(a.Size.X) - 1, Y: int32(a.Size.Y) - 1}
	b.Line(top, direction.IVec2{X: bot.X, Y: top.Y}, Tile{Kind: WallH})
	b.Line(direction.IVec2{X: top.X, Y: bot.Y}, bot, Tile{Kind: WallH})
	b.Line(top, direction.IVec2{X: top.X, Y: bot.Y}, Tile{Kind: WallV})
	b.Line(direction.IVec2{X: bot.X, Y: top.Y}, bot, Tile{Kind: WallV})

	for i := 0; i < a.Gems; i++ {
		pos := direction.IVec2{
			X: 1 + rng.Int31n(int32(a.Size.X)-2),
			Y: 1 + rng.Int31n(int32(a.Size.Y)-2),
		}
		b.Set(pos, Tile{Kind: Gem})
	}
	b.Reveal()
	return b.Finish()
}

// Cave carves a blobby cavern out of solid wall using a simple cellular
// random walk, deterministic for a given rng stream.
type Cave struct {
	Size  Size
	Steps int
}

func (c Cave) Build(rng *rand.Rand, b *Builder) *Map {
	for y := uint32(0); y < c.Size.Y; y++ {
		for x := uint32(0); x < c.Size.X; x++ {
			b.Set(direction.IVec2{X: int32(x), Y: int32(y)}, Tile{Kind: WallH})
		}
	}
	pos := direction.IVec2{X: int32(c.Size.X) / 2, Y: int32(c.Size.Y) / 2}
	b.Set(pos, Tile{Kind: Floor})
	for i := 0; i < c.Steps; i++ {
		d := direction.Sample(rng)
		next := pos.Add(d.Vec())
		if next.X <= 0 || next.Y <= 0 || next.X >= int32(c.Size.X)-1 || next.Y >= int32(c.Size.Y)-1 {
			continue
		}
		pos = next
		b.Set(pos, Tile{Kind: Floor})
	}
	b.Reveal()
	return b.Finish()
}

// Dungeon lays out a fixed grid of rectangular rooms joined by straight
// corridors.
type Dungeon struct {
	Size      Size
	RoomCount int
	RoomSize  int
}

func (d Dungeon) Build(rng *rand.Rand, b *Builder) *Map {
	for y := uint32(0); y < d.Size.Y; y++ {
		for x := uint32(0); x < d.Size.X; x++ {
			b.Set(direction.IVec2{X: int32(x), Y: int32(y)}, Tile{Kind: Void})
		}
	}
	var centers []direction.IVec2
	for i := 0; i < d.RoomCount; i++ {
		cx := d.RoomSize + rng.Intn(int(d.Size.X)-2*d.RoomSize)
		cy := d.RoomSize + rng.Intn(int(d.Size.Y)-2*d.RoomSize)
		center := direction.IVec2{X: int32(cx), Y: int32(cy)}
		a := direction.IVec2{X: center.X - int32(d.RoomSize), Y: center.Y - int32(d.RoomSize)}
		bb := direction.IVec2{X: center.X + int32(d.RoomSize), Y: center.Y + int32(d.RoomSize)}
		for y := a.Y; y <= bb.Y; y++ {
			for x := a.X; x <= bb.X; x++ {
				b.Set(direction.IVec2{X: x, Y: y}, Tile{Kind: Floor})
			}
		}
		b.Rect(a, bb, Tile{Kind: WallH})
		centers = append(centers, center)
	}
	for i := 1; i < len(centers); i++ {
		mid := direction.IVec2{X: centers[i].X, Y: centers[i-1].Y}
		b.Line(centers[i-1], mid, Tile{Kind: Floor})
		b.Line(mid, centers[i], Tile{Kind: Floor})
	}
	b.Reveal()
	return b.Finish()
}
