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

// Kind is the tag byte of a Tile.
type Kind uint8

const (
	Void Kind = iota
	Floor
	WallH
	WallV
	Bot
	BotChevron
	Flag
	Gem
	Water
)

// Tile is four bytes: a kind tag plus three kind-specific meta bytes. For a
// Bot tile, meta[0] is the alive-bot index in the snapshot. For a
// BotChevron tile, meta[0] is the same index and meta[1] encodes the
// facing direction.
type Tile struct {
	Kind Kind
	Meta [3]byte
}

// Passable reports whether a bot may occupy this tile.
func (t Tile) Passable() bool {
	switch t.Kind {
	case Floor, Flag, Gem:
		return true
	default:
		return false
	}
}
