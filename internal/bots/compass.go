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

import "github.com/pdxjjb/kartoffels/internal/direction"

// Compass is a read-only peripheral reporting the bot's current
// absolute facing. It shares the same direction cell Motor turns, so a
// turn command is visible to the compass on the very next read.
type Compass struct {
	dir *direction.Dir
}

// NewCompass returns a compass reading the shared facing cell.
func NewCompass(dir *direction.Dir) *Compass {
	return &Compass{dir: dir}
}

// Load implements mmio.Bus.
func (c *Compass) Load(offset uint32) (uint32, error) {
	if offset != 0 {
		return 0, ErrBadOffset
	}
	return uint32(*c.dir), nil
}

// Store implements mmio.Bus: compass has no writable registers.
func (c *Compass) Store(offset uint32, value uint32) error {
	return ErrBadOffset
}

// Tick implements mmio.Device. Compass has no cooldown.
func (c *Compass) Tick() {}
