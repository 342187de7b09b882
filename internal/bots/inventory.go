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

// Inventory is an optional peripheral some worlds omit entirely: it
// lets a bot pick up an object occupying its own tile. The peripheral
// only records the intent to pick; the scheduler checks the tile,
// moves the object into the bot's held slot, and emits ObjectPicked.
type Inventory struct {
	held      []string
	pickIntent bool
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

// Load implements mmio.Bus: offset 0 reports the held-item count.
func (inv *Inventory) Load(offset uint32) (uint32, error) {
	if offset != 0 {
		return 0, ErrBadOffset
	}
	return uint32(len(inv.held)), nil
}

// Store implements mmio.Bus: any write to offset 0 requests a pickup.
func (inv *Inventory) Store(offset uint32, value uint32) error {
	if offset != 0 {
		return ErrBadOffset
	}
	inv.pickIntent = true
	return nil
}

// Tick implements mmio.Device. Inventory has no cooldown.
func (inv *Inventory) Tick() {}

// ConsumePickIntent reports and clears whether this tick's CPU quantum
// requested a pickup.
func (inv *Inventory) ConsumePickIntent() bool {
	intent := inv.pickIntent
	inv.pickIntent = false
	return intent
}

// Add places an acquired object's kind into the held list.
func (inv *Inventory) Add(kind string) {
	inv.held = append(inv.held, kind)
}

// Held returns the held object kinds, oldest first.
func (inv *Inventory) Held() []string {
	out := make([]string, len(inv.held))
	copy(out, inv.held)
	return out
}
