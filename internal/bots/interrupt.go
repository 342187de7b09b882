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

// Interrupt is the optional guest-side interrupt subsystem: a pending
// mask, an ISR vector address, and a small bank of argument words.
// Worlds that disable interrupts simply never register this device's
// window on a bot's bus. The CPU does not poll this peripheral
// automatically between instructions — this is the register surface
// only, for firmware that prefers to poll it explicitly over busy-
// waiting on individual device ready flags.
type Interrupt struct {
	pending uint32
	vector  uint32
	args    [4]uint32
}

// NewInterrupt returns an interrupt controller with nothing pending.
func NewInterrupt() *Interrupt {
	return &Interrupt{}
}

// Load implements mmio.Bus.
func (ic *Interrupt) Load(offset uint32) (uint32, error) {
	switch offset {
	case 0:
		return ic.pending, nil
	case 4:
		return ic.vector, nil
	case 12, 16, 20, 24:
		return ic.args[(offset-12)/4], nil
	default:
		return 0, ErrBadOffset
	}
}

// Store implements mmio.Bus: offset 0 acks (clears) pending bits,
// offset 4 sets the ISR vector, offsets 12-24 set argument words.
func (ic *Interrupt) Store(offset uint32, value uint32) error {
	switch offset {
	case 0:
		ic.pending &^= value
	case 4:
		ic.vector = value
	case 12, 16, 20, 24:
		ic.args[(offset-12)/4] = value
	default:
		return ErrBadOffset
	}
	return nil
}

// Tick implements mmio.Device. Interrupt has no cooldown.
func (ic *Interrupt) Tick() {}

// Raise sets pending bits. No peripheral and no world code calls it, so
// bits become pending only through a direct call.
func (ic *Interrupt) Raise(mask uint32) {
	ic.pending |= mask
}
