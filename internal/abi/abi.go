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

// Package abi holds the guest address-map constants shared by firmware
// compiled against kartoffels and the host that executes it. They are
// compile-time constants, not configuration: firmware linked against one
// set of values will misbehave against another.
package abi

const (
	// RAMBase is the first guest-visible address of RAM. Addresses below
	// it, including zero, always trap.
	RAMBase uint32 = 0x0010_0000

	// RAMSize is the size of guest RAM in bytes.
	RAMSize uint32 = 128 * 1024

	// MMIOBase is the first address of the peripheral window. Only
	// naturally aligned 4-byte accesses are legal there.
	MMIOBase uint32 = 0x0800_0000

	// Peripheral sub-window layout, offsets relative to MMIOBase.
	PeripheralWindowSize uint32 = 1024

	TimerOffset     uint32 = 0 * PeripheralWindowSize
	SerialOffset    uint32 = 1 * PeripheralWindowSize
	MotorOffset     uint32 = 2 * PeripheralWindowSize
	ArmOffset       uint32 = 3 * PeripheralWindowSize
	RadarOffset     uint32 = 4 * PeripheralWindowSize
	CompassOffset   uint32 = 5 * PeripheralWindowSize
	InventoryOffset uint32 = 6 * PeripheralWindowSize
	InterruptOffset uint32 = 7 * PeripheralWindowSize

	// MMIOWindowCount is the number of 1KiB sub-windows currently mapped.
	MMIOWindowCount uint32 = 8
)

// MMIOSize is the total size of the mapped peripheral window.
const MMIOSize = MMIOWindowCount * PeripheralWindowSize

// RadarWindowWords is the largest (2r+1)^2 scan buffer the radar
// peripheral must expose, for r = 9 (the largest legal scan radius).
const RadarWindowWords = 19 * 19
