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

package cpu

import (
	"fmt"

	"github.com/pdxjjb/kartoffels/internal/abi"
	"github.com/pdxjjb/kartoffels/internal/mmio"
)

// TrapError is the single observable consequence of a guest access
// violation: it is never propagated as a host-level error. The
// scheduler catches it, kills the offending bot, and attaches Error()
// verbatim as the death reason.
type TrapError struct {
	Kind string // e.g. "null-pointer", "out-of-bounds", "unaligned mmio"
	Op   string // "load" or "store"
	Addr uint32
	Size int
}

func (t *TrapError) Error() string {
	return fmt.Sprintf("%s %s on 0x%08x+%d", t.Kind, t.Op, t.Addr, t.Size)
}

func trap(kind, op string, addr uint32, size int) *TrapError {
	return &TrapError{Kind: kind, Op: op, Addr: addr, Size: size}
}

// loadSized is the RAM-only typed path used for instruction fetch: guest
// code always lives in RAM, so an attempt to fetch from the MMIO window
// or below RAMBase is just another out-of-bounds/null-pointer trap. Only
// sizes 1, 2, and 4 are legal.
func (c *CPU) loadSized(addr uint32, size int, op string) (uint32, *TrapError) {
	if addr >= abi.RAMBase && addr < abi.MMIOBase {
		off := addr - abi.RAMBase
		if uint64(off)+uint64(size) > uint64(len(c.ram)) {
			return 0, trap("out-of-bounds", op, addr, size)
		}
		return readLE(c.ram, off, size), nil
	}
	if addr == 0 {
		return 0, trap("null-pointer", op, addr, size)
	}
	return 0, trap("out-of-bounds", op, addr, size)
}

func (c *CPU) storeSizedRAM(addr uint32, size int, value uint32, op string) *TrapError {
	if addr >= abi.RAMBase && addr < abi.MMIOBase {
		off := addr - abi.RAMBase
		if uint64(off)+uint64(size) > uint64(len(c.ram)) {
			return trap("out-of-bounds", op, addr, size)
		}
		writeLE(c.ram, off, size, value)
		return nil
	}
	if addr == 0 {
		return trap("null-pointer", op, addr, size)
	}
	return trap("out-of-bounds", op, addr, size)
}

func readLE(buf []byte, off uint32, size int) uint32 {
	switch size {
	case 1:
		return uint32(buf[off])
	case 2:
		return uint32(buf[off]) | uint32(buf[off+1])<<8
	default:
		return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	}
}

func writeLE(buf []byte, off uint32, size int, v uint32) {
	switch size {
	case 1:
		buf[off] = byte(v)
	case 2:
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
	default:
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
}

// loadMem is the full load path, including MMIO delegation, used by
// execute() for guest LW/LH/LB/LBU/LHU instructions.
func (c *CPU) loadMem(bus mmio.Bus, addr uint32, size int, signExtend bool) (uint32, *TrapError) {
	if addr >= abi.MMIOBase {
		off := addr - abi.MMIOBase
		if size != 4 {
			return 0, trap("missized mmio", "load", addr, size)
		}
		if off%4 != 0 {
			return 0, trap("unaligned mmio", "load", addr, size)
		}
		v, err := bus.Load(off)
		if err != nil {
			return 0, trap("out-of-bounds", "load", addr, size)
		}
		return v, nil
	}
	v, trapErr := c.loadSized(addr, size, "load")
	if trapErr != nil {
		return 0, trapErr
	}
	if signExtend {
		v = signExtendTo32(v, size)
	}
	return v, nil
}

// storeMem is the full store path, including MMIO delegation.
func (c *CPU) storeMem(bus mmio.Bus, addr uint32, size int, value uint32) *TrapError {
	if addr >= abi.MMIOBase {
		off := addr - abi.MMIOBase
		if size != 4 {
			return trap("missized mmio", "store", addr, size)
		}
		if off%4 != 0 {
			return trap("unaligned mmio", "store", addr, size)
		}
		if err := bus.Store(off, value); err != nil {
			return trap("out-of-bounds", "store", addr, size)
		}
		return nil
	}
	return c.storeSizedRAM(addr, size, value, "store")
}

func signExtendTo32(v uint32, size int) uint32 {
	switch size {
	case 1:
		if v&0x80 != 0 {
			return v | 0xFFFFFF00
		}
		return v
	case 2:
		if v&0x8000 != 0 {
			return v | 0xFFFF0000
		}
		return v
	default:
		return v
	}
}
