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

// Restore rebuilds a CPU from exactly-saved state: the register file, the
// program counter, and the RAM contents, as captured by Snapshot. Unlike
// New, it does not re-run firmware loading — the caller already owns a
// RAM image byte-for-byte identical to what was persisted.
func Restore(regs [32]uint32, pc uint32, ram []byte) *CPU {
	c := &CPU{pc: pc, ram: ram}
	c.regs = regs
	return c
}

// Snapshot returns the register file, program counter, and RAM contents
// needed to resume this CPU exactly via Restore. The returned RAM slice is
// the CPU's live backing array; callers that persist it must copy before
// the next Tick call mutates it further.
func (c *CPU) Snapshot() (regs [32]uint32, pc uint32, ram []byte) {
	return c.regs, c.pc, c.ram
}
