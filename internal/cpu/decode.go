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

// opcode is the base RV32 7-bit opcode field (bits 6-0).
const (
	opLoad    = 0b0000011
	opOpImm   = 0b0010011
	opAUIPC   = 0b0010111
	opStore   = 0b0100011
	opOp      = 0b0110011
	opLUI     = 0b0110111
	opBranch  = 0b1100011
	opJALR    = 0b1100111
	opJAL     = 0b1101111
	opSystem  = 0b1110011
)

// instruction is a decoded RV32 word: every field a later execute() step
// might need, extracted once up front rather than re-masked per use.
type instruction struct {
	raw    uint32
	opcode uint32
	rd     uint8
	rs1    uint8
	rs2    uint8
	funct3 uint32
	funct7 uint32

	immI int32
	immS int32
	immB int32
	immU int32
	immJ int32
}

func decode(w uint32) instruction {
	i := instruction{
		raw:    w,
		opcode: w & 0x7f,
		rd:     uint8((w >> 7) & 0x1f),
		funct3: (w >> 12) & 0x7,
		rs1:    uint8((w >> 15) & 0x1f),
		rs2:    uint8((w >> 20) & 0x1f),
		funct7: (w >> 25) & 0x7f,
	}

	i.immI = signExtend(w>>20, 12)
	i.immS = signExtend(((w>>25)<<5)|((w>>7)&0x1f), 12)

	bimm := ((w >> 31) << 12) | (((w >> 7) & 0x1) << 11) | (((w >> 25) & 0x3f) << 5) | (((w >> 8) & 0xf) << 1)
	i.immB = signExtend(bimm, 13)

	i.immU = int32(w & 0xfffff000)

	jimm := ((w >> 31) << 20) | (((w >> 12) & 0xff) << 12) | (((w >> 20) & 0x1) << 11) | (((w >> 21) & 0x3ff) << 1)
	i.immJ = signExtend(jimm, 21)

	return i
}

// signExtend sign-extends the low `bits` bits of v (already right-aligned)
// to a full 32-bit signed value.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
