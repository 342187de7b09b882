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

// Package firmware parses the 32-bit little-endian ELF images bots upload
// as their compiled RISC-V program. Only the header and PT_LOAD program
// headers are consulted; section tables are ignored entirely, since the
// CPU only ever needs bytes-at-addresses, not symbols.
package firmware

import (
	"encoding/binary"
	"fmt"

	"github.com/pdxjjb/kartoffels/internal/abi"
)

// Segment is a contiguous span of initialized guest RAM, already bounds
// checked against RAMBase/RAMSize at load time.
type Segment struct {
	Offset uint32 // relative to abi.RAMBase
	Data   []byte
}

// Firmware is the immutable result of a successful ELF parse: an entry
// program counter plus the ordered list of RAM segments to copy in before
// the first instruction fetch.
type Firmware struct {
	EntryPC  uint32
	Segments []Segment
}

// FwError is the loader's user-facing error taxonomy. The uploader is told
// exactly what about their image was rejected.
type FwError struct {
	Kind string
	Idx  int
	Addr uint32
	Limit uint32
}

func (e *FwError) Error() string {
	switch e.Kind {
	case "MismatchedArchitecture":
		return "firmware is not a 32-bit ELF"
	case "MismatchedEndianness":
		return "firmware is not little-endian"
	case "NoSegments":
		return "firmware has no PT_LOAD segments"
	case "SegmentUnderflow":
		return fmt.Sprintf("segment %d at 0x%08x underflows RAM base 0x%08x", e.Idx, e.Addr, e.Limit)
	case "SegmentOverflow":
		return fmt.Sprintf("segment %d at 0x%08x overflows RAM limit 0x%08x", e.Idx, e.Addr, e.Limit)
	default:
		return "invalid firmware"
	}
}

const (
	elfMagic0, elfMagic1, elfMagic2, elfMagic3 = 0x7f, 'E', 'L', 'F'

	elfClass32   = 1
	elfDataLSB   = 1
	elfPTLoad    = 1
	ehdrSize     = 52 // ELF32 header size
	phdrSize     = 32 // ELF32 program header entry size
)

// elf32Header mirrors the fixed fields of Elf32_Ehdr we actually consult.
type elf32Header struct {
	class      byte
	data       byte
	entry      uint32
	phoff      uint32
	phentsize  uint16
	phnum      uint16
}

func parseHeader(b []byte) (*elf32Header, error) {
	if len(b) < ehdrSize {
		return nil, &FwError{Kind: "MismatchedArchitecture"}
	}
	if b[0] != elfMagic0 || b[1] != elfMagic1 || b[2] != elfMagic2 || b[3] != elfMagic3 {
		return nil, &FwError{Kind: "MismatchedArchitecture"}
	}
	class := b[4]
	if class != elfClass32 {
		return nil, &FwError{Kind: "MismatchedArchitecture"}
	}
	data := b[5]
	if data != elfDataLSB {
		return nil, &FwError{Kind: "MismatchedEndianness"}
	}

	h := &elf32Header{class: class, data: data}
	h.entry = binary.LittleEndian.Uint32(b[24:28])
	h.phoff = binary.LittleEndian.Uint32(b[28:32])
	h.phentsize = binary.LittleEndian.Uint16(b[42:44])
	h.phnum = binary.LittleEndian.Uint16(b[44:46])
	return h, nil
}

// programHeader mirrors the fields of Elf32_Phdr we consult.
type programHeader struct {
	pType  uint32
	offset uint32
	vaddr  uint32
	filesz uint32
}

func parseProgramHeader(b []byte) programHeader {
	return programHeader{
		pType:  binary.LittleEndian.Uint32(b[0:4]),
		offset: binary.LittleEndian.Uint32(b[4:8]),
		vaddr:  binary.LittleEndian.Uint32(b[8:12]),
		filesz: binary.LittleEndian.Uint32(b[16:20]),
	}
}

// FromELF parses a 32-bit little-endian ELF image into a Firmware value.
// Every PT_LOAD segment's virtual address range must lie entirely within
// [abi.RAMBase, abi.RAMBase+abi.RAMSize); the loader fails fast on the
// first segment that does not.
func FromELF(raw []byte) (*Firmware, error) {
	h, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	fw := &Firmware{EntryPC: h.entry}

	for i := 0; i < int(h.phnum); i++ {
		start := int(h.phoff) + i*int(h.phentsize)
		if h.phentsize < phdrSize || start+phdrSize > len(raw) {
			break
		}
		ph := parseProgramHeader(raw[start : start+phdrSize])
		if ph.pType != elfPTLoad || ph.filesz == 0 {
			continue
		}

		if ph.vaddr < abi.RAMBase {
			return nil, &FwError{Kind: "SegmentUnderflow", Idx: i, Addr: ph.vaddr, Limit: abi.RAMBase}
		}
		offset := ph.vaddr - abi.RAMBase
		limit := abi.RAMBase + abi.RAMSize - 1
		if uint64(offset)+uint64(ph.filesz) > uint64(abi.RAMSize) {
			return nil, &FwError{Kind: "SegmentOverflow", Idx: i, Addr: ph.vaddr, Limit: limit}
		}

		end := int(ph.offset) + int(ph.filesz)
		if end > len(raw) {
			return nil, &FwError{Kind: "SegmentOverflow", Idx: i, Addr: ph.vaddr, Limit: limit}
		}
		data := make([]byte, ph.filesz)
		copy(data, raw[ph.offset:end])
		fw.Segments = append(fw.Segments, Segment{Offset: offset, Data: data})
	}

	if len(fw.Segments) == 0 {
		return nil, &FwError{Kind: "NoSegments"}
	}
	return fw, nil
}

// Boot allocates a zeroed RAM image and copies every segment into place.
// Segment bounds were already validated by FromELF, so this step cannot
// fail.
func (fw *Firmware) Boot() (ram []byte, entryPC uint32) {
	ram = make([]byte, abi.RAMSize)
	for _, seg := range fw.Segments {
		copy(ram[seg.Offset:], seg.Data)
	}
	return ram, fw.EntryPC
}
