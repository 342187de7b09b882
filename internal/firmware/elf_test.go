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

package firmware

import (
	"encoding/binary"
	"testing"

	"github.com/pdxjjb/kartoffels/internal/abi"
)

// buildELF32 assembles a minimal, valid ELF32 LE image with one PT_LOAD
// segment carrying data at vaddr, plus an entry point equal to vaddr.
// class/dataEnc let tests construct deliberately malformed headers.
func buildELF32(class, dataEnc byte, vaddr uint32, data []byte) []byte {
	const ehdrSize = 52
	const phdrSize = 32

	buf := make([]byte, ehdrSize+phdrSize+len(data))
	buf[0], buf[1], buf[2], buf[3] = 0x7f, 'E', 'L', 'F'
	buf[4] = class
	buf[5] = dataEnc
	binary.LittleEndian.PutUint32(buf[24:28], vaddr) // e_entry
	binary.LittleEndian.PutUint32(buf[28:32], ehdrSize) // e_phoff
	binary.LittleEndian.PutUint16(buf[42:44], phdrSize) // e_phentsize
	binary.LittleEndian.PutUint16(buf[44:46], 1)        // e_phnum

	ph := buf[ehdrSize : ehdrSize+phdrSize]
	binary.LittleEndian.PutUint32(ph[0:4], 1) // p_type = PT_LOAD
	binary.LittleEndian.PutUint32(ph[4:8], ehdrSize+phdrSize) // p_offset
	binary.LittleEndian.PutUint32(ph[8:12], vaddr)            // p_vaddr
	binary.LittleEndian.PutUint32(ph[16:20], uint32(len(data))) // p_filesz

	copy(buf[ehdrSize+phdrSize:], data)
	return buf
}

func TestFromELFArchitectureMismatch(t *testing.T) {
	// A 64-bit ELF (class=2) must be rejected before any segment work.
	raw := buildELF32(2, 1, abi.RAMBase, []byte{0x01})
	_, err := FromELF(raw)
	fw, ok := err.(*FwError)
	if !ok || fw.Kind != "MismatchedArchitecture" {
		t.Fatalf("err = %v, want MismatchedArchitecture", err)
	}
}

func TestFromELFEndiannessMismatch(t *testing.T) {
	raw := buildELF32(1, 2, abi.RAMBase, []byte{0x01})
	_, err := FromELF(raw)
	fw, ok := err.(*FwError)
	if !ok || fw.Kind != "MismatchedEndianness" {
		t.Fatalf("err = %v, want MismatchedEndianness", err)
	}
}

func TestFromELFSegmentUnderflow(t *testing.T) {
	raw := buildELF32(1, 1, abi.RAMBase-4, []byte{0x01, 0x02, 0x03, 0x04})
	_, err := FromELF(raw)
	fw, ok := err.(*FwError)
	if !ok || fw.Kind != "SegmentUnderflow" {
		t.Fatalf("err = %v, want SegmentUnderflow", err)
	}
}

func TestFromELFSegmentOverflow(t *testing.T) {
	// A single byte placed exactly at RAMBase+RAMSize overflows RAM by
	// one byte, the spec's §8 scenario 2 boundary case.
	raw := buildELF32(1, 1, abi.RAMBase+abi.RAMSize, []byte{0x2a})
	_, err := FromELF(raw)
	fw, ok := err.(*FwError)
	if !ok || fw.Kind != "SegmentOverflow" {
		t.Fatalf("err = %v, want SegmentOverflow", err)
	}
	if fw.Idx != 0 || fw.Addr != abi.RAMBase+abi.RAMSize {
		t.Fatalf("fw = %+v, want idx 0 addr 0x%08x", fw, abi.RAMBase+abi.RAMSize)
	}
}

func TestFromELFValidSegmentLoadsAndBoots(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	raw := buildELF32(1, 1, abi.RAMBase+16, payload)
	fw, err := FromELF(raw)
	if err != nil {
		t.Fatalf("FromELF: %v", err)
	}
	if fw.EntryPC != abi.RAMBase+16 {
		t.Fatalf("EntryPC = 0x%08x, want 0x%08x", fw.EntryPC, abi.RAMBase+16)
	}

	ram, entry := fw.Boot()
	if entry != fw.EntryPC {
		t.Fatalf("Boot entry = 0x%08x, want 0x%08x", entry, fw.EntryPC)
	}
	if len(ram) != int(abi.RAMSize) {
		t.Fatalf("len(ram) = %d, want %d", len(ram), abi.RAMSize)
	}
	got := ram[16 : 16+len(payload)]
	for i, b := range payload {
		if got[i] != b {
			t.Fatalf("ram[16+%d] = 0x%02x, want 0x%02x", i, got[i], b)
		}
	}
}

func TestFromELFNoSegments(t *testing.T) {
	raw := buildELF32(1, 1, abi.RAMBase, nil)
	// Zero-length PT_LOAD segments are skipped by the loader, so an
	// image carrying only one is equivalent to carrying none.
	binary.LittleEndian.PutUint32(raw[52+16:52+20], 0) // p_filesz = 0
	_, err := FromELF(raw)
	fw, ok := err.(*FwError)
	if !ok || fw.Kind != "NoSegments" {
		t.Fatalf("err = %v, want NoSegments", err)
	}
}
