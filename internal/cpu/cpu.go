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

// Package cpu implements a sandboxed RV32IM interpreter: the piece of
// kartoffels that executes untrusted bot firmware. It never reads the
// wall clock and never retains a
// pointer into the outside world beyond the single mmio.Bus handed to it
// for the duration of one Tick call.
package cpu

import (
	"github.com/pdxjjb/kartoffels/internal/firmware"
	"github.com/pdxjjb/kartoffels/internal/mmio"
)

// InstructionsPerTick is the host-tick quantum: the number of guest
// instructions a single Tick call executes before returning control to
// the scheduler. It is a tuning knob, not part of the ISA contract.
const InstructionsPerTick = 64

// TickOutcome distinguishes why Tick returned control to the scheduler.
type TickOutcome int

const (
	// Ran means the quantum was consumed executing normally.
	Ran TickOutcome = iota
	// Halted means the guest executed EBREAK with a designated halt code.
	Halted
	// Idle means the guest appears to be polling a not-ready peripheral
	// flag in a tight loop; the scheduler need not keep calling Tick as
	// eagerly.
	Idle
)

// CPU is the mutable interpreter state: 32 integer registers (x0 is
// always zero on read, writes to it are dropped), a program counter, and
// an owned contiguous RAM buffer. It never owns peripherals — those are
// reached only through the mmio.Bus passed to Tick.
type CPU struct {
	regs [32]uint32
	pc   uint32
	ram  []byte

	halted   bool
	haltCode uint32
}

// New boots a fresh CPU from firmware: a zeroed RAM image with the
// firmware's segments copied in, the entry PC loaded, and all registers
// cleared.
func New(fw *firmware.Firmware) *CPU {
	ram, entry := fw.Boot()
	return &CPU{
		ram: ram,
		pc:  entry,
	}
}

// PC returns the current program counter, mostly useful for traces and
// tests.
func (c *CPU) PC() uint32 { return c.pc }

// Reg returns general register i (0-31); x0 always reads zero.
func (c *CPU) Reg(i int) uint32 {
	if i == 0 {
		return 0
	}
	return c.regs[i]
}

func (c *CPU) setReg(i int, v uint32) {
	if i == 0 {
		return
	}
	c.regs[i] = v
}

// Halted reports whether the guest executed a halting EBREAK.
func (c *CPU) Halted() bool { return c.halted }

// HaltCode returns the code the guest passed to its halting EBREAK.
func (c *CPU) HaltCode() uint32 { return c.haltCode }

// Tick executes up to InstructionsPerTick guest instructions against the
// given bus, stopping early on trap, halt, or a detected idle-poll. The
// bus is only valid for the duration of this call.
func (c *CPU) Tick(bus mmio.Bus) (TickOutcome, *TrapError) {
	if c.halted {
		return Halted, nil
	}

	seenPC := make(map[uint32]struct{}, InstructionsPerTick)

	for i := 0; i < InstructionsPerTick; i++ {
		if _, revisited := seenPC[c.pc]; revisited {
			// The guest has looped back to an address already executed
			// this quantum: a tight poll on a not-ready peripheral flag.
			// Stop burning the budget on it so the scheduler can move on
			// to other bots instead of spinning the host CPU in lockstep.
			return Idle, nil
		}
		seenPC[c.pc] = struct{}{}

		word, trap := c.fetch()
		if trap != nil {
			return Ran, trap
		}

		inst := decode(word)
		outcome, trap := c.execute(inst, bus)
		if trap != nil {
			return Ran, trap
		}
		if outcome == Halted {
			c.halted = true
			return Halted, nil
		}
	}
	return Ran, nil
}

func (c *CPU) fetch() (uint32, *TrapError) {
	return c.loadSized(c.pc, 4, "load")
}
