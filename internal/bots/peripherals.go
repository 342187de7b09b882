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

import (
	"math/rand"

	"github.com/pdxjjb/kartoffels/internal/abi"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/mmio"
)

// CooldownPolicy fixes the base/percentage spread for every peripheral
// that incurs a cooldown. It is decided once per bot kind at world
// construction time, never per request, per spec.
type CooldownPolicy struct {
	MotorBase, MotorPct int
	ArmBase, ArmPct     int
	RadarBase           map[int]int // by radius
	RadarPct            int
}

// DefaultCooldownPolicy returns a reasonable policy for prefab bots:
// legal radii {3, 5, 7, 9}, longer cooldowns for larger scans.
func DefaultCooldownPolicy() CooldownPolicy {
	return CooldownPolicy{
		MotorBase: 8,
		MotorPct:  20,
		ArmBase:   12,
		ArmPct:    20,
		RadarBase: map[int]int{3: 10, 5: 20, 7: 35, 9: 55},
		RadarPct:  15,
	}
}

// Peripherals bundles every MMIO device a single bot owns. Dir is the
// one shared cell Motor writes and Compass reads. Interrupt and
// Inventory are nil in worlds that disable those optional subsystems.
type Peripherals struct {
	Dir direction.Dir

	Timer     *Timer
	Serial    *Serial
	Motor     *Motor
	Arm       *Arm
	Radar     *Radar
	Compass   *Compass
	Inventory *Inventory
	Interrupt *Interrupt
}

// NewPeripherals builds a bot's full peripheral set. scan is the
// world-supplied radar scan callback; interrupts/inventory are
// included per the policy flags.
func NewPeripherals(rng *rand.Rand, dir direction.Dir, policy CooldownPolicy, scan ScanFunc, withInventory, withInterrupt bool) *Peripherals {
	p := &Peripherals{Dir: dir}
	p.Timer = NewTimer(rng)
	p.Serial = NewSerial()
	p.Motor = NewMotor(&p.Dir, rng, policy.MotorBase, policy.MotorPct)
	p.Arm = NewArm(rng, policy.ArmBase, policy.ArmPct)
	p.Radar = NewRadar(rng, policy.RadarBase, policy.RadarPct, scan)
	p.Compass = NewCompass(&p.Dir)
	if withInventory {
		p.Inventory = NewInventory()
	}
	if withInterrupt {
		p.Interrupt = NewInterrupt()
	}
	return p
}

// Bus builds the per-tick mmio.Router binding this bot's devices into
// the address space the CPU sees. A fresh router is built every tick
// rather than cached, since it is cheap and keeps the CPU from ever
// retaining a pointer past the Tick call that created it.
func (p *Peripherals) Bus() mmio.Bus {
	r := mmio.NewRouter()
	r.Register(abi.TimerOffset, abi.PeripheralWindowSize, p.Timer)
	r.Register(abi.SerialOffset, abi.PeripheralWindowSize, p.Serial)
	r.Register(abi.MotorOffset, abi.PeripheralWindowSize, p.Motor)
	r.Register(abi.ArmOffset, abi.PeripheralWindowSize, p.Arm)
	r.Register(abi.RadarOffset, abi.PeripheralWindowSize, p.Radar)
	r.Register(abi.CompassOffset, abi.PeripheralWindowSize, p.Compass)
	if p.Inventory != nil {
		r.Register(abi.InventoryOffset, abi.PeripheralWindowSize, p.Inventory)
	}
	if p.Interrupt != nil {
		r.Register(abi.InterruptOffset, abi.PeripheralWindowSize, p.Interrupt)
	}
	return r
}

// Tick advances every device's cooldown/commit step, in a fixed order.
// It must run once per bot per host tick, before the CPU quantum, so a
// cooldown set this tick and a scan committed this tick are visible to
// the CPU that runs right after.
func (p *Peripherals) Tick() {
	p.Timer.Tick()
	p.Serial.Tick()
	p.Motor.Tick()
	p.Arm.Tick()
	p.Radar.Tick()
	p.Compass.Tick()
	if p.Inventory != nil {
		p.Inventory.Tick()
	}
	if p.Interrupt != nil {
		p.Interrupt.Tick()
	}
}
