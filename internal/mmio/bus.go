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

// Package mmio defines the capability interface the CPU uses to reach
// memory-mapped peripherals. The bus itself is a thin, stateless router;
// the scheduler constructs one bound to the current bot's peripherals
// before every CPU tick, per-bot per-tick. It holds no reference to the
// world: a motor or arm write only records an intent, which the
// scheduler applies to shared world state after the tick.
package mmio

// Bus routes aligned 4-byte loads and stores within the MMIO window to
// whichever peripheral owns that offset. offset is relative to
// abi.MMIOBase. A peripheral with nothing mapped at offset returns an
// error, which the CPU turns into an "out-of-bounds" trap.
type Bus interface {
	Load(offset uint32) (uint32, error)
	Store(offset uint32, value uint32) error
}

// Device is implemented by every peripheral pluggable into a Bus. The
// device does not know its own window: the router built per tick binds
// it to a byte offset within the MMIO space via Register.
type Device interface {
	Bus
	// Tick advances cooldowns and commits any pending action. It runs once
	// per bot per host tick, before the CPU executes its quantum.
	Tick()
}

// Router is a closed-set dispatcher over a fixed list of windowed devices,
// used in place of deep dynamic dispatch since peripherals never change at
// runtime. An access outside every registered window, or one that falls in
// a gap, yields ErrUnmapped.
type Router struct {
	windows []routedDevice
}

type routedDevice struct {
	base uint32
	size uint32
	dev  Bus
}

// ErrUnmapped is returned for any offset not covered by a registered
// device window.
var ErrUnmapped = errUnmapped{}

type errUnmapped struct{}

func (errUnmapped) Error() string { return "mmio: unmapped offset" }

// NewRouter builds a Router with no devices registered.
func NewRouter() *Router {
	return &Router{}
}

// Register binds a device to the window [base, base+size).
func (r *Router) Register(base, size uint32, dev Bus) {
	r.windows = append(r.windows, routedDevice{base: base, size: size, dev: dev})
}

func (r *Router) find(offset uint32) (routedDevice, uint32, bool) {
	for _, w := range r.windows {
		if offset >= w.base && offset < w.base+w.size {
			return w, offset - w.base, true
		}
	}
	return routedDevice{}, 0, false
}

func (r *Router) Load(offset uint32) (uint32, error) {
	w, local, ok := r.find(offset)
	if !ok {
		return 0, ErrUnmapped
	}
	return w.dev.Load(local)
}

func (r *Router) Store(offset uint32, value uint32) error {
	w, local, ok := r.find(offset)
	if !ok {
		return ErrUnmapped
	}
	return w.dev.Store(local, value)
}
