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

// SerialBufSize bounds the visible circular buffer of code points.
const SerialBufSize = 256

// Double-buffer sentinels a guest writes to the data register instead
// of a code point, so animated output doesn't tear mid-frame.
const (
	serialStartBuffer uint32 = 0xFFFF_FF00
	serialFlush       uint32 = 0xFFFF_FF01
	serialDiscard     uint32 = 0xFFFF_FF02
)

// Serial is a write-mostly peripheral: firmware pushes code points into
// a bounded circular buffer that the world exposes verbatim in
// snapshots and dead-bot logs. The double-buffer sentinels let firmware
// stage a whole frame before it becomes visible.
type Serial struct {
	visible   []uint32
	pending   []uint32
	buffering bool
}

// NewSerial returns an empty serial buffer.
func NewSerial() *Serial {
	return &Serial{visible: make([]uint32, 0, SerialBufSize)}
}

// Load implements mmio.Bus. Offset 0 reports readiness (serial never
// blocks, so it is always 1); there is nothing else for firmware to
// read back.
func (s *Serial) Load(offset uint32) (uint32, error) {
	if offset == 0 {
		return 1, nil
	}
	return 0, ErrBadOffset
}

// Store implements mmio.Bus: offset 0 accepts a code point or a
// double-buffer sentinel.
func (s *Serial) Store(offset uint32, value uint32) error {
	if offset != 0 {
		return ErrBadOffset
	}
	switch value {
	case serialStartBuffer:
		s.buffering = true
		s.pending = s.pending[:0]
	case serialFlush:
		if s.buffering {
			s.appendVisible(s.pending...)
			s.pending = nil
			s.buffering = false
		}
	case serialDiscard:
		s.pending = nil
		s.buffering = false
	default:
		if s.buffering {
			s.pending = append(s.pending, value)
		} else {
			s.appendVisible(value)
		}
	}
	return nil
}

// Tick implements mmio.Device. Serial has no cooldown of its own.
func (s *Serial) Tick() {}

// Visible returns the buffer's current contents, oldest first. The
// returned slice is owned by the caller.
func (s *Serial) Visible() []uint32 {
	out := make([]uint32, len(s.visible))
	copy(out, s.visible)
	return out
}

// RestoreSerial rebuilds a Serial from its persisted visible buffer.
// Pending (unflushed) double-buffer contents are never persisted, so a
// save mid-frame is equivalent to a discard.
func RestoreSerial(visible []uint32) *Serial {
	s := NewSerial()
	s.appendVisible(visible...)
	return s
}

func (s *Serial) appendVisible(values ...uint32) {
	s.visible = append(s.visible, values...)
	if over := len(s.visible) - SerialBufSize; over > 0 {
		s.visible = s.visible[over:]
	}
}
