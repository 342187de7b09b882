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
	"reflect"
	"testing"
)

func TestSerialDoubleBufferIsTearFree(t *testing.T) {
	s := NewSerial()
	_ = s.Store(0, serialStartBuffer)
	for _, c := range []uint32{'h', 'i'} {
		_ = s.Store(0, c)
	}

	// Nothing should be visible yet: the frame is still buffering.
	if got := s.Visible(); len(got) != 0 {
		t.Fatalf("expected nothing visible mid-buffer, got %v", got)
	}

	_ = s.Store(0, serialFlush)
	want := []uint32{'h', 'i'}
	if got := s.Visible(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestSerialDiscardDropsPendingFrame(t *testing.T) {
	s := NewSerial()
	_ = s.Store(0, 'a')
	_ = s.Store(0, serialStartBuffer)
	_ = s.Store(0, 'b')
	_ = s.Store(0, serialDiscard)
	_ = s.Store(0, serialFlush) // no-op: buffering was cancelled

	want := []uint32{'a'}
	if got := s.Visible(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestSerialUnbufferedWritesAreImmediatelyVisible(t *testing.T) {
	s := NewSerial()
	_ = s.Store(0, 'x')
	_ = s.Store(0, 'y')
	want := []uint32{'x', 'y'}
	if got := s.Visible(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestSerialBufferIsBoundedCircular(t *testing.T) {
	s := NewSerial()
	for i := 0; i < SerialBufSize+10; i++ {
		_ = s.Store(0, uint32(i))
	}
	got := s.Visible()
	if len(got) != SerialBufSize {
		t.Fatalf("want %d codepoints retained, got %d", SerialBufSize, len(got))
	}
	if got[0] != 10 {
		t.Fatalf("want oldest retained codepoint 10, got %d", got[0])
	}
}
