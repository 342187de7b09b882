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

package worldmap

import (
	"sync"

	"github.com/pdxjjb/kartoffels/internal/direction"
)

// Builder wraps a Map under construction by a theme generator. It is used
// only off the live tick loop: procedural generation runs on its own
// goroutine and the builder periodically publishes a clone of the
// in-progress map so a UI can animate the reveal.
type Builder struct {
	mu      sync.Mutex
	m       *Map
	changes int
	notify  chan *Map // buffered, latest-wins

	// RevealEvery controls how many mutating calls elapse between
	// automatic publishes. Zero disables automatic publishing; the
	// caller must call Notify explicitly.
	RevealEvery int
}

// NewBuilder creates a builder around a freshly allocated map of size.
func NewBuilder(size Size) *Builder {
	return &Builder{
		m:           New(size),
		notify:      make(chan *Map, 1),
		RevealEvery: 64,
	}
}

// Watch returns the channel on which in-progress map clones are published.
// Only one watcher is supported; the channel is buffered to depth one and
// always holds the most recent clone.
func (b *Builder) Watch() <-chan *Map {
	return b.notify
}

func (b *Builder) maybeReveal() {
	b.changes++
	if b.RevealEvery > 0 && b.changes%b.RevealEvery == 0 {
		b.notifyLocked()
	}
}

func (b *Builder) notifyLocked() {
	clone := b.m.Clone()
	select {
	case <-b.notify: // drop stale clone, if any
	default:
	}
	b.notify <- clone
}

// Notify force-publishes the current state regardless of RevealEvery.
func (b *Builder) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifyLocked()
}

// Set writes a tile and may trigger a reveal publish.
func (b *Builder) Set(pos direction.IVec2, tile Tile) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok := b.m.Set(pos, tile)
	b.maybeReveal()
	return ok
}

// Line paints a line and may trigger a reveal publish.
func (b *Builder) Line(p1, p2 direction.IVec2, tile Tile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m.Line(p1, p2, tile)
	b.maybeReveal()
}

// Rect paints a rectangle outline and may trigger a reveal publish.
func (b *Builder) Rect(p1, p2 direction.IVec2, tile Tile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m.Rect(p1, p2, tile)
	b.maybeReveal()
}

// Reveal force-publishes the current state; an alias for Notify kept for
// parity with the generation scripts that call it mid-build.
func (b *Builder) Reveal() {
	b.Notify()
}

// Close publishes a final snapshot and closes the watch channel. Call it
// once generation has finished; no theme's Build calls it, so the
// caller does.
func (b *Builder) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifyLocked()
	close(b.notify)
}

// Finish returns the finished, independent Map. Safe to call once the
// generator goroutine has returned.
func (b *Builder) Finish() *Map {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m.Clone()
}
