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

package snapshot

import (
	"sync"

	"golang.org/x/time/rate"
)

// DefaultPublishRate is the spec's real-time publish cap (roughly one
// snapshot every 33ms).
const DefaultPublishRate = 30 // Hz

// Broadcaster fans a Snapshot out to many concurrent subscribers. Each
// subscriber has a buffered, depth-1 channel: a snapshot that arrives
// before the previous one was read simply replaces it, so slow
// consumers see the latest state instead of falling permanently behind
// a backlog.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[chan *Snapshot]struct{}
	limiter     *rate.Limiter
}

// NewBroadcaster returns a broadcaster rate-limited to hz snapshots per
// second. Pass 0 to publish unconditionally (used in Manual mode, which
// publishes every tick).
func NewBroadcaster(hz float64) *Broadcaster {
	b := &Broadcaster{subscribers: make(map[chan *Snapshot]struct{})}
	if hz > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(hz), 1)
	}
	return b
}

// Subscribe registers a new consumer and returns its channel. Call
// Unsubscribe when the consumer goes away.
func (b *Broadcaster) Subscribe() <-chan *Snapshot {
	ch := make(chan *Snapshot, 1)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a consumer's channel.
func (b *Broadcaster) Unsubscribe(ch <-chan *Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.subscribers {
		if c == ch {
			delete(b.subscribers, c)
			close(c)
			return
		}
	}
}

// CloseAll closes and drops every current subscriber, used when a
// world shuts down.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
}

// Allow reports whether the rate limiter permits a publish right now.
// The scheduler calls this once per tick; Manual-clock callers should
// skip it entirely (every tick in Manual mode is a snapshot).
func (b *Broadcaster) Allow() bool {
	if b.limiter == nil {
		return true
	}
	return b.limiter.Allow()
}

// Publish fans snap out to every current subscriber, replacing any
// undelivered prior snapshot in each subscriber's buffer.
func (b *Broadcaster) Publish(snap *Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
