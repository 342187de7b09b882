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

package world

// Policy governs the spawn phase and respawn behavior. It is mutable at
// runtime via SetPolicyReq, taking effect starting the next tick's spawn
// phase.
type Policy struct {
	MaxAliveBots     int
	MaxQueuedBots    int
	AutoRespawn      bool
	AllowBreakpoints bool
}

// DefaultPolicy matches a typical single-world deployment: generous
// headroom, auto-respawn on, breakpoints disabled in production.
func DefaultPolicy() Policy {
	return Policy{
		MaxAliveBots:  64,
		MaxQueuedBots: 256,
		AutoRespawn:   true,
	}
}
