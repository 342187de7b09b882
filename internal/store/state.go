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

// Package store persists world state to disk: a versioned, self-
// describing document with a migration chain, written atomically.
package store

// CurrentVersion is the document schema version this binary writes and
// reads natively; anything older is migrated forward first.
const CurrentVersion uint16 = 2

// State is the plain, serializable mirror of a world's durable
// contents. It never holds a live *cpu.CPU, *bots.AliveBots, or
// *worldmap.Map directly — only the flat records needed to reconstruct
// them — so the schema evolves independently of in-memory types.
type State struct {
	Version uint16 `cbor:"version"`

	Seed      int64  `cbor:"seed"`
	TickCount uint64 `cbor:"tick_count"`
	Clock     int    `cbor:"clock"`

	Policy PolicyRecord `cbor:"policy"`
	Spawn  *SpawnRecord `cbor:"spawn,omitempty"`

	MapSizeX uint32 `cbor:"map_size_x"`
	MapSizeY uint32 `cbor:"map_size_y"`
	MapTiles []byte `cbor:"map_tiles"` // row-major, 4 bytes/tile: kind + 3 meta bytes

	Alive   []AliveRecord   `cbor:"alive"`
	Queued  []QueuedRecord  `cbor:"queued"`
	Dead    []DeadRecord    `cbor:"dead"`
	Objects []ObjectRecord  `cbor:"objects"`
	Lives   []LifeRecord    `cbor:"lives"`

	NextBotID uint64 `cbor:"next_bot_id"`
}

type PolicyRecord struct {
	MaxAliveBots     int  `cbor:"max_alive_bots"`
	MaxQueuedBots    int  `cbor:"max_queued_bots"`
	AutoRespawn      bool `cbor:"auto_respawn"`
	AllowBreakpoints bool `cbor:"allow_breakpoints"`
}

type SpawnRecord struct {
	X   int32 `cbor:"x"`
	Y   int32 `cbor:"y"`
	Dir uint8 `cbor:"dir"`
}

// AliveRecord captures enough of a bot's CPU state to resume it exactly
// where it left off: full register file, PC, and RAM contents.
type AliveRecord struct {
	ID        uint64     `cbor:"id"`
	X         int32      `cbor:"x"`
	Y         int32      `cbor:"y"`
	Dir       uint8      `cbor:"dir"`
	Oneshot   bool       `cbor:"oneshot"`
	BornTick  uint64     `cbor:"born_tick"`
	PC        uint32     `cbor:"pc"`
	Regs      [32]uint32 `cbor:"regs"`
	RAM       []byte     `cbor:"ram"`
	EntryPC   uint32     `cbor:"entry_pc"`
	TimerSeed uint32     `cbor:"timer_seed"`
	Serial    []uint32   `cbor:"serial"`
}

type QueuedRecord struct {
	ID       uint64 `cbor:"id"`
	HasPos   bool   `cbor:"has_pos"`
	X        int32  `cbor:"x"`
	Y        int32  `cbor:"y"`
	HasDir   bool   `cbor:"has_dir"`
	Dir      uint8  `cbor:"dir"`
	Requeued bool   `cbor:"requeued"`
	Oneshot  bool   `cbor:"oneshot"`
	EntryPC  uint32 `cbor:"entry_pc"`
	RAM      []byte `cbor:"ram"`
}

type DeadRecord struct {
	ID     uint64 `cbor:"id"`
	Reason string `cbor:"reason"`
}

type ObjectRecord struct {
	ID   uint64 `cbor:"id"`
	Kind string `cbor:"kind"`
	X    int32  `cbor:"x"`
	Y    int32  `cbor:"y"`
}

type LifeRecord struct {
	ID            uint64 `cbor:"id"`
	Score         int64  `cbor:"score"`
	Births        int    `cbor:"births"`
	Deaths        int    `cbor:"deaths"`
	ObjectsPicked int    `cbor:"objects_picked"`
}
