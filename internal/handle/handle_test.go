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

package handle

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdxjjb/kartoffels/internal/abi"
	"github.com/pdxjjb/kartoffels/internal/bots"
	"github.com/pdxjjb/kartoffels/internal/direction"
	"github.com/pdxjjb/kartoffels/internal/world"
	"github.com/pdxjjb/kartoffels/internal/worldmap"
)

// minimalELF builds a one-segment ELF32 LE image whose single segment is
// an EBREAK instruction, just enough for CreateBot's firmware.FromELF
// call to accept it.
func minimalELF() []byte {
	const ehdrSize, phdrSize = 52, 32
	data := []byte{0x73, 0x00, 0x10, 0x00} // ebreak
	buf := make([]byte, ehdrSize+phdrSize+len(data))
	buf[0], buf[1], buf[2], buf[3] = 0x7f, 'E', 'L', 'F'
	buf[4], buf[5] = 1, 1
	binary.LittleEndian.PutUint32(buf[24:28], abi.RAMBase)
	binary.LittleEndian.PutUint32(buf[28:32], ehdrSize)
	binary.LittleEndian.PutUint16(buf[42:44], phdrSize)
	binary.LittleEndian.PutUint16(buf[44:46], 1)

	ph := buf[ehdrSize : ehdrSize+phdrSize]
	binary.LittleEndian.PutUint32(ph[0:4], 1)
	binary.LittleEndian.PutUint32(ph[4:8], ehdrSize+phdrSize)
	binary.LittleEndian.PutUint32(ph[8:12], abi.RAMBase)
	binary.LittleEndian.PutUint32(ph[16:20], uint32(len(data)))
	copy(buf[ehdrSize+phdrSize:], data)
	return buf
}

func newRunningWorld(t *testing.T) (Handle, func()) {
	t.Helper()
	m := worldmap.New(worldmap.Size{X: 8, Y: 8})
	m.ForEachMut(func(_ direction.IVec2, _ worldmap.Tile) worldmap.Tile {
		return worldmap.Tile{Kind: worldmap.Floor}
	})

	cfg := world.Config{
		Seed:      1,
		MapSize:   worldmap.Size{X: 8, Y: 8},
		Policy:    world.DefaultPolicy(),
		Clock:     world.Manual,
		Cooldowns: bots.DefaultCooldownPolicy(),
	}
	w := world.New(cfg, zerolog.Nop())
	h := New(w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	return h, func() {
		cancel()
		<-done
	}
}

func TestHandleCreateBotRejectsBadFirmware(t *testing.T) {
	h, stop := newRunningWorld(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := h.CreateBot(ctx, []byte("not an elf"), CreateBotOptions{})
	if err == nil {
		t.Fatal("expected an error for a non-ELF upload")
	}
}

func TestHandleCreateBotAndTick(t *testing.T) {
	h, stop := newRunningWorld(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pos := direction.IVec2{X: 2, Y: 2}
	dir := direction.N
	id, err := h.CreateBot(ctx, minimalELF(), CreateBotOptions{Pos: &pos, Dir: &dir})
	if err != nil {
		t.Fatalf("CreateBot: %v", err)
	}
	if id == 0 {
		t.Fatal("CreateBot returned zero id")
	}

	if err := h.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	p, err := h.GetPolicy(ctx)
	if err != nil {
		t.Fatalf("GetPolicy: %v", err)
	}
	if p != world.DefaultPolicy() {
		t.Fatalf("GetPolicy = %+v, want default", p)
	}
}

func TestHandleSubscribeReceivesSnapshot(t *testing.T) {
	h, stop := newRunningWorld(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	if err := h.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	select {
	case snap := <-ch:
		if snap == nil {
			t.Fatal("received nil snapshot")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a snapshot")
	}
}

func TestHandlePauseResume(t *testing.T) {
	h, stop := newRunningWorld(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := h.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := h.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}
}

func TestHandleShutdown(t *testing.T) {
	h, stop := newRunningWorld(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
