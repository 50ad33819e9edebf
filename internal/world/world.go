// Package world owns the set of loaded chunks and the block-level API over
// them.
package world

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
	"github.com/OCharnyshevich/voxelstream/internal/world/gen"
)

// Store maps chunk coordinates to fully generated chunks.
//
// Two locks are involved. mu guards the map, the cells of published chunks
// and their dirty flags. evictMu is held shared across a mesh build and
// exclusively across eviction, so a chunk is never unloaded while it is being
// meshed. When both are needed evictMu is taken first.
type Store struct {
	dims      chunk.Dims
	generator gen.Generator
	log       *slog.Logger

	mu      sync.RWMutex
	chunks  map[chunk.Coord]*chunk.Chunk
	loading map[chunk.Coord]chan struct{}
	pending *gen.Mailbox

	evictMu sync.RWMutex
}

// NewStore creates an empty Store that fills chunks with generator.
func NewStore(generator gen.Generator, log *slog.Logger) *Store {
	return &Store{
		dims:      generator.Dims(),
		generator: generator,
		log:       log,
		chunks:    make(map[chunk.Coord]*chunk.Chunk),
		loading:   make(map[chunk.Coord]chan struct{}),
		pending:   gen.NewMailbox(),
	}
}

// Dims returns the chunk dimensions used by the store.
func (s *Store) Dims() chunk.Dims { return s.dims }

// EvictionLock returns the exclusive side of the lock that serializes chunk
// removal against mesh builds.
func (s *Store) EvictionLock() sync.Locker { return &s.evictMu }

// MeshLock returns the shared side of the eviction lock. Mesh builds hold it
// so they can run in parallel with each other but not with eviction.
func (s *Store) MeshLock() sync.Locker { return s.evictMu.RLocker() }

// HasChunk reports whether the chunk at coord is loaded.
func (s *Store) HasChunk(coord chunk.Coord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chunks[coord]
	return ok
}

// Len returns the number of loaded chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Coords returns the coordinates of every loaded chunk.
func (s *Store) Coords() []chunk.Coord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]chunk.Coord, 0, len(s.chunks))
	for c := range s.chunks {
		out = append(out, c)
	}
	return out
}

// Block returns the block at world coordinates, or block.Absent if the
// owning chunk is not loaded.
func (s *Store) Block(x, y, z int) block.Type {
	coord := s.WorldToChunk(x, y, z)
	lx, ly, lz := s.WorldToLocal(x, y, z)

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chunks[coord]
	if !ok {
		return block.Absent
	}
	return c.Block(lx, ly, lz)
}

// SetBlock stores t at world coordinates. It returns false if the owning
// chunk is not loaded. On success the chunk is marked dirty, as is any
// loaded neighbour sharing the face the block sits on.
func (s *Store) SetBlock(x, y, z int, t block.Type) bool {
	coord := s.WorldToChunk(x, y, z)
	lx, ly, lz := s.WorldToLocal(x, y, z)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chunks[coord]
	if !ok {
		return false
	}
	c.SetBlock(lx, ly, lz, t)
	s.dirtyBorderNeighbours(coord, lx, ly, lz)
	return true
}

// dirtyBorderNeighbours must be called with mu held.
func (s *Store) dirtyBorderNeighbours(coord chunk.Coord, lx, ly, lz int) {
	w, h := s.dims.Width, s.dims.Height
	mark := func(dx, dy, dz int) {
		n := chunk.Coord{X: coord.X + dx, Y: coord.Y + dy, Z: coord.Z + dz}
		if c, ok := s.chunks[n]; ok {
			c.SetDirty(true)
		}
	}
	switch lx {
	case 0:
		mark(-w, 0, 0)
	case w - 1:
		mark(w, 0, 0)
	}
	switch ly {
	case 0:
		mark(0, -h, 0)
	case h - 1:
		mark(0, h, 0)
	}
	switch lz {
	case 0:
		mark(0, 0, -w)
	case w - 1:
		mark(0, 0, w)
	}
}

// dirtySideNeighbours marks the loaded chunks sharing a vertical face with
// coord, whose border faces were built against an absent chunk. Must be
// called with mu held.
func (s *Store) dirtySideNeighbours(coord chunk.Coord) {
	w := s.dims.Width
	for _, d := range [4][2]int{{-w, 0}, {w, 0}, {0, -w}, {0, w}} {
		n := chunk.Coord{X: coord.X + d[0], Y: coord.Y, Z: coord.Z + d[1]}
		if c, ok := s.chunks[n]; ok {
			c.SetDirty(true)
		}
	}
}

// SetOrDefer places t on the owning chunk if it is loaded and otherwise
// queues it until that chunk is generated. The check and the queueing happen
// under the same lock as publication, so no write is lost in between.
func (s *Store) SetOrDefer(x, y, z int, t block.Type) {
	coord := s.WorldToChunk(x, y, z)
	lx, ly, lz := s.WorldToLocal(x, y, z)

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.chunks[coord]; ok {
		gen.Place(c, lx, ly, lz, t)
		return
	}
	s.pending.Add(coord, gen.PendingWrite{X: lx, Y: ly, Z: lz, Type: t})
}

// TakePending removes and returns the writes queued for coord.
func (s *Store) TakePending(coord chunk.Coord) []gen.PendingWrite {
	return s.pending.Take(coord)
}

// LoadChunk makes sure the chunk at coord is loaded, generating it if needed.
func (s *Store) LoadChunk(ctx context.Context, coord chunk.Coord) error {
	if s.HasChunk(coord) {
		return nil
	}
	return s.GenerateChunk(ctx, coord)
}

// GenerateChunk generates the chunk at coord outside the map lock and then
// publishes it. Concurrent callers for the same coordinate share one
// generation. If the chunk is already loaded it is left untouched.
func (s *Store) GenerateChunk(ctx context.Context, coord chunk.Coord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.chunks[coord]; ok {
		s.mu.Unlock()
		return nil
	}
	if done, ok := s.loading[coord]; ok {
		s.mu.Unlock()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	done := make(chan struct{})
	s.loading[coord] = done
	s.mu.Unlock()

	start := time.Now()
	c := s.generator.Generate(coord, s)

	s.mu.Lock()
	s.chunks[coord] = c
	// Writes queued while this chunk was being generated.
	gen.Apply(c, s.pending.Take(coord))
	c.SetDirty(true)
	s.dirtySideNeighbours(coord)
	delete(s.loading, coord)
	close(done)
	s.mu.Unlock()

	s.log.Debug("chunk generated", "coord", coord, "took", time.Since(start))
	return nil
}

// UnloadChunk removes the chunk at coord. Callers must hold EvictionLock.
// Edits to the chunk are lost; a later load regenerates it from scratch.
func (s *Store) UnloadChunk(coord chunk.Coord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chunks[coord]; !ok {
		return false
	}
	delete(s.chunks, coord)
	return true
}

// TakeDirty returns a copy of the chunk at coord if it is loaded and dirty,
// clearing the flag in the same step. Edits made after the copy mark the
// chunk dirty again.
func (s *Store) TakeDirty(coord chunk.Coord) (*chunk.Chunk, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chunks[coord]
	if !ok || !c.Dirty() {
		return nil, false
	}
	snap := c.Clone()
	c.SetDirty(false)
	return snap, true
}
