package gen

import (
	"sync"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
)

// PendingWrite is a block placement aimed at a chunk that did not exist when
// the write was produced. Coordinates are local to the target chunk.
type PendingWrite struct {
	X, Y, Z int
	Type    block.Type
}

// Neighbors is the part of the world a generator can reach outside the chunk
// it is building.
type Neighbors interface {
	// SetOrDefer places t at world coordinates on the owning chunk if it is
	// loaded, and queues it as a PendingWrite otherwise. Both paths follow
	// the rules of Place.
	SetOrDefer(x, y, z int, t block.Type)
	// TakePending removes and returns the writes queued for coord.
	TakePending(coord chunk.Coord) []PendingWrite
}

// Mailbox collects pending writes per target chunk. Each write is handed
// out exactly once.
type Mailbox struct {
	mu      sync.Mutex
	pending map[chunk.Coord][]PendingWrite
}

// NewMailbox creates an empty Mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{pending: make(map[chunk.Coord][]PendingWrite)}
}

// Add queues w for the chunk at coord.
func (m *Mailbox) Add(coord chunk.Coord, w PendingWrite) {
	m.mu.Lock()
	m.pending[coord] = append(m.pending[coord], w)
	m.mu.Unlock()
}

// Take removes and returns everything queued for coord.
func (m *Mailbox) Take(coord chunk.Coord) []PendingWrite {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.pending[coord]
	delete(m.pending, coord)
	return w
}

// Len returns the number of chunks with queued writes.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Place writes t at local coordinates of c. Leaves only grow into empty
// cells; every other type overwrites what is there. It reports whether the
// cell changed.
func Place(c *chunk.Chunk, x, y, z int, t block.Type) bool {
	if t == block.TreeLeaves && !c.Block(x, y, z).Empty() {
		return false
	}
	return c.SetBlock(x, y, z, t)
}

// Apply places every pending write into c.
func Apply(c *chunk.Chunk, writes []PendingWrite) {
	for _, w := range writes {
		Place(c, w.X, w.Y, w.Z, w.Type)
	}
}
