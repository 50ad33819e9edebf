// Package chunk holds the dense block grid for one fixed-size region of the
// world.
package chunk

import (
	"fmt"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
)

// Coord is the world-space origin of a chunk. X and Z are multiples of the
// chunk width and Y is a multiple of the chunk height.
type Coord struct{ X, Y, Z int }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }

// Dims is the extent of a chunk: Width cells on X and Z, Height cells on Y.
type Dims struct {
	Width  int
	Height int
}

// DefaultDims is the 16×256×16 chunk used unless configured otherwise.
var DefaultDims = Dims{Width: 16, Height: 256}

// Volume returns the number of cells in a chunk.
func (d Dims) Volume() int { return d.Width * d.Width * d.Height }

// Contains reports whether the local coordinate lies inside the chunk.
func (d Dims) Contains(x, y, z int) bool {
	return x >= 0 && x < d.Width && y >= 0 && y < d.Height && z >= 0 && z < d.Width
}

// Chunk is a dense Width×Height×Width grid of block types.
// Index = x + Width*(y + Height*z).
type Chunk struct {
	Origin Coord
	Dims   Dims

	blocks []block.Type
	dirty  bool
}

// New creates a chunk at origin with every cell Absent. New chunks start
// dirty so their first mesh gets built.
func New(origin Coord, dims Dims) *Chunk {
	return &Chunk{
		Origin: origin,
		Dims:   dims,
		blocks: make([]block.Type, dims.Volume()),
		dirty:  true,
	}
}

func (c *Chunk) index(x, y, z int) int {
	return x + c.Dims.Width*(y+c.Dims.Height*z)
}

// Block returns the block at local coordinates, or Absent if they fall
// outside the chunk.
func (c *Chunk) Block(x, y, z int) block.Type {
	if !c.Dims.Contains(x, y, z) {
		return block.Absent
	}
	return c.blocks[c.index(x, y, z)]
}

// SetBlock stores t at local coordinates and marks the chunk dirty. It
// returns false without touching the chunk when the coordinates are out of
// range.
func (c *Chunk) SetBlock(x, y, z int, t block.Type) bool {
	if !c.Dims.Contains(x, y, z) {
		return false
	}
	c.blocks[c.index(x, y, z)] = t
	c.dirty = true
	return true
}

// Dirty reports whether the chunk changed since its last mesh build.
func (c *Chunk) Dirty() bool { return c.dirty }

// SetDirty sets or clears the modified flag.
func (c *Chunk) SetDirty(v bool) { c.dirty = v }

// Clone returns an independent copy of the chunk.
func (c *Chunk) Clone() *Chunk {
	out := &Chunk{
		Origin: c.Origin,
		Dims:   c.Dims,
		blocks: make([]block.Type, len(c.blocks)),
		dirty:  c.dirty,
	}
	copy(out.blocks, c.blocks)
	return out
}
