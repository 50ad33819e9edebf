package chunk

import (
	"testing"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
)

func TestNewChunkIsAbsentAndDirty(t *testing.T) {
	c := New(Coord{16, 0, -32}, DefaultDims)

	absent := 0
	for _, b := range c.blocks {
		if b == block.Absent {
			absent++
		}
	}
	if absent != DefaultDims.Volume() {
		t.Errorf("absent cells = %d, want %d", absent, DefaultDims.Volume())
	}
	if !c.Dirty() {
		t.Error("new chunk should be dirty")
	}
}

func TestIndexLayout(t *testing.T) {
	c := New(Coord{}, Dims{Width: 4, Height: 8})

	c.SetBlock(1, 2, 3, block.Stone)
	want := 1 + 4*(2+8*3)
	if c.blocks[want] != block.Stone {
		t.Errorf("block not stored at index %d", want)
	}
}

func TestOutOfBounds(t *testing.T) {
	c := New(Coord{}, DefaultDims)
	c.SetDirty(false)

	tests := []struct{ x, y, z int }{
		{-1, 0, 0},
		{16, 0, 0},
		{0, -1, 0},
		{0, 256, 0},
		{0, 0, -1},
		{0, 0, 16},
	}
	for _, tt := range tests {
		if got := c.Block(tt.x, tt.y, tt.z); got != block.Absent {
			t.Errorf("Block(%d,%d,%d) = %v, want absent", tt.x, tt.y, tt.z, got)
		}
		if c.SetBlock(tt.x, tt.y, tt.z, block.Stone) {
			t.Errorf("SetBlock(%d,%d,%d) succeeded out of bounds", tt.x, tt.y, tt.z)
		}
	}
	if c.Dirty() {
		t.Error("failed writes must not mark the chunk dirty")
	}
}

func TestSetBlockMarksDirty(t *testing.T) {
	c := New(Coord{}, DefaultDims)
	c.SetDirty(false)

	if !c.SetBlock(15, 255, 15, block.Sand) {
		t.Fatal("SetBlock at far corner failed")
	}
	if !c.Dirty() {
		t.Error("SetBlock should mark dirty")
	}
	if got := c.Block(15, 255, 15); got != block.Sand {
		t.Errorf("Block = %v, want sand", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := New(Coord{}, DefaultDims)
	c.SetBlock(1, 1, 1, block.Dirt)

	cp := c.Clone()
	c.SetBlock(1, 1, 1, block.Stone)

	if got := cp.Block(1, 1, 1); got != block.Dirt {
		t.Errorf("clone saw later write: %v", got)
	}
	if cp.Origin != c.Origin || cp.Dims != c.Dims {
		t.Errorf("clone placement = %v %v, want %v %v", cp.Origin, cp.Dims, c.Origin, c.Dims)
	}
}
