package world

import "github.com/OCharnyshevich/voxelstream/internal/world/chunk"

// WorldToChunk returns the origin of the chunk containing world position
// (x, y, z). Rounding is towards negative infinity on every axis.
func (s *Store) WorldToChunk(x, y, z int) chunk.Coord {
	return ChunkOf(s.dims, x, y, z)
}

// WorldToLocal returns the position of (x, y, z) inside its chunk.
func (s *Store) WorldToLocal(x, y, z int) (lx, ly, lz int) {
	return LocalOf(s.dims, x, y, z)
}

// ChunkOf is WorldToChunk for arbitrary dimensions.
func ChunkOf(d chunk.Dims, x, y, z int) chunk.Coord {
	return chunk.Coord{
		X: floorDiv(x, d.Width) * d.Width,
		Y: floorDiv(y, d.Height) * d.Height,
		Z: floorDiv(z, d.Width) * d.Width,
	}
}

// LocalOf is WorldToLocal for arbitrary dimensions.
func LocalOf(d chunk.Dims, x, y, z int) (lx, ly, lz int) {
	return floorMod(x, d.Width), floorMod(y, d.Height), floorMod(z, d.Width)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
