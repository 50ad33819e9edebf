package gen

import (
	"github.com/OCharnyshevich/voxelstream/internal/world/biome"
	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
)

// plantTrees makes up to b.MaxTrees attempts at random columns of c. Columns
// are judged by the terrain they were filled with, so writes from
// neighbours never change which trees a chunk grows.
func (g *Terrain) plantTrees(c *chunk.Chunk, b *biome.Biome, heights []int, surfaces []block.Type, nb Neighbors) {
	w := c.Dims.Width
	rng := newChunkRNG(g.opts.Seed, c.Origin.X, c.Origin.Y, c.Origin.Z)

	for i := 0; i < b.MaxTrees; i++ {
		x := rng.nextN(w)
		z := rng.nextN(w)
		h := heights[x+z*w]

		if h <= g.opts.WaterLevel {
			continue
		}
		if surfaces[x+z*w] != b.Blocks.Surface {
			continue
		}
		g.placeTree(c, x, h-c.Origin.Y, z, rng, nb)
	}
}

// placeTree grows a square trunk from (x, baseY, z) and a spherical canopy
// centred on the trunk top. Leaves go down first so the trunk overwrites them.
func (g *Terrain) placeTree(c *chunk.Chunk, x, baseY, z int, rng *chunkRNG, nb Neighbors) {
	trunkHeight := 4 + rng.nextN(4) // 4-7
	width := 1 + (trunkHeight-4)/2  // 1-2
	radius := width + 1 + rng.nextN(2)

	topY := baseY + trunkHeight - 1
	half := float32(width-1) / 2
	cx, cy, cz := float32(x)+half, float32(topY), float32(z)+half
	r2 := float32(radius * radius)

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius+width-1; dx++ {
			for dz := -radius; dz <= radius+width-1; dz++ {
				lx, ly, lz := x+dx, topY+dy, z+dz
				fx, fy, fz := float32(lx)-cx, float32(ly)-cy, float32(lz)-cz
				if fx*fx+fy*fy+fz*fz > r2 {
					continue
				}
				g.place(c, lx, ly, lz, block.TreeLeaves, nb)
			}
		}
	}

	for y := baseY; y <= topY; y++ {
		for ox := 0; ox < width; ox++ {
			for oz := 0; oz < width; oz++ {
				g.place(c, x+ox, y, z+oz, block.TreeTrunk, nb)
			}
		}
	}
}

// place writes t at local coordinates of c following the rules of Place.
// Writes that leave the chunk go through nb; those outside the world's
// vertical range are dropped.
func (g *Terrain) place(c *chunk.Chunk, lx, ly, lz int, t block.Type, nb Neighbors) {
	if c.Dims.Contains(lx, ly, lz) {
		Place(c, lx, ly, lz, t)
		return
	}

	wy := c.Origin.Y + ly
	if nb == nil || wy < 0 || wy >= g.opts.Dims.Height {
		return
	}
	nb.SetOrDefer(c.Origin.X+lx, wy, c.Origin.Z+lz, t)
}
