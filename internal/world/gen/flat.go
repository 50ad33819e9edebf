package gen

import (
	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
)

// Flat generates a layered superflat world: Layers[y] is the block at world
// height y, everything above is air.
type Flat struct {
	dims   chunk.Dims
	Layers []block.Type
}

// NewFlat creates a Flat generator with stone at y=0..2, dirt at y=3 and
// grass at y=4.
func NewFlat(dims chunk.Dims) *Flat {
	return &Flat{
		dims:   dims,
		Layers: []block.Type{block.Stone, block.Stone, block.Stone, block.Dirt, block.GrassDirt},
	}
}

func (g *Flat) Dims() chunk.Dims { return g.dims }

func (g *Flat) Generate(coord chunk.Coord, nb Neighbors) *chunk.Chunk {
	c := chunk.New(coord, g.dims)
	for z := 0; z < g.dims.Width; z++ {
		for y := 0; y < g.dims.Height; y++ {
			t := block.Air
			if wy := coord.Y + y; wy >= 0 && wy < len(g.Layers) {
				t = g.Layers[wy]
			}
			for x := 0; x < g.dims.Width; x++ {
				c.SetBlock(x, y, z, t)
			}
		}
	}
	if nb != nil {
		Apply(c, nb.TakePending(coord))
	}
	return c
}
