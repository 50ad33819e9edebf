// Package gen produces chunk contents from world position alone.
package gen

import (
	"errors"

	"github.com/OCharnyshevich/voxelstream/internal/world/biome"
	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
)

// Generator fills a chunk deterministically from its coordinate.
// nb may be nil, in which case writes that leave the chunk are dropped.
type Generator interface {
	Generate(coord chunk.Coord, nb Neighbors) *chunk.Chunk
	Dims() chunk.Dims
}

// Options configures the terrain generator.
type Options struct {
	Dims       chunk.Dims
	WaterLevel int
	Seed       int64
	Backend    string // "simplex" or "perlin"

	Octaves       int
	Persistence   float32 // used when a biome leaves it unset
	Lacunarity    float32 // used when a biome leaves it unset
	BaseFrequency float32
}

// DefaultOptions returns the standard terrain settings.
func DefaultOptions() Options {
	return Options{
		Dims:          chunk.DefaultDims,
		WaterLevel:    64,
		Backend:       BackendSimplex,
		Octaves:       8,
		Persistence:   0.5,
		Lacunarity:    2.0,
		BaseFrequency: 0.005,
	}
}

// Terrain is the biome-driven height-field generator.
type Terrain struct {
	opts  Options
	table *biome.Table
	noise Noise
	oct   octaves
}

// NewTerrain creates a Terrain generator. A nil table selects biome.Default.
func NewTerrain(opts Options, table *biome.Table) (*Terrain, error) {
	if opts.Dims.Width <= 0 || opts.Dims.Height <= 0 {
		return nil, errors.New("chunk dimensions must be positive")
	}
	if opts.Octaves <= 0 {
		return nil, errors.New("octaves must be positive")
	}
	if table == nil {
		table = biome.Default()
	}

	n, err := NewNoise(opts.Backend, opts.Seed)
	if err != nil {
		return nil, err
	}

	return &Terrain{
		opts:  opts,
		table: table,
		noise: n,
		oct:   newOctaves(opts.Octaves),
	}, nil
}

func (g *Terrain) Dims() chunk.Dims { return g.opts.Dims }

// Generate builds the chunk at coord. Terrain is filled first, then any
// writes queued for this chunk by neighbours, then trees.
func (g *Terrain) Generate(coord chunk.Coord, nb Neighbors) *chunk.Chunk {
	c := chunk.New(coord, g.opts.Dims)
	w := g.opts.Dims.Width

	heights := make([]int, w*w)
	surfaces := make([]block.Type, w*w)
	var center *biome.Biome
	for z := 0; z < w; z++ {
		for x := 0; x < w; x++ {
			wx, wz := coord.X+x, coord.Z+z

			b := g.table.Nearest(g.ClimateAt(wx, wz))
			h := g.height(wx, wz, b)
			heights[x+z*w] = h
			surfaces[x+z*w] = g.columnBlock(h-1, h, b)

			g.fillColumn(c, x, z, h, b)

			if x == w/2 && z == w/2 {
				center = b
			}
		}
	}

	if nb != nil {
		Apply(c, nb.TakePending(coord))
	}

	if center.Vegetation && center.MaxTrees > 0 {
		g.plantTrees(c, center, heights, surfaces, nb)
	}

	c.SetDirty(true)
	return c
}

// ClimateAt samples the three climate fields at a world column.
func (g *Terrain) ClimateAt(wx, wz int) biome.Climate {
	fx, fz := float32(wx), float32(wz)
	return biome.Climate{
		Temperature: g.noise.Eval2(fx*0.0010+1000, fz*0.0010+1000),
		Humidity:    g.noise.Eval2(fx*0.0013-2000, fz*0.0013+2000),
		Elevation:   g.noise.Eval2(fx*0.0008+3000, fz*0.0008-3000),
	}
}

// BiomeAt returns the biome selected for a world column.
func (g *Terrain) BiomeAt(wx, wz int) *biome.Biome {
	return g.table.Nearest(g.ClimateAt(wx, wz))
}

// HeightAt returns the terrain height of a world column: the first y above
// the surface block.
func (g *Terrain) HeightAt(wx, wz int) int {
	return g.height(wx, wz, g.BiomeAt(wx, wz))
}

func (g *Terrain) height(wx, wz int, b *biome.Biome) int {
	fx, fz := float32(wx), float32(wz)

	persistence := b.Persistence
	if persistence == 0 {
		persistence = g.opts.Persistence
	}
	persistence = clamp(persistence+(g.noise.Eval2(fx*0.003+700, fz*0.003+700)-0.5)*0.2, 0.1, 0.9)

	lacunarity := b.Lacunarity
	if lacunarity == 0 {
		lacunarity = g.opts.Lacunarity
	}

	amplitude := b.Amplitude * (0.5 + g.noise.Eval2(fx*0.002-700, fz*0.002-700))
	base := b.BaseHeight + (g.noise.Eval2(fx*0.0005+1500, fz*0.0005-1500)-0.5)*32

	v := g.oct.fbm(g.noise, fx, fz, g.opts.BaseFrequency, persistence, lacunarity)

	h := int(base + v*amplitude)
	if h < 1 {
		h = 1
	}
	if h > g.opts.Dims.Height-1 {
		h = g.opts.Dims.Height - 1
	}
	return h
}

// fillColumn fills one column top-down for a terrain height h.
func (g *Terrain) fillColumn(c *chunk.Chunk, x, z, h int, b *biome.Biome) {
	for y := c.Dims.Height - 1; y >= 0; y-- {
		c.SetBlock(x, y, z, g.columnBlock(c.Origin.Y+y, h, b))
	}
}

func (g *Terrain) columnBlock(wy, h int, b *biome.Biome) block.Type {
	switch {
	case wy < h-3:
		return b.Blocks.Underground
	case wy < h-1:
		return b.Blocks.Filler
	case wy == h-1:
		if h <= g.opts.WaterLevel {
			return b.Blocks.UnderwaterSurface
		}
		return b.Blocks.Surface
	case wy <= g.opts.WaterLevel:
		return block.Water
	default:
		return block.Air
	}
}
