// Package biome holds the immutable biome table and climate-based selection.
package biome

import (
	"errors"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
)

// Climate is a point in the three-axis climate space. Each axis is in [0,1].
type Climate struct {
	Temperature float32 `yaml:"temperature"`
	Humidity    float32 `yaml:"humidity"`
	Elevation   float32 `yaml:"elevation"`
}

// DistSq returns the squared Euclidean distance between two climate points.
func (c Climate) DistSq(o Climate) float32 {
	dt := c.Temperature - o.Temperature
	dh := c.Humidity - o.Humidity
	de := c.Elevation - o.Elevation
	return dt*dt + dh*dh + de*de
}

// Blocks names the block used for each layer of a column.
type Blocks struct {
	Surface           block.Type `yaml:"surface"`
	UnderwaterSurface block.Type `yaml:"underwater_surface"`
	Filler            block.Type `yaml:"filler"`
	Underground       block.Type `yaml:"underground"`
}

// Biome describes how terrain looks around one representative climate.
type Biome struct {
	Name    string  `yaml:"name"`
	Climate Climate `yaml:"climate"`
	Blocks  Blocks  `yaml:"blocks"`

	BaseHeight  float32 `yaml:"base_height"`
	Amplitude   float32 `yaml:"amplitude"`
	Persistence float32 `yaml:"persistence"` // 0 = generator default
	Lacunarity  float32 `yaml:"lacunarity"`  // 0 = generator default

	Vegetation bool `yaml:"vegetation"`
	MaxTrees   int  `yaml:"max_trees"`
}

// Table is an ordered, read-only set of biomes.
type Table struct {
	biomes []Biome
}

// NewTable copies biomes into a new Table. Order is significant: on equal
// climate distance the earlier biome wins.
func NewTable(biomes []Biome) (*Table, error) {
	if len(biomes) == 0 {
		return nil, errors.New("biome table is empty")
	}
	out := make([]Biome, len(biomes))
	copy(out, biomes)
	return &Table{biomes: out}, nil
}

// Len returns the number of biomes.
func (t *Table) Len() int { return len(t.biomes) }

// At returns the i-th biome.
func (t *Table) At(i int) Biome { return t.biomes[i] }

// Nearest returns the biome whose representative climate is closest to c.
func (t *Table) Nearest(c Climate) *Biome {
	best := 0
	bestDist := t.biomes[0].Climate.DistSq(c)
	for i := 1; i < len(t.biomes); i++ {
		if d := t.biomes[i].Climate.DistSq(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return &t.biomes[best]
}

// Default returns the built-in biome table.
func Default() *Table {
	t, _ := NewTable([]Biome{
		{
			Name:       "ocean",
			Climate:    Climate{Temperature: 0.5, Humidity: 0.5, Elevation: 0.1},
			Blocks:     Blocks{block.Sand, block.Gravel, block.Sand, block.Stone},
			BaseHeight: 44, Amplitude: 10, Persistence: 0.45,
		},
		{
			Name:       "beach",
			Climate:    Climate{Temperature: 0.6, Humidity: 0.4, Elevation: 0.3},
			Blocks:     Blocks{block.Sand, block.Sand, block.Sand, block.Stone},
			BaseHeight: 64, Amplitude: 4,
		},
		{
			Name:       "plains",
			Climate:    Climate{Temperature: 0.5, Humidity: 0.35, Elevation: 0.5},
			Blocks:     Blocks{block.GrassDirt, block.Dirt, block.Dirt, block.Stone},
			BaseHeight: 70, Amplitude: 12,
			Vegetation: true, MaxTrees: 1,
		},
		{
			Name:       "forest",
			Climate:    Climate{Temperature: 0.5, Humidity: 0.7, Elevation: 0.55},
			Blocks:     Blocks{block.GrassDirt, block.Dirt, block.Dirt, block.Stone},
			BaseHeight: 72, Amplitude: 16,
			Vegetation: true, MaxTrees: 6,
		},
		{
			Name:       "desert",
			Climate:    Climate{Temperature: 0.9, Humidity: 0.1, Elevation: 0.5},
			Blocks:     Blocks{block.Sand, block.Sand, block.Sand, block.Stone},
			BaseHeight: 68, Amplitude: 8, Persistence: 0.4,
		},
		{
			Name:       "mountains",
			Climate:    Climate{Temperature: 0.3, Humidity: 0.4, Elevation: 0.9},
			Blocks:     Blocks{block.Stone, block.Gravel, block.Stone, block.Stone},
			BaseHeight: 92, Amplitude: 60, Persistence: 0.55, Lacunarity: 2.1,
		},
		{
			Name:       "tundra",
			Climate:    Climate{Temperature: 0.1, Humidity: 0.4, Elevation: 0.6},
			Blocks:     Blocks{block.Snow, block.Gravel, block.Dirt, block.Stone},
			BaseHeight: 72, Amplitude: 14,
			Vegetation: true, MaxTrees: 2,
		},
	})
	return t
}
