package mesh

import (
	"fmt"
	"os"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/yamlschema"
)

// Tile addresses one cell of the texture atlas grid.
type Tile struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

// Tiles holds the atlas tile for each face orientation of a block.
type Tiles struct {
	Top    Tile `yaml:"top"`
	Bottom Tile `yaml:"bottom"`
	Side   Tile `yaml:"side"`
}

func uniform(col, row int) Tiles {
	t := Tile{Col: col, Row: row}
	return Tiles{Top: t, Bottom: t, Side: t}
}

// Atlas maps block types to texture tiles. It is read-only once built and
// may be shared between builders.
type Atlas struct {
	TileWidth  float32
	TileHeight float32

	// Fallback is used for block types without an entry unless Strict is set,
	// in which case a missing entry panics.
	Fallback Tiles
	Strict   bool

	tiles map[block.Type]Tiles
}

// NewAtlas creates an atlas with the given tile size in UV units.
func NewAtlas(tileWidth, tileHeight float32, tiles map[block.Type]Tiles) *Atlas {
	m := make(map[block.Type]Tiles, len(tiles))
	for k, v := range tiles {
		m[k] = v
	}
	return &Atlas{TileWidth: tileWidth, TileHeight: tileHeight, tiles: m}
}

// Lookup returns the tiles registered for t.
func (a *Atlas) Lookup(t block.Type) (Tiles, bool) {
	v, ok := a.tiles[t]
	return v, ok
}

// tilesFor resolves t, applying the strict/fallback policy.
func (a *Atlas) tilesFor(t block.Type) Tiles {
	if v, ok := a.tiles[t]; ok {
		return v
	}
	if a.Strict {
		panic(fmt.Sprintf("mesh: no atlas entry for block %v", t))
	}
	return a.Fallback
}

// DefaultAtlas returns the built-in 16×16 atlas layout.
func DefaultAtlas() *Atlas {
	a := NewAtlas(1.0/16, 1.0/16, map[block.Type]Tiles{
		block.Water:      uniform(13, 13),
		block.GrassDirt:  {Top: Tile{0, 1}, Bottom: Tile{2, 1}, Side: Tile{3, 1}},
		block.Dirt:       uniform(2, 1),
		block.Stone:      uniform(1, 1),
		block.Sand:       uniform(2, 2),
		block.Gravel:     uniform(3, 2),
		block.Snow:       {Top: Tile{2, 5}, Bottom: Tile{2, 1}, Side: Tile{4, 5}},
		block.TreeTrunk:  {Top: Tile{5, 2}, Bottom: Tile{5, 2}, Side: Tile{4, 2}},
		block.TreeLeaves: uniform(4, 4),
	})
	a.Fallback = uniform(0, 16)
	return a
}

const atlasSchema = `{
  "type": "object",
  "required": ["tile_width", "tile_height", "blocks"],
  "$defs": {
    "tile": {
      "type": "object",
      "required": ["col", "row"],
      "properties": {
        "col": {"type": "integer", "minimum": 0},
        "row": {"type": "integer", "minimum": 0}
      },
      "additionalProperties": false
    },
    "tiles": {
      "type": "object",
      "required": ["top", "bottom", "side"],
      "properties": {
        "top": {"$ref": "#/$defs/tile"},
        "bottom": {"$ref": "#/$defs/tile"},
        "side": {"$ref": "#/$defs/tile"}
      },
      "additionalProperties": false
    }
  },
  "properties": {
    "tile_width": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
    "tile_height": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
    "strict": {"type": "boolean"},
    "fallback": {"$ref": "#/$defs/tiles"},
    "blocks": {
      "type": "object",
      "additionalProperties": {"$ref": "#/$defs/tiles"}
    }
  },
  "additionalProperties": false
}`

var schema = yamlschema.MustCompile("atlas.schema.json", atlasSchema)

type atlasFile struct {
	TileWidth  float32          `yaml:"tile_width"`
	TileHeight float32          `yaml:"tile_height"`
	Strict     bool             `yaml:"strict"`
	Fallback   Tiles            `yaml:"fallback"`
	Blocks     map[string]Tiles `yaml:"blocks"`
}

// ParseAtlas decodes a YAML atlas description.
func ParseAtlas(raw []byte) (*Atlas, error) {
	var f atlasFile
	if err := schema.Decode(raw, &f); err != nil {
		return nil, fmt.Errorf("atlas: %w", err)
	}

	tiles := make(map[block.Type]Tiles, len(f.Blocks))
	for name, t := range f.Blocks {
		bt, err := block.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("atlas: %w", err)
		}
		tiles[bt] = t
	}

	a := NewAtlas(f.TileWidth, f.TileHeight, tiles)
	a.Strict = f.Strict
	a.Fallback = f.Fallback
	return a, nil
}

// LoadAtlas reads a YAML atlas description from path.
func LoadAtlas(path string) (*Atlas, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read atlas: %w", err)
	}
	return ParseAtlas(raw)
}
