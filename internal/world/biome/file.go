package biome

import (
	"fmt"
	"os"

	"github.com/OCharnyshevich/voxelstream/internal/yamlschema"
)

const tableSchema = `{
  "type": "object",
  "required": ["biomes"],
  "properties": {
    "biomes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "climate", "blocks", "base_height", "amplitude"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "climate": {
            "type": "object",
            "required": ["temperature", "humidity", "elevation"],
            "properties": {
              "temperature": {"type": "number", "minimum": 0, "maximum": 1},
              "humidity": {"type": "number", "minimum": 0, "maximum": 1},
              "elevation": {"type": "number", "minimum": 0, "maximum": 1}
            },
            "additionalProperties": false
          },
          "blocks": {
            "type": "object",
            "required": ["surface", "underwater_surface", "filler", "underground"],
            "properties": {
              "surface": {"type": "string"},
              "underwater_surface": {"type": "string"},
              "filler": {"type": "string"},
              "underground": {"type": "string"}
            },
            "additionalProperties": false
          },
          "base_height": {"type": "number", "minimum": 0},
          "amplitude": {"type": "number", "minimum": 0},
          "persistence": {"type": "number", "minimum": 0, "maximum": 1},
          "lacunarity": {"type": "number", "minimum": 0},
          "vegetation": {"type": "boolean"},
          "max_trees": {"type": "integer", "minimum": 0}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var schema = yamlschema.MustCompile("biomes.schema.json", tableSchema)

type tableFile struct {
	Biomes []Biome `yaml:"biomes"`
}

// Parse decodes a YAML biome table.
func Parse(raw []byte) (*Table, error) {
	var f tableFile
	if err := schema.Decode(raw, &f); err != nil {
		return nil, fmt.Errorf("biome table: %w", err)
	}
	return NewTable(f.Biomes)
}

// Load reads a YAML biome table from path.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read biome table: %w", err)
	}
	return Parse(raw)
}
