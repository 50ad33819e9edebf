package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
)

// Builder extracts visible faces from a chunk. Its scratch buffers are
// reused between builds, so a Builder must not be shared between goroutines.
type Builder struct {
	atlas    *Atlas
	vertices []Vertex
	indices  []uint32
}

// NewBuilder creates a Builder using atlas for texture coordinates.
func NewBuilder(atlas *Atlas) *Builder {
	return &Builder{atlas: atlas}
}

// Build returns the mesh for c. Faces on the chunk border consult nb at world
// coordinates; a nil nb treats everything outside c as absent.
func (b *Builder) Build(c *chunk.Chunk, nb BlockReader) Mesh {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]

	w, h := c.Dims.Width, c.Dims.Height
	for z := 0; z < w; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cur := c.Block(x, y, z)
				if cur.Empty() {
					continue
				}
				for face, d := range directions {
					n := neighbour(c, nb, x+d[0], y+d[1], z+d[2])
					if !faceVisible(cur, n) {
						continue
					}
					b.addFace(face, x, y, z, b.atlas.tilesFor(cur))
				}
			}
		}
	}

	m := Mesh{
		Vertices: make([]Vertex, len(b.vertices)),
		Indices:  make([]uint32, len(b.indices)),
	}
	copy(m.Vertices, b.vertices)
	copy(m.Indices, b.indices)
	return m
}

func neighbour(c *chunk.Chunk, nb BlockReader, x, y, z int) block.Type {
	if c.Dims.Contains(x, y, z) {
		return c.Block(x, y, z)
	}
	if nb == nil {
		return block.Absent
	}
	return nb.Block(c.Origin.X+x, c.Origin.Y+y, c.Origin.Z+z)
}

func (b *Builder) addFace(face, x, y, z int, tiles Tiles) {
	tile := tiles.Side
	switch face {
	case facePosY:
		tile = tiles.Top
	case faceNegY:
		tile = tiles.Bottom
	}

	tw, th := b.atlas.TileWidth, b.atlas.TileHeight
	base := mgl32.Vec2{float32(tile.Col) * tw, float32(tile.Row) * th}

	var uv [4]mgl32.Vec2
	uv[0] = base
	if face == facePosZ || face == faceNegZ {
		uv[1] = base.Add(mgl32.Vec2{tw, 0})
		uv[2] = base.Add(mgl32.Vec2{tw, -th})
		uv[3] = base.Add(mgl32.Vec2{0, -th})
	} else {
		uv[1] = base.Add(mgl32.Vec2{0, -th})
		uv[2] = base.Add(mgl32.Vec2{tw, -th})
		uv[3] = base.Add(mgl32.Vec2{tw, 0})
	}

	d := directions[face]
	normal := mgl32.Vec3{float32(d[0]), float32(d[1]), float32(d[2])}
	pos := mgl32.Vec3{float32(x), float32(y), float32(z)}

	start := uint32(len(b.vertices))
	for i, corner := range faceVertices[face] {
		b.vertices = append(b.vertices, Vertex{
			Pos:    pos.Add(corner),
			Normal: normal,
			UV:     uv[i],
		})
	}
	for _, idx := range quadIndices {
		b.indices = append(b.indices, start+idx)
	}
}
