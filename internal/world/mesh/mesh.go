// Package mesh turns chunk contents into renderable triangle geometry.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
)

// Vertex is one corner of a face quad. Pos is relative to the chunk origin.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	UV     mgl32.Vec2
}

// Mesh is the geometry of one chunk: four vertices and six indices per quad.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Quads returns the number of faces in the mesh.
func (m Mesh) Quads() int { return len(m.Indices) / 6 }

// BlockReader resolves blocks at world coordinates. Used for faces on the
// chunk border.
type BlockReader interface {
	Block(x, y, z int) block.Type
}

// Face order: +X, -X, +Y, -Y, +Z, -Z.
const (
	facePosX = iota
	faceNegX
	facePosY
	faceNegY
	facePosZ
	faceNegZ
)

var directions = [6][3]int{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
}

// faceVertices are the corners of each face of a unit cube centred on the
// block position, wound counter-clockwise seen from outside.
var faceVertices = [6][4]mgl32.Vec3{
	facePosX: {{.5, -.5, -.5}, {.5, .5, -.5}, {.5, .5, .5}, {.5, -.5, .5}},
	faceNegX: {{-.5, -.5, .5}, {-.5, .5, .5}, {-.5, .5, -.5}, {-.5, -.5, -.5}},
	facePosY: {{-.5, .5, .5}, {.5, .5, .5}, {.5, .5, -.5}, {-.5, .5, -.5}},
	faceNegY: {{-.5, -.5, -.5}, {.5, -.5, -.5}, {.5, -.5, .5}, {-.5, -.5, .5}},
	facePosZ: {{-.5, -.5, .5}, {.5, -.5, .5}, {.5, .5, .5}, {-.5, .5, .5}},
	faceNegZ: {{.5, -.5, -.5}, {-.5, -.5, -.5}, {-.5, .5, -.5}, {.5, .5, -.5}},
}

var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// faceVisible reports whether the face between cur and its neighbour is
// drawn. Water hides water but not solid blocks behind it.
func faceVisible(cur, neighbour block.Type) bool {
	switch neighbour {
	case block.Absent, block.Air:
		return true
	case block.Water:
		return cur != block.Water
	}
	return false
}
