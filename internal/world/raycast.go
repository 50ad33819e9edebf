package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelstream/internal/world/block"
)

// rayNudge moves the ray origin slightly forward so a ray starting exactly
// on a block boundary is not attributed to the block behind it.
const rayNudge = 1e-2

// Hit describes the first solid block met by a ray.
type Hit struct {
	Block    [3]int // world position of the block
	Normal   [3]int // face that was entered; zero if the ray started inside
	Type     block.Type
	Distance float32
}

// Raycast walks the voxel grid from origin along dir and returns the first
// solid block within maxDist. Air, Water and unloaded space are passed
// through. Blocks are unit cubes centred on integer positions.
func (s *Store) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	if dir.Len() == 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()
	o := origin.Add(dir.Mul(rayNudge)).Add(mgl32.Vec3{0.5, 0.5, 0.5})

	var (
		cell   [3]int
		step   [3]int
		tMax   [3]float32
		tDelta [3]float32
		normal [3]int
	)
	inf := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		cell[i] = int(math.Floor(float64(o[i])))
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = (float32(cell[i]+1) - o[i]) / dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = (o[i] - float32(cell[i])) / -dir[i]
			tDelta[i] = -1 / dir[i]
		default:
			tMax[i] = inf
			tDelta[i] = inf
		}
	}

	var t float32
	for t <= maxDist {
		if bt := s.Block(cell[0], cell[1], cell[2]); bt.Solid() {
			return Hit{Block: cell, Normal: normal, Type: bt, Distance: t}, true
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}

		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		normal = [3]int{}
		normal[axis] = -step[axis]
	}
	return Hit{}, false
}
