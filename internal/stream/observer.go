package stream

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelstream/internal/world"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
)

// Renderer receives finished meshes. Upload creates the object for id or
// replaces it if it already exists.
type Renderer interface {
	Upload(id string, m CompletedMesh) error
	Remove(id string)
}

// ObjectID names the render object of a chunk.
func ObjectID(c chunk.Coord) string {
	return fmt.Sprintf("%d|%d|%d", c.X, c.Y, c.Z)
}

// observerChunk returns the chunk column the observer stands in.
func observerChunk(d chunk.Dims, pos mgl32.Vec3) chunk.Coord {
	x := int(math.Floor(float64(pos.X()) + 0.5))
	z := int(math.Floor(float64(pos.Z()) + 0.5))
	return world.ChunkOf(d, x, 0, z)
}

// Sweep requests every chunk within renderDistance rings of pos, outermost
// ring first. With a LIFO queue this serves the chunks nearest the observer
// first. It returns how many coordinates were newly queued.
func Sweep(q *LoadQueue, d chunk.Dims, pos mgl32.Vec3, renderDistance int) int {
	center := observerChunk(d, pos)
	n := 0
	for r := renderDistance; r >= 0; r-- {
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				c := chunk.Coord{X: center.X + dx*d.Width, Y: center.Y, Z: center.Z + dz*d.Width}
				if q.PushUnique(c) {
					n++
				}
			}
		}
	}
	return n
}

// Evict unloads every chunk whose origin is farther than
// renderDistance*factor chunk widths from pos on the XZ plane, and removes
// its render object.
func Evict(store *world.Store, r Renderer, pos mgl32.Vec3, renderDistance int, factor float32) int {
	limit := float32(renderDistance) * factor * float32(store.Dims().Width)
	limitSq := limit * limit

	l := store.EvictionLock()
	l.Lock()
	defer l.Unlock()

	n := 0
	for _, c := range store.Coords() {
		dx := float32(c.X) - pos.X()
		dz := float32(c.Z) - pos.Z()
		if dx*dx+dz*dz <= limitSq {
			continue
		}
		if store.UnloadChunk(c) {
			r.Remove(ObjectID(c))
			n++
		}
	}
	return n
}

// Drain uploads at most limit completed meshes. Meshes for chunks that were
// evicted since they were built are dropped and do not count.
func Drain(q *MeshQueue, store *world.Store, r Renderer, limit int, log *slog.Logger) int {
	l := store.EvictionLock()
	l.Lock()
	defer l.Unlock()

	uploaded := 0
	for uploaded < limit {
		m, ok := q.TryPop()
		if !ok {
			break
		}
		if !store.HasChunk(m.Coord) {
			continue
		}
		if err := r.Upload(ObjectID(m.Coord), m); err != nil {
			log.Warn("upload mesh", "coord", m.Coord, "error", err)
			continue
		}
		uploaded++
	}
	return uploaded
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
