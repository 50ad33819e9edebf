// Package stream moves chunk work between the observer, the background
// workers and the renderer.
package stream

import (
	"context"
	"sync"

	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
	"github.com/OCharnyshevich/voxelstream/internal/world/mesh"
)

// LoadQueue holds chunk coordinates waiting to be loaded and meshed. It is
// last-in first-out: the most recently requested coordinate is served first.
type LoadQueue struct {
	mu     sync.Mutex
	items  []chunk.Coord // top of the stack is the last element
	signal chan struct{}
	done   chan struct{}
	closed bool
}

// NewLoadQueue creates an empty LoadQueue.
func NewLoadQueue() *LoadQueue {
	return &LoadQueue{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push adds coord at the front of the queue.
func (q *LoadQueue) Push(coord chunk.Coord) {
	q.mu.Lock()
	q.items = append(q.items, coord)
	q.mu.Unlock()
	q.notify()
}

// PushUnique adds coord unless it is already queued. It reports whether the
// coordinate was added.
func (q *LoadQueue) PushUnique(coord chunk.Coord) bool {
	q.mu.Lock()
	if q.containsLocked(coord) {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, coord)
	q.mu.Unlock()
	q.notify()
	return true
}

func (q *LoadQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// TryPop removes and returns the front coordinate without blocking.
func (q *LoadQueue) TryPop() (chunk.Coord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *LoadQueue) popLocked() (chunk.Coord, bool) {
	n := len(q.items)
	if n == 0 {
		return chunk.Coord{}, false
	}
	c := q.items[n-1]
	q.items = q.items[:n-1]
	return c, true
}

// Pop blocks until a coordinate is available and returns it. It returns
// false once ctx is done, or once the queue is closed and drained.
func (q *LoadQueue) Pop(ctx context.Context) (chunk.Coord, bool) {
	for {
		q.mu.Lock()
		c, ok := q.popLocked()
		more := len(q.items) > 0
		closed := q.closed
		q.mu.Unlock()

		if ok {
			// Pass the wake-up on so other waiting consumers see the rest.
			if more {
				q.notify()
			}
			return c, true
		}
		if closed {
			return chunk.Coord{}, false
		}

		select {
		case <-ctx.Done():
			return chunk.Coord{}, false
		case <-q.done:
		case <-q.signal:
		}
	}
}

// Close wakes every blocked Pop. Items still queued can be popped; further
// pushes are accepted but nobody is expected to wait for them.
func (q *LoadQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Contains reports whether coord is queued. This is a linear scan.
func (q *LoadQueue) Contains(coord chunk.Coord) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.containsLocked(coord)
}

func (q *LoadQueue) containsLocked(coord chunk.Coord) bool {
	for _, c := range q.items {
		if c == coord {
			return true
		}
	}
	return false
}

// Empty reports whether the queue holds no coordinates.
func (q *LoadQueue) Empty() bool { return q.Len() == 0 }

// Len returns the number of queued coordinates.
func (q *LoadQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// CompletedMesh is a finished mesh waiting to be uploaded.
type CompletedMesh struct {
	Coord chunk.Coord
	mesh.Mesh
}

// MeshQueue is a first-in first-out queue of completed meshes.
type MeshQueue struct {
	mu    sync.Mutex
	items []CompletedMesh
}

// NewMeshQueue creates an empty MeshQueue.
func NewMeshQueue() *MeshQueue {
	return &MeshQueue{}
}

// Push appends m at the back.
func (q *MeshQueue) Push(m CompletedMesh) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()
}

// TryPop removes and returns the oldest mesh without blocking.
func (q *MeshQueue) TryPop() (CompletedMesh, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return CompletedMesh{}, false
	}
	m := q.items[0]
	q.items[0] = CompletedMesh{}
	q.items = q.items[1:]
	return m, true
}

// Len returns the number of queued meshes.
func (q *MeshQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
