package main

import (
	"log/slog"
	"sync"

	"github.com/OCharnyshevich/voxelstream/internal/stream"
)

// headlessRenderer stands in for a GPU renderer: it keeps one object per
// chunk and counts geometry.
type headlessRenderer struct {
	log *slog.Logger

	mu       sync.Mutex
	objects  map[string]int // id -> vertex count
	vertices int
}

func newHeadlessRenderer(log *slog.Logger) *headlessRenderer {
	return &headlessRenderer{
		log:     log,
		objects: make(map[string]int),
	}
}

func (r *headlessRenderer) Upload(id string, m stream.CompletedMesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.objects[id]; ok {
		r.vertices -= old
	}
	r.objects[id] = len(m.Vertices)
	r.vertices += len(m.Vertices)

	r.log.Debug("object uploaded", "id", id, "vertices", len(m.Vertices), "indices", len(m.Indices))
	return nil
}

func (r *headlessRenderer) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.objects[id]; ok {
		r.vertices -= old
		delete(r.objects, id)
		r.log.Debug("object removed", "id", id)
	}
}

func (r *headlessRenderer) Objects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

func (r *headlessRenderer) Vertices() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vertices
}
