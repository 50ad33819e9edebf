package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelstream/internal/world"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
	"github.com/OCharnyshevich/voxelstream/internal/world/mesh"
)

// Options configures a Streamer.
type Options struct {
	Workers            int
	RenderDistance     int     // in chunks
	EvictFactor        float32 // eviction radius as a multiple of the render distance
	MaxUploadsPerFrame int
}

// DefaultOptions mirrors the default configuration.
func DefaultOptions() Options {
	return Options{
		Workers:            3,
		RenderDistance:     4,
		EvictFactor:        1.5,
		MaxUploadsPerFrame: 1,
	}
}

// Streamer runs the background workers that load chunks and build their
// meshes, and performs the per-frame bookkeeping around them.
type Streamer struct {
	store  *world.Store
	atlas  *mesh.Atlas
	loads  *LoadQueue
	meshes *MeshQueue
	opts   Options
	log    *slog.Logger

	mu     sync.Mutex
	pool   pond.Pool
	cancel context.CancelFunc

	running atomic.Bool
	built   atomic.Int64
}

// New creates a Streamer. Workers are not started until Start.
func New(store *world.Store, atlas *mesh.Atlas, loads *LoadQueue, meshes *MeshQueue, opts Options, log *slog.Logger) *Streamer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Streamer{
		store:  store,
		atlas:  atlas,
		loads:  loads,
		meshes: meshes,
		opts:   opts,
		log:    log,
	}
}

// Start launches the worker loops. They run until ctx is done or Stop is
// called.
func (s *Streamer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return errors.New("streamer already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.pool = pond.NewPool(s.opts.Workers)
	s.running.Store(true)

	for i := 0; i < s.opts.Workers; i++ {
		i := i
		s.pool.Submit(func() {
			s.loop(ctx, i)
		})
	}

	s.log.Info("streamer started", "workers", s.opts.Workers)
	return nil
}

// Stop signals the workers to exit and waits for in-flight work to finish.
func (s *Streamer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return
	}
	s.running.Store(false)
	s.cancel()
	s.pool.StopAndWait()

	s.log.Info("streamer stopped", "meshes_built", s.built.Load())
}

// Running reports whether the workers are active.
func (s *Streamer) Running() bool { return s.running.Load() }

// Built returns how many meshes the workers have produced.
func (s *Streamer) Built() int64 { return s.built.Load() }

func (s *Streamer) loop(ctx context.Context, id int) {
	log := s.log.With("worker", id)
	builder := mesh.NewBuilder(s.atlas)

	for s.running.Load() {
		coord, ok := s.loads.Pop(ctx)
		if !ok {
			return
		}
		s.process(ctx, log, builder, coord)
	}
}

// process loads coord and, if its contents changed, builds and queues a
// new mesh.
func (s *Streamer) process(ctx context.Context, log *slog.Logger, builder *mesh.Builder, coord chunk.Coord) {
	if err := s.store.LoadChunk(ctx, coord); err != nil {
		if ctx.Err() == nil {
			log.Warn("load chunk", "coord", coord, "error", err)
		}
		return
	}

	l := s.store.MeshLock()
	l.Lock()
	snap, dirty := s.store.TakeDirty(coord)
	var m mesh.Mesh
	if dirty {
		m = builder.Build(snap, s.store)
	}
	l.Unlock()

	if !dirty {
		return
	}
	s.built.Add(1)
	s.meshes.Push(CompletedMesh{Coord: coord, Mesh: m})
	log.Debug("mesh built", "coord", coord, "quads", m.Quads())
}

// FrameStats summarises one call to Frame.
type FrameStats struct {
	Queued   int
	Evicted  int
	Uploaded int
}

// Frame runs the observer-side work for one frame: request chunks around
// pos, evict chunks that fell out of range and upload finished meshes.
func (s *Streamer) Frame(pos mgl32.Vec3, r Renderer) FrameStats {
	return FrameStats{
		Queued:   Sweep(s.loads, s.store.Dims(), pos, s.opts.RenderDistance),
		Evicted:  Evict(s.store, r, pos, s.opts.RenderDistance, s.opts.EvictFactor),
		Uploaded: Drain(s.meshes, s.store, r, s.opts.MaxUploadsPerFrame, s.log),
	}
}
