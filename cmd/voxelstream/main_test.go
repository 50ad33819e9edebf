package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCharnyshevich/voxelstream/internal/config"
	"github.com/OCharnyshevich/voxelstream/internal/stream"
	"github.com/OCharnyshevich/voxelstream/internal/world/mesh"
)

func TestLoadConfigFileAndFlags(t *testing.T) {
	p := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(p, []byte("seed: 5\nworkers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Workers = 7
	err := loadConfig(cfg, p, filepath.Join(t.TempDir(), "none.env"), map[string]bool{"workers": true})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Seed != 5 || cfg.Workers != 7 {
		t.Errorf("cfg = seed %d workers %d, want 5 and 7", cfg.Seed, cfg.Workers)
	}
}

func TestHeadlessRenderer(t *testing.T) {
	r := newHeadlessRenderer(slog.New(slog.NewTextHandler(io.Discard, nil)))

	m := stream.CompletedMesh{Mesh: mesh.Mesh{Vertices: make([]mesh.Vertex, 8)}}
	r.Upload("0|0|0", m)
	r.Upload("0|0|0", m)
	r.Upload("16|0|0", m)

	if r.Objects() != 2 || r.Vertices() != 16 {
		t.Errorf("objects %d vertices %d, want 2 and 16", r.Objects(), r.Vertices())
	}

	r.Remove("0|0|0")
	r.Remove("missing")
	if r.Objects() != 1 || r.Vertices() != 8 {
		t.Errorf("after remove: objects %d vertices %d", r.Objects(), r.Vertices())
	}
}

func TestRunShortSimulation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RenderDistance = 1
	cfg.Workers = 2
	cfg.MaxUploadsPerFrame = 4

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, log, 5, time.Millisecond, 1); err != nil {
		t.Fatalf("run: %v", err)
	}
}
