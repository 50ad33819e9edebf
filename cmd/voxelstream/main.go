package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelstream/internal/assets"
	"github.com/OCharnyshevich/voxelstream/internal/config"
	"github.com/OCharnyshevich/voxelstream/internal/stream"
	"github.com/OCharnyshevich/voxelstream/internal/world"
	"github.com/OCharnyshevich/voxelstream/internal/world/biome"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
	"github.com/OCharnyshevich/voxelstream/internal/world/gen"
	"github.com/OCharnyshevich/voxelstream/internal/world/mesh"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		configPath    = flag.String("config", "", "path to YAML config file")
		dotenvPath    = flag.String("dotenv", ".env", "path to .env file")
		frames        = flag.Int("frames", 600, "frames to simulate (0 = until interrupted)")
		frameInterval = flag.Duration("frame-interval", 16*time.Millisecond, "time between frames")
		speed         = flag.Float64("speed", 0.5, "observer speed in blocks per frame")
	)

	flag.IntVar(&cfg.ChunkWidth, "chunk-width", cfg.ChunkWidth, "chunk width in blocks")
	flag.IntVar(&cfg.ChunkHeight, "chunk-height", cfg.ChunkHeight, "chunk height in blocks")
	flag.IntVar(&cfg.WaterLevel, "water-level", cfg.WaterLevel, "water level")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.NoiseBackend, "noise", cfg.NoiseBackend, "noise backend: simplex or perlin")
	flag.IntVar(&cfg.Octaves, "octaves", cfg.Octaves, "height-field octaves")
	flag.Float64Var(&cfg.Persistence, "persistence", cfg.Persistence, "default octave persistence")
	flag.Float64Var(&cfg.Lacunarity, "lacunarity", cfg.Lacunarity, "default octave lacunarity")
	flag.Float64Var(&cfg.BaseFrequency, "base-frequency", cfg.BaseFrequency, "first octave frequency")
	flag.IntVar(&cfg.RenderDistance, "render-distance", cfg.RenderDistance, "render distance in chunks")
	flag.Float64Var(&cfg.EvictFactor, "evict-factor", cfg.EvictFactor, "eviction radius as a multiple of render distance")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "background mesh workers")
	flag.IntVar(&cfg.MaxUploadsPerFrame, "max-uploads", cfg.MaxUploadsPerFrame, "mesh uploads per frame")
	flag.StringVar(&cfg.AssetSource, "assets", cfg.AssetSource, "asset bundle source (go-getter URL or path)")
	flag.StringVar(&cfg.AssetDir, "asset-dir", cfg.AssetDir, "directory the asset bundle is fetched into")
	flag.StringVar(&cfg.BiomeFile, "biomes", cfg.BiomeFile, "biome table YAML")
	flag.StringVar(&cfg.AtlasFile, "atlas", cfg.AtlasFile, "texture atlas YAML")
	flag.BoolVar(&cfg.AtlasStrict, "atlas-strict", cfg.AtlasStrict, "panic on blocks missing from the atlas")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if err := loadConfig(cfg, *configPath, *dotenvPath, explicit); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(os.Stdout, cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, *frames, *frameInterval, float32(*speed)); err != nil {
		log.Error("voxelstream error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(cfg *config.Config, path, dotenv string, explicit map[string]bool) error {
	if path != "" {
		fromFile, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		config.Merge(cfg, fromFile, explicit)
	}
	if err := config.LoadDotEnv(dotenv); err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg, explicit); err != nil {
		return err
	}
	return cfg.Validate()
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// buildWorld wires the generator, store and streamer from cfg.
func buildWorld(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gen.Terrain, *world.Store, *stream.Streamer, *stream.LoadQueue, error) {
	if cfg.AssetSource != "" {
		b, err := assets.Fetch(ctx, cfg.AssetSource, cfg.AssetDir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if cfg.BiomeFile == "" {
			cfg.BiomeFile = b.BiomeFile
		}
		if cfg.AtlasFile == "" {
			cfg.AtlasFile = b.AtlasFile
		}
		log.Info("asset bundle fetched", "source", cfg.AssetSource, "dir", b.Dir)
	}

	table := biome.Default()
	if cfg.BiomeFile != "" {
		t, err := biome.Load(cfg.BiomeFile)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		table = t
	}

	atlas := mesh.DefaultAtlas()
	if cfg.AtlasFile != "" {
		a, err := mesh.LoadAtlas(cfg.AtlasFile)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		atlas = a
	}
	if cfg.AtlasStrict {
		atlas.Strict = true
	}

	terrain, err := gen.NewTerrain(gen.Options{
		Dims:          chunk.Dims{Width: cfg.ChunkWidth, Height: cfg.ChunkHeight},
		WaterLevel:    cfg.WaterLevel,
		Seed:          cfg.Seed,
		Backend:       cfg.NoiseBackend,
		Octaves:       cfg.Octaves,
		Persistence:   float32(cfg.Persistence),
		Lacunarity:    float32(cfg.Lacunarity),
		BaseFrequency: float32(cfg.BaseFrequency),
	}, table)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("terrain generator: %w", err)
	}

	store := world.NewStore(terrain, log.With("component", "store"))
	loads := stream.NewLoadQueue()
	s := stream.New(store, atlas, loads, stream.NewMeshQueue(), stream.Options{
		Workers:            cfg.Workers,
		RenderDistance:     cfg.RenderDistance,
		EvictFactor:        float32(cfg.EvictFactor),
		MaxUploadsPerFrame: cfg.MaxUploadsPerFrame,
	}, log.With("component", "streamer"))

	return terrain, store, s, loads, nil
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, frames int, interval time.Duration, speed float32) error {
	terrain, store, s, loads, err := buildWorld(ctx, cfg, log)
	if err != nil {
		return err
	}

	if err := s.Start(ctx); err != nil {
		return err
	}
	defer func() {
		loads.Close()
		s.Stop()
	}()

	pos := mgl32.Vec3{0, float32(terrain.HeightAt(0, 0) + 2), 0}
	log.Info("observer spawned",
		"pos", pos,
		"biome", terrain.BiomeAt(0, 0).Name,
		"seed", cfg.Seed,
		"render_distance", cfg.RenderDistance,
	)

	r := newHeadlessRenderer(log.With("component", "renderer"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for frame := 1; frames == 0 || frame <= frames; frame++ {
		select {
		case <-ctx.Done():
			log.Info("interrupted", "frame", frame)
			return nil
		case <-ticker.C:
		}

		pos[0] += speed
		wx, wz := int(pos.X()), int(pos.Z())
		pos[1] = float32(terrain.HeightAt(wx, wz) + 2)

		st := s.Frame(pos, r)
		if st.Evicted > 0 {
			log.Debug("chunks evicted", "count", st.Evicted, "frame", frame)
		}

		if frame%60 == 0 {
			attrs := []any{
				"frame", frame,
				"pos", pos,
				"loaded", store.Len(),
				"queued", loads.Len(),
				"built", s.Built(),
				"objects", r.Objects(),
				"vertices", r.Vertices(),
			}
			if hit, ok := store.Raycast(pos, mgl32.Vec3{0, -1, 0}, 8); ok {
				attrs = append(attrs, "ground", hit.Type.String(), "ground_y", hit.Block[1])
			}
			log.Info("stream status", attrs...)
		}
	}

	log.Info("simulation finished", "loaded", store.Len(), "built", s.Built(), "objects", r.Objects())
	return nil
}
