package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/voxelstream/internal/assets"
	"github.com/OCharnyshevich/voxelstream/internal/world/biome"
	"github.com/OCharnyshevich/voxelstream/internal/world/mesh"
)

func main() {
	var (
		src = flag.String("src", "", "bundle source, e.g. git::https://example.com/worlds.git//default")
		out = flag.String("o", "./assets", "output dir path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *src == "" {
		log.Error("source required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("start downloading assets", "src", *src, "dst", *out)

	b, err := assets.Fetch(ctx, *src, *out)
	if err != nil {
		log.Error("fetch assets", "error", err)
		os.Exit(1)
	}

	// Check the documents parse before anyone points a world at them.
	if b.BiomeFile != "" {
		t, err := biome.Load(b.BiomeFile)
		if err != nil {
			log.Error("invalid biome table", "file", b.BiomeFile, "error", err)
			os.Exit(1)
		}
		log.Info("biome table ok", "file", b.BiomeFile, "biomes", t.Len())
	}
	if b.AtlasFile != "" {
		if _, err := mesh.LoadAtlas(b.AtlasFile); err != nil {
			log.Error("invalid atlas", "file", b.AtlasFile, "error", err)
			os.Exit(1)
		}
		log.Info("atlas ok", "file", b.AtlasFile)
	}

	log.Info("done downloading assets", "dir", b.Dir)
}
