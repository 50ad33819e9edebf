package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"water above chunk", func(c *Config) { c.WaterLevel = 300 }},
		{"unknown noise", func(c *Config) { c.NoiseBackend = "value" }},
		{"persistence one", func(c *Config) { c.Persistence = 1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"zero uploads", func(c *Config) { c.MaxUploadsPerFrame = 0 }},
		{"evict inside render range", func(c *Config) { c.EvictFactor = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFileKeepsDefaults(t *testing.T) {
	p := writeFile(t, "world.yaml", "seed: 42\nworkers: 6\nnoise_backend: perlin\n")

	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Seed != 42 || cfg.Workers != 6 || cfg.NoiseBackend != "perlin" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ChunkWidth != 16 || cfg.RenderDistance != 4 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	p := writeFile(t, "bad.yaml", "workers: [1, 2\n")
	if _, err := LoadFile(p); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestMergeRespectsExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 8 // set by flag

	fromFile := DefaultConfig()
	fromFile.Workers = 2
	fromFile.Seed = 7

	Merge(cfg, fromFile, map[string]bool{"workers": true})

	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want flag value 8", cfg.Workers)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want file value 7", cfg.Seed)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("VOXEL_SEED", "-99")
	t.Setenv("VOXEL_WORKERS", "5")
	t.Setenv("VOXEL_LOG_LEVEL", "debug")
	t.Setenv("VOXEL_RENDER_DISTANCE", "9")

	cfg := DefaultConfig()
	cfg.RenderDistance = 2
	if err := ApplyEnv(cfg, map[string]bool{"render-distance": true}); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Seed != -99 || cfg.Workers != 5 || cfg.LogLevel != "debug" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.RenderDistance != 2 {
		t.Errorf("RenderDistance = %d, explicit flag should win", cfg.RenderDistance)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

func TestApplyEnvBadNumber(t *testing.T) {
	t.Setenv("VOXEL_WORKERS", "many")
	if err := ApplyEnv(DefaultConfig(), nil); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	// Register restore of the previous (unset) value, then clear it so the
	// .env file is allowed to set it.
	t.Setenv("VOXEL_MAX_UPLOADS", "")
	os.Unsetenv("VOXEL_MAX_UPLOADS")

	p := writeFile(t, ".env", "VOXEL_MAX_UPLOADS=4\n")
	if err := LoadDotEnv(p, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyEnv(cfg, nil); err != nil {
		t.Fatal(err)
	}
	if cfg.MaxUploadsPerFrame != 4 {
		t.Errorf("MaxUploadsPerFrame = %d, want 4", cfg.MaxUploadsPerFrame)
	}
}
