package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the world and streaming configuration.
type Config struct {
	ChunkWidth  int `yaml:"chunk_width" validate:"min=1,max=64"`
	ChunkHeight int `yaml:"chunk_height" validate:"min=8,max=1024"`
	WaterLevel  int `yaml:"water_level" validate:"gte=0,ltfield=ChunkHeight"`

	Seed          int64   `yaml:"seed"`
	NoiseBackend  string  `yaml:"noise_backend" validate:"oneof=simplex perlin"`
	Octaves       int     `yaml:"octaves" validate:"min=1,max=16"`
	Persistence   float64 `yaml:"persistence" validate:"gt=0,lt=1"`
	Lacunarity    float64 `yaml:"lacunarity" validate:"gte=1"`
	BaseFrequency float64 `yaml:"base_frequency" validate:"gt=0"`

	RenderDistance     int     `yaml:"render_distance" validate:"min=0,max=32"` // in chunks
	EvictFactor        float64 `yaml:"evict_factor" validate:"gte=1"`
	Workers            int     `yaml:"workers" validate:"min=1,max=64"`
	MaxUploadsPerFrame int     `yaml:"max_uploads_per_frame" validate:"min=1"`

	AssetSource string `yaml:"asset_source"` // go-getter source of an asset bundle
	AssetDir    string `yaml:"asset_dir"`
	BiomeFile   string `yaml:"biome_file"` // empty = built-in table
	AtlasFile   string `yaml:"atlas_file"` // empty = built-in atlas
	AtlasStrict bool   `yaml:"atlas_strict"`

	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkWidth:         16,
		ChunkHeight:        256,
		WaterLevel:         64,
		NoiseBackend:       "simplex",
		Octaves:            8,
		Persistence:        0.5,
		Lacunarity:         2.0,
		BaseFrequency:      0.005,
		RenderDistance:     4,
		EvictFactor:        1.5,
		Workers:            3,
		MaxUploadsPerFrame: 1,
		AssetDir:           "./assets",
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// LoadFile reads a YAML config file. Keys missing from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["chunk-width"] {
		cfg.ChunkWidth = fromFile.ChunkWidth
	}
	if !explicitFlags["chunk-height"] {
		cfg.ChunkHeight = fromFile.ChunkHeight
	}
	if !explicitFlags["water-level"] {
		cfg.WaterLevel = fromFile.WaterLevel
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["noise"] {
		cfg.NoiseBackend = fromFile.NoiseBackend
	}
	if !explicitFlags["octaves"] {
		cfg.Octaves = fromFile.Octaves
	}
	if !explicitFlags["persistence"] {
		cfg.Persistence = fromFile.Persistence
	}
	if !explicitFlags["lacunarity"] {
		cfg.Lacunarity = fromFile.Lacunarity
	}
	if !explicitFlags["base-frequency"] {
		cfg.BaseFrequency = fromFile.BaseFrequency
	}
	if !explicitFlags["render-distance"] {
		cfg.RenderDistance = fromFile.RenderDistance
	}
	if !explicitFlags["evict-factor"] {
		cfg.EvictFactor = fromFile.EvictFactor
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["max-uploads"] {
		cfg.MaxUploadsPerFrame = fromFile.MaxUploadsPerFrame
	}
	if !explicitFlags["assets"] {
		cfg.AssetSource = fromFile.AssetSource
	}
	if !explicitFlags["asset-dir"] {
		cfg.AssetDir = fromFile.AssetDir
	}
	if !explicitFlags["biomes"] {
		cfg.BiomeFile = fromFile.BiomeFile
	}
	if !explicitFlags["atlas"] {
		cfg.AtlasFile = fromFile.AtlasFile
	}
	if !explicitFlags["atlas-strict"] {
		cfg.AtlasStrict = fromFile.AtlasStrict
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
	if !explicitFlags["log-format"] {
		cfg.LogFormat = fromFile.LogFormat
	}
}

// LoadDotEnv loads environment variables from the given .env files, or from
// ./.env when none are given. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from VOXEL_* environment variables. Settings given
// explicitly on the command line are left alone.
func ApplyEnv(cfg *Config, explicitFlags map[string]bool) error {
	var errs []error
	str := func(flagName, key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && !explicitFlags[flagName] {
			*dst = v
		}
	}
	num := func(flagName, key string, dst *int) {
		v, ok := os.LookupEnv(key)
		if !ok || explicitFlags[flagName] {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("VOXEL_SEED"); ok && !explicitFlags["seed"] {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("VOXEL_SEED: %w", err))
		} else {
			cfg.Seed = n
		}
	}
	str("noise", "VOXEL_NOISE", &cfg.NoiseBackend)
	num("render-distance", "VOXEL_RENDER_DISTANCE", &cfg.RenderDistance)
	num("workers", "VOXEL_WORKERS", &cfg.Workers)
	num("max-uploads", "VOXEL_MAX_UPLOADS", &cfg.MaxUploadsPerFrame)
	str("assets", "VOXEL_ASSETS", &cfg.AssetSource)
	str("biomes", "VOXEL_BIOMES", &cfg.BiomeFile)
	str("atlas", "VOXEL_ATLAS", &cfg.AtlasFile)
	str("log-level", "VOXEL_LOG_LEVEL", &cfg.LogLevel)
	str("log-format", "VOXEL_LOG_FORMAT", &cfg.LogFormat)

	return errors.Join(errs...)
}

var validate = validator.New()

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
