// Package assets fetches world asset bundles (biome table and texture atlas
// descriptions) from local paths or remote sources.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
)

// File names looked up inside a bundle.
const (
	BiomeFileName = "biomes.yaml"
	AtlasFileName = "atlas.yaml"
)

// Bundle is a fetched asset directory. Empty paths mean the bundle does not
// provide that file.
type Bundle struct {
	Dir       string
	BiomeFile string
	AtlasFile string
}

// Fetch downloads src into dst. src is anything go-getter understands: a
// local directory, a git:: URL, an HTTP archive, an S3 or GCS bucket path.
// dst is replaced if it exists.
func Fetch(ctx context.Context, src, dst string) (Bundle, error) {
	if src == "" {
		return Bundle{}, errors.New("asset source is empty")
	}
	if err := os.RemoveAll(dst); err != nil {
		return Bundle{}, fmt.Errorf("clear %s: %w", dst, err)
	}

	pwd, err := os.Getwd()
	if err != nil {
		return Bundle{}, fmt.Errorf("working dir: %w", err)
	}

	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return Bundle{}, fmt.Errorf("fetch %s: %w", src, err)
	}
	return Open(dst)
}

// Open inspects an already present bundle directory.
func Open(dir string) (Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Bundle{}, fmt.Errorf("open bundle: %w", err)
	}
	if !info.IsDir() {
		return Bundle{}, fmt.Errorf("open bundle: %s is not a directory", dir)
	}

	b := Bundle{Dir: dir}
	if p := filepath.Join(dir, BiomeFileName); exists(p) {
		b.BiomeFile = p
	}
	if p := filepath.Join(dir, AtlasFileName); exists(p) {
		b.AtlasFile = p
	}
	if b.BiomeFile == "" && b.AtlasFile == "" {
		return Bundle{}, fmt.Errorf("bundle %s has neither %s nor %s", dir, BiomeFileName, AtlasFileName)
	}
	return b, nil
}

func exists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
