package gen

import (
	"testing"

	"github.com/OCharnyshevich/voxelstream/internal/world/biome"
	"github.com/OCharnyshevich/voxelstream/internal/world/block"
	"github.com/OCharnyshevich/voxelstream/internal/world/chunk"
)

func newTestTerrain(t *testing.T, seed int64, table *biome.Table) *Terrain {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = seed
	g, err := NewTerrain(opts, table)
	if err != nil {
		t.Fatalf("NewTerrain: %v", err)
	}
	return g
}

// countBlocks returns how many cells of c hold bt.
func countBlocks(c *chunk.Chunk, bt block.Type) int {
	n := 0
	forEachCell(c.Dims, func(x, y, z int) {
		if c.Block(x, y, z) == bt {
			n++
		}
	})
	return n
}

func sameBlocks(a, b *chunk.Chunk) bool {
	if a.Origin != b.Origin || a.Dims != b.Dims {
		return false
	}
	same := true
	forEachCell(a.Dims, func(x, y, z int) {
		if a.Block(x, y, z) != b.Block(x, y, z) {
			same = false
		}
	})
	return same
}

func forEachCell(d chunk.Dims, fn func(x, y, z int)) {
	for z := 0; z < d.Width; z++ {
		for y := 0; y < d.Height; y++ {
			for x := 0; x < d.Width; x++ {
				fn(x, y, z)
			}
		}
	}
}

func TestTerrainDeterministic(t *testing.T) {
	g1 := newTestTerrain(t, 42, nil)
	g2 := newTestTerrain(t, 42, nil)

	for _, coord := range []chunk.Coord{{X: 0, Y: 0, Z: 0}, {X: -16, Y: 0, Z: 32}, {X: 160, Y: 0, Z: -480}} {
		c1 := g1.Generate(coord, nil)
		c2 := g2.Generate(coord, nil)
		if !sameBlocks(c1, c2) {
			t.Errorf("chunk %v differs between identical generators", coord)
		}
	}
}

func TestTerrainDifferentSeeds(t *testing.T) {
	c1 := newTestTerrain(t, 1, nil).Generate(chunk.Coord{}, nil)
	c2 := newTestTerrain(t, 2, nil).Generate(chunk.Coord{}, nil)

	if sameBlocks(c1, c2) {
		t.Error("different seeds produced identical chunks")
	}
}

func TestTerrainHasNoAbsentCells(t *testing.T) {
	c := newTestTerrain(t, 7, nil).Generate(chunk.Coord{X: 32, Z: -64}, nil)
	if n := countBlocks(c, block.Absent); n != 0 {
		t.Errorf("%d cells left absent", n)
	}
	if !c.Dirty() {
		t.Error("generated chunk should be dirty")
	}
}

func TestColumnBlock(t *testing.T) {
	g := newTestTerrain(t, 0, nil)
	b := &biome.Biome{Blocks: biome.Blocks{
		Surface:           block.GrassDirt,
		UnderwaterSurface: block.Sand,
		Filler:            block.Dirt,
		Underground:       block.Stone,
	}}

	tests := []struct {
		y, h int
		want block.Type
	}{
		// Dry column, height 70, water level 64.
		{0, 70, block.Stone},
		{66, 70, block.Stone},
		{67, 70, block.Dirt},
		{68, 70, block.Dirt},
		{69, 70, block.GrassDirt},
		{70, 70, block.Air},
		{200, 70, block.Air},
		// Submerged column, height 60.
		{59, 60, block.Sand},
		{60, 60, block.Water},
		{64, 60, block.Water},
		{65, 60, block.Air},
		// Height exactly at water level uses the underwater surface.
		{63, 64, block.Sand},
		{64, 64, block.Water},
	}
	for _, tt := range tests {
		if got := g.columnBlock(tt.y, tt.h, b); got != tt.want {
			t.Errorf("columnBlock(y=%d, h=%d) = %v, want %v", tt.y, tt.h, got, tt.want)
		}
	}
}

func TestGeneratedColumnsMatchHeight(t *testing.T) {
	g := newTestTerrain(t, 99, nil)
	coord := chunk.Coord{X: -48, Z: 16}
	c := g.Generate(coord, nil)

	for z := 0; z < c.Dims.Width; z++ {
		for x := 0; x < c.Dims.Width; x++ {
			wx, wz := coord.X+x, coord.Z+z
			h := g.HeightAt(wx, wz)
			b := g.BiomeAt(wx, wz)
			if h < 1 || h > c.Dims.Height-1 {
				t.Fatalf("height %d at (%d,%d) out of range", h, wx, wz)
			}
			for y := 0; y < c.Dims.Height; y++ {
				got := c.Block(x, y, z)
				if got == block.TreeTrunk || got == block.TreeLeaves {
					continue
				}
				if want := g.columnBlock(y, h, b); got != want {
					t.Fatalf("block (%d,%d,%d) = %v, want %v (h=%d)", wx, y, wz, got, want, h)
				}
			}
		}
	}
}

type recordingNeighbors struct {
	pending map[chunk.Coord][]PendingWrite
	writes  [][3]int
}

func (r *recordingNeighbors) SetOrDefer(x, y, z int, _ block.Type) {
	r.writes = append(r.writes, [3]int{x, y, z})
}

func (r *recordingNeighbors) TakePending(coord chunk.Coord) []PendingWrite {
	w := r.pending[coord]
	delete(r.pending, coord)
	return w
}

func TestGenerateAppliesPendingWrites(t *testing.T) {
	g := newTestTerrain(t, 5, nil)
	coord := chunk.Coord{X: 16}
	nb := &recordingNeighbors{pending: map[chunk.Coord][]PendingWrite{
		coord: {{X: 3, Y: 250, Z: 4, Type: block.TreeTrunk}},
	}}

	c := g.Generate(coord, nb)
	if got := c.Block(3, 250, 4); got != block.TreeTrunk {
		t.Errorf("pending write not applied: %v", got)
	}
	if len(nb.pending) != 0 {
		t.Error("pending writes not taken")
	}
}

func forestOnly(t *testing.T) *biome.Table {
	t.Helper()
	tbl, err := biome.NewTable([]biome.Biome{{
		Name:       "dense",
		Climate:    biome.Climate{Temperature: 0.5, Humidity: 0.5, Elevation: 0.5},
		Blocks:     biome.Blocks{Surface: block.GrassDirt, UnderwaterSurface: block.Dirt, Filler: block.Dirt, Underground: block.Stone},
		BaseHeight: 100,
		Vegetation: true,
		MaxTrees:   50,
	}})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestTreesSpillIntoNeighbors(t *testing.T) {
	g := newTestTerrain(t, 11, forestOnly(t))
	coord := chunk.Coord{X: 64, Z: 64}
	nb := &recordingNeighbors{}

	c := g.Generate(coord, nb)

	if countBlocks(c, block.TreeTrunk) == 0 {
		t.Fatal("no trunks placed")
	}
	if countBlocks(c, block.TreeLeaves) == 0 {
		t.Fatal("no leaves placed")
	}
	if len(nb.writes) == 0 {
		t.Fatal("no writes left the chunk")
	}
	for _, w := range nb.writes {
		inX := w[0] >= coord.X && w[0] < coord.X+c.Dims.Width
		inZ := w[2] >= coord.Z && w[2] < coord.Z+c.Dims.Width
		if inX && inZ {
			t.Errorf("write %v belongs to the generated chunk", w)
		}
		if w[1] < 0 || w[1] >= c.Dims.Height {
			t.Errorf("write %v outside vertical range", w)
		}
	}
}

func TestTreesWithoutNeighborsStayInChunk(t *testing.T) {
	g := newTestTerrain(t, 11, forestOnly(t))
	c1 := g.Generate(chunk.Coord{X: 64, Z: 64}, nil)
	c2 := g.Generate(chunk.Coord{X: 64, Z: 64}, &recordingNeighbors{})

	if !sameBlocks(c1, c2) {
		t.Error("in-chunk content should not depend on neighbour access")
	}
}

func TestFlat(t *testing.T) {
	g := NewFlat(chunk.DefaultDims)
	c := g.Generate(chunk.Coord{X: -16}, nil)

	want := []block.Type{block.Stone, block.Stone, block.Stone, block.Dirt, block.GrassDirt, block.Air}
	for y, bt := range want {
		if got := c.Block(7, y, 7); got != bt {
			t.Errorf("y=%d: %v, want %v", y, got, bt)
		}
	}
}

func TestMailbox(t *testing.T) {
	m := NewMailbox()
	coord := chunk.Coord{X: 16}

	m.Add(coord, PendingWrite{X: 1, Type: block.TreeLeaves})
	m.Add(coord, PendingWrite{X: 2, Type: block.TreeLeaves})

	if got := m.Take(coord); len(got) != 2 {
		t.Fatalf("Take returned %d writes, want 2", len(got))
	}
	if got := m.Take(coord); len(got) != 0 {
		t.Errorf("second Take returned %d writes, want 0", len(got))
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestChunkRNGDeterministic(t *testing.T) {
	r1 := newChunkRNG(3, -16, 0, 32)
	r2 := newChunkRNG(3, -16, 0, 32)
	for i := 0; i < 100; i++ {
		a, b := r1.nextN(16), r2.nextN(16)
		if a != b {
			t.Fatalf("step %d: %d != %d", i, a, b)
		}
		if a < 0 || a >= 16 {
			t.Fatalf("nextN out of range: %d", a)
		}
	}
}

func TestPlaceLeavesOnlyIntoEmptyCells(t *testing.T) {
	tests := []struct {
		existing, t, want block.Type
	}{
		{block.Absent, block.TreeLeaves, block.TreeLeaves},
		{block.Air, block.TreeLeaves, block.TreeLeaves},
		{block.Stone, block.TreeLeaves, block.Stone},
		{block.Water, block.TreeLeaves, block.Water},
		{block.TreeTrunk, block.TreeLeaves, block.TreeTrunk},
		{block.TreeLeaves, block.TreeTrunk, block.TreeTrunk},
		{block.GrassDirt, block.TreeTrunk, block.TreeTrunk},
	}
	for _, tt := range tests {
		c := chunk.New(chunk.Coord{}, chunk.DefaultDims)
		c.SetBlock(1, 2, 3, tt.existing)
		Place(c, 1, 2, 3, tt.t)
		if got := c.Block(1, 2, 3); got != tt.want {
			t.Errorf("%v over %v = %v, want %v", tt.t, tt.existing, got, tt.want)
		}
	}
}

func TestApplyKeepsTerrainAndTrunks(t *testing.T) {
	c := NewFlat(chunk.DefaultDims).Generate(chunk.Coord{}, nil)
	c.SetBlock(5, 10, 5, block.TreeTrunk)

	Apply(c, []PendingWrite{
		{X: 5, Y: 2, Z: 5, Type: block.TreeLeaves},  // stone
		{X: 5, Y: 10, Z: 5, Type: block.TreeLeaves}, // trunk
		{X: 5, Y: 11, Z: 5, Type: block.TreeLeaves}, // air
		{X: 6, Y: 4, Z: 6, Type: block.TreeTrunk},   // grass
	})

	want := map[[3]int]block.Type{
		{5, 2, 5}:  block.Stone,
		{5, 10, 5}: block.TreeTrunk,
		{5, 11, 5}: block.TreeLeaves,
		{6, 4, 6}:  block.TreeTrunk,
	}
	for p, bt := range want {
		if got := c.Block(p[0], p[1], p[2]); got != bt {
			t.Errorf("Block%v = %v, want %v", p, got, bt)
		}
	}
}

func TestPendingTrunksDoNotChangeOwnTrees(t *testing.T) {
	g := newTestTerrain(t, 11, forestOnly(t))
	coord := chunk.Coord{X: 64, Z: 64}
	w := g.Dims().Width

	// A neighbour's trunk buried in every surface cell.
	var writes []PendingWrite
	for z := 0; z < w; z++ {
		for x := 0; x < w; x++ {
			h := g.HeightAt(coord.X+x, coord.Z+z)
			writes = append(writes, PendingWrite{X: x, Y: h - 1, Z: z, Type: block.TreeTrunk})
		}
	}
	nb := &recordingNeighbors{pending: map[chunk.Coord][]PendingWrite{coord: writes}}

	clean := g.Generate(coord, nil)
	got := g.Generate(coord, nb)

	trunks := 0
	forEachCell(clean.Dims, func(x, y, z int) {
		if clean.Block(x, y, z) != block.TreeTrunk {
			return
		}
		trunks++
		if b := got.Block(x, y, z); b != block.TreeTrunk {
			t.Errorf("trunk at (%d,%d,%d) became %v", x, y, z, b)
		}
	})
	if trunks == 0 {
		t.Fatal("no trunks in the clean chunk")
	}
}
