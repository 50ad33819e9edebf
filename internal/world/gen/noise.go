package gen

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Noise backends accepted by NewNoise.
const (
	BackendSimplex = "simplex"
	BackendPerlin  = "perlin"
)

// Noise is a seeded 2D coherent-noise source. Eval2 returns values in [0,1].
type Noise interface {
	Eval2(x, y float32) float32
}

// NewNoise returns the noise source named by backend. An empty backend
// selects simplex.
func NewNoise(backend string, seed int64) (Noise, error) {
	switch backend {
	case "", BackendSimplex:
		return simplexNoise{n: opensimplex.NewNormalized32(seed)}, nil
	case BackendPerlin:
		return perlinNoise{p: perlin.NewPerlin(2, 2, 3, seed)}, nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
}

type simplexNoise struct {
	n opensimplex.Noise32
}

func (s simplexNoise) Eval2(x, y float32) float32 {
	return clamp(s.n.Eval2(x, y), 0, 1)
}

type perlinNoise struct {
	p *perlin.Perlin
}

// Eval2 remaps Perlin output from roughly [-1,1] into [0,1].
func (p perlinNoise) Eval2(x, y float32) float32 {
	v := float32(p.p.Noise2D(float64(x), float64(y)))*0.5 + 0.5
	return clamp(v, 0, 1)
}

// octaves holds the per-octave rotation used to break up grid alignment
// between layers.
type octaves struct {
	cos, sin []float32
}

const octaveRotation = 0.3 // radians added per octave

func newOctaves(n int) octaves {
	o := octaves{cos: make([]float32, n), sin: make([]float32, n)}
	for i := 0; i < n; i++ {
		a := float64(i) * octaveRotation
		o.cos[i] = float32(math.Cos(a))
		o.sin[i] = float32(math.Sin(a))
	}
	return o
}

// fbm sums the octaves of n at (x, y) and returns a value in [-1,1].
func (o octaves) fbm(n Noise, x, y, freq, persistence, lacunarity float32) float32 {
	var sum, total float32
	amp := float32(1)
	for i := range o.cos {
		rx := x*o.cos[i] - y*o.sin[i]
		ry := x*o.sin[i] + y*o.cos[i]
		sum += (n.Eval2(rx*freq, ry*freq)*2 - 1) * amp
		total += amp
		amp *= persistence
		freq *= lacunarity
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
