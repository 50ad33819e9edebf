package gen

// hash32 mixes 32-bit input into a well-distributed 32-bit output.
func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// hash3 returns a stable hash for integer coordinates plus seed.
func hash3(seed uint32, x, y, z int) uint32 {
	h := seed
	h ^= uint32(int32(x)) * 0x9e3779b1
	h ^= uint32(int32(y)) * 0x85ebca6b
	h ^= uint32(int32(z)) * 0xc2b2ae35
	return hash32(h)
}

// chunkRNG is a small deterministic LCG for per-chunk decisions.
type chunkRNG struct {
	state int64
}

func newChunkRNG(seed int64, x, y, z int) *chunkRNG {
	h := hash3(uint32(seed)^uint32(seed>>32), x, y, z)
	return &chunkRNG{state: int64(h)<<32 | int64(hash32(h))}
}

func (r *chunkRNG) next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// nextN returns a value in [0, n).
func (r *chunkRNG) nextN(n int) int {
	v := int(r.next()>>33) % n
	if v < 0 {
		v = -v
	}
	return v
}
