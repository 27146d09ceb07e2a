package seed

// Hash is the stateless coordinate hash: the same seed, coordinate and salt
// always produce the same value.
func Hash(seed uint64, x, y, z int64, salt uint64) uint64 {
	return Derive(seed^Avalanche(salt+0x9e3779b97f4a7c15), x, y, z)
}

// Stream is a small xorshift generator positioned at a coordinate. It is not
// safe for concurrent use; create one per goroutine.
type Stream struct {
	state uint64
}

// NewStream returns the deterministic stream for (seed, coordinate, salt).
func NewStream(seed uint64, x, y, z int64, salt uint64) *Stream {
	state := Hash(seed, x, y, z, salt)
	if state == 0 {
		state = 0x9e3779b97f4a7c15
	}
	return &Stream{state: state}
}

// Uint64 advances the stream.
func (s *Stream) Uint64() uint64 {
	s.state ^= s.state << 7
	s.state ^= s.state >> 9
	s.state ^= s.state << 8
	return s.state
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Uint64() % uint64(n))
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}
