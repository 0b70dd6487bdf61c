package cipher

import "math/big"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// mersenne is a 32-bit MT19937 generator seeded the way artifacts were
// originally produced: the seed's magnitude is split into little-endian
// 32-bit words and fed to init_by_array. math/rand/v2 has no MT19937 and
// its seeding differs, so the stream is reproduced here.
type mersenne struct {
	state [mtN]uint32
	index int
}

func newMersenne(seed *big.Int) *mersenne {
	m := &mersenne{}
	m.seedArray(seedWords(seed))
	return m
}

// seedWords splits |seed| into 32-bit words, least significant first.
// Zero yields a single zero word.
func seedWords(seed *big.Int) []uint32 {
	n := new(big.Int).Abs(seed)
	if n.Sign() == 0 {
		return []uint32{0}
	}

	mask := big.NewInt(0xffffffff)
	words := make([]uint32, 0, (n.BitLen()+31)/32)
	word := new(big.Int)
	for n.Sign() > 0 {
		word.And(n, mask)
		words = append(words, uint32(word.Uint64()))
		n.Rsh(n, 32)
	}
	return words
}

func (m *mersenne) seedScalar(s uint32) {
	m.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *mersenne) seedArray(key []uint32) {
	m.seedScalar(19650218)

	i, j := 1, 0
	k := mtN
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
	}
	m.state[0] = 0x80000000
	m.index = mtN
}

func (m *mersenne) twist() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & mtUpperMask) | (m.state[(i+1)%mtN] & mtLowerMask)
		next := m.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		m.state[i] = next
	}
	m.index = 0
}

// Uint32 returns the next tempered output word.
func (m *mersenne) Uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// bits returns k random bits, 0 < k <= 32, taken from the top of one word.
func (m *mersenne) bits(k int) uint32 {
	return m.Uint32() >> (32 - k)
}

// below returns a uniform value in [0, n) by rejection sampling on
// bit_length(n) bits. n must be in (0, 2^32).
func (m *mersenne) below(n int) int {
	k := bitLength(uint32(n))
	r := int(m.bits(k))
	for r >= n {
		r = int(m.bits(k))
	}
	return r
}

func bitLength(n uint32) int {
	l := 0
	for n != 0 {
		l++
		n >>= 1
	}
	return l
}

// shuffle permutes b in place with a descending Fisher-Yates walk.
func (m *mersenne) shuffle(b []byte) {
	for i := len(b) - 1; i > 0; i-- {
		j := m.below(i + 1)
		b[i], b[j] = b[j], b[i]
	}
}
