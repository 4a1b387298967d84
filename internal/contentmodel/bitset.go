package contentmodel

import "math/bits"

type bitset struct {
	words []uint64
}

func newBitset(size int) *bitset {
	return &bitset{words: make([]uint64, (size+63)/64)}
}

func (b *bitset) set(i int) {
	b.words[i/64] |= 1 << (uint(i) % 64)
}

func (b *bitset) has(i int) bool {
	return b.words[i/64]&(1<<(uint(i)%64)) != 0
}

func (b *bitset) or(other *bitset) {
	for i := range other.words {
		b.words[i] |= other.words[i]
	}
}

func (b *bitset) empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b *bitset) intersects(other *bitset) bool {
	for i := range b.words {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

func (b *bitset) clone() *bitset {
	return &bitset{words: append([]uint64(nil), b.words...)}
}

func (b *bitset) forEach(fn func(int)) {
	for i, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			fn(i*64 + tz)
			w &= w - 1
		}
	}
}
