package generate

import "gone/mir"

// blockSet is a bitset over the block indices of a graph.
type blockSet []uint64

func newBlockSet(n int) blockSet {
	return make(blockSet, (n+63)/64)
}

// has returns whether id is in the set.
func (s blockSet) has(id mir.BlockID) bool {
	return s[id/64]&(1<<(uint(id)%64)) != 0
}

// add adds id to the set.
func (s blockSet) add(id mir.BlockID) {
	s[id/64] |= 1 << (uint(id) % 64)
}
