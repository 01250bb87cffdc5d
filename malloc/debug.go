//go:build debug

package malloc

import "fmt"

import "github.com/bnclabs/gostore/lib"

// assertValidHandle panics if h is NoHandle, names a node outside c's
// tree, or names a subpage slot on a page with no bound Subpage. It does
// not check that the node is currently allocated. Only compiled into
// debug builds; production builds trust callers.
func assertValidHandle(c *Chunk, h Handle) {
	if h == NoHandle {
		panic("malloc: use of NoHandle")
	}
	idx := h.MemoryMapIdx()
	if idx <= 0 || idx >= len(c.memoryMap) {
		panic(fmt.Sprintf("malloc: handle memoryMapIdx %d out of range", idx))
	}
	if h.IsSubpage() {
		pageIdx := c.pageIdxFromMemoryMapIdx(idx)
		if pageIdx < 0 || pageIdx >= len(c.subpages) || c.subpages[pageIdx] == nil {
			panic(fmt.Sprintf("malloc: subpage handle names an unbound page %d", pageIdx))
		}
	}
}

// assertChunkInvariants panics if c's buddy tree bookkeeping has
// drifted from a consistent state (freeBytes outside [0, chunkSize]).
func assertChunkInvariants(c *Chunk) {
	if c.unpooled {
		return
	}
	if c.freeBytes < 0 || c.freeBytes > c.chunkSize {
		panic(fmt.Sprintf("malloc: chunk freeBytes %d outside [0, %d]", c.freeBytes, c.chunkSize))
	}
}

// assertSubpageInvariants panics if sp.numAvail disagrees with the
// number of set bits actually present in sp.bitmap. Each 64-bit word is
// popcounted a 32-bit half at a time via lib.Bit32.Ones.
func assertSubpageInvariants(sp *Subpage) {
	var used int64
	for _, word := range sp.bitmap {
		lo := lib.Bit32(uint32(word))
		hi := lib.Bit32(uint32(word >> 32))
		used += int64(lo.Ones()) + int64(hi.Ones())
	}
	if want := sp.maxNumElems - sp.numAvail; used != want {
		panic(fmt.Sprintf("malloc: subpage bitmap has %d bits set, want %d", used, want))
	}
}
