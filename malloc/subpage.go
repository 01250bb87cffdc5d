package malloc

import "github.com/bnclabs/gostore/lib"

// Subpage manages the free/used bit slots of a single page (a buddy-tree
// leaf) that has been carved into fixed-size elements smaller than a
// page. It is not safe for concurrent use; callers reach it only through
// their owning Arena's lock.
type Subpage struct {
	chunk        *Chunk
	memoryMapIdx int
	pageOffset   int
	pageSize     int
	elemSize     int
	maxNumElems  int64
	numAvail     int64
	bitmap       []uint64
	nextAvail    int64

	// pool ring linkage; sentinel node has elemSize == 0.
	prev, next *Subpage
}

const subpageBitsPerWord = 64

// newSubpage carves pageSize/elemSize elements out of the page at
// memoryMapIdx and marks all of them free.
func newSubpage(chunk *Chunk, memoryMapIdx, pageOffset, pageSize, elemSize int) *Subpage {
	sp := &Subpage{
		chunk:        chunk,
		memoryMapIdx: memoryMapIdx,
		pageOffset:   pageOffset,
		pageSize:     pageSize,
		elemSize:     elemSize,
	}
	sp.init(elemSize)
	return sp
}

func newSentinelSubpage() *Subpage {
	sp := &Subpage{elemSize: 0}
	sp.prev, sp.next = sp, sp
	return sp
}

func (sp *Subpage) init(elemSize int) {
	sp.elemSize = elemSize
	sp.maxNumElems = int64(sp.pageSize / elemSize)
	sp.numAvail = sp.maxNumElems
	sp.nextAvail = 0
	nwords := (sp.maxNumElems + subpageBitsPerWord - 1) / subpageBitsPerWord
	if nwords == 0 {
		nwords = 1
	}
	sp.bitmap = make([]uint64, nwords)
}

// Allocate claims one free bit slot and returns its handle, or
// NoHandle if the subpage is exhausted.
func (sp *Subpage) Allocate() Handle {
	if sp.numAvail == 0 {
		return NoHandle
	}
	bitIdx := sp.getNextAvail()
	if bitIdx < 0 {
		return NoHandle
	}
	word := bitIdx / subpageBitsPerWord
	bit := uint(bitIdx % subpageBitsPerWord)
	sp.bitmap[word] |= uint64(1) << bit
	sp.numAvail--
	assertSubpageInvariants(sp)
	return newSubpageHandle(bitIdx, sp.memoryMapIdx)
}

// Free clears bitIdx's bit and reports whether the subpage is now
// completely free (numAvail == maxNumElems), signalling the caller may
// reclaim the underlying page.
func (sp *Subpage) Free(bitIdx int64) bool {
	word := bitIdx / subpageBitsPerWord
	bit := uint(bitIdx % subpageBitsPerWord)
	sp.bitmap[word] &^= uint64(1) << bit
	sp.nextAvail = bitIdx
	sp.numAvail++
	assertSubpageInvariants(sp)
	return sp.numAvail == sp.maxNumElems
}

// getNextAvail returns a free bit index, preferring the cached
// nextAvail hint left behind by the most recent Free call before
// falling back to a linear bitmap scan.
func (sp *Subpage) getNextAvail() int64 {
	if sp.nextAvail >= 0 {
		idx := sp.nextAvail
		sp.nextAvail = -1
		return idx
	}
	return sp.findNextAvail()
}

func (sp *Subpage) findNextAvail() int64 {
	for i, word := range sp.bitmap {
		if word != ^uint64(0) {
			base := int64(i * subpageBitsPerWord)
			return base + findNextAvail0(word, sp.maxNumElems-base)
		}
	}
	return -1
}

// findNextAvail0 scans word for the lowest clear bit among the first
// limit bits, returning -1 if none is clear. Each byte is inverted and
// handed to lib.Bit8.Findfirstset, so a clear bit in word becomes a set
// bit in the complement and the scan resolves in one step per byte.
func findNextAvail0(word uint64, limit int64) int64 {
	for byteIdx := int64(0); byteIdx*8 < limit; byteIdx++ {
		b := lib.Bit8(^byte(word >> uint(byteIdx*8)))
		first := b.Findfirstset()
		if first < 0 {
			continue
		}
		pos := byteIdx*8 + int64(first)
		if pos >= limit {
			return -1
		}
		return pos
	}
	return -1
}
