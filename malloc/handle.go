package malloc

// Handle is a 64-bit descriptor naming a region inside a chunk: either a
// whole buddy-tree node (a "run") or a single bit-slot inside a subpage
// bound to a leaf node.
//
// Encoding:
//
//	bits 0..31   memoryMapIdx  (buddy-tree node index; 0 is never valid)
//	bits 32..61  bitmapIdx     (subpage bit index, when isSubpageBit set)
//	bit 62       isSubpageBit  (this handle names a subpage slot)
//	bit 63       unused
type Handle int64

// NoHandle is returned by allocation paths that could not satisfy the
// request; it is a value, not an error — callers escalate (try another
// chunk, or create a new one) rather than treat it as a failure.
const NoHandle = Handle(-1)

const subpageBit = int64(1) << 62
const memoryMapMask = int64(0xFFFFFFFF)
const bitmapMask = int64(0x3FFFFFFF)

// newRunHandle names a whole buddy-tree node.
func newRunHandle(memoryMapIdx int) Handle {
	return Handle(int64(memoryMapIdx) & memoryMapMask)
}

// newSubpageHandle names bit bitIdx of the subpage bound to leaf
// memoryMapIdx.
func newSubpageHandle(bitIdx int64, memoryMapIdx int) Handle {
	high := (bitIdx & bitmapMask) << 32
	return Handle(subpageBit | high | (int64(memoryMapIdx) & memoryMapMask))
}

// IsSubpage reports whether this handle names a subpage slot rather
// than a whole buddy-tree node.
func (h Handle) IsSubpage() bool {
	return int64(h)&subpageBit != 0
}

// MemoryMapIdx is the buddy-tree node this handle's region descends
// from (the leaf itself, for a subpage handle).
func (h Handle) MemoryMapIdx() int {
	return int(int64(h) & memoryMapMask)
}

// BitIdx is the subpage bit index; only meaningful when IsSubpage().
func (h Handle) BitIdx() int64 {
	return (int64(h) >> 32) & bitmapMask
}
