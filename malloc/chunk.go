package malloc

import "fmt"

// Chunk is a contiguous byte arena subdivided by a buddy allocator: a
// complete binary tree flattened into memoryMap/depthMap arrays, whose
// leaves are pages that may themselves be carved into subpages by a
// SubpagePool. Not safe for concurrent use; reached only through the
// owning Arena's lock.
type Chunk struct {
	arena     *Arena
	memory    []byte
	pageSize  int
	pageShift uint
	maxOrder  int
	chunkSize int

	// memoryMap[id] holds the depth to which the subtree rooted at id
	// is currently allocated: depthMap[id] means fully free, maxOrder+1
	// means fully allocated, anything in between is the shallowest
	// depth still free somewhere under id.
	memoryMap []int
	depthMap  []int

	// subpages[id], id ranging over leaf indices, is non-nil once that
	// leaf has been carved into fixed-size elements.
	subpages []*Subpage

	freeBytes int
	unpooled  bool
}

// newChunk builds a fully-free buddy tree over a freshly allocated
// byte slice of chunkSize = pageSize << maxOrder.
func newChunk(arena *Arena, pageSize int, maxOrder int) *Chunk {
	chunkSize := pageSize << uint(maxOrder)
	maxSubpageAllocs := 1 << uint(maxOrder)

	c := &Chunk{
		arena:     arena,
		memory:    make([]byte, chunkSize),
		pageSize:  pageSize,
		pageShift: uint(log2Int(pageSize)),
		maxOrder:  maxOrder,
		chunkSize: chunkSize,
		freeBytes: chunkSize,
		subpages:  make([]*Subpage, maxSubpageAllocs),
	}

	size := maxSubpageAllocs << 1
	c.memoryMap = make([]int, size)
	c.depthMap = make([]int, size)

	memoryMapIdx, d := 1, 0
	for memoryMapIdx < size {
		depth := d
		for i := memoryMapIdx; i < memoryMapIdx<<1 && i < size; i++ {
			c.memoryMap[i] = depth
			c.depthMap[i] = depth
		}
		memoryMapIdx <<= 1
		d++
	}
	return c
}

// newUnpooledChunk wraps a single huge allocation that bypasses the
// buddy tree entirely; it is always exactly one region in size and is
// freed as a whole.
func newUnpooledChunk(arena *Arena, capacity int) *Chunk {
	return &Chunk{
		arena:     arena,
		memory:    make([]byte, capacity),
		chunkSize: capacity,
		unpooled:  true,
	}
}

func log2Int(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

// allocateNode descends the buddy tree looking for a free node at
// depth d, returning its memoryMapIdx or -1 if the chunk has no room.
// Ported from Netty's PoolChunkL.allocateNode: the sentinel value
// -(1<<d) is a bit pattern no legitimate depth reaches, so comparing
// against it after ORing in id detects "we have descended exactly to
// depth d" without a separate counter.
func (c *Chunk) allocateNode(d int) int {
	id := 1
	initial := -(1 << uint(d))
	val := c.memoryMap[id]
	if val > d {
		return -1
	}
	for val < d || (id&initial) == 0 {
		id <<= 1
		val = c.memoryMap[id]
		if val > d {
			id ^= 1
			val = c.memoryMap[id]
		}
	}
	value := val
	if value != d {
		panic(fmt.Sprintf("malloc: buddy descent landed at depth %d, wanted %d", value, d))
	}
	c.memoryMap[id] = c.maxOrder + 1
	c.updateParentsAlloc(id)
	return id
}

// updateParentsAlloc propagates the just-allocated leaf's exhaustion
// upward: each ancestor's recorded depth becomes the shallower (more
// free) of its two children's depths.
func (c *Chunk) updateParentsAlloc(id int) {
	for id > 1 {
		parent := id >> 1
		left := c.memoryMap[id&^1]
		right := c.memoryMap[id|1]
		lower := left
		if right < lower {
			lower = right
		}
		c.memoryMap[parent] = lower
		id = parent
	}
}

// updateParentsFree propagates a just-freed node's availability
// upward: an ancestor whose children are both back to their original
// (fully-free) depth coalesces to that depth; otherwise it takes the
// shallower of its two children, same as updateParentsAlloc.
func (c *Chunk) updateParentsFree(id int) {
	logChild := c.depthMap[id] + 1
	for id > 1 {
		parent := id >> 1
		left := c.memoryMap[id&^1]
		right := c.memoryMap[id|1]
		logChild--

		if left == logChild && right == logChild {
			c.memoryMap[parent] = logChild - 1
		} else {
			lower := left
			if right < lower {
				lower = right
			}
			c.memoryMap[parent] = lower
		}
		id = parent
	}
}

// freeRun walks a memoryMapIdx (a run, not a subpage) back to fully-free
// and returns the number of bytes reclaimed.
func (c *Chunk) freeRun(memoryMapIdx int) int {
	d := c.depthMap[memoryMapIdx]
	c.memoryMap[memoryMapIdx] = d
	c.updateParentsFree(memoryMapIdx)
	length := c.runLength(memoryMapIdx)
	c.freeBytes += length
	assertChunkInvariants(c)
	return length
}

// runLength is the byte size of the subtree rooted at memoryMapIdx,
// derived from its depth in the tree: chunkSize >> depth.
func (c *Chunk) runLength(memoryMapIdx int) int {
	return c.chunkSize >> uint(c.depthMap[memoryMapIdx])
}

// runOffset is the byte offset of the region named by memoryMapIdx
// within the chunk's backing array.
func (c *Chunk) runOffset(memoryMapIdx int) int {
	shift := c.depthMap[memoryMapIdx]
	siblingBit := memoryMapIdx ^ (1 << uint(shift))
	return siblingBit * c.runLength(memoryMapIdx)
}

// pageIdxFromMemoryMapIdx converts a leaf-level memoryMapIdx into an
// index into c.subpages.
func (c *Chunk) pageIdxFromMemoryMapIdx(memoryMapIdx int) int {
	return memoryMapIdx - (1 << uint(c.maxOrder))
}

// allocateRun claims a whole buddy-tree node of at least normCapacity
// bytes, returning its handle or NoHandle if the chunk cannot satisfy
// it.
func (c *Chunk) allocateRun(normCapacity int) Handle {
	d := c.maxOrder - (log2Int(normCapacity) - int(c.pageShift))
	if d < 0 {
		d = 0
	}
	id := c.allocateNode(d)
	if id < 0 {
		return NoHandle
	}
	c.freeBytes -= c.runLength(id)
	return newRunHandle(id)
}

// carvePage claims one whole page leaf as a run, and binds or resets a
// Subpage over it sized for elemSize, without allocating any of its
// slots. Returns -1, nil if the chunk has no free page.
func (c *Chunk) carvePage(elemSize int) (int, *Subpage) {
	id := c.allocateNode(c.maxOrder)
	if id < 0 {
		return -1, nil
	}
	pageIdx := c.pageIdxFromMemoryMapIdx(id)
	sp := c.subpages[pageIdx]
	if sp == nil {
		sp = newSubpage(c, id, c.runOffset(id), c.pageSize, elemSize)
		c.subpages[pageIdx] = sp
	} else {
		sp.init(elemSize)
	}
	c.freeBytes -= c.pageSize
	return id, sp
}

// handleOffset returns the byte offset of h's region within the
// chunk's backing array.
func (c *Chunk) handleOffset(h Handle) int {
	if c.unpooled {
		return 0
	}
	assertValidHandle(c, h)
	base := c.runOffset(h.MemoryMapIdx())
	if !h.IsSubpage() {
		return base
	}
	sp := c.subpages[c.pageIdxFromMemoryMapIdx(h.MemoryMapIdx())]
	return base + int(h.BitIdx())*sp.elemSize
}

// handleMaxLength returns the maximum byte length h's region can be
// grown to in place, without moving to a new handle.
func (c *Chunk) handleMaxLength(h Handle) int {
	if c.unpooled {
		return c.chunkSize
	}
	if h.IsSubpage() {
		sp := c.subpages[c.pageIdxFromMemoryMapIdx(h.MemoryMapIdx())]
		return sp.elemSize
	}
	return c.runLength(h.MemoryMapIdx())
}
