package malloc

import "fmt"
import "sync"

import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/gostore/api"
import "github.com/bnclabs/gostore/lib"

// Region names a live allocation: the chunk and handle that back it,
// its byte offset inside the chunk, the capacity the caller asked for,
// and the maximum length the underlying slot can grow to in place
// before a Reallocate must move it.
type Region struct {
	Chunk     *Chunk
	Handle    Handle
	Offset    int
	Capacity  int
	MaxLength int
	subpage   *Subpage
}

// Bytes returns the region's backing slice, sized to Capacity.
func (r *Region) Bytes() []byte {
	if r.Chunk == nil {
		return nil
	}
	return r.Chunk.memory[r.Offset : r.Offset+r.Capacity]
}

// BaseArray returns the entire backing array of the chunk r was carved
// from, not just the Capacity-sized window Bytes returns. Offset names
// r's position within it.
func (r *Region) BaseArray() []byte {
	if r.Chunk == nil {
		return nil
	}
	return r.Chunk.memory
}

const numTinyClasses = tinyBoundary / 16

// Arena routes allocation requests to a size class: tiny and small
// requests are served from bitmap-managed subpages, normal requests
// claim a whole buddy-tree run, huge requests get a dedicated unpooled
// chunk.
type Arena struct {
	mu sync.Mutex

	id string

	pageSize  int
	pageShift uint
	maxOrder  int
	chunkSize int
	reap      bool

	tinySubpagePools  [numTinyClasses]*SubpagePool
	smallSubpagePools []*SubpagePool

	chunkList  []*Chunk
	hugeChunks []*Chunk

	allocHist *lib.HistogramInt64
	allocAvg  *lib.AverageInt64
}

// NewArena builds an arena from validated settings. Callers normally
// reach this through Factory, which owns the round-robin across
// several arenas.
func NewArena(setts s.Settings) (*Arena, error) {
	if err := ValidateSettings(setts); err != nil {
		return nil, err
	}
	pageSize := int(setts.Int64("pagesize"))
	maxOrder := int(setts.Int64("maxorder"))
	a := &Arena{
		id:        shortID(),
		pageSize:  pageSize,
		pageShift: uint(log2Int(pageSize)),
		maxOrder:  maxOrder,
		chunkSize: pageSize << uint(maxOrder),
		reap:      setts.Bool("chunkpool.reap"),
		allocHist: lib.NewhistorgramInt64(0, int64(pageSize<<uint(maxOrder)), 512),
		allocAvg:  &lib.AverageInt64{},
	}
	debugf("arena %s: created pagesize=%v maxorder=%v chunksize=%v", a.id, pageSize, maxOrder, a.chunkSize)
	return a, nil
}

// Allocate reserves reqCapacity bytes and returns the Region backing
// it. A reqCapacity of zero returns an empty Region bound to no chunk.
func (a *Arena) Allocate(reqCapacity int) (*Region, error) {
	if reqCapacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", api.ErrInvalidArgument, reqCapacity)
	}
	if reqCapacity == 0 {
		return &Region{Handle: NoHandle}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	normCapacity := normalizeCapacity(reqCapacity, a.chunkSize)
	a.allocHist.Add(int64(reqCapacity))
	a.allocAvg.Add(int64(reqCapacity))

	var region *Region
	var err error
	switch {
	case normCapacity > a.chunkSize:
		region, err = a.allocateHuge(reqCapacity)
	case isTinyOrSmall(normCapacity, a.pageSize):
		region, err = a.allocateSmallOrTiny(normCapacity)
	default:
		region, err = a.allocateNormal(normCapacity)
	}
	if err != nil {
		return nil, err
	}
	region.Capacity = reqCapacity
	tracef("arena %s: allocated %d bytes (normalized %d)", a.id, reqCapacity, normCapacity)
	return region, nil
}

func (a *Arena) allocateHuge(reqCapacity int) (*Region, error) {
	c := newUnpooledChunk(a, reqCapacity)
	a.hugeChunks = append(a.hugeChunks, c)
	debugf("arena %s: new huge chunk %d bytes", a.id, reqCapacity)
	return &Region{Chunk: c, Handle: newRunHandle(0), Offset: 0, MaxLength: reqCapacity}, nil
}

func (a *Arena) allocateNormal(normCapacity int) (*Region, error) {
	for _, c := range a.chunkList {
		if h := c.allocateRun(normCapacity); h != NoHandle {
			return a.regionFromHandle(c, h, nil), nil
		}
	}
	c := newChunk(a, a.pageSize, a.maxOrder)
	a.chunkList = append([]*Chunk{c}, a.chunkList...)
	debugf("arena %s: new chunk, chunksize=%d", a.id, a.chunkSize)
	h := c.allocateRun(normCapacity)
	if h == NoHandle {
		return nil, api.ErrOutOfMemory
	}
	return a.regionFromHandle(c, h, nil), nil
}

func (a *Arena) allocateSmallOrTiny(normCapacity int) (*Region, error) {
	pool := a.subpagePoolFor(normCapacity)
	if sp := pool.firstAvailable(); sp != nil {
		h := sp.Allocate()
		if sp.numAvail == 0 {
			pool.remove(sp)
		}
		return a.regionFromHandle(sp.chunk, h, sp), nil
	}

	for _, c := range a.chunkList {
		if id, sp := c.carvePage(normCapacity); id >= 0 {
			return a.finishFreshSubpage(c, sp, pool), nil
		}
	}

	c := newChunk(a, a.pageSize, a.maxOrder)
	a.chunkList = append([]*Chunk{c}, a.chunkList...)
	debugf("arena %s: new chunk for subpages, chunksize=%d", a.id, a.chunkSize)
	id, sp := c.carvePage(normCapacity)
	if id < 0 {
		return nil, api.ErrOutOfMemory
	}
	return a.finishFreshSubpage(c, sp, pool), nil
}

func (a *Arena) finishFreshSubpage(c *Chunk, sp *Subpage, pool *SubpagePool) *Region {
	pool.addHead(sp)
	h := sp.Allocate()
	if sp.numAvail == 0 {
		pool.remove(sp)
	}
	return a.regionFromHandle(c, h, sp)
}

func (a *Arena) regionFromHandle(c *Chunk, h Handle, sp *Subpage) *Region {
	return &Region{
		Chunk:     c,
		Handle:    h,
		Offset:    c.handleOffset(h),
		MaxLength: c.handleMaxLength(h),
		subpage:   sp,
	}
}

// Free releases r back to its arena. r must not be used afterwards.
func (a *Arena) Free(r *Region) {
	if r == nil || r.Chunk == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	c := r.Chunk
	if c.unpooled {
		a.removeHugeChunk(c)
		debugf("arena %s: freed huge chunk %d bytes", a.id, c.chunkSize)
		return
	}

	if r.Handle.IsSubpage() {
		a.freeSubpage(c, r.Handle, r.subpage)
	} else {
		c.freeRun(r.Handle.MemoryMapIdx())
	}

	if a.reap && c.freeBytes == c.chunkSize {
		a.reapChunk(c)
	}
	tracef("arena %s: freed region offset=%d capacity=%d", a.id, r.Offset, r.Capacity)
}

func (a *Arena) freeSubpage(c *Chunk, h Handle, sp *Subpage) {
	if sp == nil {
		return
	}
	memoryMapIdx := h.MemoryMapIdx()
	wasFull := sp.numAvail == 0
	fullyFree := sp.Free(h.BitIdx())
	pool := a.subpagePoolFor(sp.elemSize)
	if fullyFree {
		// Keep the last subpage of a size class around rather than
		// reclaiming its page: it saves the next same-size allocation
		// from carving a fresh page out of the chunk.
		if sp.prev != nil && pool.isSoleMember(sp) {
			return
		}
		pageIdx := c.pageIdxFromMemoryMapIdx(memoryMapIdx)
		c.subpages[pageIdx] = nil
		if sp.prev != nil {
			pool.remove(sp)
		}
		c.freeRun(memoryMapIdx)
	} else if wasFull {
		pool.addHead(sp)
	}
}

func (a *Arena) subpagePoolFor(normCapacity int) *SubpagePool {
	if isTiny(normCapacity) {
		idx := tinyIdx(normCapacity)
		if a.tinySubpagePools[idx] == nil {
			a.tinySubpagePools[idx] = newSubpagePool(normCapacity)
		}
		return a.tinySubpagePools[idx]
	}
	idx := smallIdx(normCapacity)
	if idx >= len(a.smallSubpagePools) {
		grown := make([]*SubpagePool, idx+1)
		copy(grown, a.smallSubpagePools)
		a.smallSubpagePools = grown
	}
	if a.smallSubpagePools[idx] == nil {
		a.smallSubpagePools[idx] = newSubpagePool(normCapacity)
	}
	return a.smallSubpagePools[idx]
}

func (a *Arena) removeHugeChunk(c *Chunk) {
	for i, hc := range a.hugeChunks {
		if hc == c {
			a.hugeChunks = append(a.hugeChunks[:i], a.hugeChunks[i+1:]...)
			return
		}
	}
}

func (a *Arena) reapChunk(c *Chunk) {
	for i, lc := range a.chunkList {
		if lc == c {
			a.chunkList = append(a.chunkList[:i], a.chunkList[i+1:]...)
			debugf("arena %s: reaped fully-free chunk", a.id)
			return
		}
	}
}

// Reallocate grows or shrinks r to newCapacity, moving to a fresh
// Region and copying min(r.Capacity, newCapacity) bytes when the
// requested size no longer fits within r.MaxLength, or when it shrinks
// to half of r.MaxLength or less (reclaiming footprint rather than
// leaving the region oversized for its new use).
func (a *Arena) Reallocate(r *Region, newCapacity int) (*Region, error) {
	if newCapacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", api.ErrInvalidArgument, newCapacity)
	}
	if r == nil || r.Chunk == nil {
		return a.Allocate(newCapacity)
	}
	shrinksFarEnough := r.MaxLength > 0 && newCapacity < r.Capacity && newCapacity <= r.MaxLength/2
	if newCapacity <= r.MaxLength && !shrinksFarEnough {
		r.Capacity = newCapacity
		return r, nil
	}
	newRegion, err := a.Allocate(newCapacity)
	if err != nil {
		return nil, err
	}
	n := r.Capacity
	if newCapacity < n {
		n = newCapacity
	}
	copy(newRegion.Bytes()[:n], r.Bytes()[:n])
	a.Free(r)
	return newRegion, nil
}

// Utilization reports a single entry: the arena's chunk size and the
// percentage of all pooled chunk bytes currently allocated. It is not
// broken down per size class, and huge chunks are not counted.
func (a *Arena) Utilization() ([]int, []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	total, used := 0, 0
	for _, c := range a.chunkList {
		total += c.chunkSize
		used += c.chunkSize - c.freeBytes
	}
	if total == 0 {
		return nil, nil
	}
	return []int{a.chunkSize}, []float64{(float64(used) / float64(total)) * 100}
}

// Histogram returns a snapshot of the requested-allocation-size
// distribution.
func (a *Arena) Histogram() *lib.HistogramInt64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocHist.Clone()
}

// MeanAllocSize returns the mean of all requested allocation sizes
// seen by this arena.
func (a *Arena) MeanAllocSize() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocAvg.Mean()
}

// Info returns a short human-readable identity string for this arena,
// used by Factory.Report().
func (a *Arena) Info() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("arena-%s chunks=%d huge=%d", a.id, len(a.chunkList), len(a.hugeChunks))
}
