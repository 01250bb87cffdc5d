package bufpool

import "fmt"

import "github.com/bnclabs/gostore/api"
import "github.com/bnclabs/gostore/malloc"

// PooledBuffer is a Buffer whose storage comes from an Arena. Growing
// within the region's MaxLength is free; growing past it moves to a
// fresh region and copies, exactly as Arena.Reallocate describes.
type PooledBuffer struct {
	bufferState
	arena  *malloc.Arena
	region *malloc.Region
}

// newPooledBuffer allocates length bytes from arena and wraps them as
// a Buffer that can grow up to maxCapacity.
func newPooledBuffer(arena *malloc.Arena, length, maxCapacity int) (*PooledBuffer, error) {
	if length < 0 || maxCapacity < 0 || length > maxCapacity {
		fmsg := "%w: length=%d maxCapacity=%d"
		return nil, fmt.Errorf(fmsg, api.ErrInvalidArgument, length, maxCapacity)
	}
	region, err := arena.Allocate(length)
	if err != nil {
		return nil, err
	}
	buf := &PooledBuffer{arena: arena, region: region}
	buf.holder = buf
	buf.maxCapacity = maxCapacity
	buf.refcount = newRefcount(buf)
	return buf, nil
}

// slice implements sliceHolder.
func (b *PooledBuffer) slice() []byte {
	if b.region == nil {
		return nil
	}
	return b.region.Bytes()
}

// growTo implements sliceHolder by asking the arena to grow or move
// the backing region.
func (b *PooledBuffer) growTo(newCapacity int) error {
	region, err := b.arena.Reallocate(b.region, newCapacity)
	if err != nil {
		return err
	}
	b.region = region
	return nil
}

// baseArray returns the full backing array of the chunk this buffer's
// region was carved from, not just the region's own window.
func (b *PooledBuffer) baseArray() []byte {
	if b.region == nil {
		return nil
	}
	return b.region.BaseArray()
}

// baseOffset returns this buffer's byte offset within baseArray.
func (b *PooledBuffer) baseOffset() int {
	if b.region == nil {
		return 0
	}
	return b.region.Offset
}

// Dispose implements api.Disposer, returning this buffer's region to
// its arena. Runs exactly once, when RefCount reaches zero.
func (b *PooledBuffer) Dispose() error {
	b.arena.Free(b.region)
	b.region = nil
	return nil
}
