package bufpool

import "fmt"

import "github.com/bnclabs/gostore/api"

// UnpooledBuffer is a Buffer backed by a plain Go slice allocated
// directly from the runtime, bypassing arenas entirely. Growth
// doubles the underlying slice (bounded by maxCapacity), never
// touching a pool.
type UnpooledBuffer struct {
	bufferState
	buf []byte
}

// newUnpooledBuffer allocates a fresh []byte of length bytes.
func newUnpooledBuffer(length, maxCapacity int) (*UnpooledBuffer, error) {
	if length < 0 || maxCapacity < 0 || length > maxCapacity {
		fmsg := "%w: length=%d maxCapacity=%d"
		return nil, fmt.Errorf(fmsg, api.ErrInvalidArgument, length, maxCapacity)
	}
	buf := &UnpooledBuffer{buf: make([]byte, length)}
	buf.holder = buf
	buf.maxCapacity = maxCapacity
	buf.refcount = newRefcount(buf)
	return buf, nil
}

func (b *UnpooledBuffer) slice() []byte { return b.buf }

// baseArray returns the buffer's own backing slice: an unpooled buffer
// owns its whole array outright, so there is no wider chunk to expose.
func (b *UnpooledBuffer) baseArray() []byte { return b.buf }

// baseOffset is always 0: an unpooled buffer's window starts at the
// beginning of its own backing array.
func (b *UnpooledBuffer) baseOffset() int { return 0 }

// growTo rejects a request past maxCapacity before touching the slice,
// then reallocates and copies, since a plain []byte cannot grow in
// place.
func (b *UnpooledBuffer) growTo(newCapacity int) error {
	if newCapacity > b.maxCapacity {
		fmsg := "%w: capacity %d exceeds maxCapacity %d"
		return fmt.Errorf(fmsg, api.ErrInvalidArgument, newCapacity, b.maxCapacity)
	}
	if newCapacity == len(b.buf) {
		return nil
	}
	next := make([]byte, newCapacity)
	n := len(b.buf)
	if newCapacity < n {
		n = newCapacity
	}
	copy(next, b.buf[:n])
	b.buf = next
	return nil
}

// Dispose implements api.Disposer; an unpooled buffer has nothing to
// return anywhere, its backing slice is simply left for the garbage
// collector.
func (b *UnpooledBuffer) Dispose() error {
	b.buf = nil
	return nil
}

// UnpooledFactory allocates buffers directly from the Go runtime,
// sharing the api.Buffer contract with pooled buffers but none of
// their arena bookkeeping. Useful for one-off large buffers or as a
// baseline in benchmarks against Factory.
type UnpooledFactory struct{}

// NewUnpooledFactory returns a Factory-shaped allocator that never
// pools memory.
func NewUnpooledFactory() *UnpooledFactory {
	return &UnpooledFactory{}
}

// NewBuffer allocates a fresh buffer of length bytes, growable up to
// maxCapacity.
func (f *UnpooledFactory) NewBuffer(length, maxCapacity int) (api.Buffer, error) {
	return newUnpooledBuffer(length, maxCapacity)
}
