package bufpool

import "bytes"
import "fmt"

import "github.com/bnclabs/gostore/api"

// sliceHolder abstracts the two backing strategies (pooled arena
// region, unpooled plain slice) behind the index/refcount bookkeeping
// that both Buffer implementations share.
type sliceHolder interface {
	slice() []byte
	growTo(newCapacity int) error
	baseArray() []byte
	baseOffset() int
}

// bufferState carries the index and reference-count bookkeeping common
// to both Buffer implementations. It is not itself a complete Buffer:
// PooledBuffer and UnpooledBuffer embed it and supply a sliceHolder.
type bufferState struct {
	refcount
	holder      sliceHolder
	readerIndex int
	writerIndex int
	maxCapacity int
}

func (b *bufferState) Capacity() int    { return len(b.holder.slice()) }
func (b *bufferState) MaxCapacity() int { return b.maxCapacity }
func (b *bufferState) ReaderIndex() int { return b.readerIndex }
func (b *bufferState) WriterIndex() int { return b.writerIndex }

func (b *bufferState) ReadableBytes() int { return b.writerIndex - b.readerIndex }
func (b *bufferState) WritableBytes() int { return b.Capacity() - b.writerIndex }
func (b *bufferState) IsReadable() bool   { return b.ReadableBytes() > 0 }
func (b *bufferState) IsWritable() bool   { return b.WritableBytes() > 0 }

func (b *bufferState) BaseArray() []byte { return b.holder.baseArray() }
func (b *bufferState) BaseOffset() int   { return b.holder.baseOffset() }

// SetIndex repositions readerIndex and writerIndex together, so a
// caller never observes an inconsistent intermediate state.
func (b *bufferState) SetIndex(reader, writer int) error {
	if !b.refcount.isAlive() {
		return fmt.Errorf("%w: access after release", api.ErrBufferAccess)
	}
	if reader < 0 || reader > writer || writer > b.Capacity() {
		fmsg := "%w: invalid index reader=%d writer=%d capacity=%d"
		return fmt.Errorf(fmsg, api.ErrInvalidArgument, reader, writer, b.Capacity())
	}
	b.readerIndex, b.writerIndex = reader, writer
	return nil
}

func (b *bufferState) SetCapacity(newCapacity int) error {
	if !b.refcount.isAlive() {
		return fmt.Errorf("%w: access after release", api.ErrBufferAccess)
	}
	if newCapacity < 0 {
		return fmt.Errorf("%w: negative capacity %d", api.ErrInvalidArgument, newCapacity)
	}
	if newCapacity > b.maxCapacity {
		fmsg := "%w: capacity %d exceeds maxCapacity %d"
		return fmt.Errorf(fmsg, api.ErrInvalidArgument, newCapacity, b.maxCapacity)
	}
	if err := b.holder.growTo(newCapacity); err != nil {
		return err
	}
	if b.writerIndex > newCapacity {
		b.writerIndex = newCapacity
	}
	if b.readerIndex > b.writerIndex {
		b.readerIndex = b.writerIndex
	}
	return nil
}

func (b *bufferState) GetBytes(index int, dst []byte, dstIndex, length int) error {
	if !b.refcount.isAlive() {
		return fmt.Errorf("%w: access after release", api.ErrBufferAccess)
	}
	if err := checkIndex(index, length, b.Capacity()); err != nil {
		return err
	}
	if err := checkIndex(dstIndex, length, len(dst)); err != nil {
		return err
	}
	copy(dst[dstIndex:dstIndex+length], b.holder.slice()[index:index+length])
	return nil
}

func (b *bufferState) SetBytes(index int, src []byte, srcIndex, length int) error {
	if !b.refcount.isAlive() {
		return fmt.Errorf("%w: access after release", api.ErrBufferAccess)
	}
	if err := checkIndex(index, length, b.Capacity()); err != nil {
		return err
	}
	if err := checkIndex(srcIndex, length, len(src)); err != nil {
		return err
	}
	copy(b.holder.slice()[index:index+length], src[srcIndex:srcIndex+length])
	return nil
}

func (b *bufferState) ReadBytes(dst []byte, dstIndex, length int) error {
	if length > b.ReadableBytes() {
		fmsg := "%w: read %d exceeds readable %d"
		return fmt.Errorf(fmsg, api.ErrBufferAccess, length, b.ReadableBytes())
	}
	if err := b.GetBytes(b.readerIndex, dst, dstIndex, length); err != nil {
		return err
	}
	b.readerIndex += length
	return nil
}

func (b *bufferState) WriteBytes(src []byte, srcIndex, length int) error {
	if err := b.ensureWritable(length); err != nil {
		return err
	}
	if err := b.SetBytes(b.writerIndex, src, srcIndex, length); err != nil {
		return err
	}
	b.writerIndex += length
	return nil
}

// ensureWritable grows the buffer, doubling capacity (bounded by
// maxCapacity) when the current capacity cannot hold minWritableBytes
// more bytes past writerIndex.
func (b *bufferState) ensureWritable(minWritableBytes int) error {
	if b.WritableBytes() >= minWritableBytes {
		return nil
	}
	want := b.writerIndex + minWritableBytes
	if want > b.maxCapacity {
		fmsg := "%w: write of %d bytes needs capacity %d, exceeds maxCapacity %d"
		return fmt.Errorf(fmsg, api.ErrInvalidArgument, minWritableBytes, want, b.maxCapacity)
	}
	newCapacity := b.Capacity() * 2
	if newCapacity < want {
		newCapacity = want
	}
	if newCapacity > b.maxCapacity {
		newCapacity = b.maxCapacity
	}
	return b.SetCapacity(newCapacity)
}

func (b *bufferState) Skip(length int) error {
	if !b.refcount.isAlive() {
		return fmt.Errorf("%w: access after release", api.ErrBufferAccess)
	}
	if length < 0 || length > b.ReadableBytes() {
		fmsg := "%w: skip %d exceeds readable %d"
		return fmt.Errorf(fmsg, api.ErrBufferAccess, length, b.ReadableBytes())
	}
	b.readerIndex += length
	return nil
}

func (b *bufferState) Retain(n ...int) error  { return b.refcount.retain(n...) }
func (b *bufferState) Release(n ...int) error { return b.refcount.release(n...) }
func (b *bufferState) RefCount() int64        { return b.refcount.get() }

// Equals compares the readable regions of b and other byte-for-byte.
// Returns false, never panics, for a nil comparand.
func (b *bufferState) Equals(other api.Buffer) bool {
	if other == nil {
		return false
	}
	if b.ReadableBytes() != other.ReadableBytes() {
		return false
	}
	mine := b.holder.slice()[b.readerIndex:b.writerIndex]
	theirs := make([]byte, other.ReadableBytes())
	if err := other.GetBytes(other.ReaderIndex(), theirs, 0, len(theirs)); err != nil {
		return false
	}
	return bytes.Equal(mine, theirs)
}

// HashCode folds the readable region 4 bytes at a time as big-endian
// words (h = 31*h + word), starting from h = 1 and finishing any
// trailing bytes one at a time (h = 31*h + byte). A result of 0 is
// remapped to 1 so HashCode never signals an empty/absent hash.
func (b *bufferState) HashCode() uint32 {
	data := b.holder.slice()[b.readerIndex:b.writerIndex]
	h := uint32(1)
	i := 0
	for ; i+4 <= len(data); i += 4 {
		word := uint32(data[i])<<24 | uint32(data[i+1])<<16 | uint32(data[i+2])<<8 | uint32(data[i+3])
		h = 31*h + word
	}
	for ; i < len(data); i++ {
		h = 31*h + uint32(data[i])
	}
	if h == 0 {
		return 1
	}
	return h
}

func checkIndex(index, length, bound int) error {
	if index < 0 || length < 0 || index+length > bound {
		fmsg := "%w: index=%d length=%d bound=%d"
		return fmt.Errorf(fmsg, api.ErrInvalidArgument, index, length, bound)
	}
	return nil
}
