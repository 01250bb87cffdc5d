package bufpool

import "fmt"

import "github.com/bnclabs/gostore/api"

// BufferStream adapts a Buffer to io.ReadWriter, reading from
// readerIndex and writing at writerIndex exactly as the Buffer's own
// Read/Write accessors do.
type BufferStream struct {
	buf api.Buffer
}

// NewBufferStream wraps buf as a stream.
func NewBufferStream(buf api.Buffer) *BufferStream {
	return &BufferStream{buf: buf}
}

// Read copies up to len(p) readable bytes into p, advancing
// readerIndex. Returns io.EOF-shaped behaviour is not implemented:
// once the buffer is drained, Read returns 0, nil, matching a
// io.Reader wrapping a fixed byte range rather than a stream that
// terminates.
func (s *BufferStream) Read(p []byte) (int, error) {
	n := s.buf.ReadableBytes()
	if n > len(p) {
		n = len(p)
	}
	if n == 0 {
		return 0, nil
	}
	if err := s.buf.ReadBytes(p, 0, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Write grows the buffer as needed and appends p at writerIndex.
func (s *BufferStream) Write(p []byte) (int, error) {
	if err := s.buf.WriteBytes(p, 0, len(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Len reports the total number of bytes written to the stream so far,
// mirroring the Buffer's writerIndex rather than what remains unread.
func (s *BufferStream) Len() int {
	return s.buf.WriterIndex()
}

// Seek is not supported; BufferStream only tracks the Buffer's own
// readerIndex/writerIndex.
func (s *BufferStream) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("%w: BufferStream.Seek", api.ErrNotSupported)
}
