package bufpool

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/bnclabs/gostore/malloc"

func testArena(t *testing.T) *malloc.Arena {
	setts := DefaultSettings()
	setts["pagesize"] = int64(4096)
	setts["maxorder"] = int64(4)
	a, err := malloc.NewArena(setts)
	require.NoError(t, err)
	return a
}

func TestPooledBufferWriteReadRoundtrip(t *testing.T) {
	arena := testArena(t)
	buf, err := newPooledBuffer(arena, 0, 1024)
	require.NoError(t, err)

	require.NoError(t, WriteInt(buf, 42))
	require.NoError(t, WriteBool(buf, true))
	require.NoError(t, WriteByte(buf, 0xFE))

	v, err := ReadInt(buf)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	b, err := ReadBool(buf)
	require.NoError(t, err)
	assert.True(t, b)

	by, err := ReadByte(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(0xFE), by)

	assert.False(t, buf.IsReadable())
}

func TestPooledBufferGrowPastMaxLengthPreservesData(t *testing.T) {
	arena := testArena(t)
	buf, err := newPooledBuffer(arena, 10, 100000)
	require.NoError(t, err)
	require.NoError(t, buf.SetBytes(0, []byte("hello"), 0, 5))

	require.NoError(t, buf.SetCapacity(buf.maxCapacity))
	dst := make([]byte, 5)
	require.NoError(t, buf.GetBytes(0, dst, 0, 5))
	assert.Equal(t, "hello", string(dst))
}

func TestPooledBufferSetCapacityBeyondMaxCapacityFails(t *testing.T) {
	arena := testArena(t)
	buf, err := newPooledBuffer(arena, 10, 20)
	require.NoError(t, err)
	assert.Error(t, buf.SetCapacity(21))
}

func TestPooledBufferReleaseFreesRegion(t *testing.T) {
	arena := testArena(t)
	buf, err := newPooledBuffer(arena, 64, 64)
	require.NoError(t, err)

	require.NoError(t, buf.Release())
	assert.Equal(t, int64(0), buf.RefCount())
	assert.Nil(t, buf.region)
}

func TestPooledBufferRetainDelaysDispose(t *testing.T) {
	arena := testArena(t)
	buf, err := newPooledBuffer(arena, 32, 32)
	require.NoError(t, err)

	require.NoError(t, buf.Retain())
	require.NoError(t, buf.Release())
	assert.NotNil(t, buf.region)
	require.NoError(t, buf.Release())
	assert.Nil(t, buf.region)
}

func TestPooledBufferEqualsComparesReadableRegion(t *testing.T) {
	arena := testArena(t)
	a, err := newPooledBuffer(arena, 0, 16)
	require.NoError(t, err)
	b, err := newPooledBuffer(arena, 0, 16)
	require.NoError(t, err)

	require.NoError(t, a.WriteBytes([]byte("abc"), 0, 3))
	require.NoError(t, b.WriteBytes([]byte("abc"), 0, 3))
	assert.True(t, a.Equals(b))

	require.NoError(t, b.WriteBytes([]byte("d"), 0, 1))
	assert.False(t, a.Equals(b))
}
