package bufpool

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestUnpooledBufferGrowDoubles(t *testing.T) {
	buf, err := newUnpooledBuffer(4, 1024)
	require.NoError(t, err)

	require.NoError(t, buf.WriteBytes([]byte("abcd"), 0, 4))
	require.NoError(t, buf.WriteBytes([]byte("efgh"), 0, 4))

	assert.GreaterOrEqual(t, buf.Capacity(), 8)
	dst := make([]byte, 8)
	require.NoError(t, buf.GetBytes(0, dst, 0, 8))
	assert.Equal(t, "abcdefgh", string(dst))
}

func TestUnpooledBufferSetCapacityRejectsOverMax(t *testing.T) {
	buf, err := newUnpooledBuffer(4, 8)
	require.NoError(t, err)
	assert.Error(t, buf.SetCapacity(9))
}

func TestUnpooledFactoryNewBuffer(t *testing.T) {
	f := NewUnpooledFactory()
	buf, err := f.NewBuffer(10, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, buf.Capacity())
	assert.Equal(t, 100, buf.MaxCapacity())
}

func TestUnpooledBufferConstructorRejectsBadArgs(t *testing.T) {
	_, err := newUnpooledBuffer(10, 5)
	assert.Error(t, err)
	_, err = newUnpooledBuffer(-1, 5)
	assert.Error(t, err)
}
