package malloc

import "testing"

import "github.com/stretchr/testify/assert"

func TestNormalizeCapacityTiny(t *testing.T) {
	chunkSize := 4096 << 11
	cases := []struct{ req, want int }{
		{0, 0},
		{1, 16},
		{16, 16},
		{17, 32},
		{496, 496},
		{511, 496 + 16},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, normalizeCapacity(c.req, chunkSize), "req=%d", c.req)
	}
}

func TestNormalizeCapacitySmallAndNormal(t *testing.T) {
	chunkSize := 4096 << 11
	cases := []struct{ req, want int }{
		{512, 512},
		{513, 1024},
		{1000, 1024},
		{4096, 4096},
		{4097, 8192},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, normalizeCapacity(c.req, chunkSize), "req=%d", c.req)
	}
}

func TestNormalizeCapacityHugePassesThrough(t *testing.T) {
	chunkSize := 4096 << 11
	assert.Equal(t, chunkSize, normalizeCapacity(chunkSize, chunkSize))
	assert.Equal(t, chunkSize+1, normalizeCapacity(chunkSize+1, chunkSize))
}

func TestIsTinyOrSmall(t *testing.T) {
	pageSize := 4096
	assert.True(t, isTinyOrSmall(16, pageSize))
	assert.True(t, isTinyOrSmall(2048, pageSize))
	assert.False(t, isTinyOrSmall(4096, pageSize))
	assert.False(t, isTinyOrSmall(8192, pageSize))
}

func TestTinyIdx(t *testing.T) {
	assert.Equal(t, 0, tinyIdx(0))
	assert.Equal(t, 1, tinyIdx(16))
	assert.Equal(t, 31, tinyIdx(496))
}
