package bufpool

import "testing"

import "github.com/stretchr/testify/assert"

func TestDefaultSettingsHasSaneDefaults(t *testing.T) {
	setts := DefaultSettings()
	assert.Equal(t, int64(4096), setts.Int64("pagesize"))
	assert.Equal(t, int64(11), setts.Int64("maxorder"))
	assert.GreaterOrEqual(t, setts.Int64("numarenas"), int64(4))
	assert.False(t, setts.Bool("chunkpool.reap"))
}
