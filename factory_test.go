package bufpool

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func testFactorySettings() Settings {
	setts := DefaultSettings()
	setts["pagesize"] = int64(4096)
	setts["maxorder"] = int64(4)
	setts["numarenas"] = int64(2)
	return setts
}

func TestNewFactoryRoundRobinsArenas(t *testing.T) {
	f, err := NewFactory(testFactorySettings())
	require.NoError(t, err)
	assert.Len(t, f.arenas, 2)

	a1 := f.pick()
	a2 := f.pick()
	a3 := f.pick()
	assert.Same(t, a1, a3)
	assert.NotSame(t, a1, a2)
}

func TestFactoryNewBufferWorks(t *testing.T) {
	f, err := NewFactory(testFactorySettings())
	require.NoError(t, err)

	buf, err := f.NewBuffer(10, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, buf.Capacity())
	assert.Equal(t, 100, buf.MaxCapacity())
	require.NoError(t, buf.Release())
}

func TestFactoryReportListsArenas(t *testing.T) {
	f, err := NewFactory(testFactorySettings())
	require.NoError(t, err)
	report := f.Report()
	assert.Contains(t, report, "2 arenas")
}

func TestNewFactoryRejectsInvalidSettings(t *testing.T) {
	setts := testFactorySettings()
	setts["pagesize"] = int64(100) // not power of two, below minimum
	_, err := NewFactory(setts)
	assert.Error(t, err)
}
