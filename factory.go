package bufpool

import "fmt"
import "strings"
import "sync/atomic"

import humanize "github.com/dustin/go-humanize"
import "github.com/cloudfoundry/gosigar"

import "github.com/bnclabs/gostore/api"
import "github.com/bnclabs/gostore/malloc"

// Factory builds pooled buffers, round-robining allocation requests
// across a fixed set of arenas so concurrent callers rarely contend
// on the same arena's lock.
type Factory struct {
	arenas []*malloc.Arena
	next   int64
}

// NewFactory validates setts and builds a Factory with
// setts["numarenas"] arenas. It logs (never errors on) a warning if
// the arenas' combined worst-case footprint would exceed free system
// memory, following this codebase's advisory-only sizing guard.
func NewFactory(setts Settings) (*Factory, error) {
	if err := malloc.ValidateSettings(setts); err != nil {
		return nil, err
	}
	numArenas := setts.Int64("numarenas")
	if numArenas < 1 {
		return nil, fmt.Errorf("%w: numarenas %d must be positive", api.ErrInvalidArgument, numArenas)
	}

	f := &Factory{arenas: make([]*malloc.Arena, numArenas)}
	for i := range f.arenas {
		arena, err := malloc.NewArena(setts)
		if err != nil {
			return nil, err
		}
		f.arenas[i] = arena
	}

	checkSysMemory(setts, numArenas)
	debugf("factory: created %d arenas", numArenas)
	return f, nil
}

func checkSysMemory(setts Settings, numArenas int64) {
	pageSize := setts.Int64("pagesize")
	maxOrder := setts.Int64("maxorder")
	chunkSize := pageSize << uint(maxOrder)
	worstCase := uint64(chunkSize) * uint64(numArenas)

	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		return
	}
	if worstCase > mem.Free {
		fmsg := "factory: configured worst-case footprint %s exceeds free system memory %s"
		warnf(fmsg, humanize.Bytes(worstCase), humanize.Bytes(mem.Free))
	}
}

// NewBuffer allocates a pooled buffer of length bytes, growable up to
// maxCapacity, from the next arena in round-robin order.
func (f *Factory) NewBuffer(length, maxCapacity int) (api.Buffer, error) {
	arena := f.pick()
	return newPooledBuffer(arena, length, maxCapacity)
}

func (f *Factory) pick() *malloc.Arena {
	i := atomic.AddInt64(&f.next, 1)
	return f.arenas[int(uint64(i))%len(f.arenas)]
}

// Report returns a human-readable multi-arena memory summary.
func (f *Factory) Report() string {
	lines := make([]string, 0, len(f.arenas)+1)
	lines = append(lines, fmt.Sprintf("factory: %d arenas", len(f.arenas)))
	for _, arena := range f.arenas {
		sizes, utils := arena.Utilization()
		utilstr := "n/a"
		if len(sizes) > 0 {
			utilstr = fmt.Sprintf("%.1f%%", utils[0])
		}
		fmsg := "  %s mean-alloc=%s utilization=%s"
		lines = append(lines, fmt.Sprintf(fmsg, arena.Info(), humanize.Bytes(uint64(arena.MeanAllocSize())), utilstr))
	}
	return strings.Join(lines, "\n")
}
