package malloc

import "fmt"
import "math/bits"

import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/gostore/api"

// DefaultPageSize matches Netty's default page size.
const DefaultPageSize = int64(4096)

// DefaultMaxOrder matches Netty's default maxOrder, giving an 8MiB chunk
// at the default page size.
const DefaultMaxOrder = int64(11)

// MaxChunkSize a chunk, pagesize<<maxorder, can never exceed this.
const MaxChunkSize = int64(1024 * 1024 * 1024) // 1 GiB

// Defaultsettings for a pooled arena.
//
// "pagesize" (int64, default: 4096)
//		Size of a page, the leaf granularity of the buddy tree. Must be
//		a power of two, >= 4096.
//
// "maxorder" (int64, default: 11)
//		log2 of the number of pages per chunk. chunkSize = pagesize <<
//		maxorder, and must not exceed 1 GiB.
//
// "numarenas" (int64, default: max(4, NumCPU))
//		Number of arenas the factory round-robins across.
//
// "chunkpool.reap" (bool, default: false)
//		When true, a pooled chunk that becomes entirely free is
//		unlinked from its arena's chunk list instead of being retained
//		indefinitely.
func Defaultsettings(numCPU int) s.Settings {
	numarenas := int64(numCPU)
	if numarenas < 4 {
		numarenas = 4
	}
	return s.Settings{
		"pagesize":       DefaultPageSize,
		"maxorder":       DefaultMaxOrder,
		"numarenas":      numarenas,
		"chunkpool.reap": false,
	}
}

// ValidateSettings checks pageSize/maxOrder configuration constraints:
// pageSize must be a power of two >= 4096, maxOrder must be
// non-negative, and the resulting chunkSize must not exceed
// MaxChunkSize.
func ValidateSettings(setts s.Settings) error {
	pageSize := setts.Int64("pagesize")
	maxOrder := setts.Int64("maxorder")

	if pageSize < 4096 {
		return fmt.Errorf("%w: pagesize %d below minimum 4096", api.ErrInvalidArgument, pageSize)
	}
	if bits.OnesCount64(uint64(pageSize)) != 1 {
		return fmt.Errorf("%w: pagesize %d is not a power of two", api.ErrInvalidArgument, pageSize)
	}
	if maxOrder < 0 {
		return fmt.Errorf("%w: maxorder %d is negative", api.ErrInvalidArgument, maxOrder)
	}
	chunkSize := pageSize << uint(maxOrder)
	if chunkSize > MaxChunkSize {
		fmsg := "%w: pagesize %d << maxorder %d = %d exceeds %d"
		return fmt.Errorf(fmsg, api.ErrInvalidArgument, pageSize, maxOrder, chunkSize, MaxChunkSize)
	}
	return nil
}
