package bufpool

import "runtime"

import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/gostore/malloc"

// Settings is an alias of gosettings.Settings, the map-based
// configuration this codebase uses everywhere.
type Settings = s.Settings

// DefaultSettings for a Factory.
//
// "numarenas" (int64, default: max(4, NumCPU))
//		Number of arenas the factory round-robins allocations across.
//
// Arena-level keys ("pagesize", "maxorder", "chunkpool.reap") are
// documented in malloc.Defaultsettings and mixed in unprefixed, since
// every arena in a Factory shares one configuration.
func DefaultSettings() Settings {
	setts := malloc.Defaultsettings(runtime.NumCPU())
	return setts
}
