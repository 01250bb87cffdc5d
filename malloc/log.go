package malloc

import "sync/atomic"

import "github.com/bnclabs/golog"

import "github.com/bnclabs/gostore/lib"

var logok = int64(0)

// EnableLogging turns on log output for this package. By default
// logging is disabled; call with "arena", "chunk", "subpage" or "all".
func EnableLogging(components ...string) {
	for _, comp := range components {
		switch comp {
		case "arena", "chunk", "subpage", "all":
			atomic.StoreInt64(&logok, 1)
		}
	}
}

// DisableLogging turns log output back off.
func DisableLogging() {
	atomic.StoreInt64(&logok, 0)
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Debugf(format, v...)
	}
}

func tracef(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Tracef(format, v...)
	}
}

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Warnf(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Errorf(format, v...)
	}
}

// shortID mints an 8-byte hex id for log-line prefixes, following the
// [component-xxxx] convention this codebase's snapshot logging uses.
func shortID() string {
	u, err := lib.Allocuuid(8)
	if err != nil {
		return "00000000"
	}
	out := make([]byte, 16)
	n := u.Format(out)
	return string(out[:n])
}
