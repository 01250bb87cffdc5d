package bufpool

import "sync/atomic"

import "github.com/bnclabs/golog"

var logok = int64(0)

// EnableLogging turns on log output for the factory-level bookkeeping
// in this package. By default logging is disabled; call with
// "factory" or "all". Component logging inside package malloc is
// controlled separately by malloc.EnableLogging.
func EnableLogging(components ...string) {
	for _, comp := range components {
		switch comp {
		case "factory", "all":
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

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Warnf(format, v...)
	}
}
