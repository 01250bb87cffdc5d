package bufpool

import "fmt"
import "math"
import "sync/atomic"

import "github.com/bnclabs/gostore/api"

// refcount is mixed into every Buffer implementation. It follows the
// same atomic-add, panic-on-negative shape this codebase's snapshot
// reference counting uses, generalized to accept an explicit delta and
// return an error instead of panicking on misuse by a caller (callers
// are external code, not internal invariant violations).
type refcount struct {
	count   int64
	dispose api.Disposer
}

func newRefcount(d api.Disposer) refcount {
	return refcount{count: 1, dispose: d}
}

// retain adds n (default 1) to the reference count. Fails if the
// buffer has already been fully released.
func (rc *refcount) retain(n ...int) error {
	delta := int64(1)
	if len(n) > 0 {
		delta = int64(n[0])
	}
	if delta <= 0 {
		return fmt.Errorf("%w: retain delta must be positive, got %d", api.ErrInvalidArgument, delta)
	}
	for {
		cur := atomic.LoadInt64(&rc.count)
		if cur <= 0 {
			return fmt.Errorf("%w: retain on a released buffer", api.ErrRefCount)
		}
		if delta > math.MaxInt64-cur {
			return fmt.Errorf("%w: retain delta %d overflows refcount %d", api.ErrRefCount, delta, cur)
		}
		if atomic.CompareAndSwapInt64(&rc.count, cur, cur+delta) {
			return nil
		}
	}
}

// release subtracts n (default 1) from the reference count, calling
// dispose exactly once when the count reaches zero.
func (rc *refcount) release(n ...int) error {
	delta := int64(1)
	if len(n) > 0 {
		delta = int64(n[0])
	}
	if delta <= 0 {
		return fmt.Errorf("%w: release delta must be positive, got %d", api.ErrInvalidArgument, delta)
	}
	for {
		cur := atomic.LoadInt64(&rc.count)
		if cur <= 0 {
			return fmt.Errorf("%w: release on a released buffer", api.ErrRefCount)
		}
		next := cur - delta
		if next < 0 {
			return fmt.Errorf("%w: release delta %d exceeds refcount %d", api.ErrRefCount, delta, cur)
		}
		if atomic.CompareAndSwapInt64(&rc.count, cur, next) {
			if next == 0 && rc.dispose != nil {
				return rc.dispose.Dispose()
			}
			return nil
		}
	}
}

func (rc *refcount) get() int64 {
	return atomic.LoadInt64(&rc.count)
}

func (rc *refcount) isAlive() bool {
	return atomic.LoadInt64(&rc.count) > 0
}
