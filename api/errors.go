package api

import "errors"

// ErrInvalidArgument covers negative sizes/indices, out-of-bounds slice
// arguments, writer < reader, capacity > maxCapacity, and configuration
// constraints on pageSize/maxOrder.
var ErrInvalidArgument = errors.New("bufpool.invalidArgument")

// ErrBufferAccess is returned by any operation attempted on a buffer
// whose reference count has reached zero.
var ErrBufferAccess = errors.New("bufpool.bufferAccess")

// ErrRefCount is returned by Retain/Release calls that violate the
// reference-count invariants (retain on a disposed buffer, retain
// overflow, release below zero).
var ErrRefCount = errors.New("bufpool.refCount")

// ErrNotSupported is returned by stream operations that the buffer
// adapter does not implement, such as seeking.
var ErrNotSupported = errors.New("bufpool.notSupported")

// ErrOutOfMemory is returned when a freshly created chunk cannot
// satisfy the allocation it was created for.
var ErrOutOfMemory = errors.New("bufpool.outOfMemory")
