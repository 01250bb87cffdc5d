// Package malloc implements a Netty-style pooled byte allocator: chunks
// of contiguous bytes subdivided by a buddy allocator over a complete
// binary tree, with bitmap-managed subpages for allocations smaller
// than a page.
//
//   - Types and functions exported by this package are not safe for
//     concurrent use except where documented (Arena methods are
//     internally synchronized; Chunk and Subpage are not, and must only
//     be reached through their owning Arena).
//   - Chunks are never returned to the Go runtime once allocated,
//     unless "chunkpool.reap" is enabled in the arena's settings and a
//     chunk becomes entirely free.
//   - Handles never move: the byte offset a handle names inside its
//     chunk's backing array is stable until the handle is freed.
package malloc

// TODO: chunk reaping only fires on the free() that empties a chunk; a
// chunk that stays partially allocated forever is never revisited.
