package malloc

// SubpagePool is a sentinel-headed doubly linked ring of Subpages that
// all carve the same elemSize out of their page and still have at
// least one free slot. Once a subpage fills up it is unlinked. Once a
// subpage frees its last slot, Arena unlinks it and returns its page to
// the chunk, unless it is the pool's only member, which stays linked.
//
// Go's garbage collector makes a raw pointer cycle memory-safe, so
// this ring links Subpages directly rather than through an
// arena-owned index vector.
type SubpagePool struct {
	elemSize int
	head     *Subpage
}

// newSubpagePool builds an empty ring for the given element size.
func newSubpagePool(elemSize int) *SubpagePool {
	return &SubpagePool{elemSize: elemSize, head: newSentinelSubpage()}
}

// addHead links sp in as the ring's most-recently-freed member.
func (spp *SubpagePool) addHead(sp *Subpage) {
	sp.next = spp.head.next
	sp.prev = spp.head
	spp.head.next.prev = sp
	spp.head.next = sp
}

// remove unlinks sp from whatever ring it is currently in.
func (spp *SubpagePool) remove(sp *Subpage) {
	sp.prev.next = sp.next
	sp.next.prev = sp.prev
	sp.prev, sp.next = nil, nil
}

// firstAvailable returns the first subpage in the ring, or nil if the
// ring is empty (only the sentinel remains).
func (spp *SubpagePool) firstAvailable() *Subpage {
	if spp.head.next == spp.head {
		return nil
	}
	return spp.head.next
}

// isEmpty reports whether the ring holds no subpages beyond its
// sentinel.
func (spp *SubpagePool) isEmpty() bool {
	return spp.head.next == spp.head
}

// isSoleMember reports whether sp is the only subpage linked into this
// pool, i.e. removing it would leave the ring empty.
func (spp *SubpagePool) isSoleMember(sp *Subpage) bool {
	return sp.prev == spp.head && sp.next == spp.head
}
