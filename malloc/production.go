//go:build !debug

package malloc

func assertValidHandle(c *Chunk, h Handle) {}

func assertChunkInvariants(c *Chunk) {}

func assertSubpageInvariants(sp *Subpage) {}
