package mem

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// CacheConfig holds the parameters of the data cache model.
type CacheConfig struct {
	// Size in bytes.
	Size int
	// Associativity is the number of ways.
	Associativity int
	// BlockSize is the cache line size in bytes.
	BlockSize int
	// HitLatency in cycles.
	HitLatency uint64
	// MissLatency in cycles, including the WRAM access.
	MissLatency uint64
}

// DefaultCacheConfig returns the configuration of the K1 private data
// cache: 32 KiB, 4-way, 64-byte lines.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Size:          32 * 1024,
		Associativity: 4,
		BlockSize:     64,
		HitLatency:    1,
		MissLatency:   20,
	}
}

// AccessResult describes one cache access.
type AccessResult struct {
	// Hit reports whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles the access takes.
	Latency uint64
	// Data is the value read, for load accesses.
	Data uint64
	// Evicted is true when a valid block was displaced.
	Evicted bool
	// EvictedAddr is the block address displaced when Evicted is true.
	EvictedAddr uint64
}

// Cache models a private write-back, write-allocate data cache over the
// WRAM region. The directory and replacement policy come from the Akita
// cache components; the data store mirrors WRAM so the model never alters
// functional behavior.
type Cache struct {
	config CacheConfig

	directory *akitacache.DirectoryImpl
	dataStore [][]byte

	stats   CacheStats
	backing cacheBacking
}

// CacheStats holds cache performance counters.
type CacheStats struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// cacheBacking is the next level of the hierarchy, always the raw WRAM.
type cacheBacking interface {
	Read(addr uint64, size int) []byte
	Write(addr uint64, data []byte)
}

// NewCache creates a cache with the given configuration over backing.
func NewCache(config CacheConfig, backing cacheBacking) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() CacheConfig {
	return c.config
}

// Stats returns the access counters.
func (c *Cache) Stats() CacheStats {
	return c.stats
}

// ResetStats clears the access counters.
func (c *Cache) ResetStats() {
	c.stats = CacheStats{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint64) uint64 {
	return addr / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
}

// Read records a load of size bytes at addr.
func (c *Cache) Read(addr uint64, size int) AccessResult {
	c.stats.Reads++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr % uint64(c.config.BlockSize)
		data := extractData(c.dataStore[c.blockIndex(block)], offset, size)
		return AccessResult{Hit: true, Latency: c.config.HitLatency, Data: data}
	}

	c.stats.Misses++
	return c.fill(addr, size, false, 0)
}

// Write records a store of size bytes at addr. Misses allocate.
func (c *Cache) Write(addr uint64, size int, data uint64) AccessResult {
	c.stats.Writes++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr % uint64(c.config.BlockSize)
		storeData(c.dataStore[c.blockIndex(block)], offset, size, data)
		block.IsDirty = true
		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	return c.fill(addr, size, true, data)
}

// fill services a miss: pick a victim, write it back if dirty, fetch the
// block from WRAM, then apply the access.
func (c *Cache) fill(addr uint64, size int, isWrite bool, writeData uint64) AccessResult {
	result := AccessResult{Latency: c.config.MissLatency}

	blockAddr := c.blockAddr(addr)
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]
	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = victim.Tag

		if victim.IsDirty {
			c.stats.Writebacks++
			c.backing.Write(victim.Tag, victimData)
		}
	}

	copy(victimData, c.backing.Read(blockAddr, c.config.BlockSize))

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	offset := addr % uint64(c.config.BlockSize)
	if isWrite {
		storeData(victimData, offset, size, writeData)
		victim.IsDirty = true
	} else {
		result.Data = extractData(victimData, offset, size)
	}

	c.directory.Visit(victim)
	return result
}

// Invalidate drops the block containing addr without writing it back.
func (c *Cache) Invalidate(addr uint64) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush writes back every dirty block and invalidates the whole cache.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.stats.Writebacks++
				c.backing.Write(block.Tag, c.dataStore[c.blockIndex(block)])
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates every block without writeback and clears the counters.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = CacheStats{}
}

// extractData reads a little-endian value of size bytes at offset.
func extractData(data []byte, offset uint64, size int) uint64 {
	if int(offset)+size > len(data) {
		return 0
	}
	var result uint64
	for i := 0; i < size; i++ {
		result |= uint64(data[int(offset)+i]) << (i * 8)
	}
	return result
}

// storeData writes the low size bytes of value at offset.
func storeData(data []byte, offset uint64, size int, value uint64) {
	if int(offset)+size > len(data) {
		return
	}
	for i := 0; i < size; i++ {
		data[int(offset)+i] = byte(value >> (i * 8))
	}
}
