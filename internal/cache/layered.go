package cache

import "time"

// LayeredCache checks memory first, then disk, promoting disk hits into
// memory. Writes go to both layers.
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache combines a memory and a disk cache. disk may be nil,
// in which case only the memory layer is used.
func NewLayeredCache(memory *MemoryCache, disk *DiskCache) *LayeredCache {
	return &LayeredCache{memory: memory, disk: disk}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if data, found := c.memory.Get(key); found {
		return data, true
	}
	if c.disk == nil {
		return nil, false
	}
	data, found := c.disk.Get(key)
	if found {
		_ = c.memory.Set(key, data, 0)
	}
	return data, found
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if c.disk == nil {
		return nil
	}
	return c.disk.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	if err := c.memory.Delete(key); err != nil {
		return err
	}
	if c.disk == nil {
		return nil
	}
	return c.disk.Delete(key)
}

func (c *LayeredCache) Clear() error {
	if err := c.memory.Clear(); err != nil {
		return err
	}
	if c.disk == nil {
		return nil
	}
	return c.disk.Clear()
}
