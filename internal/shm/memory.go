package shm

import (
	"sync"

	"github.com/go-errors/errors"
)

// MemoryAcquirer keeps regions in process memory. Acquiring a name twice
// returns the same backing bytes, which lets a test play both sides of a
// channel.
type MemoryAcquirer struct {
	lock    sync.Mutex
	regions map[string][]byte
}

func NewMemoryAcquirer() *MemoryAcquirer {
	return &MemoryAcquirer{regions: make(map[string][]byte)}
}

type memoryRegion struct {
	data []byte
}

func (a *MemoryAcquirer) Acquire(name string, size int) (Region, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid size %d for %s", size, name)
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	data, ok := a.regions[name]
	if !ok || len(data) != size {
		// same as ftruncate: keep the common prefix, zero the rest
		resized := make([]byte, size)
		copy(resized, data)
		data = resized
		a.regions[name] = data
	}
	return &memoryRegion{data: data}, nil
}

func (r *memoryRegion) Bytes() []byte {
	return r.data
}

func (r *memoryRegion) Close() error {
	return nil
}
