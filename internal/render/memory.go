package render

import (
	"fmt"
	"sync"
)

// MemoryStats summarizes buffer traffic on a MemoryDevice.
type MemoryStats struct {
	Allocated int
	Released  int
	Updates   int
	Live      int
	LiveBytes int
}

// MemoryDevice keeps buffers in host memory. It backs headless runs and
// makes leaks observable through Stats.
type MemoryDevice struct {
	mu    sync.Mutex
	stats MemoryStats
}

// NewMemoryDevice returns an empty device.
func NewMemoryDevice() *MemoryDevice { return &MemoryDevice{} }

// NewBuffer copies the mesh attributes into a new buffer.
func (d *MemoryDevice) NewBuffer(m *Mesh) (Buffer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := &memoryBuffer{dev: d, resolution: m.Resolution, indices: m.Indices}
	b.write(m)

	d.mu.Lock()
	d.stats.Allocated++
	d.stats.Live++
	d.stats.LiveBytes += b.size()
	d.mu.Unlock()
	return b, nil
}

// Stats returns a copy of the current counters.
func (d *MemoryDevice) Stats() MemoryStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

type memoryBuffer struct {
	dev        *MemoryDevice
	resolution int
	data       []float32
	tags       []uint8
	indices    []uint32
	released   bool
}

func (b *memoryBuffer) write(m *Mesh) {
	n := m.VertexCount()
	if cap(b.data) < n*6 {
		b.data = make([]float32, n*6)
		b.tags = make([]uint8, n)
	}
	b.data = b.data[:n*6]
	b.tags = b.tags[:n]
	for i := 0; i < n; i++ {
		p, nm := m.Positions[i], m.Normals[i]
		copy(b.data[i*6:], []float32{p[0], p[1], p[2], nm[0], nm[1], nm[2]})
	}
	copy(b.tags, m.Tags)
}

func (b *memoryBuffer) size() int {
	return len(b.data)*4 + len(b.tags) + len(b.indices)*4
}

func (b *memoryBuffer) Update(m *Mesh) error {
	if b.released {
		return ErrReleased
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Resolution != b.resolution {
		return fmt.Errorf("render: update changes resolution %d -> %d", b.resolution, m.Resolution)
	}
	b.write(m)
	b.dev.mu.Lock()
	b.dev.stats.Updates++
	b.dev.mu.Unlock()
	return nil
}

func (b *memoryBuffer) Release() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	b.dev.mu.Lock()
	b.dev.stats.Released++
	b.dev.stats.Live--
	b.dev.stats.LiveBytes -= b.size()
	b.dev.mu.Unlock()
	b.data, b.tags, b.indices = nil, nil, nil
	return nil
}
