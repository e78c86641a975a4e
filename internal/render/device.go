package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrReleased is returned by buffers used after Release.
var ErrReleased = errors.New("render: buffer released")

// Mesh is a regular grid of Resolution×Resolution vertices. Indices describe
// the fixed topology and are shared between meshes of the same resolution.
type Mesh struct {
	Resolution int
	Positions  []mgl32.Vec3
	Normals    []mgl32.Vec3
	Tags       []uint8
	Indices    []uint32
}

// VertexCount returns the number of vertices implied by Resolution.
func (m *Mesh) VertexCount() int { return m.Resolution * m.Resolution }

// Validate checks that attribute and index lengths match the resolution.
func (m *Mesh) Validate() error {
	if m.Resolution < 2 {
		return fmt.Errorf("render: mesh resolution %d below 2", m.Resolution)
	}
	n := m.VertexCount()
	if len(m.Positions) != n || len(m.Normals) != n || len(m.Tags) != n {
		return fmt.Errorf("render: mesh attributes %d/%d/%d, want %d",
			len(m.Positions), len(m.Normals), len(m.Tags), n)
	}
	quads := (m.Resolution - 1) * (m.Resolution - 1)
	if len(m.Indices) != quads*6 {
		return fmt.Errorf("render: mesh has %d indices, want %d", len(m.Indices), quads*6)
	}
	return nil
}

// Device allocates GPU-resident buffers.
type Device interface {
	NewBuffer(m *Mesh) (Buffer, error)
}

// Buffer is a GPU-resident copy of a Mesh. Update overwrites vertex attributes
// in place and keeps the index data; Release frees the GPU resources.
type Buffer interface {
	Update(m *Mesh) error
	Release() error
}
