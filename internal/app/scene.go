// Package app composes the flyover scene and adapts it to the ebiten game
// loop. Scene itself is headless and drives tests and sweeps.
package app

import (
	"log/slog"

	"flyover/internal/chunk"
	"flyover/internal/core"
	"flyover/internal/flight"
	"flyover/internal/render"
)

// Scene owns the render root, the per-frame scheduler, the chunk manager,
// and the aircraft it follows.
type Scene struct {
	Root     *render.Node
	Manager  *chunk.Manager
	Aircraft *flight.Aircraft

	updates core.UpdateList
	clock   *core.FrameClock
	log     *slog.Logger
}

// NewScene wires a scene rendering through device.
func NewScene(s Settings, device render.Device, log *slog.Logger) (*Scene, error) {
	if log == nil {
		log = slog.Default()
	}
	aircraft := flight.New(s.Aircraft, nil)
	manager, err := chunk.NewManager(s.Streaming, chunk.Env{Device: device}, aircraft, s.Biomes, log)
	if err != nil {
		return nil, err
	}
	aircraft.SetWorld(manager)

	sc := &Scene{
		Root:     render.NewNode("scene"),
		Manager:  manager,
		Aircraft: aircraft,
		clock:    core.NewFixedClock(60),
		log:      log,
	}
	sc.Root.Add(manager.Group())
	sc.Root.Add(aircraft.Node())
	// The aircraft moves first so the manager streams around its new cell.
	sc.updates.Add(aircraft)
	sc.updates.Add(manager)
	log.Info("scene ready",
		"biome", manager.Biome().Name,
		"radius", s.Streaming.Radius,
		"chunk_size", s.Streaming.ChunkSize,
		"resolution", s.Streaming.Resolution)
	return sc, nil
}

// Update fans timestamp out to every updatable in the scene.
func (s *Scene) Update(timestamp float64) { s.updates.Update(timestamp) }

// Step advances the scene by one fixed frame and returns its timestamp.
func (s *Scene) Step() float64 {
	ts := s.clock.Tick()
	s.Update(ts)
	return ts
}

// Reset puts the aircraft back at the origin and restores the default world.
func (s *Scene) Reset() {
	s.Aircraft.Reset()
	s.Manager.Reset()
	s.clock.Reset()
	s.log.Info("scene reset")
}

// CycleBiome switches to the next registered biome and returns its name.
func (s *Scene) CycleBiome() (string, error) {
	names := s.Manager.Biomes().Names()
	current := s.Manager.Biome().Name
	next := names[0]
	for i, n := range names {
		if n == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := s.Manager.SetBiome(next); err != nil {
		return current, err
	}
	return next, nil
}

// Close releases every resident chunk.
func (s *Scene) Close() error { return s.Manager.Close() }
