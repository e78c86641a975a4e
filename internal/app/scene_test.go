package app

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flyover/internal/chunk"
	"flyover/internal/flight"
	"flyover/internal/render"
	"flyover/internal/terrain"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.Streaming.ChunkSize = 64
	s.Streaming.Resolution = 9
	s.Streaming.Radius = 1
	s.Streaming.EvictionMargin = 0
	s.Streaming.MaxCreatesPerFrame = 0
	s.Aircraft.Altitude = 1000
	return s
}

func newTestScene(t *testing.T) (*Scene, *render.MemoryDevice) {
	t.Helper()
	dev := render.NewMemoryDevice()
	sc, err := NewScene(testSettings(), dev, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return sc, dev
}

func TestSceneStreamsAroundAircraft(t *testing.T) {
	sc, dev := newTestScene(t)
	sc.Step()
	require.Equal(t, 9, sc.Manager.Len())
	assert.True(t, sc.Root.Contains(sc.Manager.Group()))
	assert.True(t, sc.Root.Contains(sc.Aircraft.Node()))

	for i := 0; i < 90; i++ {
		sc.Step()
	}
	pos := sc.Aircraft.Position()
	require.Greater(t, pos.Z(), 64.0, "aircraft should have crossed into the next row")
	center := chunk.CoordAt(pos.X(), pos.Z(), 64)
	got, ok := sc.Manager.Center()
	require.True(t, ok)
	assert.Equal(t, center, got)
	assert.ElementsMatch(t, chunk.RequiredSet(center, 1), sc.Manager.ResidentCoords())
	assert.Equal(t, 9, dev.Stats().Live)

	require.NoError(t, sc.Close())
	assert.Zero(t, dev.Stats().Live)
}

func TestSceneClimbAndReset(t *testing.T) {
	sc, _ := newTestScene(t)
	sc.Aircraft.SetControls(flight.Controls{Climb: true})
	for i := 0; i < 10; i++ {
		sc.Step()
	}
	assert.Equal(t, chunk.ModeClimbing, sc.Manager.Mode())
	assert.Less(t, sc.Manager.Offset(), 0.0)

	_, err := sc.CycleBiome()
	require.NoError(t, err)
	sc.Step()
	require.NotEqual(t, terrain.DefaultBiome, sc.Manager.Biome().Name)

	sc.Reset()
	assert.Zero(t, sc.Manager.Offset())
	assert.Equal(t, terrain.DefaultBiome, sc.Manager.Biome().Name)
	assert.Zero(t, sc.Aircraft.Position().Z())
	assert.Equal(t, chunk.ModeDefault, sc.Manager.Mode())
}

func TestCycleBiomeOrder(t *testing.T) {
	sc, _ := newTestScene(t)
	names := sc.Manager.Biomes().Names()
	seen := map[string]bool{}
	for range names {
		name, err := sc.CycleBiome()
		require.NoError(t, err)
		seen[name] = true
	}
	assert.Len(t, seen, len(names))
	assert.Equal(t, terrain.DefaultBiome, sc.Manager.Biome().Name)
}

func TestLoadSettingsExplicitFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flyover.yaml")
	doc := "streaming:\n  radius: 4\n  resolution: 17\n  biome: desert\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	parse := func(args ...string) Settings {
		fs := flag.NewFlagSet("flyover", flag.ContinueOnError)
		cfg := NewConfig()
		cfg.Bind(fs)
		require.NoError(t, fs.Parse(append([]string{"-config", path}, args...)))
		s, err := LoadSettings(cfg, Explicit(fs))
		require.NoError(t, err)
		return s
	}

	s := parse()
	assert.Equal(t, 4, s.Streaming.Radius)
	assert.Equal(t, 17, s.Streaming.Resolution)
	assert.Equal(t, "desert", s.Streaming.Biome)

	s = parse("-radius", "2", "-biome", "alpine")
	assert.Equal(t, 2, s.Streaming.Radius)
	assert.Equal(t, "alpine", s.Streaming.Biome)
	assert.Equal(t, 17, s.Streaming.Resolution)
}

func TestLoadSettingsRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("streaming:\n  radius: lots\n"), 0o644))
	cfg := NewConfig()
	cfg.ConfigPath = path
	_, err := LoadSettings(cfg, nil)
	assert.Error(t, err)
}
