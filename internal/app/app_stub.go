//go:build !ebiten

package app

import (
	"errors"
	"log/slog"
)

// ErrNoDisplay is returned by New in builds without the ebiten tag.
var ErrNoDisplay = errors.New("app: the GUI requires building with the 'ebiten' tag")

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New reports that the GUI is unavailable in headless builds.
func New(*Config, Settings, *slog.Logger) (*Game, error) { return nil, ErrNoDisplay }

// Scene returns nil in the headless build.
func (g *Game) Scene() *Scene { return nil }

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrNoDisplay }

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }

// Close is a no-op in the headless build.
func (g *Game) Close() error { return nil }
