//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"flyover/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	settings, err := app.LoadSettings(cfg, app.Explicit(flag.CommandLine))
	if err != nil {
		log.Fatal(err)
	}

	game, err := app.New(cfg, settings, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := game.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle("flyover")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
