//go:build ebiten

// Command cupview shows the cooling cup's vertical cross-section live.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"cupheat/internal/app"
	"cupheat/internal/log"
	"cupheat/internal/sims/coffee"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := log.Init(cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	scenario := coffee.DefaultConfig()
	if cfg.ConfigPath != "" {
		var err error
		if scenario, err = coffee.LoadConfig(cfg.ConfigPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	game, err := app.New(context.Background(), cfg, scenario, log.Logger())
	if err != nil {
		log.Fatalf("%v", err)
	}
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("cupheat: " + game.Session().ID().String())
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("%v", err)
	}
	log.Info("viewer closed")
}
