package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"jellyball-sim/internal/config"
	"jellyball-sim/internal/simulation"
	"jellyball-sim/internal/visualization"
)

func main() {
	configPath := flag.String("config", "", "optional YAML tuning file; defaults are used when empty")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	world, err := simulation.NewWorld(float64(cfg.ScreenWidth), float64(cfg.ScreenHeight), cfg)
	if err != nil {
		log.Fatalf("Error creating world: %v", err)
	}

	for i := 0; i < cfg.InitialBodies; i++ {
		if _, err := world.SpawnRandomBody(); err != nil {
			log.Printf("Warning: could not spawn body %d: %v", i, err)
		}
	}

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle("Jelly Balls")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(visualization.NewRenderer(world, cfg)); err != nil {
		log.Fatal(err)
	}
}
