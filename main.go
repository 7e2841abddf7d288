package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/laser-visualization/internal/config"
	"github.com/iburimskiy/laser-visualization/internal/game"
	"github.com/iburimskiy/laser-visualization/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "YAML show file (defaults are used when empty)")
	seed := flag.Uint64("seed", 1, "seed for the random effects")
	verbose := flag.Bool("v", false, "log to stderr")
	audioPath := flag.String("audio", "", "audio file to play on start")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	g, err := game.New(cfg, *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer g.Close()

	if *audioPath != "" {
		if err := g.Play(*audioPath); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Laser Visualizer - Open a file, Space: Play/Pause, 1-7: effects, Esc/Q: Quit")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logging.Logger().Error("game stopped", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
