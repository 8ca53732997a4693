package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/posebridge/config"
	"github.com/milk9111/posebridge/logging"
)

func main() {
	worldPath := flag.String("world", "", "world file (default: embedded demo world)")
	watch := flag.Bool("watch", false, "reload scale, frame and gravity when the world file changes")
	debug := flag.Bool("debug", false, "draw the Chipmunk2D debug view on top of the scene")
	logLevel := flag.String("log-level", "", "log level (default $POSEBRIDGE_LOG_LEVEL or info)")
	flag.Parse()

	level := *logLevel
	if level == "" {
		env, err := config.ParseEnv()
		if err != nil {
			log.Fatal(err)
		}
		level = env.LogLevel
	}
	logger, err := logging.New(level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	game, err := NewGame(*worldPath, *watch, *debug, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("posebridge")
	ebiten.SetTPS(game.tps())

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal(err.Error())
	}
}
