package main

import (
	"flag"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Shadow-Sense/internal/config"
	"github.com/Garsondee/Shadow-Sense/internal/game"
	"github.com/Garsondee/Shadow-Sense/internal/logger"
	"github.com/Garsondee/Shadow-Sense/internal/physics"
	"github.com/Garsondee/Shadow-Sense/internal/render"
	"github.com/Garsondee/Shadow-Sense/levels"
)

func main() {
	var cfgPath string
	var watch bool
	flag.StringVar(&cfgPath, "config", "", "YAML tuning file (overridden by SHADOW_CONFIG)")
	flag.BoolVar(&watch, "watch", true, "reload the level when the config or level file changes")
	flag.Parse()

	log := logger.Component("main")

	cfg, err := config.LoadEnv(cfgPath)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.WithError(err).Fatal("log level")
	}

	var watcher *config.Watcher
	if watch {
		if watcher, err = config.NewWatcher(watchFiles(cfg, cfg.Grid.Level)...); err != nil {
			log.WithError(err).Warn("hot reload disabled")
		} else {
			defer watcher.Close()
		}
	}

	load := func(level string) (*render.Session, error) {
		// Re-read the tuning so hot reloads pick up edits.
		c, err := config.LoadEnv(cfgPath)
		if err != nil {
			return nil, err
		}
		if level == "" {
			level = c.Grid.Level
		}
		if watcher != nil {
			if err := watcher.SetFiles(watchFiles(c, level)...); err != nil {
				log.WithError(err).Warn("watch")
			}
		}
		return newSession(c, level)
	}

	var reload <-chan string
	if watcher != nil {
		reload = watcher.Events
	}

	g, err := render.NewGame(load, reload, 1280, 800)
	if err != nil {
		log.WithError(err).Fatal("load level")
	}
	ebiten.SetWindowTitle("Shadow Sense")
	ebiten.SetWindowSize(1280, 800)
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("game loop")
	}
}

// watchFiles lists the files whose edits should rebuild the session: the
// config file actually loaded and the level when it lives on disk.
func watchFiles(cfg config.Config, level string) []string {
	files := []string{cfg.Path}
	if level != "" && !levels.IsEmbedded(level) {
		files = append(files, level)
	}
	return files
}

func newSession(cfg config.Config, level string) (*render.Session, error) {
	grid, err := levels.Load(level, cfg.Grid.TileSize)
	if err != nil {
		return nil, err
	}
	space := physics.NewSpace(game.NewObstacleRegistry(grid).Static())
	w, err := game.NewWorld(grid, space, cfg.Tuning())
	if err != nil {
		return nil, err
	}
	if cfg.Sim.Workers > 0 {
		w.Workers = cfg.Sim.Workers
	}
	w.Log = game.NewSimLog(cfg.Sim.Verbose)
	w.SpawnFromGrid(space, rand.New(rand.NewSource(cfg.Sim.Seed))) // #nosec G404 -- game only
	return &render.Session{Level: level, World: w, Space: space, DT: cfg.TickDT()}, nil
}
