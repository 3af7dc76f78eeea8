package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"campus-map/internal/common/config"
	"campus-map/internal/common/middleware"
	"campus-map/internal/navigator/dataset"
	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/handlers"
	"campus-map/internal/navigator/repository"
	"campus-map/internal/navigator/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Navigator Service
// ============================================================

func main() {
	cfg := config.Load()

	files := dataset.NewFiles(cfg.DataDir, cfg.ImagesDir)
	if err := files.EnsureDirs(); err != nil {
		log.Fatalf("data dir: %v", err)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	ds, err := dataset.Load(files)
	if err != nil {
		log.Printf("[CATALOG] Dataset not imported, serving the existing catalog: %v", err)
	} else if err := repo.ImportDataset(context.Background(), ds); err != nil {
		log.Fatalf("import dataset: %v", err)
	}

	var graphOpts []graph.Option
	if cfg.StrictFloors {
		graphOpts = append(graphOpts, graph.WithStrictFloors())
	}
	store, err := dataset.LoadGraph(files, graphOpts...)
	if err != nil {
		log.Fatalf("load graph: %v", err)
	}

	images := service.NewImageCache(files)
	if err := images.Watch(); err != nil {
		log.Printf("[IMAGES] Hot reload disabled: %v", err)
	}
	defer images.Close()

	ctrl := service.NewController(repo, images, store, float64(cfg.CanvasWidth), float64(cfg.CanvasHeight))

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Campus Navigator",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.DevMode))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health := handlers.NewHealthHandler(repo, ctrl.NodeCount)
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	handlers.RegisterDocs(app)

	// ============================================================
	// Navigator Routes
	// ============================================================

	handlers.NewImageHandler(files, images).Register(app)

	api := app.Group("/api/v1")
	handlers.NewNavigationHandler(ctrl).Register(api)

	if cfg.DevMode {
		handlers.NewEditorHandler(ctrl).Register(api)
		log.Printf("[EDITOR] Dev mode: graph editor enabled")
	}

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Campus Navigator on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
