package http

import (
	"log/slog"

	"github.com/Rech1n/Kitsune/internal/config"
	"github.com/Rech1n/Kitsune/internal/http/handlers"
	"github.com/Rech1n/Kitsune/internal/hybrid"
	"github.com/Rech1n/Kitsune/internal/streams"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func NewServer(cfg config.Config, registry *streams.Registry, catalog handlers.Catalog, logger *slog.Logger) *fiber.App {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = streams.NewRegistry()
	}

	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(requestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	resolver := hybrid.NewResolver(registry, catalog, logger)

	health := handlers.NewHealthHandler(catalog, resolver)
	streamsHandler := handlers.NewStreamsHandler(resolver)
	servers := handlers.NewServersHandler(resolver, logger)
	episode := handlers.NewEpisodeHandler(resolver, logger)
	catalogHandler := handlers.NewCatalogHandler(catalog)

	app.Get("/health", health.Check)

	api := app.Group("/api")
	api.Get("/health", health.Check)

	admin := api.Group("/admin")
	admin.Get("/streams", streamsHandler.List)
	admin.Post("/streams", streamsHandler.Create)
	admin.Delete("/streams", streamsHandler.Delete)
	admin.Delete("/streams/:id", streamsHandler.Delete)
	admin.Patch("/streams/:id", streamsHandler.SetActive)
	admin.Get("/servers", servers.ForEpisode)
	admin.Get("/servers/registry", servers.List)
	admin.Post("/servers", servers.Register)
	admin.Get("/search", catalogHandler.AdminSearch)

	api.Get("/episode/sources", episode.Sources)
	api.Get("/episode/servers", catalogHandler.EpisodeServers)
	api.Get("/anime/:id", catalogHandler.AnimeInfo)
	api.Get("/anime/:id/episodes", catalogHandler.Episodes)
	api.Get("/search", catalogHandler.Search)
	api.Get("/search/suggestion", catalogHandler.Suggestions)
	api.Get("/schedule", catalogHandler.Schedule)
	api.Get("/home", catalogHandler.Home)

	return app
}
