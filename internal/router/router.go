package router

import (
	"github.com/coded-movies/films-api/internal/cache"
	"github.com/coded-movies/films-api/internal/films"
	"github.com/coded-movies/films-api/internal/handlers"
	"github.com/coded-movies/films-api/internal/mirror"
	"github.com/coded-movies/films-api/internal/models"
	"github.com/coded-movies/films-api/internal/repositories"
	"github.com/coded-movies/films-api/internal/swapi"
	"github.com/coded-movies/films-api/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Pre(eMiddleware.AddTrailingSlash())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	// AutoMigrate models. The films table exists in both modes; in snapshot
	// mode it simply stays empty and the comment FK is not created.
	if err := db.AutoMigrate(&models.Film{}, &models.Comment{}); err != nil {
		log.Fatal().Err(err).Msg("failed to auto migrate models")
	}

	// Health check - always accessible
	e.GET("/health/", handlers.HealthCheck)

	// --- Initialize repositories and the upstream client ---
	filmRepo := repositories.NewPostgresFilmRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	client := swapi.NewClient(cfg.SwapiBaseURL, cfg.SwapiTimeout)

	// --- Select the film source strategy ---
	var source films.Source
	var engine *mirror.Engine
	if cfg.UseSnapshot() {
		var snapshotCache cache.Cache
		if rdb := config.NewRedisClient(cfg.RedisAddr); rdb != nil {
			snapshotCache = cache.NewRedis(rdb)
			log.Info().Str("addr", cfg.RedisAddr).Msg("snapshot cache backed by Redis")
		} else {
			snapshotCache = cache.NewMemory()
			log.Info().Msg("snapshot cache backed by process memory")
		}
		source = films.NewSnapshot(client, snapshotCache, cfg.SnapshotTTL, commentRepo)
	} else {
		engine = mirror.NewEngine(client, filmRepo)
		source = films.NewMirror(filmRepo, engine, cfg.SyncOnRead)
	}

	api := e.Group("/api")

	// Film routes
	filmHandler := handlers.NewFilmHandler(source, engine)
	filmHandler.RegisterFilmRoutes(api)

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, source)
	commentHandler.RegisterCommentRoutes(api)

	log.Info().Str("film_source", cfg.FilmSource).Msg("routes configured")
}
