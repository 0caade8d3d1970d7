package main

import (
	"os"
	"path/filepath"

	"auction-pricer/internal/api/handlers"
	"auction-pricer/internal/api/middleware"
	"auction-pricer/internal/config"
	"auction-pricer/internal/data"
	"auction-pricer/internal/inference"
	"auction-pricer/internal/metrics"
	"auction-pricer/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	production := os.Getenv("API_ENV") == "production"
	setupLogging(production)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing historical data store")
	}
	feed := data.NewFeed(cfg, data.NewWindowCache())
	reg := registry.New(&registry.JSONLoader{Dir: cfg.ModelDir})
	engine := inference.New(reg)

	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	predictHandler := handlers.NewPredictHandler(store, feed, reg, engine)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/predict", predictHandler.Predict)
		api.GET("/product-groups", handlers.ListProductGroups)
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("data_source", cfg.DataSource).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// newStore picks MySQL when db_url is configured, the xlsx workbook
// otherwise.
func newStore(cfg *config.Config) (data.Store, error) {
	if cfg.DBURL != "" {
		return data.NewSQLStore(cfg.DBURL, cfg.HistoricalLookbackYears)
	}
	return &data.ExcelStore{
		Path:          filepath.Join(cfg.DataDir, data.AuctionWorkbook),
		LookbackYears: cfg.HistoricalLookbackYears,
	}, nil
}

func setupLogging(production bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
