package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shopapi/internal/server"
	"shopapi/internal/shared"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()
	cfg := shared.LoadConfig()

	var items server.ItemStore
	var carts server.CartStore

	switch cfg.Backend {
	case "memory":
		items = server.NewMemoryItemStore()
		carts = server.NewMemoryCartStore()
	case "sqlite":
		dbDir := filepath.Dir(cfg.DBPath)
		if dbDir != "." && dbDir != "" {
			if err := os.MkdirAll(dbDir, 0o700); err != nil {
				log.Fatal().Err(err).Str("dir", dbDir).Msg("failed to create db dir")
			}
		}
		db, err := server.OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open db")
		}
		items = server.NewSQLiteItemStore(db)
		carts = server.NewSQLiteCartStore(db)
	default:
		log.Fatal().Str("backend", cfg.Backend).Msg("unknown backend (want memory or sqlite)")
	}

	api := &server.API{Items: items, Carts: carts, Log: log.Logger}

	handler := api.WithRecover(api.WithRequestLog(api.Routes()))
	handler = cors.Default().Handler(handler)

	log.Info().
		Str("addr", cfg.Addr).
		Str("backend", cfg.Backend).
		Msg("shop-server listening")

	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
