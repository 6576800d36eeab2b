/*
main.go - Application entry point

PURPOSE:
  Starts the loyalty ledger server: loads configuration, opens the SQLite
  store, wires the ledgers and derivation engine, and runs the HTTP
  server with graceful shutdown.

CONFIGURATION:
  Flags, overridable by environment (a .env file is loaded if present):
    -port / PORT          HTTP server port (default 8080)
    -db   / LOYALTY_DB    SQLite database path (default loyalty.db,
                          ":memory:" for an in-memory database)
    -log  / LOG_LEVEL     zerolog level (default info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  in-flight requests, close the database, exit.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warp/loyalty-ledger/api"
	"github.com/warp/loyalty-ledger/loyalty"
	"github.com/warp/loyalty-ledger/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	port := flag.String("port", envOr("PORT", "8080"), "HTTP server port")
	dbPath := flag.String("db", envOr("LOYALTY_DB", "loyalty.db"), "SQLite database path")
	logLevel := flag.String("log", envOr("LOG_LEVEL", "info"), "log level")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if level, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	st, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("failed to open database")
	}
	defer st.Close()

	settings := loyalty.NewSettingsService(st.Settings())
	handler := api.NewHandler(
		loyalty.NewCustomerLedger(st.Customers()),
		loyalty.NewSaleLedger(st.Sales(), settings),
		settings,
		loyalty.NewMetrics(nil),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", *port),
		Handler: api.NewRouter(handler, log.Logger),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("db", *dbPath).Msg("loyalty ledger listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
