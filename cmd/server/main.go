package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	server "marble-run/server"
	"marble-run/server/logging"
	loggingSinks "marble-run/server/logging/sinks"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context) error {
	sinks := map[string]logging.Sink{
		"console": loggingSinks.NewConsoleSink(os.Stdout),
	}
	router, err := logging.NewRouter(logging.DefaultConfig(), logging.SystemClock{}, log.Default(), sinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			log.Printf("failed to close logging router: %v", cerr)
		}
	}()

	cfg := server.DefaultMatchConfig()
	if raw := os.Getenv("MARBLE_MODE"); raw != "" {
		cfg.Mode = server.GameMode(raw)
	}
	if raw := os.Getenv("MARBLE_SEED"); raw != "" {
		cfg.Seed = raw
	}
	if raw := os.Getenv("MARBLE_OBSTACLES"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Obstacles = value
		} else {
			log.Printf("invalid MARBLE_OBSTACLES=%q: %v", raw, err)
		}
	}

	hub := server.NewHub(cfg, router)
	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	addr := ":8080"
	if raw := os.Getenv("MARBLE_ADDR"); raw != "" {
		addr = raw
	}

	srv := &http.Server{Addr: addr, Handler: server.NewMux(hub)}
	log.Printf("server listening on %s mode=%s seed=%s", addr, cfg.Mode, cfg.Seed)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
