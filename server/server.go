// Package server wires configuration, storage, cache, events and routes into
// a running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Fraol7/FoodWagen/config"
	controller "github.com/Fraol7/FoodWagen/controllers"
	"github.com/Fraol7/FoodWagen/events"
	"github.com/Fraol7/FoodWagen/helper"
	"github.com/Fraol7/FoodWagen/routes"
	"github.com/Fraol7/FoodWagen/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg       *config.Config
	log       *helper.Logger
	store     store.FoodStore
	publisher events.Publisher
	handler   http.Handler
}

// Build opens the store and the optional cache and broker. A missing or
// unreachable Redis or RabbitMQ is logged and skipped; only the store is
// mandatory.
func Build(ctx context.Context, cfg *config.Config, log *helper.Logger) (*Server, error) {
	s, err := store.Open(ctx, cfg.MongoURI, store.Options{Database: cfg.MongoDatabase})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Info("", "store_connected", "Food store ready")

	if cfg.Redis.Addr != "" {
		rdb, err := config.RedisInstance(ctx, cfg.Redis)
		if err != nil {
			log.Warn("", "cache_disabled", "Redis unavailable, serving without cache", "error", err.Error())
		} else {
			s = store.NewCachedStore(s, rdb, cfg.Redis.TTL, log)
			log.Info("", "cache_enabled", "Redis cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	var pub events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rp, err := events.DialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Warn("", "events_disabled", "RabbitMQ unavailable, events will not be published", "error", err.Error())
		} else {
			pub = rp
			log.Info("", "events_enabled", "Publishing events", "exchange", cfg.RabbitMQ.Exchange)
		}
	}

	c := controller.NewFoodController(s, pub, log, cfg.RequestTimeout, cfg.IsDevelopment())
	router := routes.NewRouter(c, log, routes.RouterOptions{
		CORSOrigin: cfg.CORSOrigin,
		DevMode:    cfg.IsDevelopment(),
	})

	return &Server{cfg: cfg, log: log, store: s, publisher: pub, handler: router}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("", "server_started", "Server running on port "+s.cfg.Port, "port", s.cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("", "server_stopping", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the broker connection and the store.
func (s *Server) Close(ctx context.Context) error {
	if err := s.publisher.Close(); err != nil {
		s.log.Warn("", "events_close_failed", "RabbitMQ close failed", "error", err.Error())
	}
	return s.store.Close(ctx)
}
