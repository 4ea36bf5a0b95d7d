// Package gateway is the HTTP/WebSocket facade in front of the matching
// engine's Command Surface. It never reaches into book internals — every
// handler calls Add/Cancel/Modify/Count/Snapshot/Trades/Risk/Symbols and
// nothing else.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/engine"
	"matchcore/internal/metrics"
)

// Config controls the gateway's bind address and timeouts.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 18080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	return c
}

// Server wraps the engine's Command Surface with an HTTP/WebSocket
// boundary.
type Server struct {
	engine *engine.Engine
	config Config
	router *mux.Router
	http   *http.Server
}

// New builds a Server bound to eng. Call Run to start serving.
func New(eng *engine.Engine, config Config) *Server {
	s := &Server{
		engine: eng,
		config: config.withDefaults(),
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/add_order", s.handleAddOrder).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/cancel_order", s.handleCancelOrder).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/modify_order", s.handleModifyOrder).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/order_count", s.handleOrderCount).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/order_book", s.handleOrderBook).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/trades", s.handleTrades).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/risk_metrics", s.handleRiskMetrics).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/benchmark", s.handleBenchmark).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/benchmark_advanced", s.handleBenchmarkAdvanced).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/symbols", s.handleSymbols).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/ws", s.handleWS)
	s.router.Handle("/metrics", metrics.Handler())
}

// Run starts the HTTP server under t and blocks until ctx is cancelled or
// the listener dies. Shutdown is graceful, tomb-supervised like the rest
// of this system's long-running goroutines.
func (s *Server) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      withAccessLog(withRequestID(c.Handler(s.router))),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	t.Go(func() error {
		log.Info().Str("address", s.http.Addr).Msg("gateway listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	t.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("gateway shutting down")
		return s.http.Shutdown(shutdownCtx)
	})

	return t.Wait()
}
