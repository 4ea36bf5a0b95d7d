// Command server runs the gateway binary: the HTTP/WebSocket facade in
// front of the matching engine, plus the in-process synthetic feed for a
// default symbol set. It binds port 18080 and serves multithreaded.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/engine"
	"matchcore/internal/feed"
	"matchcore/internal/gateway"
)

var defaultSymbols = []string{"AAPL", "MSFT"}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.NewConsoleWriter())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	eng := engine.New()
	srv := gateway.New(eng, gateway.Config{Port: 18080})

	t, ctx := tomb.WithContext(ctx)

	t.Go(func() error {
		return srv.Run(ctx)
	})

	t.Go(func() error {
		return feed.RunAll(ctx, eng, defaultSymbols, feed.DefaultPeriod)
	})

	log.Info().Strs("symbols", defaultSymbols).Msg("matchcore server starting")

	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("matchcore server exited with error")
		os.Exit(1)
	}
}
