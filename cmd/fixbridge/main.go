// Command fixbridge runs the FIX 4.4 NewOrderSingle bridge in front of an
// in-process matching engine. It takes one positional argument: a
// key=value session settings file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"matchcore/internal/engine"
	"matchcore/internal/fixbridge"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.NewConsoleWriter())

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: fixbridge <session-settings-file>")
		os.Exit(1)
	}

	settings, err := fixbridge.LoadSettings(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("failed loading session settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	eng := engine.New()
	bridge := fixbridge.New(eng, settings)

	log.Info().Str("address", settings.ListenAddress).Msg("fixbridge starting")
	if err := bridge.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("fixbridge exited with error")
		os.Exit(1)
	}
}
