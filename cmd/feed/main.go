// Command feed is a standalone synthetic order producer that posts to a
// remote gateway over HTTP, mirroring original_source/backend/feed.cpp's
// CURL-based poster. It is an alternative to the in-process feed the
// server binary starts by default: useful for driving a
// gateway instance from outside its process.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type orderRequest struct {
	Symbol   string  `json:"symbol"`
	ID       int     `json:"id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Side     string  `json:"side"`
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.NewConsoleWriter())

	target := flag.String("target", "http://127.0.0.1:18080/add_order", "gateway add_order endpoint")
	period := flag.Duration("period", 3*time.Second, "delay between posted orders")
	flag.Parse()

	symbols := []string{"AAPL", "MSFT"}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(*period)
	defer ticker.Stop()

	log.Info().Str("target", *target).Msg("feed starting")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("feed shutting down")
			return
		case <-ticker.C:
			order := randomOrder(rng, symbols)
			if err := postOrder(ctx, client, *target, order); err != nil {
				log.Error().Err(err).Int("id", order.ID).Msg("feed: order post failed")
			}
		}
	}
}

func randomOrder(rng *rand.Rand, symbols []string) orderRequest {
	side := "B"
	if rng.Intn(2) != 0 {
		side = "S"
	}
	return orderRequest{
		Symbol:   symbols[rng.Intn(len(symbols))],
		ID:       rng.Intn(100000) + 50000,
		Price:    100.0 + float64(rng.Intn(50)),
		Quantity: rng.Intn(10) + 1,
		Side:     side,
	}
}

func postOrder(ctx context.Context, client *http.Client, target string, order orderRequest) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed: gateway returned status %d", resp.StatusCode)
	}
	log.Info().Int("id", order.ID).Str("symbol", order.Symbol).Msg("feed: order posted")
	return nil
}
