// Package feed implements synthetic order producers: stateless
// background tasks that call Add on a timer with randomized parameters.
// They hold no state beyond the engine's public Command Surface.
package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/engine"
)

// DefaultPeriod matches original_source/backend/server.cpp's
// marketMakerTask three-second post interval.
const DefaultPeriod = 3 * time.Second

// MarketMaker posts one randomized buy and one randomized sell order for
// symbol every period, grounded in marketMakerTask. It never rests any
// state beyond the engine's Add call.
type MarketMaker struct {
	Engine *engine.Engine
	Symbol string
	Period time.Duration
	rng    *rand.Rand
}

// NewMarketMaker builds a market maker for symbol. A zero period falls
// back to DefaultPeriod.
func NewMarketMaker(eng *engine.Engine, symbol string, period time.Duration) *MarketMaker {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &MarketMaker{
		Engine: eng,
		Symbol: symbol,
		Period: period,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run posts orders until ctx is cancelled, supervised by a tomb so the
// gateway can stop every symbol's maker on shutdown without leaking
// goroutines.
func (m *MarketMaker) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		ticker := time.NewTicker(m.Period)
		defer ticker.Stop()
		for {
			select {
			case <-t.Dying():
				return nil
			case <-ticker.C:
				m.postPair()
			}
		}
	})
	<-ctx.Done()
	t.Kill(nil)
	return t.Wait()
}

func (m *MarketMaker) postPair() {
	buyID := uint64(m.rng.Intn(10000) + 1000)
	bidPrice := 100.0 + float64(m.rng.Intn(100))/10.0
	buyQty := uint32(m.rng.Intn(50) + 1)
	if _, err := m.Engine.Add(engine.Order{
		ID: buyID, Symbol: m.Symbol, Price: bidPrice, Quantity: buyQty, Side: engine.Buy, Type: engine.Limit,
	}); err != nil {
		log.Error().Err(err).Str("symbol", m.Symbol).Msg("market maker buy rejected")
	}

	sellID := uint64(m.rng.Intn(10000) + 20000)
	askPrice := 100.0 + float64(m.rng.Intn(100))/10.0
	sellQty := uint32(m.rng.Intn(50) + 1)
	if _, err := m.Engine.Add(engine.Order{
		ID: sellID, Symbol: m.Symbol, Price: askPrice, Quantity: sellQty, Side: engine.Sell, Type: engine.Limit,
	}); err != nil {
		log.Error().Err(err).Str("symbol", m.Symbol).Msg("market maker sell rejected")
	}

	log.Info().Str("symbol", m.Symbol).Msg("market maker posted orders")
}

// RunAll starts one MarketMaker per symbol and blocks until ctx is
// cancelled and every maker has stopped.
func RunAll(ctx context.Context, eng *engine.Engine, symbols []string, period time.Duration) error {
	t, ctx := tomb.WithContext(ctx)
	for _, symbol := range symbols {
		maker := NewMarketMaker(eng, symbol, period)
		t.Go(func() error {
			return maker.Run(ctx)
		})
	}
	return t.Wait()
}
