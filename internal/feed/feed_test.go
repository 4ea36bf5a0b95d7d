package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"matchcore/internal/engine"
)

func TestMarketMaker_PostsOrdersEachTick(t *testing.T) {
	eng := engine.New()
	maker := NewMarketMaker(eng, "AAPL", 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	err := maker.Run(ctx)
	assert.NoError(t, err)
	assert.Greater(t, eng.Count("AAPL"), 0)
}

func TestRunAll_CoversEverySymbol(t *testing.T) {
	eng := engine.New()
	symbols := []string{"AAPL", "MSFT"}

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	err := RunAll(ctx, eng, symbols, 10*time.Millisecond)
	assert.NoError(t, err)
	for _, sym := range symbols {
		assert.Greater(t, eng.Count(sym), 0)
	}
}
