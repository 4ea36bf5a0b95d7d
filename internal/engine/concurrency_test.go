package engine

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentAdds exercises the book under parallel Add callers: every
// Add must succeed, and the resulting snapshot must stay within
// MaxSnapshotDepth with bids in descending price order. Run with -race to
// catch lock discipline bugs.
func TestConcurrentAdds(t *testing.T) {
	eng := New()
	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(worker)))
			for i := 0; i < perWorker; i++ {
				id := uint64(worker)*uint64(perWorker) + uint64(i) + 1
				side := Buy
				if rng.Intn(2) == 0 {
					side = Sell
				}
				price := 100 + float64(rng.Intn(5))
				_, err := eng.Add(Order{
					ID:       id,
					Symbol:   "AAPL",
					Side:     side,
					Type:     Limit,
					Price:    price,
					Quantity: uint32(rng.Intn(10) + 1),
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	snap := eng.Snapshot("AAPL")
	assert.LessOrEqual(t, len(snap), MaxSnapshotDepth)

	var lastBidPrice = -1.0
	sawAsk := false
	for _, entry := range snap {
		if entry.Side == Buy {
			if lastBidPrice >= 0 {
				assert.LessOrEqual(t, entry.Price, lastBidPrice)
			}
			lastBidPrice = entry.Price
		} else {
			sawAsk = true
		}
	}
	_ = sawAsk
}
