package gateway

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/engine"
	"matchcore/internal/workerpool"
)

const (
	defaultBenchmarkN       = 100
	defaultBenchmarkSymbol  = "AAPL"
	defaultBenchmarkThreads = 1
)

// placeRandomOrders drives n synthetic random orders straight through the
// Command Surface, the same role original_source/backend/server.cpp's
// placeRandomOrders plays for the single-threaded benchmark.
func placeRandomOrders(eng *engine.Engine, rng *rand.Rand, n int, symbol string) {
	for i := 0; i < n; i++ {
		orderID := uint64(rng.Intn(100000) + 30000)
		price := 100.0 + float64(rng.Intn(50))
		quantity := uint32(rng.Intn(10) + 1)
		side := engine.Buy
		if rng.Intn(2) != 0 {
			side = engine.Sell
		}
		orderType := engine.Limit
		if rng.Intn(2) != 0 {
			orderType = engine.Market
		}
		eng.Add(engine.Order{
			ID:       orderID,
			Symbol:   symbol,
			Price:    price,
			Quantity: quantity,
			Side:     side,
			Type:     orderType,
		})
	}
}

func queryIntDefault(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// handleBenchmark drives n orders on the calling goroutine, mirroring
// GET /benchmark.
func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	n := queryIntDefault(r, "n", defaultBenchmarkN)
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = defaultBenchmarkSymbol
	}

	start := time.Now()
	placeRandomOrders(s.engine, rand.New(rand.NewSource(start.UnixNano())), n, symbol)
	elapsed := time.Since(start)

	writeJSON(w, http.StatusOK, benchmarkResponse{
		OrdersPlaced:    n,
		ElapsedMs:       float64(elapsed.Microseconds()) / 1000.0,
		OrdersPerSecond: ordersPerSecond(n, elapsed),
	})
}

// handleBenchmarkAdvanced fans n*c orders out across c worker goroutines
// via the pool in internal/workerpool, mirroring GET /benchmark_advanced.
func (s *Server) handleBenchmarkAdvanced(w http.ResponseWriter, r *http.Request) {
	n := queryIntDefault(r, "n", defaultBenchmarkN)
	c := queryIntDefault(r, "c", defaultBenchmarkThreads)
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = defaultBenchmarkSymbol
	}

	pool := workerpool.New(c)
	t, _ := tomb.WithContext(r.Context())
	pool.Run(t)

	start := time.Now()
	var completed int64
	for i := 0; i < c; i++ {
		seed := start.UnixNano() + int64(i)
		pool.Submit(func() {
			placeRandomOrders(s.engine, rand.New(rand.NewSource(seed)), n, symbol)
			atomic.AddInt64(&completed, 1)
		})
	}
	pool.Close()
	t.Wait()
	elapsed := time.Since(start)

	total := n * c
	writeJSON(w, http.StatusOK, benchmarkResponse{
		OrdersPlaced:    total,
		ElapsedMs:       float64(elapsed.Microseconds()) / 1000.0,
		OrdersPerSecond: ordersPerSecond(total, elapsed),
		Threads:         c,
	})
}

func ordersPerSecond(n int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(n) / secs
}
