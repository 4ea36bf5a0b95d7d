package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers -----------------------------------------------------------

func levelOrders(t *testing.T, book *OrderBook, side Side, price float64) []*Order {
	t.Helper()
	level, ok := book.ladder(side).GetMut(&PriceLevel{Price: price})
	if !ok {
		return nil
	}
	var out []*Order
	for e := level.Queue.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Order))
	}
	return out
}

// --- Scenario 1: simple cross -------------------------------------------

func TestAddOrder_SimpleCross(t *testing.T) {
	book := NewOrderBook("AAPL")

	_, err := book.AddOrder(Order{ID: 1, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 100, Quantity: 10})
	require.NoError(t, err)

	trades, err := book.AddOrder(Order{ID: 2, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 101, Quantity: 4})
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.Equal(t, float64(100), trades[0].Price)
	assert.Equal(t, uint32(4), trades[0].Quantity)
	assert.Equal(t, Buy, trades[0].Side)
	assert.Equal(t, uint64(1), trades[0].MakerID)
	assert.Equal(t, uint64(2), trades[0].TakerID)

	resting := levelOrders(t, book, Sell, 100)
	require.Len(t, resting, 1)
	assert.Equal(t, uint32(6), resting[0].Quantity)
	assert.Equal(t, 1, book.Count())
}

// --- Scenario 2: price-time priority -------------------------------------

func TestAddOrder_PriceTimePriority(t *testing.T) {
	book := NewOrderBook("AAPL")

	_, err := book.AddOrder(Order{ID: 10, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 100, Quantity: 5})
	require.NoError(t, err)
	_, err = book.AddOrder(Order{ID: 11, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 100, Quantity: 7})
	require.NoError(t, err)

	trades, err := book.AddOrder(Order{ID: 12, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 8})
	require.NoError(t, err)

	require.Len(t, trades, 2)
	assert.Equal(t, uint64(10), trades[0].MakerID)
	assert.Equal(t, uint32(5), trades[0].Quantity)
	assert.Equal(t, uint64(11), trades[1].MakerID)
	assert.Equal(t, uint32(3), trades[1].Quantity)

	resting := levelOrders(t, book, Sell, 100)
	require.Len(t, resting, 1)
	assert.Equal(t, uint64(11), resting[0].ID)
	assert.Equal(t, uint32(4), resting[0].Quantity)
}

// --- Scenario 3: market sweep --------------------------------------------

func TestAddOrder_MarketSweep(t *testing.T) {
	book := NewOrderBook("AAPL")

	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 100, Quantity: 5}))
	require.NoError(t, mustAdd(book, Order{ID: 2, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 101, Quantity: 5}))
	require.NoError(t, mustAdd(book, Order{ID: 3, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 102, Quantity: 5}))

	trades, err := book.AddOrder(Order{ID: 4, Symbol: "AAPL", Side: Buy, Type: Market, Quantity: 12})
	require.NoError(t, err)

	require.Len(t, trades, 3)
	assert.Equal(t, []float64{100, 101, 102}, []float64{trades[0].Price, trades[1].Price, trades[2].Price})
	assert.Equal(t, uint32(2), trades[2].Quantity)

	resting := levelOrders(t, book, Sell, 102)
	require.Len(t, resting, 1)
	assert.Equal(t, uint32(3), resting[0].Quantity)
	assert.Equal(t, 1, book.Count(), "no buy order should ever rest from a market order")
}

func mustAdd(book *OrderBook, o Order) error {
	_, err := book.AddOrder(o)
	return err
}

// --- Scenario 4: cancel ---------------------------------------------------

func TestCancelOrder(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 50, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 99, Quantity: 10}))

	assert.True(t, book.CancelOrder(50))
	assert.False(t, book.CancelOrder(50))
	assert.Equal(t, 0, book.Count())
}

// --- Scenario 5: modify preserving / losing priority ----------------------

func TestModifyOrder_PreservesPriorityOnDecrease(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 10}))
	require.NoError(t, mustAdd(book, Order{ID: 2, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 5}))

	ok, trades := book.ModifyOrder(1, 100, 6)
	assert.True(t, ok)
	assert.Empty(t, trades)

	resting := levelOrders(t, book, Buy, 100)
	require.Len(t, resting, 2)
	assert.Equal(t, uint64(1), resting[0].ID, "priority-preserving modify must not reorder the level")
	assert.Equal(t, uint32(6), resting[0].Quantity)
	assert.Equal(t, uint64(2), resting[1].ID)
}

func TestModifyOrder_LosesPriorityOnIncrease(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 10}))
	require.NoError(t, mustAdd(book, Order{ID: 2, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 5}))

	ok, _ := book.ModifyOrder(1, 100, 12)
	assert.True(t, ok)

	resting := levelOrders(t, book, Buy, 100)
	require.Len(t, resting, 2)
	assert.Equal(t, uint64(2), resting[0].ID, "a quantity increase must lose priority and re-queue behind id=2")
	assert.Equal(t, uint64(1), resting[1].ID)
	assert.Equal(t, uint32(12), resting[1].Quantity)
}

func TestModifyOrder_NotFound(t *testing.T) {
	book := NewOrderBook("AAPL")
	ok, trades := book.ModifyOrder(999, 100, 10)
	assert.False(t, ok)
	assert.Nil(t, trades)
}

func TestModifyOrder_PriceChangeCanCross(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 98, Quantity: 10}))
	require.NoError(t, mustAdd(book, Order{ID: 2, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 100, Quantity: 10}))

	ok, trades := book.ModifyOrder(1, 100, 10)
	require.True(t, ok)
	require.Len(t, trades, 1)
	assert.Equal(t, float64(100), trades[0].Price)
	assert.Equal(t, uint32(10), trades[0].Quantity)
	assert.Equal(t, 0, book.Count())
}

// --- Invariants ------------------------------------------------------------

func TestSnapshot_OrderingAndCount(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 99, Quantity: 10}))
	require.NoError(t, mustAdd(book, Order{ID: 2, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 5}))
	require.NoError(t, mustAdd(book, Order{ID: 3, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 105, Quantity: 7}))
	require.NoError(t, mustAdd(book, Order{ID: 4, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 104, Quantity: 3}))

	snap := book.Snapshot()
	require.Len(t, snap, 4)

	assert.Equal(t, Buy, snap[0].Side)
	assert.Equal(t, float64(100), snap[0].Price, "bids must be descending")
	assert.Equal(t, float64(99), snap[1].Price)

	assert.Equal(t, Sell, snap[2].Side)
	assert.Equal(t, float64(104), snap[2].Price, "asks must be ascending")
	assert.Equal(t, float64(105), snap[3].Price)

	assert.Equal(t, book.Count(), len(snap))
}

func TestAddOrder_RejectsDuplicateID(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 10}))

	_, err := book.AddOrder(Order{ID: 1, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 101, Quantity: 5})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, book.Count())
}

func TestAddOrder_MarketAgainstEmptyBookRestsNothing(t *testing.T) {
	book := NewOrderBook("AAPL")
	trades, err := book.AddOrder(Order{ID: 1, Symbol: "AAPL", Side: Buy, Type: Market, Quantity: 10})
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, 0, book.Count())
}

func TestTrades_TapeMonotonicAndTruncated(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 100, Quantity: 5000}))

	for i := uint64(2); i <= 2005; i++ {
		_, err := book.AddOrder(Order{ID: i, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 100, Quantity: 1})
		require.NoError(t, err)
	}

	trades := book.Trades()
	assert.Len(t, trades, MaxTradeTapeReturn)

	var lastID uint64
	for _, tr := range trades {
		assert.Greater(t, tr.TradeID, lastID)
		lastID = tr.TradeID
	}
}

func TestRisk_SumsBothSides(t *testing.T) {
	book := NewOrderBook("AAPL")
	require.NoError(t, mustAdd(book, Order{ID: 1, Symbol: "AAPL", Side: Buy, Type: Limit, Price: 99, Quantity: 10}))
	require.NoError(t, mustAdd(book, Order{ID: 2, Symbol: "AAPL", Side: Sell, Type: Limit, Price: 101, Quantity: 7}))

	assert.Equal(t, uint64(17), book.Risk())
}
