package engine

import (
	"container/list"
	"sync"

	"github.com/tidwall/btree"
)

// MaxSnapshotDepth and MaxTradeTapeReturn are the documented truncation
// bounds for Snapshot and Trades, promoted to named constants instead of
// inline magic numbers.
const (
	MaxSnapshotDepth   = 200
	MaxTradeTapeReturn = 2000
)

// PriceLevel is every resting order at a single price on one side, kept in
// strict FIFO (oldest at the front). The queue is a container/list.List so
// that the book's index can hold a *list.Element per order id and remove
// it in O(1) rather than scanning the level.
type PriceLevel struct {
	Price float64
	Queue *list.List
}

func newPriceLevel(price float64) *PriceLevel {
	return &PriceLevel{Price: price, Queue: list.New()}
}

type indexEntry struct {
	side  Side
	price float64
	elem  *list.Element
}

// OrderBook is the price-time-priority structure for a single symbol. One
// mutex guards the whole book; every exported method holds it for its full
// duration.
type OrderBook struct {
	Symbol string

	mu          sync.Mutex
	bids        *btree.BTreeG[*PriceLevel]
	asks        *btree.BTreeG[*PriceLevel]
	index       map[uint64]indexEntry
	trades      []Trade
	nextSeq     uint64
	nextTradeID uint64
}

// NewOrderBook creates an empty book for symbol. Bids sort with the
// highest price first, asks with the lowest price first, so in both trees
// Min() is always the best price on that side.
func NewOrderBook(symbol string) *OrderBook {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price > b.Price
	})
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price < b.Price
	})
	return &OrderBook{
		Symbol: symbol,
		bids:   bids,
		asks:   asks,
		index:  make(map[uint64]indexEntry),
	}
}

func (b *OrderBook) ladder(side Side) *btree.BTreeG[*PriceLevel] {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func oppositeSide(s Side) Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// AddOrder admits a new order. Duplicate ids are rejected without mutating
// the book. The incoming order crosses the opposite ladder first; any
// limit residual rests, any market residual is discarded.
func (b *OrderBook) AddOrder(o Order) ([]Trade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.index[o.ID]; exists {
		return nil, ErrDuplicateID
	}
	return b.crossAndRest(&o), nil
}

// CancelOrder removes a resting order by id. Reports whether it was found.
func (b *OrderBook) CancelOrder(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.index[id]
	if !ok {
		return false
	}
	b.removeAt(entry)
	return true
}

// ModifyOrder applies the modify rule: same price and a quantity that does
// not increase update in place and keep priority; anything else removes the order and
// re-admits it with a fresh Seq, which means it is run back through the
// crossing loop exactly like a fresh Add (a price move can newly cross
// the book, and the book must never be left crossed after Modify
// returns).
func (b *OrderBook) ModifyOrder(id uint64, newPrice float64, newQty uint32) (bool, []Trade) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.index[id]
	if !ok {
		return false, nil
	}

	resting := entry.elem.Value.(*Order)
	if newPrice == entry.price && newQty <= resting.Quantity {
		resting.Quantity = newQty
		return true, nil
	}

	b.removeAt(entry)
	fresh := Order{
		ID:       id,
		Symbol:   b.Symbol,
		Price:    newPrice,
		Quantity: newQty,
		Side:     entry.side,
		Type:     Limit,
	}
	trades := b.crossAndRest(&fresh)
	return true, trades
}

// Count returns the number of resting orders in the book.
func (b *OrderBook) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.index)
}

// Snapshot returns up to MaxSnapshotDepth resting orders, bids (descending
// price) first, then asks (ascending price), preserving FIFO order within
// each level.
func (b *OrderBook) Snapshot() []SnapshotEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]SnapshotEntry, 0, MaxSnapshotDepth)
	collect := func(side Side) func(level *PriceLevel) bool {
		return func(level *PriceLevel) bool {
			for e := level.Queue.Front(); e != nil; e = e.Next() {
				if len(out) >= MaxSnapshotDepth {
					return false
				}
				o := e.Value.(*Order)
				out = append(out, SnapshotEntry{Price: level.Price, Quantity: o.Quantity, Side: side})
			}
			return len(out) < MaxSnapshotDepth
		}
	}
	b.bids.Scan(collect(Buy))
	if len(out) < MaxSnapshotDepth {
		b.asks.Scan(collect(Sell))
	}
	return out
}

// Trades returns up to MaxTradeTapeReturn of the most recent trades,
// oldest first.
func (b *OrderBook) Trades() []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.trades)
	start := 0
	if n > MaxTradeTapeReturn {
		start = n - MaxTradeTapeReturn
	}
	out := make([]Trade, n-start)
	copy(out, b.trades[start:])
	return out
}

// Risk returns the sum of resting quantity across both sides of the book.
func (b *OrderBook) Risk() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total uint64
	sum := func(level *PriceLevel) bool {
		for e := level.Queue.Front(); e != nil; e = e.Next() {
			total += uint64(e.Value.(*Order).Quantity)
		}
		return true
	}
	b.bids.Scan(sum)
	b.asks.Scan(sum)
	return total
}

// crossAndRest runs the matching loop against incoming, then rests or
// discards whatever remains. The caller must hold b.mu.
func (b *OrderBook) crossAndRest(incoming *Order) []Trade {
	var trades []Trade
	opposite := b.ladder(oppositeSide(incoming.Side))

	for incoming.Quantity > 0 {
		best, ok := opposite.MinMut()
		if !ok {
			break
		}
		if incoming.Type == Limit {
			if incoming.Side == Buy && best.Price > incoming.Price {
				break
			}
			if incoming.Side == Sell && best.Price < incoming.Price {
				break
			}
		}

		elem := best.Queue.Front()
		maker := elem.Value.(*Order)

		fill := incoming.Quantity
		if maker.Quantity < fill {
			fill = maker.Quantity
		}

		b.nextTradeID++
		tradeID := b.nextTradeID
		trades = append(trades, Trade{
			TradeID:  tradeID,
			Symbol:   b.Symbol,
			Price:    best.Price,
			Quantity: fill,
			Side:     incoming.Side,
			TakerID:  incoming.ID,
			MakerID:  maker.ID,
			TsSeq:    tradeID,
		})

		incoming.Quantity -= fill
		maker.Quantity -= fill

		if maker.Quantity == 0 {
			best.Queue.Remove(elem)
			delete(b.index, maker.ID)
			if best.Queue.Len() == 0 {
				opposite.Delete(best)
			}
		}
	}

	if len(trades) > 0 {
		b.trades = append(b.trades, trades...)
	}

	if incoming.Type == Limit && incoming.Quantity > 0 {
		b.rest(*incoming)
	}
	return trades
}

// rest admits a limit residual into its ladder, assigning it the next Seq
// (its FIFO priority within the level). The caller must hold b.mu.
func (b *OrderBook) rest(o Order) {
	b.nextSeq++
	o.Seq = b.nextSeq

	levels := b.ladder(o.Side)
	probe := &PriceLevel{Price: o.Price}
	level, ok := levels.GetMut(probe)
	if !ok {
		level = newPriceLevel(o.Price)
		levels.Set(level)
	}

	stored := o
	elem := level.Queue.PushBack(&stored)
	b.index[o.ID] = indexEntry{side: o.Side, price: o.Price, elem: elem}
}

// removeAt detaches the order named by entry from its level and index,
// dropping the level if it empties. The caller must hold b.mu.
func (b *OrderBook) removeAt(entry indexEntry) {
	id := entry.elem.Value.(*Order).ID
	levels := b.ladder(entry.side)
	probe := &PriceLevel{Price: entry.price}
	level, ok := levels.GetMut(probe)
	if !ok {
		delete(b.index, id)
		return
	}
	level.Queue.Remove(entry.elem)
	delete(b.index, id)
	if level.Queue.Len() == 0 {
		levels.Delete(probe)
	}
}
