package engine

import "math"

// Engine is the Command Surface: the synchronous entry points the
// HTTP/WebSocket gateway, the synthetic feed, and the FIX bridge all
// consume. It owns nothing but a Book Store — all mutation happens
// inside the per-symbol OrderBook locks.
type Engine struct {
	store *Store
}

// New creates an Engine with an empty Book Store.
func New() *Engine {
	return &Engine{store: NewStore()}
}

// Add validates and admits a new order, returning any trades the crossing
// loop produced. The book is left unchanged on validation failure.
func (e *Engine) Add(o Order) ([]Trade, error) {
	if err := validateNewOrder(o); err != nil {
		return nil, err
	}
	o.Symbol = NormalizeSymbol(o.Symbol)
	book := e.store.GetOrCreate(o.Symbol)
	return book.AddOrder(o)
}

// Cancel removes a resting order. Reports whether it was found.
func (e *Engine) Cancel(symbol string, id uint64) bool {
	book := e.store.GetOrCreate(symbol)
	return book.CancelOrder(id)
}

// Modify applies the modify rule described on OrderBook.ModifyOrder.
// Reports whether the order was found; any trades produced by a
// priority-losing re-admission that crosses the book are returned
// alongside.
func (e *Engine) Modify(symbol string, id uint64, newPrice float64, newQty uint32) (bool, []Trade, error) {
	if err := validatePrice(newPrice); err != nil {
		return false, nil, err
	}
	if newQty == 0 {
		return false, nil, ErrBadQty
	}
	book := e.store.GetOrCreate(symbol)
	ok, trades := book.ModifyOrder(id, newPrice, newQty)
	return ok, trades, nil
}

// Count returns the number of resting orders for symbol.
func (e *Engine) Count(symbol string) int {
	return e.store.GetOrCreate(symbol).Count()
}

// Snapshot returns up to MaxSnapshotDepth resting orders for symbol.
func (e *Engine) Snapshot(symbol string) []SnapshotEntry {
	return e.store.GetOrCreate(symbol).Snapshot()
}

// Trades returns up to MaxTradeTapeReturn recent trades for symbol.
func (e *Engine) Trades(symbol string) []Trade {
	return e.store.GetOrCreate(symbol).Trades()
}

// Risk returns the resting-quantity sum for symbol.
func (e *Engine) Risk(symbol string) uint64 {
	return e.store.GetOrCreate(symbol).Risk()
}

// Symbols returns every symbol referenced so far, for the gateway's
// /symbols debug listing.
func (e *Engine) Symbols() []string {
	return e.store.Symbols()
}

func validateNewOrder(o Order) error {
	if !ValidSymbol(NormalizeSymbol(o.Symbol)) {
		return ErrSymbolLength
	}
	if o.Side != Buy && o.Side != Sell {
		return ErrBadSide
	}
	if o.Type != Market {
		if err := validatePrice(o.Price); err != nil {
			return err
		}
	} else if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
		return ErrBadPrice
	}
	if o.Quantity == 0 {
		return ErrBadQty
	}
	return nil
}

func validatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return ErrBadPrice
	}
	return nil
}
