package engine

import (
	"cmp"
	"sync"

	"github.com/emirpasic/gods/v2/trees/redblacktree"
)

// Store is the process-wide Book Store: a symbol-keyed
// registry of OrderBooks, guarded by its own lock that is only ever held
// for the lookup/insert, never across a book operation. Lock order is
// strictly Store → Book and is never reversed.
type Store struct {
	mu      sync.Mutex
	books   map[string]*OrderBook
	symbols *redblacktree.Tree[string, int64]
	seen    int64
}

// NewStore creates an empty Book Store. Books are created lazily on first
// reference and are never removed for the lifetime of the process.
func NewStore() *Store {
	return &Store{
		books:   make(map[string]*OrderBook),
		symbols: redblacktree.NewWith[string, int64](cmp.Compare[string]),
	}
}

// GetOrCreate returns the book for symbol, creating it under the store
// lock if this is the first reference. The store lock is released before
// the caller ever touches the returned book.
func (s *Store) GetOrCreate(symbol string) *OrderBook {
	symbol = NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[symbol]
	if ok {
		return book
	}

	book = NewOrderBook(symbol)
	s.books[symbol] = book
	s.seen++
	s.symbols.Put(symbol, s.seen)
	return book
}

// Symbols returns every symbol that has been referenced so far, in
// lexical order — used only by the gateway's /symbols debug listing,
// never on the matching hot path.
func (s *Store) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbols.Keys()
}
