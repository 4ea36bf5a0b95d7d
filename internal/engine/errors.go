package engine

import "errors"

// Sentinel errors returned by the Command Surface. Callers should compare
// with errors.Is; the gateway maps each of these onto a fixed HTTP status.
var (
	ErrBadSide      = errors.New("bad side")
	ErrBadPrice     = errors.New("bad price")
	ErrBadQty       = errors.New("bad quantity")
	ErrDuplicateID  = errors.New("duplicate order id")
	ErrSymbolLength = errors.New("symbol must be 1-8 bytes")
)
