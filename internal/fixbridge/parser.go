// Package fixbridge translates FIX 4.4 NewOrderSingle messages into calls
// against the engine's Command Surface. No FIX engine library is
// retrievable anywhere in the example corpus (searched every go.mod under
// _examples, including other_examples/manifests), so the tag=value decode
// below is hand-rolled with strings and strconv, and bridge.go splits the
// byte stream into messages with bufio.Scanner.
// Session management (logon/logout, sequence numbers, resend requests) is
// intentionally not implemented: no session state is allowed to leak into
// the matching engine.
package fixbridge

import (
	"errors"
	"strconv"
	"strings"
)

// SOH is the FIX field delimiter (0x01, "start of heading").
const SOH = "\x01"

const (
	tagClOrdID  = "11"
	tagSymbol   = "55"
	tagSide     = "54"
	tagOrderQty = "38"
	tagPrice    = "44"
	tagMsgType  = "35"
)

const msgTypeNewOrderSingle = "D"

var (
	ErrNotNewOrderSingle = errors.New("fixbridge: message is not a NewOrderSingle")
	ErrMissingField      = errors.New("fixbridge: message missing a required field")
)

// NewOrderSingle is the subset of FIX 4.4's NewOrderSingle this bridge
// understands: ClOrdID(11), Symbol(55), Side(54), Price(44), OrderQty(38).
type NewOrderSingle struct {
	ClOrdID string
	Symbol  string
	Side    byte
	Price   float64
	Qty     uint32
}

// ParseMessage decodes one SOH-delimited tag=value FIX message. Unknown
// tags are ignored. A message whose MsgType(35) is present and not D is
// rejected with ErrNotNewOrderSingle; a message without MsgType is decoded
// as a NewOrderSingle.
func ParseMessage(raw string) (NewOrderSingle, error) {
	fields := make(map[string]string)
	for _, field := range strings.Split(strings.TrimRight(raw, SOH), SOH) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		tag, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		fields[tag] = value
	}

	if fields[tagMsgType] != "" && fields[tagMsgType] != msgTypeNewOrderSingle {
		return NewOrderSingle{}, ErrNotNewOrderSingle
	}

	clOrdID, ok := fields[tagClOrdID]
	if !ok {
		return NewOrderSingle{}, ErrMissingField
	}
	symbol, ok := fields[tagSymbol]
	if !ok {
		return NewOrderSingle{}, ErrMissingField
	}
	sideField, ok := fields[tagSide]
	if !ok {
		return NewOrderSingle{}, ErrMissingField
	}
	priceField, ok := fields[tagPrice]
	if !ok {
		return NewOrderSingle{}, ErrMissingField
	}
	qtyField, ok := fields[tagOrderQty]
	if !ok {
		return NewOrderSingle{}, ErrMissingField
	}

	side, err := fixSideToByte(sideField)
	if err != nil {
		return NewOrderSingle{}, err
	}
	price, err := strconv.ParseFloat(priceField, 64)
	if err != nil {
		return NewOrderSingle{}, err
	}
	qty, err := strconv.ParseUint(qtyField, 10, 32)
	if err != nil {
		return NewOrderSingle{}, err
	}

	return NewOrderSingle{
		ClOrdID: clOrdID,
		Symbol:  symbol,
		Side:    side,
		Price:   price,
		Qty:     uint32(qty),
	}, nil
}

// fixSideToByte maps FIX 4.4 Side(54) enum values 1 (Buy) / 2 (Sell) onto
// the engine's 'B'/'S' wire byte.
func fixSideToByte(v string) (byte, error) {
	switch v {
	case "1":
		return 'B', nil
	case "2":
		return 'S', nil
	default:
		return 0, errors.New("fixbridge: unrecognized Side value " + v)
	}
}
