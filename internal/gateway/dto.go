package gateway

// addOrderRequest is the body of POST /add_order.
type addOrderRequest struct {
	Symbol    string  `json:"symbol"`
	ID        uint64  `json:"id"`
	Price     float64 `json:"price"`
	Quantity  uint32  `json:"quantity"`
	Side      string  `json:"side"`
	OrderType *int    `json:"order_type,omitempty"`
}

type addOrderResponse struct {
	Status  string `json:"status"`
	OrderID uint64 `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// cancelOrderRequest is the body of POST /cancel_order.
type cancelOrderRequest struct {
	Symbol string `json:"symbol"`
	ID     uint64 `json:"id"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// modifyOrderRequest is the body of POST /modify_order.
type modifyOrderRequest struct {
	Symbol      string  `json:"symbol"`
	ID          uint64  `json:"id"`
	NewPrice    float64 `json:"new_price"`
	NewQuantity uint32  `json:"new_quantity"`
}

type orderCountResponse struct {
	OrderCount int `json:"order_count"`
}

type orderBookEntry struct {
	Price    float64 `json:"price"`
	Quantity uint32  `json:"quantity"`
	Side     string  `json:"side"`
}

type orderBookResponse struct {
	Orders []orderBookEntry `json:"orders"`
}

type tradeEntry struct {
	TradeID  uint64  `json:"trade_id"`
	Price    float64 `json:"price"`
	Quantity uint32  `json:"quantity"`
	Side     string  `json:"side"`
}

type tradesResponse struct {
	Trades []tradeEntry `json:"trades"`
}

type riskMetricsResponse struct {
	TotalQuantity uint64 `json:"total_quantity"`
}

type benchmarkResponse struct {
	OrdersPlaced    int     `json:"orders_placed"`
	ElapsedMs       float64 `json:"elapsed_ms"`
	OrdersPerSecond float64 `json:"orders_per_second"`
	Threads         int     `json:"threads,omitempty"`
}

type symbolsResponse struct {
	Symbols []string `json:"symbols"`
}
