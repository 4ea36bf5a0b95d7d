package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"matchcore/internal/engine"
	"matchcore/internal/metrics"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed encoding response body")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusResponse{Status: "error", Message: message})
}

// httpStatusForAddError maps the engine's validation taxonomy onto the
// status table: validation failures are 400, anything else
// is an internal error.
func httpStatusForAddError(err error) int {
	switch {
	case errors.Is(err, engine.ErrBadSide),
		errors.Is(err, engine.ErrBadPrice),
		errors.Is(err, engine.ErrBadQty),
		errors.Is(err, engine.ErrDuplicateID),
		errors.Is(err, engine.ErrSymbolLength):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req addOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	side, ok := engine.ParseSide(sideByte(req.Side))
	if !ok {
		metrics.RejectsTotal.WithLabelValues("bad_side").Inc()
		writeError(w, http.StatusBadRequest, "bad side")
		return
	}

	orderType := engine.Limit
	if req.OrderType != nil {
		orderType = engine.OrderType(*req.OrderType)
	}

	o := engine.Order{
		ID:       req.ID,
		Symbol:   req.Symbol,
		Price:    req.Price,
		Quantity: req.Quantity,
		Side:     side,
		Type:     orderType,
	}

	trades, err := s.engine.Add(o)
	logger := log.With().Str("request_id", requestID(r)).Logger()
	if err != nil {
		metrics.RejectsTotal.WithLabelValues(rejectReason(err)).Inc()
		logger.Warn().Err(err).Str("symbol", req.Symbol).Msg("add_order rejected")
		writeError(w, httpStatusForAddError(err), err.Error())
		return
	}

	if len(trades) > 0 {
		metrics.TradesTotal.WithLabelValues(engine.NormalizeSymbol(req.Symbol)).Add(float64(len(trades)))
	}
	metrics.OrdersTotal.WithLabelValues(engine.NormalizeSymbol(req.Symbol), side.String()).Inc()
	metrics.AddLatencySeconds.WithLabelValues(engine.NormalizeSymbol(req.Symbol)).Observe(time.Since(start).Seconds())
	logger.Info().Str("symbol", req.Symbol).Uint64("id", req.ID).Dur("latency", time.Since(start)).Msg("add_order")
	writeJSON(w, http.StatusOK, addOrderResponse{Status: "success", OrderID: req.ID})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	found := s.engine.Cancel(req.Symbol, req.ID)
	status := "not_found"
	if found {
		status = "success"
	}
	log.Info().Str("request_id", requestID(r)).Str("symbol", req.Symbol).Uint64("id", req.ID).
		Str("status", status).Msg("cancel_order")
	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

func (s *Server) handleModifyOrder(w http.ResponseWriter, r *http.Request) {
	var req modifyOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	found, trades, err := s.engine.Modify(req.Symbol, req.ID, req.NewPrice, req.NewQuantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(trades) > 0 {
		metrics.TradesTotal.WithLabelValues(engine.NormalizeSymbol(req.Symbol)).Add(float64(len(trades)))
	}
	status := "not_found"
	if found {
		status = "success"
	}
	log.Info().Str("request_id", requestID(r)).Str("symbol", req.Symbol).Uint64("id", req.ID).
		Str("status", status).Msg("modify_order")
	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

func (s *Server) handleOrderCount(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	writeJSON(w, http.StatusOK, orderCountResponse{OrderCount: s.engine.Count(symbol)})
}

func (s *Server) handleOrderBook(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	entries := s.engine.Snapshot(symbol)
	out := make([]orderBookEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, orderBookEntry{Price: e.Price, Quantity: e.Quantity, Side: string(e.Side.Byte())})
	}
	writeJSON(w, http.StatusOK, orderBookResponse{Orders: out})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	trades := s.engine.Trades(symbol)
	out := make([]tradeEntry, 0, len(trades))
	for _, tr := range trades {
		out = append(out, tradeEntry{TradeID: tr.TradeID, Price: tr.Price, Quantity: tr.Quantity, Side: string(tr.Side.Byte())})
	}
	writeJSON(w, http.StatusOK, tradesResponse{Trades: out})
}

func (s *Server) handleRiskMetrics(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	writeJSON(w, http.StatusOK, riskMetricsResponse{TotalQuantity: s.engine.Risk(symbol)})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, symbolsResponse{Symbols: s.engine.Symbols()})
}

func sideByte(s string) byte {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrBadSide):
		return "bad_side"
	case errors.Is(err, engine.ErrBadPrice):
		return "bad_price"
	case errors.Is(err, engine.ErrBadQty):
		return "bad_qty"
	case errors.Is(err, engine.ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, engine.ErrSymbolLength):
		return "bad_symbol"
	default:
		return "internal"
	}
}
