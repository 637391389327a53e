// Package server is the thin JSON adapter in front of the portfolio engine.
// Authentication is an external concern: callers identify themselves with an
// X-User-ID header set by whatever sits in front of this service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"papertrader/internal/engine"
	"papertrader/internal/repository"
	"papertrader/types"
)

const userHeader = "X-User-ID"

type Server struct {
	engine *engine.Engine
	logger *slog.Logger
	mux    *http.ServeMux
}

func New(eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: eng,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /users", s.handleRegister)
	s.mux.HandleFunc("GET /quote", s.handleQuote)
	s.mux.HandleFunc("POST /buy", s.handleBuy)
	s.mux.HandleFunc("POST /sell", s.handleSell)
	s.mux.HandleFunc("GET /portfolio", s.handlePortfolio)
	s.mux.HandleFunc("GET /holdings", s.handleHoldings)
	s.mux.HandleFunc("GET /history", s.handleHistory)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := readBody(r, &req); err != nil {
		jsonErr(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := s.engine.Register(r.Context(), req.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusCreated, user)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.engine.Quote(r.Context(), r.URL.Query().Get("symbol"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, map[string]any{
		"symbol":  q.Symbol,
		"name":    q.Name,
		"price":   q.Price,
		"display": types.FormatUSD(q.Price),
	})
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.engine.Buy, "Bought")
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.engine.Sell, "Sold")
}

func (s *Server) handleTrade(
	w http.ResponseWriter,
	r *http.Request,
	settle func(ctx context.Context, userID uuid.UUID, req engine.TradeRequest) (types.Settlement, error),
	verb string,
) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	req, err := parseTrade(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	settlement, err := settle(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	jsonOK(w, http.StatusOK, map[string]any{
		"settlement": settlement,
		"message": fmt.Sprintf("%s %d shares of %s for %s",
			verb, settlement.Shares, settlement.Symbol, types.FormatUSD(settlement.Amount)),
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	view, err := s.engine.Portfolio(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Round once, here at the boundary.
	view.Cash = types.RoundCents(view.Cash)
	view.Total = types.RoundCents(view.Total)
	for i := range view.Holdings {
		view.Holdings[i].Value = types.RoundCents(view.Holdings[i].Value)
	}
	jsonOK(w, http.StatusOK, view)
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	holdings, err := s.engine.ListHoldings(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if holdings == nil {
		holdings = []types.Holding{}
	}
	jsonOK(w, http.StatusOK, holdings)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	history, err := s.engine.History(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if history == nil {
		history = []types.Transaction{}
	}
	jsonOK(w, http.StatusOK, history)
}

// parseTrade accepts either a JSON body or a form post and runs the values
// through the engine's validated-input stage.
func parseTrade(r *http.Request) (engine.TradeRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Symbol string      `json:"symbol"`
			Shares json.Number `json:"shares"`
		}
		if err := readBody(r, &body); err != nil {
			return engine.TradeRequest{}, engine.InvalidQuantityErr
		}
		return engine.ParseTradeRequest(body.Symbol, body.Shares.String())
	}
	return engine.ParseTradeRequest(r.FormValue("symbol"), r.FormValue("shares"))
}

func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(userHeader))
	if err != nil {
		jsonErr(w, http.StatusUnauthorized, "missing or malformed "+userHeader+" header")
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps engine/store errors to statuses and user-safe messages.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.InvalidSymbolErr),
		errors.Is(err, engine.InvalidQuantityErr),
		errors.Is(err, engine.InvalidUsernameErr),
		errors.Is(err, engine.SymbolNotFoundErr):
		jsonErr(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, repository.ErrInsufficientFunds):
		jsonErr(w, http.StatusUnprocessableEntity, "not enough cash for this purchase")
	case errors.Is(err, repository.ErrInsufficientShares):
		jsonErr(w, http.StatusUnprocessableEntity, "you do not hold enough shares to sell")
	case errors.Is(err, repository.ErrUserNotFound):
		jsonErr(w, http.StatusNotFound, "unknown user")
	case errors.Is(err, repository.ErrTxConflict):
		jsonErr(w, http.StatusConflict, "the ledger is busy, please retry")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonErr(w, http.StatusBadGateway, "service temporarily unavailable")
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, engine.InvalidSymbolErr):
		return "provide a stock symbol"
	case errors.Is(err, engine.InvalidQuantityErr):
		return "shares must be a positive whole number"
	case errors.Is(err, engine.InvalidUsernameErr):
		return "provide a username"
	default:
		return "symbol not found"
	}
}

func readBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func jsonOK(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonOK(w, status, map[string]string{"error": msg})
}
