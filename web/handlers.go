package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rustyeddy/papertrade/auth"
	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/store"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userView is the account shape returned to the frontend. The password
// hash never leaves the server.
type userView struct {
	Username     string         `json:"username"`
	Balance      float64        `json:"balance"`
	OpenOrders   []engine.Order `json:"open_orders"`
	ClosedOrders []engine.Order `json:"closed_orders"`
}

func viewOf(u *store.User) userView {
	return userView{
		Username:     u.Username,
		Balance:      u.Account.Balance,
		OpenOrders:   u.Account.OpenOrders,
		ClosedOrders: u.Account.ClosedOrders,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	u, err := s.auth.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("login failed")
		s.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if err := s.startSession(w, r, u.Username); err != nil {
		s.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": viewOf(u)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	u, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrUserExists) {
		s.writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.writeError(w, http.StatusBadRequest, "username and password required")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("register failed")
		s.writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := s.startSession(w, r, u.Username); err != nil {
		s.writeError(w, http.StatusInternalServerError, "register failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": viewOf(u)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		s.sessions.Delete(c.Value)
	}
	s.sessions.ClearCookie(w)
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, username string) error {
	sess, err := s.sessions.Create(username)
	if err != nil {
		s.logger.WithError(err).Error("create session")
		return err
	}
	s.sessions.SetCookie(w, sess.ID, r.TLS != nil)
	return nil
}

// currentUser resolves the session or writes a 401.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess, ok := s.sessions.FromRequest(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return sess.Username, true
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if !market.Valid(symbol) {
		s.writeError(w, http.StatusBadRequest, "Invalid symbol")
		return
	}

	period := market.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = market.P5D
	}
	interval := market.Interval(r.URL.Query().Get("interval"))
	if interval == "" {
		interval = market.H1
	}

	candles := s.sim.GenerateSeries(symbol, market.Points(period, interval), interval)
	s.writeJSON(w, http.StatusOK, candles)
}

func (s *Server) handleCurrentPrice(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if !market.Valid(symbol) {
		s.writeError(w, http.StatusBadRequest, "Invalid symbol")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"price": s.sim.CurrentPrice(symbol)})
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
		Date   string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if !market.Valid(req.Symbol) {
		s.writeError(w, http.StatusBadRequest, "Invalid symbol")
		return
	}

	s.writeJSON(w, http.StatusOK, s.sim.PointForDate(req.Symbol, req.Date))
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req engine.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	// Serialize the read-modify-write; the store has no transactions.
	defer s.locks.Lock(username)()

	u, err := s.store.GetUser(r.Context(), username)
	if errors.Is(err, store.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("load user")
		s.writeError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	order, err := s.engine.PlaceOrder(&u.Account, req)
	if errors.Is(err, engine.ErrInsufficientBalance) {
		s.writeError(w, http.StatusBadRequest, "Insufficient balance")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	if err := s.store.PutUser(r.Context(), u); err != nil {
		// The mutated snapshot is discarded with the request; nothing was
		// half-applied.
		s.logger.WithError(err).Error("persist order")
		s.writeError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

func (s *Server) handleCloseOrder(w http.ResponseWriter, r *http.Request) {
	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		OrderID      string  `json:"order_id"`
		CurrentPrice float64 `json:"current_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	defer s.locks.Lock(username)()

	u, err := s.store.GetUser(r.Context(), username)
	if errors.Is(err, store.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("load user")
		s.writeError(w, http.StatusInternalServerError, "Failed to close order")
		return
	}

	result, err := s.engine.CloseOrder(&u.Account, req.OrderID, req.CurrentPrice)
	if errors.Is(err, engine.ErrOrderNotFound) {
		s.writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to close order")
		return
	}

	if err := s.store.PutUser(r.Context(), u); err != nil {
		s.logger.WithError(err).Error("persist close")
		s.writeError(w, http.StatusInternalServerError, "Failed to close order")
		return
	}

	closed := u.Account.ClosedOrders[len(u.Account.ClosedOrders)-1]
	if err := s.journal.RecordTrade(journal.TradeRecord{
		OrderID:    closed.ID,
		Username:   username,
		Symbol:     closed.Symbol,
		Side:       string(closed.Side),
		LotSize:    closed.LotSize,
		OpenPrice:  closed.OpenPrice,
		ClosePrice: closed.ClosePrice,
		OpenTime:   closed.OpenTime,
		CloseTime:  closed.CloseTime,
		PnL:        closed.PnL,
	}); err != nil {
		// Journaling is best effort; the store already holds the truth.
		s.logger.WithError(err).Warn("journal trade")
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"pnl":     result.PnL,
		"balance": result.Balance,
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	username, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	u, err := s.store.GetUser(r.Context(), username)
	if errors.Is(err, store.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("load user")
		s.writeError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"balance":       u.Account.Balance,
		"open_orders":   u.Account.OpenOrders,
		"closed_orders": u.Account.ClosedOrders,
	})
}
