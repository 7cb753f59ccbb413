package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetanav/trading-system/pkg/util"
	enginev1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/engine/v1"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
)

const chartLimit = 720

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}

func (s *Server) handleOpenAccount(w http.ResponseWriter, r *http.Request) {
	var req ledgerv1.OpenAccountRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.ledger.OpenAccount(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Account created successfully", account)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := s.ledger.Account(util.GetActorID(r.Context()))
	if !ok {
		s.writeError(w, r, errUnknownAccount)
		return
	}
	writeOK(w, http.StatusOK, "", account)
}

func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := util.GetActorID(r.Context())
	if _, ok := s.ledger.Account(accountID); !ok {
		s.writeError(w, r, errUnknownAccount)
		return
	}

	transactions := s.ledger.Transactions(accountID)
	if transactions == nil {
		transactions = []ledgerv1.Transaction{}
	}
	writeOK(w, http.StatusOK, "", transactions)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	accounts := s.ledger.Accounts()
	if accounts == nil {
		accounts = []ledgerv1.Account{}
	}
	writeOK(w, http.StatusOK, "", accounts)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, ok := s.ledger.Account(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, errUnknownUser)
		return
	}
	writeOK(w, http.StatusOK, "", account)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req enginev1.SubmitOrderRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.AccountID = util.GetActorID(r.Context())

	outcome, err := s.engine.Submit(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, outcome.Message(), outcome)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req enginev1.CancelOrderRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.AccountID = util.GetActorID(r.Context())

	if err := s.engine.Cancel(r.Context(), req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order cancelled successfully.", nil)
}

func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "", s.engine.OrdersOf(util.GetActorID(r.Context())))
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "", s.engine.Snapshot())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	candles := s.market.Candles()
	if len(candles) > chartLimit {
		candles = candles[len(candles)-chartLimit:]
	}
	if candles == nil {
		candles = []marketdatav1.Candle{}
	}
	writeOK(w, http.StatusOK, "", candles)
}
