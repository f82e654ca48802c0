package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"milkyfeast/internal/core"
	"milkyfeast/internal/storage"
)

type (
	transactionRequest struct {
		Type            string          `json:"type"`
		Category        string          `json:"category"`
		Amount          decimal.Decimal `json:"amount"`
		PaymentSource   string          `json:"payment_source"`
		PartnerID       int64           `json:"partner_id"`
		EntityType      string          `json:"entity_type"`
		EntityID        int64           `json:"entity_id"`
		Description     string          `json:"description"`
		TransactionDate string          `json:"transaction_date"`
	}

	transactionResponse struct {
		ID              int64           `json:"id"`
		Type            string          `json:"type"`
		Category        string          `json:"category"`
		Amount          decimal.Decimal `json:"amount"`
		PaymentSource   string          `json:"payment_source"`
		PartnerID       int64           `json:"partner_id"`
		EntityType      string          `json:"entity_type"`
		EntityID        int64           `json:"entity_id"`
		Description     string          `json:"description"`
		TransactionDate string          `json:"transaction_date"`
	}
)

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		Type:            string(tx.Type),
		Category:        tx.Category,
		Amount:          tx.Amount,
		PaymentSource:   tx.PaymentSource,
		PartnerID:       tx.PartnerID,
		EntityType:      string(tx.Entity.Type),
		EntityID:        tx.Entity.ID,
		Description:     tx.Description,
		TransactionDate: tx.Date.String(),
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := core.ParseDate(req.TransactionDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transaction date")
		return
	}
	entityType, err := core.ParseEntityType(req.EntityType)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid entity type")
		return
	}

	tx := core.Transaction{
		Type:          core.TransactionType(req.Type),
		Category:      req.Category,
		Amount:        req.Amount,
		PaymentSource: req.PaymentSource,
		PartnerID:     req.PartnerID,
		Entity:        core.EntityRef{Type: entityType, ID: req.EntityID},
		Description:   req.Description,
		Date:          date,
	}

	if _, err := s.transactions.Record(r.Context(), tx); err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondStoreError(w, r, err, "record transaction")
		return
	}
	respondMessage(w, http.StatusCreated, "Transaction Added")
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter storage.TransactionFilter
	startStr, endStr := query.Get("startDate"), query.Get("endDate")
	if (startStr == "") != (endStr == "") {
		respondError(w, http.StatusBadRequest, "startDate and endDate must be provided together")
		return
	}
	if startStr != "" && endStr != "" {
		start, err := core.ParseDate(startStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid startDate")
			return
		}
		end, err := core.ParseDate(endStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid endDate")
			return
		}
		filter.Start, filter.End = start, end
	}
	if typ := query.Get("type"); typ != "" && typ != "all" {
		tt := core.TransactionType(typ)
		if err := tt.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid type")
			return
		}
		filter.Type = tt
	}

	txs, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		respondStoreError(w, r, err, "list transactions")
		return
	}

	data := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		data = append(data, toTransactionResponse(tx))
	}
	respondJSON(w, http.StatusOK, data)
}
