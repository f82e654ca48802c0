package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"milkyfeast/internal/storage"
)

type (
	productRequest struct {
		Name         string          `json:"name"`
		Category     string          `json:"category"`
		Unit         string          `json:"unit"`
		SellingPrice decimal.Decimal `json:"selling_price"`
	}

	productResponse struct {
		ID           int64           `json:"id"`
		Name         string          `json:"name"`
		Category     string          `json:"category"`
		Unit         string          `json:"unit"`
		SellingPrice decimal.Decimal `json:"selling_price"`
		Status       string          `json:"status"`
	}

	workerRequest struct {
		Name   string          `json:"name"`
		Mobile string          `json:"mobile"`
		Role   string          `json:"role"`
		Salary decimal.Decimal `json:"salary"`
	}

	workerResponse struct {
		ID     int64           `json:"id"`
		Name   string          `json:"name"`
		Mobile string          `json:"mobile"`
		Role   string          `json:"role"`
		Salary decimal.Decimal `json:"salary"`
		Status string          `json:"status"`
	}

	distributorRequest struct {
		Name        string          `json:"name"`
		ShopName    string          `json:"shop_name"`
		Mobile      string          `json:"mobile"`
		Address     string          `json:"address"`
		CreditLimit decimal.Decimal `json:"credit_limit"`
	}

	distributorResponse struct {
		ID                 int64           `json:"id"`
		Name               string          `json:"name"`
		ShopName           string          `json:"shop_name"`
		Mobile             string          `json:"mobile"`
		Address            string          `json:"address"`
		CreditLimit        decimal.Decimal `json:"credit_limit"`
		OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
		Status             string          `json:"status"`
	}

	partnerRequest struct {
		Name             string          `json:"name"`
		Mobile           string          `json:"mobile"`
		InvestmentAmount decimal.Decimal `json:"investment_amount"`
	}

	partnerResponse struct {
		ID               int64           `json:"id"`
		Name             string          `json:"name"`
		Mobile           string          `json:"mobile"`
		InvestmentAmount decimal.Decimal `json:"investment_amount"`
		Status           string          `json:"status"`
	}
)

// validateMaster covers the shared master-data rules: a name, and no
// negative money fields.
func validateMaster(name string, amounts ...decimal.Decimal) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required"
	}
	for _, a := range amounts {
		if a.IsNegative() {
			return "Amounts must not be negative"
		}
	}
	return ""
}

// --- products ---

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.SellingPrice); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := s.store.CreateProduct(r.Context(), storage.Product{
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		SellingPrice: req.SellingPrice,
	})
	if err != nil {
		respondStoreError(w, r, err, "create product")
		return
	}
	respondMessage(w, http.StatusCreated, "Product Created Successfully")
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, total, err := s.store.ListProducts(r.Context(), parseListPage(r))
	if err != nil {
		respondStoreError(w, r, err, "list products")
		return
	}

	data := make([]productResponse, 0, len(products))
	for _, p := range products {
		data = append(data, productResponse{
			ID:           p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Unit:         p.Unit,
			SellingPrice: p.SellingPrice,
			Status:       p.Status,
		})
	}
	respondJSON(w, http.StatusOK, listResponse[productResponse]{Data: data, Total: total})
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.SellingPrice); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	err = s.store.UpdateProduct(r.Context(), storage.Product{
		ID:           id,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		SellingPrice: req.SellingPrice,
	})
	if err != nil {
		respondStoreError(w, r, err, "update product")
		return
	}
	respondMessage(w, http.StatusOK, "Product Updated Successfully")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.SoftDeleteProduct(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "delete product")
		return
	}
	respondMessage(w, http.StatusOK, "Product Archived Successfully")
}

func (s *Server) handleToggleProductStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if _, err := s.store.ToggleProductStatus(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "toggle product status")
		return
	}
	respondMessage(w, http.StatusOK, "Status Updated")
}

// --- workers ---

func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	var req workerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.Salary); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := s.store.CreateWorker(r.Context(), storage.Worker{
		Name:   req.Name,
		Mobile: req.Mobile,
		Role:   req.Role,
		Salary: req.Salary,
	})
	if err != nil {
		respondStoreError(w, r, err, "create worker")
		return
	}
	respondMessage(w, http.StatusCreated, "Worker Created")
}

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, total, err := s.store.ListWorkers(r.Context(), parseListPage(r))
	if err != nil {
		respondStoreError(w, r, err, "list workers")
		return
	}

	data := make([]workerResponse, 0, len(workers))
	for _, wk := range workers {
		data = append(data, workerResponse{
			ID:     wk.ID,
			Name:   wk.Name,
			Mobile: wk.Mobile,
			Role:   wk.Role,
			Salary: wk.Salary,
			Status: wk.Status,
		})
	}
	respondJSON(w, http.StatusOK, listResponse[workerResponse]{Data: data, Total: total})
}

func (s *Server) handleUpdateWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req workerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.Salary); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	err = s.store.UpdateWorker(r.Context(), storage.Worker{
		ID:     id,
		Name:   req.Name,
		Mobile: req.Mobile,
		Role:   req.Role,
		Salary: req.Salary,
	})
	if err != nil {
		respondStoreError(w, r, err, "update worker")
		return
	}
	respondMessage(w, http.StatusOK, "Worker Updated")
}

func (s *Server) handleDeleteWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.SoftDeleteWorker(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "delete worker")
		return
	}
	respondMessage(w, http.StatusOK, "Worker Archived")
}

func (s *Server) handleToggleWorkerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if _, err := s.store.ToggleWorkerStatus(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "toggle worker status")
		return
	}
	respondMessage(w, http.StatusOK, "Status Updated")
}

// --- distributors ---

func (s *Server) handleCreateDistributor(w http.ResponseWriter, r *http.Request) {
	var req distributorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.CreditLimit); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := s.store.CreateDistributor(r.Context(), storage.Distributor{
		Name:        req.Name,
		ShopName:    req.ShopName,
		Mobile:      req.Mobile,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		respondStoreError(w, r, err, "create distributor")
		return
	}
	respondMessage(w, http.StatusCreated, "Distributor Created")
}

func (s *Server) handleListDistributors(w http.ResponseWriter, r *http.Request) {
	distributors, total, err := s.store.ListDistributors(r.Context(), parseListPage(r))
	if err != nil {
		respondStoreError(w, r, err, "list distributors")
		return
	}

	data := make([]distributorResponse, 0, len(distributors))
	for _, d := range distributors {
		data = append(data, distributorResponse{
			ID:                 d.ID,
			Name:               d.Name,
			ShopName:           d.ShopName,
			Mobile:             d.Mobile,
			Address:            d.Address,
			CreditLimit:        d.CreditLimit,
			OutstandingBalance: d.OutstandingBalance,
			Status:             d.Status,
		})
	}
	respondJSON(w, http.StatusOK, listResponse[distributorResponse]{Data: data, Total: total})
}

func (s *Server) handleUpdateDistributor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req distributorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.CreditLimit); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	err = s.store.UpdateDistributor(r.Context(), storage.Distributor{
		ID:          id,
		Name:        req.Name,
		ShopName:    req.ShopName,
		Mobile:      req.Mobile,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		respondStoreError(w, r, err, "update distributor")
		return
	}
	respondMessage(w, http.StatusOK, "Distributor Updated")
}

func (s *Server) handleDeleteDistributor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.SoftDeleteDistributor(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "delete distributor")
		return
	}
	respondMessage(w, http.StatusOK, "Distributor Archived")
}

func (s *Server) handleToggleDistributorStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if _, err := s.store.ToggleDistributorStatus(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "toggle distributor status")
		return
	}
	respondMessage(w, http.StatusOK, "Status Updated")
}

// --- partners ---

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var req partnerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.InvestmentAmount); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := s.store.CreatePartner(r.Context(), storage.Partner{
		Name:             req.Name,
		Mobile:           req.Mobile,
		InvestmentAmount: req.InvestmentAmount,
	})
	if err != nil {
		respondStoreError(w, r, err, "create partner")
		return
	}
	respondMessage(w, http.StatusCreated, "Partner Created")
}

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, total, err := s.store.ListPartners(r.Context(), parseListPage(r))
	if err != nil {
		respondStoreError(w, r, err, "list partners")
		return
	}

	data := make([]partnerResponse, 0, len(partners))
	for _, p := range partners {
		data = append(data, partnerResponse{
			ID:               p.ID,
			Name:             p.Name,
			Mobile:           p.Mobile,
			InvestmentAmount: p.InvestmentAmount,
			Status:           p.Status,
		})
	}
	respondJSON(w, http.StatusOK, listResponse[partnerResponse]{Data: data, Total: total})
}

func (s *Server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req partnerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateMaster(req.Name, req.InvestmentAmount); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	err = s.store.UpdatePartner(r.Context(), storage.Partner{
		ID:               id,
		Name:             req.Name,
		Mobile:           req.Mobile,
		InvestmentAmount: req.InvestmentAmount,
	})
	if err != nil {
		respondStoreError(w, r, err, "update partner")
		return
	}
	respondMessage(w, http.StatusOK, "Partner Updated")
}

func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.SoftDeletePartner(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "delete partner")
		return
	}
	respondMessage(w, http.StatusOK, "Partner Archived")
}

func (s *Server) handleTogglePartnerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if _, err := s.store.TogglePartnerStatus(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "toggle partner status")
		return
	}
	respondMessage(w, http.StatusOK, "Status Updated")
}
