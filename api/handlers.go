/*
handlers.go - HTTP handlers for the loyalty ledger

PURPOSE:
  Exposes the ledger and derivation engine over REST. Handlers parse the
  request, delegate to domain logic, and serialize the result. No business
  rule lives here.

ENDPOINTS:
  Customers:
    GET    /api/customers               List customers
    POST   /api/customers               Create customer
    GET    /api/customers/{id}/loyalty  Points, eligibility, sales history
    PUT    /api/customers/{id}          Patch customer
    DELETE /api/customers/{id}          Delete customer (sales survive)

  Sales:
    GET    /api/sales                   List sales
    POST   /api/sales                   Record sale (points stamped here)

  Settings:
    GET    /api/settings                Current ruleset (or defaults)
    PUT    /api/settings                Save ruleset

  Dashboard:
    GET    /api/dashboard               Windowed metrics and rankings

ERROR HANDLING:
  Errors map to JSON with appropriate HTTP status:
  - 400: Validation errors, malformed JSON
  - 404: Unknown customer id
  - 500: Storage or other internal failures
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/warp/loyalty-ledger/loyalty"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Customers *loyalty.CustomerLedger
	Sales     *loyalty.SaleLedger
	Settings  *loyalty.SettingsService
	Metrics   *loyalty.Metrics
}

func NewHandler(customers *loyalty.CustomerLedger, sales *loyalty.SaleLedger, settings *loyalty.SettingsService, metrics *loyalty.Metrics) *Handler {
	return &Handler{Customers: customers, Sales: sales, Settings: settings, Metrics: metrics}
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.Customers.Add(r.Context(), loyalty.NewCustomer{
		Name:  req.Name,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(c))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req UpdateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.Customers.Update(r.Context(), chi.URLParam(r, "id"), loyalty.CustomerPatch{
		Name:  req.Name,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(c))
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.Customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCustomerLoyalty returns the loyalty view for one customer: the frozen
// point total, eligibility against the CURRENT threshold, and the
// customer's sales newest-first.
func (h *Handler) GetCustomerLoyalty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customer, err := h.Customers.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	sales, err := h.Sales.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	settings := h.Settings.Get(ctx)
	total := loyalty.TotalPoints(customer.ID, sales)

	writeJSON(w, http.StatusOK, CustomerLoyaltyDTO{
		Customer:        toCustomerDTO(customer),
		TotalPoints:     total,
		RewardAvailable: loyalty.IsRewardAvailable(total, settings),
		Sales:           toSaleDTOs(loyalty.SalesForCustomer(customer.ID, sales)),
	})
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Sales.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTOs(sales))
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.Sales.Add(r.Context(), loyalty.NewSale{
		Amount:      req.Amount,
		CustomerID:  req.CustomerID,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(s))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsDTO(h.Settings.Get(r.Context())))
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SaveSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ppu, err := req.PointsPerUnit.Int64()
	if err != nil {
		writeError(w, &loyalty.ValidationError{Field: "points_per_unit", Reason: "must be an integer >= 1"})
		return
	}
	threshold, err := req.RewardThreshold.Int64()
	if err != nil {
		writeError(w, &loyalty.ValidationError{Field: "reward_threshold", Reason: "must be an integer >= 1"})
		return
	}

	saved, err := h.Settings.Save(r.Context(), loyalty.SettingsInput{
		PointsPerUnit:   ppu,
		RewardThreshold: threshold,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(saved))
}

// =============================================================================
// DASHBOARD HANDLER
// =============================================================================

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customers, err := h.Customers.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	sales, err := h.Sales.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	settings := h.Settings.Get(ctx)

	top := h.Metrics.TopCustomers(customers, sales, 0)
	topDTOs := make([]TopCustomerDTO, len(top))
	for i, t := range top {
		topDTOs[i] = TopCustomerDTO{Customer: toCustomerDTO(t.Customer), TotalPoints: t.TotalPoints}
	}

	writeJSON(w, http.StatusOK, DashboardDTO{
		TodayRevenue:        h.Metrics.TodayRevenue(sales),
		TodayTransactions:   h.Metrics.TodayTransactions(sales),
		MonthlyRevenue:      h.Metrics.MonthlyRevenue(sales),
		MonthlyTransactions: h.Metrics.MonthlyTransactions(sales),
		AverageSale:         h.Metrics.AverageSale(sales),
		RewardsPending:      h.Metrics.RewardsPendingCount(customers, sales, settings),
		TopCustomers:        topDTOs,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Detail: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case loyalty.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Detail: err.Error()})
	case loyalty.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Detail: err.Error()})
	default:
		log.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
