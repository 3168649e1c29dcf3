package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/customer-management-backend/internal/models"
	"github.com/Raymond9734/customer-management-backend/internal/repository"
	"github.com/Raymond9734/customer-management-backend/internal/service"
)

const historyLimit = 50

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	auditRepo       repository.AuditRepository
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(
	customerService service.CustomerService,
	auditRepo repository.AuditRepository,
	logger *slog.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		auditRepo:       auditRepo,
		logger:          logger,
	}
}

// ListResponse is one page of customers
type ListResponse struct {
	Count    int64                     `json:"count"`
	Next     *string                   `json:"next"`
	Previous *string                   `json:"previous"`
	Results  []*models.CustomerSummary `json:"results"`
}

// HistoryResponse lists recorded events for one customer, newest first
type HistoryResponse struct {
	Results []*models.AuditEntry `json:"results"`
}

// ListCustomers handles GET /api/customers/
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Invalid page.")
			return
		}
		page = n
	}

	filter := models.CustomerFilter{
		Search:   strings.TrimSpace(query.Get("search")),
		Ordering: query.Get("ordering"),
		Page:     page,
	}

	if values, ok := query["is_active"]; ok && len(values) > 0 {
		active := strings.EqualFold(values[0], "true")
		filter.IsActive = &active
	}

	result, err := h.customerService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response := ListResponse{
		Count:   result.Pagination.TotalCount,
		Results: result.Results,
	}
	if result.Pagination.HasNext() {
		next := pageURL(r, result.Pagination.Page+1)
		response.Next = &next
	}
	if result.Pagination.HasPrevious() {
		prev := pageURL(r, result.Pagination.Page-1)
		response.Previous = &prev
	}

	respondSuccess(w, response)
}

// GetCustomer handles GET /api/customers/{id}/
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer.Detail())
}

// CreateCustomer handles POST /api/customers/
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.Create(r.Context(), input)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, customer.Detail())
}

// UpdateCustomer handles PUT /api/customers/{id}/
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PatchCustomer handles PATCH /api/customers/{id}/
func (h *CustomerHandler) PatchCustomer(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *CustomerHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, input, partial)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer.Detail())
}

// DeleteCustomer handles DELETE /api/customers/{id}/
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondNoContent(w)
}

// Stats handles GET /api/customers/stats/
func (h *CustomerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.customerService.Stats(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, stats)
}

// Activate handles POST /api/customers/{id}/activate/
func (h *CustomerHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	result, err := h.customerService.Activate(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// Deactivate handles POST /api/customers/{id}/deactivate/
func (h *CustomerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	result, err := h.customerService.Deactivate(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// History handles GET /api/customers/{id}/history/
func (h *CustomerHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	if _, err := h.customerService.GetByID(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	entries, err := h.auditRepo.ListByCustomer(r.Context(), id, historyLimit)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, HistoryResponse{Results: entries})
}

func customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (*models.CustomerInput, bool) {
	var input models.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return nil, false
	}
	return &input, true
}

// pageURL rebuilds the request URL pointing at page. Page 1 drops the
// parameter altogether.
func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}

	query := r.URL.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
