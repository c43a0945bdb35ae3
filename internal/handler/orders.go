package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tidewash/api/internal/database"
	"github.com/tidewash/api/internal/enum"
	"github.com/tidewash/api/internal/middleware"
	"github.com/tidewash/api/internal/pricing"
	"github.com/tidewash/api/internal/service"
	"github.com/tidewash/api/internal/ws"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id int64) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateOrderPaymentStatus(ctx context.Context, arg database.UpdateOrderPaymentStatusParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id int64) (int64, error)
}

// Broadcaster pushes order events to connected dashboards.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	hub   Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Delete is registered separately so the caller can guard it by role.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/payment-status", h.UpdatePaymentStatus)
}

// RegisterAdminRoutes registers the admin-only order endpoints.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createOrderRequest struct {
	CustomerName              string `json:"customer_name"`
	OrderDate                 string `json:"order_date"`
	ServiceTier               string `json:"service_tier"`
	ClothesWeightKg           string `json:"clothes_weight_kg"`
	ComforterSingleCount      int32  `json:"comforter_single_count"`
	ComforterDoubleCount      int32  `json:"comforter_double_count"`
	BedsheetCount             int32  `json:"bedsheet_count"`
	OthersCount               int32  `json:"others_count"`
	DetergentName             string `json:"detergent_name"`
	DetergentAdditional       int32  `json:"detergent_additional"`
	FabricDetergentName       string `json:"fabric_detergent_name"`
	FabricDetergentAdditional int32  `json:"fabric_detergent_additional"`
	PickupTime                string `json:"pickup_time"`
}

type orderResponse struct {
	ID                        int64     `json:"id"`
	CustomerName              string    `json:"customer_name"`
	OrderDate                 string    `json:"order_date"`
	ServiceTier               string    `json:"service_tier"`
	LoadCount                 int32     `json:"load_count"`
	ClothesWeightKg           string    `json:"clothes_weight_kg"`
	ComforterSingleCount      int32     `json:"comforter_single_count"`
	ComforterDoubleCount      int32     `json:"comforter_double_count"`
	BedsheetCount             int32     `json:"bedsheet_count"`
	OthersCount               int32     `json:"others_count"`
	DetergentName             *string   `json:"detergent_name"`
	DetergentAdditional       int32     `json:"detergent_additional"`
	FabricDetergentName       *string   `json:"fabric_detergent_name"`
	FabricDetergentAdditional int32     `json:"fabric_detergent_additional"`
	AdditionalCost            string    `json:"additional_cost"`
	TotalAmount               string    `json:"total_amount"`
	Status                    string    `json:"status"`
	PaymentStatus             string    `json:"payment_status"`
	PickupTime                *string   `json:"pickup_time"`
	CreatedBy                 uuid.UUID `json:"created_by"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

type priceBreakdownResponse struct {
	LoadCount      int32  `json:"load_count"`
	ServiceCost    string `json:"service_cost"`
	ArticlesCost   string `json:"articles_cost"`
	DetergentsCost string `json:"detergents_cost"`
	Total          string `json:"total"`
}

type stockDeductionResponse struct {
	ProductName string `json:"product_name"`
	Units       int32  `json:"units"`
}

// createOrderResponse extends orderResponse with the computed breakdown and
// any ledger deductions applied while creating the order.
type createOrderResponse struct {
	orderResponse
	PriceBreakdown  priceBreakdownResponse   `json:"price_breakdown"`
	StockDeductions []stockDeductionResponse `json:"stock_deductions"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrderDate == "" {
		req.OrderDate = time.Now().Format("2006-01-02")
	}
	if req.ClothesWeightKg == "" {
		req.ClothesWeightKg = "0"
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		CustomerName:              req.CustomerName,
		OrderDate:                 req.OrderDate,
		ServiceTier:               req.ServiceTier,
		ClothesWeightKg:           req.ClothesWeightKg,
		ComforterSingleCount:      req.ComforterSingleCount,
		ComforterDoubleCount:      req.ComforterDoubleCount,
		BedsheetCount:             req.BedsheetCount,
		OthersCount:               req.OthersCount,
		DetergentName:             req.DetergentName,
		DetergentAdditional:       req.DetergentAdditional,
		FabricDetergentName:       req.FabricDetergentName,
		FabricDetergentAdditional: req.FabricDetergentAdditional,
		PickupTime:                req.PickupTime,
		CreatedBy:                 claims.UserID,
	})
	if err != nil {
		writeOrderServiceError(w, err)
		return
	}

	resp := toCreateOrderResponse(result)
	writeJSON(w, http.StatusCreated, resp)

	if payload, err := json.Marshal(resp.orderResponse); err == nil {
		h.hub.Broadcast(ws.Event{Type: ws.EventOrderCreated, Payload: payload})
	}
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		if !isValidOrderStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("payment_status"); s != "" {
		if !isValidPaymentStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_status filter"})
			return
		}
		params.PaymentStatus = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("service_tier"); s != "" {
		if !isValidServiceTier(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service_tier filter"})
			return
		}
		params.ServiceTier = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Date{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return
		}
		params.EndDate = pgtype.Date{Time: t, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dbOrderToResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Limit:  limit,
		Offset: offset,
	})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(order))
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !isValidOrderStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		ID:     orderID,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(updated))

	payload, err := json.Marshal(map[string]any{"order_id": updated.ID, "status": updated.Status})
	if err == nil {
		h.hub.Broadcast(ws.Event{Type: ws.EventStatusChanged, Payload: payload})
	}
}

// UpdatePaymentStatus handles PATCH /orders/{id}/payment-status.
func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !isValidPaymentStatus(req.PaymentStatus) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment status"})
		return
	}

	updated, err := h.store.UpdateOrderPaymentStatus(r.Context(), database.UpdateOrderPaymentStatusParams{
		ID:            orderID,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update order payment status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(updated))

	payload, err := json.Marshal(map[string]any{"order_id": updated.ID, "payment_status": updated.PaymentStatus})
	if err == nil {
		h.hub.Broadcast(ws.Event{Type: ws.EventPaymentChanged, Payload: payload})
	}
}

// Delete handles DELETE /orders/{id}. Admin only; routing enforces the role.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	affected, err := h.store.DeleteOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if affected == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// writeOrderServiceError maps order service errors to HTTP status codes.
func writeOrderServiceError(w http.ResponseWriter, err error) {
	var notFound *service.DetergentNotFoundError
	var noStock *service.InsufficientStockError

	switch {
	case errors.As(err, &noStock):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrTxTimeout):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case isOrderValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// isOrderValidationError checks if the error is a known validation error
// from the service or pricing layer that should result in 400 Bad Request.
func isOrderValidationError(err error) bool {
	return errors.Is(err, service.ErrCustomerName) ||
		errors.Is(err, service.ErrInvalidOrderDate) ||
		errors.Is(err, service.ErrInvalidWeight) ||
		errors.Is(err, service.ErrInvalidPickup) ||
		errors.Is(err, service.ErrEmptyOrder) ||
		errors.Is(err, service.ErrDanglingAddon) ||
		errors.Is(err, pricing.ErrNegativeWeight) ||
		errors.Is(err, pricing.ErrNegativeCount) ||
		errors.Is(err, pricing.ErrUnknownService)
}

func toCreateOrderResponse(result *service.CreateOrderResult) createOrderResponse {
	deductions := make([]stockDeductionResponse, len(result.Deductions))
	for i, d := range result.Deductions {
		deductions[i] = stockDeductionResponse{ProductName: d.ProductName, Units: d.Units}
	}

	return createOrderResponse{
		orderResponse: dbOrderToResponse(result.Order),
		PriceBreakdown: priceBreakdownResponse{
			LoadCount:      result.Quote.LoadCount,
			ServiceCost:    result.Quote.ServiceCost.StringFixed(2),
			ArticlesCost:   result.Quote.ArticlesCost.StringFixed(2),
			DetergentsCost: result.Quote.DetergentsCost.StringFixed(2),
			Total:          result.Quote.Total.StringFixed(2),
		},
		StockDeductions: deductions,
	}
}

// dbOrderToResponse converts a database.Order to an orderResponse.
func dbOrderToResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:                        o.ID,
		CustomerName:              o.CustomerName,
		ServiceTier:               o.ServiceTier,
		LoadCount:                 o.LoadCount,
		ClothesWeightKg:           numericToString(o.ClothesWeightKg),
		ComforterSingleCount:      o.ComforterSingleCount,
		ComforterDoubleCount:      o.ComforterDoubleCount,
		BedsheetCount:             o.BedsheetCount,
		OthersCount:               o.OthersCount,
		DetergentAdditional:       o.DetergentAdditional,
		FabricDetergentAdditional: o.FabricDetergentAdditional,
		AdditionalCost:            numericToString(o.AdditionalCost),
		TotalAmount:               numericToString(o.TotalAmount),
		Status:                    o.Status,
		PaymentStatus:             o.PaymentStatus,
		CreatedBy:                 o.CreatedBy,
		CreatedAt:                 o.CreatedAt,
		UpdatedAt:                 o.UpdatedAt,
	}

	if o.OrderDate.Valid {
		resp.OrderDate = o.OrderDate.Time.Format("2006-01-02")
	}
	if o.DetergentName.Valid {
		resp.DetergentName = &o.DetergentName.String
	}
	if o.FabricDetergentName.Valid {
		resp.FabricDetergentName = &o.FabricDetergentName.String
	}
	if o.PickupTime.Valid {
		resp.PickupTime = &o.PickupTime.String
	}

	return resp
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

// isValidOrderStatus checks if the given status is a valid order status.
func isValidOrderStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusCompleted:
		return true
	}
	return false
}

// isValidServiceTier checks if the given tier is a known service tier.
func isValidServiceTier(s string) bool {
	switch s {
	case enum.ServiceWashDryFold, enum.ServiceWashOnly, enum.ServiceDryOnly:
		return true
	}
	return false
}

// isValidPaymentStatus checks if the given status is a valid payment status.
func isValidPaymentStatus(s string) bool {
	switch s {
	case enum.PaymentStatusUnpaid, enum.PaymentStatusPaid:
		return true
	}
	return false
}
