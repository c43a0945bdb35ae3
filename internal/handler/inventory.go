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
)

// InventoryStore defines the database methods needed by inventory handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type InventoryStore interface {
	ListInventoryItems(ctx context.Context) ([]database.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	GetInventoryItemByName(ctx context.Context, productName string) (database.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, arg database.UpdateInventoryItemParams) (database.InventoryItem, error)
	AddStock(ctx context.Context, arg database.AddStockParams) (database.InventoryItem, error)
	ListInventoryExpenses(ctx context.Context, inventoryID uuid.UUID) ([]database.InventoryExpense, error)
	ListInStockProductsByType(ctx context.Context, productType string) ([]database.InventoryItem, error)
}

// InventoryHandler handles inventory endpoints.
type InventoryHandler struct {
	store InventoryStore
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(store InventoryStore) *InventoryHandler {
	return &InventoryHandler{store: store}
}

// RegisterRoutes registers inventory endpoints on the given Chi router.
// Mutating routes are wrapped with the admin-only middleware by the caller.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/stock", h.StockByName)
	r.Get("/products", h.ProductsByType)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers the mutating inventory endpoints plus the
// purchase history, which exposes spend figures.
func (h *InventoryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/stock", h.AddStock)
	r.Get("/{id}/expenses", h.ListExpenses)
}

// --- Request / Response types ---

type createInventoryRequest struct {
	ProductName  string `json:"product_name"`
	ProductType  string `json:"product_type"`
	CurrentStock int32  `json:"current_stock"`
	PricePerUnit string `json:"price_per_unit"`
	ReorderLevel *int32 `json:"reorder_level"`
	Description  string `json:"description"`
}

type updateInventoryRequest struct {
	ProductName  string `json:"product_name"`
	ProductType  string `json:"product_type"`
	CurrentStock int32  `json:"current_stock"`
	PricePerUnit string `json:"price_per_unit"`
	ReorderLevel *int32 `json:"reorder_level"`
	Description  string `json:"description"`
}

type addStockRequest struct {
	Quantity    int32  `json:"quantity"`
	UnitCost    string `json:"unit_cost"`
	Description string `json:"description"`
}

type inventoryItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductName  string    `json:"product_name"`
	ProductType  string    `json:"product_type"`
	CurrentStock int32     `json:"current_stock"`
	PricePerUnit string    `json:"price_per_unit"`
	TotalExpense string    `json:"total_expense"`
	ReorderLevel *int32    `json:"reorder_level"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// stockResponse matches the order form's stock probe.
type stockResponse struct {
	Success bool  `json:"success"`
	Stock   int32 `json:"stock"`
}

type inventoryExpenseResponse struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	ExpenseDate string `json:"expense_date"`
	Description string `json:"description"`
}

func toInventoryItemResponse(i database.InventoryItem) inventoryItemResponse {
	resp := inventoryItemResponse{
		ID:           i.ID,
		ProductName:  i.ProductName,
		ProductType:  i.ProductType,
		CurrentStock: i.CurrentStock,
		PricePerUnit: numericToString(i.PricePerUnit),
		TotalExpense: numericToString(i.TotalExpense),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
	if i.ReorderLevel.Valid {
		resp.ReorderLevel = &i.ReorderLevel.Int32
	}
	if i.Description.Valid {
		resp.Description = &i.Description.String
	}
	return resp
}

// --- Handlers ---

// List returns all inventory items.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventoryItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list inventory: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]inventoryItemResponse, len(items))
	for i, item := range items {
		resp[i] = toInventoryItemResponse(item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single inventory item by ID.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	item, err := h.store.GetInventoryItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: get inventory item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemResponse(item))
}

// StockByName handles GET /inventory/stock?product_name=X.
// The order form polls this before submitting.
func (h *InventoryHandler) StockByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("product_name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_name is required"})
		return
	}

	item, err := h.store.GetInventoryItemByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, stockResponse{Success: false, Stock: 0})
			return
		}
		log.Printf("ERROR: stock by name: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, stockResponse{Success: true, Stock: item.CurrentStock})
}

// ProductsByType handles GET /inventory/products?type=X, returning in-stock
// items only. The order form uses it to populate detergent dropdowns.
func (h *InventoryHandler) ProductsByType(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("type")
	if !isValidProductType(productType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product type"})
		return
	}

	items, err := h.store.ListInStockProductsByType(r.Context(), productType)
	if err != nil {
		log.Printf("ERROR: products by type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]inventoryItemResponse, len(items))
	for i, item := range items {
		resp[i] = toInventoryItemResponse(item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new inventory item.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ProductName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_name is required"})
		return
	}
	if !isValidProductType(req.ProductType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product type"})
		return
	}
	if req.CurrentStock < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "current_stock must not be negative"})
		return
	}

	price, err := parseMoney(req.PricePerUnit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price_per_unit"})
		return
	}

	// Initial expense is the cost of the opening stock.
	expense := price.Mul(decimal.NewFromInt32(req.CurrentStock))

	reorder := pgtype.Int4{}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reorder_level must not be negative"})
			return
		}
		reorder = pgtype.Int4{Int32: *req.ReorderLevel, Valid: true}
	}
	description := pgtype.Text{}
	if req.Description != "" {
		description = pgtype.Text{String: req.Description, Valid: true}
	}

	item, err := h.store.CreateInventoryItem(r.Context(), database.CreateInventoryItemParams{
		ProductName:  req.ProductName,
		ProductType:  req.ProductType,
		CurrentStock: req.CurrentStock,
		PricePerUnit: moneyToNumeric(price),
		TotalExpense: moneyToNumeric(expense),
		ReorderLevel: reorder,
		Description:  description,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "product already exists"})
			return
		}
		log.Printf("ERROR: create inventory item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toInventoryItemResponse(item))
}

// Update modifies an existing inventory item.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req updateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ProductName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_name is required"})
		return
	}
	if !isValidProductType(req.ProductType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product type"})
		return
	}
	if req.CurrentStock < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "current_stock must not be negative"})
		return
	}

	price, err := parseMoney(req.PricePerUnit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price_per_unit"})
		return
	}

	reorder := pgtype.Int4{}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reorder_level must not be negative"})
			return
		}
		reorder = pgtype.Int4{Int32: *req.ReorderLevel, Valid: true}
	}
	description := pgtype.Text{}
	if req.Description != "" {
		description = pgtype.Text{String: req.Description, Valid: true}
	}

	item, err := h.store.UpdateInventoryItem(r.Context(), database.UpdateInventoryItemParams{
		ID:           id,
		ProductName:  req.ProductName,
		ProductType:  req.ProductType,
		CurrentStock: req.CurrentStock,
		PricePerUnit: moneyToNumeric(price),
		ReorderLevel: reorder,
		Description:  description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "product already exists"})
			return
		}
		log.Printf("ERROR: update inventory item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemResponse(item))
}

// AddStock handles POST /inventory/{id}/stock: increments stock and books
// the purchase cost as an expense.
func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req addStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be > 0"})
		return
	}

	unitCost, err := parseMoney(req.UnitCost)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid unit_cost"})
		return
	}
	expense := unitCost.Mul(decimal.NewFromInt32(req.Quantity))

	description := req.Description
	if description == "" {
		description = "restock " + strconv.Itoa(int(req.Quantity)) + " units"
	}

	item, err := h.store.AddStock(r.Context(), database.AddStockParams{
		ID:          id,
		Quantity:    req.Quantity,
		Expense:     moneyToNumeric(expense),
		Description: description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: add stock: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemResponse(item))
}

// ListExpenses handles GET /inventory/{id}/expenses, the purchase history
// for one item, newest first.
func (h *InventoryHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	if _, err := h.store.GetInventoryItem(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: list inventory expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	expenses, err := h.store.ListInventoryExpenses(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list inventory expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]inventoryExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = inventoryExpenseResponse{
			ID:          e.ID,
			Amount:      numericToString(e.Amount),
			ExpenseDate: e.ExpenseDate.Format(time.RFC3339),
			Description: e.Description,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func isValidProductType(t string) bool {
	switch t {
	case enum.ProductTypeDetergent, enum.ProductTypeFabricDetergent,
		enum.ProductTypeSupplies, enum.ProductTypeEquipment:
		return true
	}
	return false
}

// parseMoney parses a non-negative decimal amount. Empty means zero.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("negative amount")
	}
	return d, nil
}

func moneyToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
