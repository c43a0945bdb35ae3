package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tidewash/api/internal/database"
)

// Items at or below this stock level show up on the dashboard unless the
// caller overrides the threshold.
const defaultStockAlertThreshold = 5

// DashboardStore defines the database methods needed by dashboard handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type DashboardStore interface {
	GetSalesTotal(ctx context.Context, arg database.GetSalesTotalParams) (pgtype.Numeric, error)
	GetSalesByMonth(ctx context.Context, arg database.GetSalesByMonthParams) ([]database.GetSalesByMonthRow, error)
	GetTopDetergents(ctx context.Context, arg database.GetTopDetergentsParams) ([]database.GetTopDetergentsRow, error)
	GetTopFabricDetergents(ctx context.Context, arg database.GetTopDetergentsParams) ([]database.GetTopDetergentsRow, error)
	GetCustomerStats(ctx context.Context, arg database.GetCustomerStatsParams) (database.GetCustomerStatsRow, error)
	ListStockAlerts(ctx context.Context, threshold int32) ([]database.InventoryItem, error)
}

// DashboardHandler serves the admin dashboard aggregates.
type DashboardHandler struct {
	store DashboardStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// RegisterRoutes registers dashboard endpoints on the given Chi router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/sales-by-month", h.SalesByMonth)
	r.Get("/top-detergents", h.TopDetergents)
	r.Get("/stock-alerts", h.StockAlerts)
}

// --- Response types ---

type summaryResponse struct {
	TodaySales        string `json:"today_sales"`
	MonthSales        string `json:"month_sales"`
	YearSales         string `json:"year_sales"`
	MonthOrders       int64  `json:"month_orders"`
	ActiveDays        int64  `json:"active_days"`
	AvgDailySales     string `json:"avg_daily_sales"`
	AvgDailyCustomers string `json:"avg_daily_customers"`
	LowStockCount     int    `json:"low_stock_count"`
}

type salesByMonthResponse struct {
	Month      string `json:"month"`
	TotalSales string `json:"total_sales"`
	OrderCount int64  `json:"order_count"`
}

type topDetergentResponse struct {
	ProductName string `json:"product_name"`
	UseCount    int64  `json:"use_count"`
}

type topDetergentsResponse struct {
	Detergents       []topDetergentResponse `json:"detergents"`
	FabricDetergents []topDetergentResponse `json:"fabric_detergents"`
}

// --- Handlers ---

// Summary handles GET /dashboard/summary.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	today := pgtype.Date{Time: now, Valid: true}
	monthStart := pgtype.Date{Time: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), Valid: true}
	yearStart := pgtype.Date{Time: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), Valid: true}

	paidOnly := r.URL.Query().Get("paid_only") == "true"

	todaySales, err := h.store.GetSalesTotal(r.Context(), database.GetSalesTotalParams{
		StartDate: today,
		EndDate:   today,
		PaidOnly:  paidOnly,
	})
	if err != nil {
		log.Printf("ERROR: dashboard summary: today sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	monthSales, err := h.store.GetSalesTotal(r.Context(), database.GetSalesTotalParams{
		StartDate: monthStart,
		EndDate:   today,
		PaidOnly:  paidOnly,
	})
	if err != nil {
		log.Printf("ERROR: dashboard summary: month sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	yearSales, err := h.store.GetSalesTotal(r.Context(), database.GetSalesTotalParams{
		StartDate: yearStart,
		EndDate:   today,
		PaidOnly:  paidOnly,
	})
	if err != nil {
		log.Printf("ERROR: dashboard summary: year sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	stats, err := h.store.GetCustomerStats(r.Context(), database.GetCustomerStatsParams{
		StartDate: monthStart,
		EndDate:   today,
	})
	if err != nil {
		log.Printf("ERROR: dashboard summary: customer stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	alerts, err := h.store.ListStockAlerts(r.Context(), defaultStockAlertThreshold)
	if err != nil {
		log.Printf("ERROR: dashboard summary: stock alerts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Per-day averages over the days the shop actually took orders.
	avgSales := decimal.Zero
	avgCustomers := decimal.Zero
	if stats.ActiveDays > 0 {
		days := decimal.NewFromInt(stats.ActiveDays)
		monthTotal, err := decimal.NewFromString(numericToString(stats.TotalSales))
		if err == nil {
			avgSales = monthTotal.DivRound(days, 2)
		}
		avgCustomers = decimal.NewFromInt(stats.TotalOrders).DivRound(days, 1)
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		TodaySales:        numericToString(todaySales),
		MonthSales:        numericToString(monthSales),
		YearSales:         numericToString(yearSales),
		MonthOrders:       stats.TotalOrders,
		ActiveDays:        stats.ActiveDays,
		AvgDailySales:     avgSales.StringFixed(2),
		AvgDailyCustomers: avgCustomers.StringFixed(1),
		LowStockCount:     len(alerts),
	})
}

// SalesByMonth handles GET /dashboard/sales-by-month?start_date=&end_date=.
// The range defaults to the last twelve months.
func (h *DashboardHandler) SalesByMonth(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r, time.Now().AddDate(-1, 0, 0), time.Now())
	if !ok {
		return
	}

	rows, err := h.store.GetSalesByMonth(r.Context(), database.GetSalesByMonthParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: sales by month: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]salesByMonthResponse, len(rows))
	for i, row := range rows {
		resp[i] = salesByMonthResponse{
			Month:      row.Month.Time.Format("2006-01"),
			TotalSales: numericToString(row.TotalSales),
			OrderCount: row.OrderCount,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// TopDetergents handles GET /dashboard/top-detergents?start_date=&end_date=&limit=.
func (h *DashboardHandler) TopDetergents(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r, time.Now().AddDate(0, -1, 0), time.Now())
	if !ok {
		return
	}

	limit := int32(5)
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 || v > 50 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = int32(v)
	}

	params := database.GetTopDetergentsParams{StartDate: start, EndDate: end, Limit: limit}

	detergents, err := h.store.GetTopDetergents(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: top detergents: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	fabric, err := h.store.GetTopFabricDetergents(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: top fabric detergents: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, topDetergentsResponse{
		Detergents:       toTopDetergentResponses(detergents),
		FabricDetergents: toTopDetergentResponses(fabric),
	})
}

// StockAlerts handles GET /dashboard/stock-alerts?threshold=.
func (h *DashboardHandler) StockAlerts(w http.ResponseWriter, r *http.Request) {
	threshold := int32(defaultStockAlertThreshold)
	if s := r.URL.Query().Get("threshold"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid threshold"})
			return
		}
		threshold = int32(v)
	}

	items, err := h.store.ListStockAlerts(r.Context(), threshold)
	if err != nil {
		log.Printf("ERROR: stock alerts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]inventoryItemResponse, len(items))
	for i, item := range items {
		resp[i] = toInventoryItemResponse(item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// parseDateRange reads optional start_date / end_date query params, falling
// back to the given defaults. Writes a 400 and returns ok=false on bad input.
func parseDateRange(w http.ResponseWriter, r *http.Request, defaultStart, defaultEnd time.Time) (pgtype.Date, pgtype.Date, bool) {
	start := pgtype.Date{Time: defaultStart, Valid: true}
	end := pgtype.Date{Time: defaultEnd, Valid: true}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return start, end, false
		}
		start = pgtype.Date{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return start, end, false
		}
		end = pgtype.Date{Time: t, Valid: true}
	}

	if end.Time.Before(start.Time) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_date must not be before start_date"})
		return start, end, false
	}

	return start, end, true
}

func toTopDetergentResponses(rows []database.GetTopDetergentsRow) []topDetergentResponse {
	resp := make([]topDetergentResponse, len(rows))
	for i, row := range rows {
		resp[i] = topDetergentResponse{
			ProductName: row.DetergentName.String,
			UseCount:    row.UseCount,
		}
	}
	return resp
}
