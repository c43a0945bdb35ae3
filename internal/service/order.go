package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tidewash/api/internal/database"
	"github.com/tidewash/api/internal/enum"
	"github.com/tidewash/api/internal/pricing"
)

// One inventory stock unit is consumed per this many usage units.
const usageThreshold = 15

// The whole order transaction, including lock waits on detergent usage rows,
// must finish within this window.
const txTimeout = 5 * time.Second

// Errors returned by the order service.
var (
	ErrCustomerName     = errors.New("customer name is required")
	ErrInvalidOrderDate = errors.New("invalid order date, use YYYY-MM-DD")
	ErrInvalidWeight    = errors.New("invalid clothes weight")
	ErrInvalidPickup    = errors.New("invalid pickup time, use HH:MM")
	ErrEmptyOrder       = errors.New("order must have clothes weight or at least one article")
	ErrDanglingAddon    = errors.New("additional detergent units require a detergent selection")
	ErrTxTimeout        = errors.New("order transaction timed out, please retry")
)

// DetergentNotFoundError reports a detergent selection with no matching
// inventory row (or one whose product type does not match).
type DetergentNotFoundError struct {
	ProductName string
}

func (e *DetergentNotFoundError) Error() string {
	return fmt.Sprintf("detergent %q not found in inventory", e.ProductName)
}

// InsufficientStockError reports a usage rollover that would push a
// detergent's stock below zero. The enclosing transaction is rolled back.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for detergent %q", e.ProductName)
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetInventoryItemByName(ctx context.Context, productName string) (database.InventoryItem, error)
	GetInventoryItemForUpdate(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	GetDetergentUsageForUpdate(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error)
	CreateDetergentUsage(ctx context.Context, inventoryID uuid.UUID) (database.DetergentUsage, error)
	SetDetergentUsageCounter(ctx context.Context, arg database.SetDetergentUsageCounterParams) error
	DecrementStock(ctx context.Context, arg database.DecrementStockParams) (int64, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest carries the raw order form fields. The total is never
// part of the request: the service always computes it.
type CreateOrderRequest struct {
	CustomerName              string
	OrderDate                 string // YYYY-MM-DD
	ServiceTier               string
	ClothesWeightKg           string
	ComforterSingleCount      int32
	ComforterDoubleCount      int32
	BedsheetCount             int32
	OthersCount               int32
	DetergentName             string
	DetergentAdditional       int32
	FabricDetergentName       string
	FabricDetergentAdditional int32
	PickupTime                string // HH:MM, optional
	CreatedBy                 uuid.UUID
}

// StockDeduction records a ledger rollover applied while creating an order.
type StockDeduction struct {
	ProductName string
	Units       int32
}

// CreateOrderResult is the persisted order plus its price breakdown.
type CreateOrderResult struct {
	Order      database.Order
	Quote      pricing.Quote
	Deductions []StockDeduction
}

// OrderService handles order creation and the detergent usage ledger.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates, prices, and persists an order, updating the
// detergent usage ledger in the same transaction. Any ledger failure rolls
// back the order row as well.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if req.CustomerName == "" {
		return nil, ErrCustomerName
	}

	orderDate, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return nil, ErrInvalidOrderDate
	}

	weight, err := decimal.NewFromString(req.ClothesWeightKg)
	if err != nil {
		return nil, ErrInvalidWeight
	}

	pickup := pgtype.Text{}
	if req.PickupTime != "" {
		if _, err := time.Parse("15:04", req.PickupTime); err != nil {
			return nil, ErrInvalidPickup
		}
		pickup = pgtype.Text{String: req.PickupTime, Valid: true}
	}

	if req.DetergentName == "" && req.DetergentAdditional > 0 {
		return nil, ErrDanglingAddon
	}
	if req.FabricDetergentName == "" && req.FabricDetergentAdditional > 0 {
		return nil, ErrDanglingAddon
	}

	quote, err := pricing.Calculate(pricing.Input{
		ServiceTier:               req.ServiceTier,
		ClothesWeightKg:           weight,
		ComforterSingleCount:      req.ComforterSingleCount,
		ComforterDoubleCount:      req.ComforterDoubleCount,
		BedsheetCount:             req.BedsheetCount,
		OthersCount:               req.OthersCount,
		DetergentAdditional:       req.DetergentAdditional,
		FabricDetergentAdditional: req.FabricDetergentAdditional,
	})
	if err != nil {
		return nil, err
	}

	if weight.IsZero() && req.ComforterSingleCount == 0 && req.ComforterDoubleCount == 0 &&
		req.BedsheetCount == 0 && req.OthersCount == 0 {
		return nil, ErrEmptyOrder
	}

	result, err := s.createOrderTx(ctx, req, orderDate, weight, pickup, quote)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTxTimeout
		}
		return nil, err
	}
	return result, nil
}

// createOrderTx runs the order insert and ledger updates in one transaction.
func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest, orderDate time.Time, weight decimal.Decimal, pickup pgtype.Text, quote pricing.Quote) (*CreateOrderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	detergentName := pgtype.Text{}
	if req.DetergentName != "" {
		detergentName = pgtype.Text{String: req.DetergentName, Valid: true}
	}
	fabricName := pgtype.Text{}
	if req.FabricDetergentName != "" {
		fabricName = pgtype.Text{String: req.FabricDetergentName, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerName:              req.CustomerName,
		OrderDate:                 pgtype.Date{Time: orderDate, Valid: true},
		ServiceTier:               req.ServiceTier,
		LoadCount:                 quote.LoadCount,
		ClothesWeightKg:           decimalToNumeric(weight),
		ComforterSingleCount:      req.ComforterSingleCount,
		ComforterDoubleCount:      req.ComforterDoubleCount,
		BedsheetCount:             req.BedsheetCount,
		OthersCount:               req.OthersCount,
		DetergentName:             detergentName,
		DetergentAdditional:       req.DetergentAdditional,
		FabricDetergentName:       fabricName,
		FabricDetergentAdditional: req.FabricDetergentAdditional,
		AdditionalCost:            decimalToNumeric(quote.DetergentsCost),
		TotalAmount:               decimalToNumeric(quote.Total),
		Status:                    enum.OrderStatusPending,
		PaymentStatus:             enum.PaymentStatusUnpaid,
		PickupTime:                pickup,
		CreatedBy:                 pgtype.UUID{Bytes: req.CreatedBy, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Usage units for the ledger: loads plus bulky articles plus both
	// additional counts. The same combined total is applied to the chosen
	// detergent and the chosen fabric detergent independently, matching the
	// shop's established bookkeeping.
	articles := req.ComforterSingleCount + req.ComforterDoubleCount + req.BedsheetCount
	units := quote.LoadCount + articles + req.DetergentAdditional + req.FabricDetergentAdditional

	var deductions []StockDeduction
	if req.DetergentName != "" && units > 0 {
		d, err := recordUsage(ctx, store, req.DetergentName, enum.ProductTypeDetergent, units)
		if err != nil {
			return nil, err
		}
		if d.Units > 0 {
			deductions = append(deductions, d)
		}
	}
	if req.FabricDetergentName != "" && units > 0 {
		d, err := recordUsage(ctx, store, req.FabricDetergentName, enum.ProductTypeFabricDetergent, units)
		if err != nil {
			return nil, err
		}
		if d.Units > 0 {
			deductions = append(deductions, d)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{
		Order:      order,
		Quote:      quote,
		Deductions: deductions,
	}, nil
}

// recordUsage folds unitsUsed into the detergent's usage counter under a row
// lock and converts whole multiples of the threshold into stock decrements.
// The counter is always left in [0, usageThreshold).
func recordUsage(ctx context.Context, store OrderStore, productName, productType string, unitsUsed int32) (StockDeduction, error) {
	if unitsUsed == 0 {
		return StockDeduction{}, nil
	}

	item, err := store.GetInventoryItemByName(ctx, productName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockDeduction{}, &DetergentNotFoundError{ProductName: productName}
		}
		return StockDeduction{}, fmt.Errorf("get detergent %q: %w", productName, err)
	}
	if item.ProductType != productType {
		return StockDeduction{}, &DetergentNotFoundError{ProductName: productName}
	}

	usage, err := store.GetDetergentUsageForUpdate(ctx, item.ID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return StockDeduction{}, fmt.Errorf("lock usage for %q: %w", productName, err)
		}
		usage, err = seedUsage(ctx, store, productName, item.ID)
		if err != nil {
			return StockDeduction{}, err
		}
	}

	newCount := usage.UsageCounter + unitsUsed
	decrements := newCount / usageThreshold
	remainder := newCount % usageThreshold

	if decrements == 0 {
		if err := store.SetDetergentUsageCounter(ctx, database.SetDetergentUsageCounterParams{
			ID:           usage.ID,
			UsageCounter: newCount,
		}); err != nil {
			return StockDeduction{}, fmt.Errorf("update usage for %q: %w", productName, err)
		}
		return StockDeduction{}, nil
	}

	affected, err := store.DecrementStock(ctx, database.DecrementStockParams{
		ID:       usage.InventoryID,
		Quantity: decrements,
	})
	if err != nil {
		return StockDeduction{}, fmt.Errorf("decrement stock for %q: %w", productName, err)
	}
	if affected == 0 {
		return StockDeduction{}, &InsufficientStockError{ProductName: usage.ProductName}
	}

	if err := store.SetDetergentUsageCounter(ctx, database.SetDetergentUsageCounterParams{
		ID:           usage.ID,
		UsageCounter: remainder,
	}); err != nil {
		return StockDeduction{}, fmt.Errorf("update usage for %q: %w", productName, err)
	}

	return StockDeduction{ProductName: usage.ProductName, Units: decrements}, nil
}

// seedUsage creates the zero counter for a detergent's first use. A missing
// usage row means GetDetergentUsageForUpdate had nothing to lock, so
// concurrent first uses serialize on the inventory row instead: the loser
// waits here, then finds the row the winner seeded and must use it rather
// than insert a duplicate.
func seedUsage(ctx context.Context, store OrderStore, productName string, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error) {
	locked, err := store.GetInventoryItemForUpdate(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.GetDetergentUsageForUpdateRow{}, &DetergentNotFoundError{ProductName: productName}
		}
		return database.GetDetergentUsageForUpdateRow{}, fmt.Errorf("lock inventory for %q: %w", productName, err)
	}

	// Re-check under the lock.
	usage, err := store.GetDetergentUsageForUpdate(ctx, inventoryID)
	if err == nil {
		return usage, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.GetDetergentUsageForUpdateRow{}, fmt.Errorf("lock usage for %q: %w", productName, err)
	}

	seeded, err := store.CreateDetergentUsage(ctx, inventoryID)
	if err != nil {
		return database.GetDetergentUsageForUpdateRow{}, fmt.Errorf("init usage for %q: %w", productName, err)
	}
	return database.GetDetergentUsageForUpdateRow{
		ID:           seeded.ID,
		InventoryID:  inventoryID,
		UsageCounter: 0,
		CurrentStock: locked.CurrentStock,
		ProductName:  locked.ProductName,
	}, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
