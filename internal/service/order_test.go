package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tidewash/api/internal/database"
	"github.com/tidewash/api/internal/enum"
	"github.com/tidewash/api/internal/pricing"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error          { return m.commitErr }
func (m *mockTx) Rollback(ctx context.Context) error        { return m.rollbackErr }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockOrderStore implements OrderStore with configurable behavior.
type mockOrderStore struct {
	createOrderFn                func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	getInventoryItemByNameFn     func(ctx context.Context, productName string) (database.InventoryItem, error)
	getInventoryItemForUpdateFn  func(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	getDetergentUsageForUpdateFn func(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error)
	createDetergentUsageFn       func(ctx context.Context, inventoryID uuid.UUID) (database.DetergentUsage, error)
	setDetergentUsageCounterFn   func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error
	decrementStockFn             func(ctx context.Context, arg database.DecrementStockParams) (int64, error)
}

func (m *mockOrderStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	return m.createOrderFn(ctx, arg)
}
func (m *mockOrderStore) GetInventoryItemByName(ctx context.Context, productName string) (database.InventoryItem, error) {
	return m.getInventoryItemByNameFn(ctx, productName)
}
func (m *mockOrderStore) GetInventoryItemForUpdate(ctx context.Context, id uuid.UUID) (database.InventoryItem, error) {
	return m.getInventoryItemForUpdateFn(ctx, id)
}
func (m *mockOrderStore) GetDetergentUsageForUpdate(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error) {
	return m.getDetergentUsageForUpdateFn(ctx, inventoryID)
}
func (m *mockOrderStore) CreateDetergentUsage(ctx context.Context, inventoryID uuid.UUID) (database.DetergentUsage, error) {
	return m.createDetergentUsageFn(ctx, inventoryID)
}
func (m *mockOrderStore) SetDetergentUsageCounter(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
	return m.setDetergentUsageCounterFn(ctx, arg)
}
func (m *mockOrderStore) DecrementStock(ctx context.Context, arg database.DecrementStockParams) (int64, error) {
	return m.decrementStockFn(ctx, arg)
}

// --- Test helpers ---

func numericEquals(n pgtype.Numeric, expected string) bool {
	v, err := n.Value()
	if err != nil || v == nil {
		return false
	}
	d, err := decimal.NewFromString(v.(string))
	if err != nil {
		return false
	}
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

// newTestService creates an OrderService with mocked dependencies.
// store is the mock OrderStore that will be returned by the NewOrderStore factory.
func newTestService(store *mockOrderStore) (*OrderService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	newStore := func(db database.DBTX) OrderStore { return store }
	return NewOrderService(pool, newStore), tx
}

// defaultStore returns a mockOrderStore that knows one detergent and one
// fabric detergent, each with ample stock and a zero usage counter.
// Individual tests override the functions they care about.
func defaultStore(detergentID, fabricID uuid.UUID) *mockOrderStore {
	return &mockOrderStore{
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			return database.Order{
				ID:            1,
				CustomerName:  arg.CustomerName,
				OrderDate:     arg.OrderDate,
				ServiceTier:   arg.ServiceTier,
				LoadCount:     arg.LoadCount,
				TotalAmount:   arg.TotalAmount,
				Status:        arg.Status,
				PaymentStatus: arg.PaymentStatus,
			}, nil
		},
		getInventoryItemByNameFn: func(ctx context.Context, productName string) (database.InventoryItem, error) {
			switch productName {
			case "Breeze Powder":
				return database.InventoryItem{
					ID:           detergentID,
					ProductName:  "Breeze Powder",
					ProductType:  enum.ProductTypeDetergent,
					CurrentStock: 10,
				}, nil
			case "Downy Softener":
				return database.InventoryItem{
					ID:           fabricID,
					ProductName:  "Downy Softener",
					ProductType:  enum.ProductTypeFabricDetergent,
					CurrentStock: 10,
				}, nil
			}
			return database.InventoryItem{}, pgx.ErrNoRows
		},
		getInventoryItemForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.InventoryItem, error) {
			panic("not expected")
		},
		getDetergentUsageForUpdateFn: func(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error) {
			switch inventoryID {
			case detergentID:
				return database.GetDetergentUsageForUpdateRow{
					ID: 1, InventoryID: detergentID, UsageCounter: 0,
					CurrentStock: 10, ProductName: "Breeze Powder",
				}, nil
			case fabricID:
				return database.GetDetergentUsageForUpdateRow{
					ID: 2, InventoryID: fabricID, UsageCounter: 0,
					CurrentStock: 10, ProductName: "Downy Softener",
				}, nil
			}
			return database.GetDetergentUsageForUpdateRow{}, pgx.ErrNoRows
		},
		createDetergentUsageFn: func(ctx context.Context, inventoryID uuid.UUID) (database.DetergentUsage, error) {
			panic("not expected")
		},
		setDetergentUsageCounterFn: func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
			return nil
		},
		decrementStockFn: func(ctx context.Context, arg database.DecrementStockParams) (int64, error) {
			return 1, nil
		},
	}
}

func basicReq() CreateOrderRequest {
	return CreateOrderRequest{
		CustomerName:    "Maria Santos",
		OrderDate:       "2026-08-30",
		ServiceTier:     enum.ServiceWashDryFold,
		ClothesWeightKg: "6",
		CreatedBy:       uuid.New(),
	}
}

// =====================
// Validation tests
// =====================

func TestCreateOrder_MissingCustomerName(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.CustomerName = ""
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, ErrCustomerName) {
		t.Fatalf("expected ErrCustomerName, got: %v", err)
	}
}

func TestCreateOrder_BadOrderDate(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.OrderDate = "30/08/2026"
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, ErrInvalidOrderDate) {
		t.Fatalf("expected ErrInvalidOrderDate, got: %v", err)
	}
}

func TestCreateOrder_BadWeight(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.ClothesWeightKg = "six"
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got: %v", err)
	}
}

func TestCreateOrder_NegativeWeight(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.ClothesWeightKg = "-3"
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, pricing.ErrNegativeWeight) {
		t.Fatalf("expected ErrNegativeWeight, got: %v", err)
	}
}

func TestCreateOrder_UnknownServiceTier(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.ServiceTier = "Dry-Clean"
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, pricing.ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got: %v", err)
	}
}

func TestCreateOrder_BadPickupTime(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.PickupTime = "5pm"
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, ErrInvalidPickup) {
		t.Fatalf("expected ErrInvalidPickup, got: %v", err)
	}
}

func TestCreateOrder_EmptyOrder(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.ClothesWeightKg = "0"
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got: %v", err)
	}
}

func TestCreateOrder_AddonWithoutDetergent(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.DetergentAdditional = 2
	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, ErrDanglingAddon) {
		t.Fatalf("expected ErrDanglingAddon, got: %v", err)
	}
}

// =====================
// Pricing passthrough tests
// =====================

func TestCreateOrder_TotalFromRawInputsOnly(t *testing.T) {
	store := defaultStore(uuid.New(), uuid.New())

	var captured database.CreateOrderParams
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		captured = arg
		return database.Order{ID: 7, TotalAmount: arg.TotalAmount, Status: arg.Status, PaymentStatus: arg.PaymentStatus}, nil
	}

	svc, _ := newTestService(store)
	req := basicReq() // 6 kg Wash-Dry-Fold, one load at 175
	req.BedsheetCount = 1
	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !numericEquals(captured.TotalAmount, "375") {
		t.Errorf("total_amount: got %v, want 375.00", captured.TotalAmount)
	}
	if captured.LoadCount != 1 {
		t.Errorf("load_count: got %d, want 1", captured.LoadCount)
	}
	if captured.Status != enum.OrderStatusPending {
		t.Errorf("status: got %q, want %q", captured.Status, enum.OrderStatusPending)
	}
	if captured.PaymentStatus != enum.PaymentStatusUnpaid {
		t.Errorf("payment_status: got %q, want %q", captured.PaymentStatus, enum.PaymentStatusUnpaid)
	}
	if !result.Quote.Total.Equal(decimal.NewFromInt(375)) {
		t.Errorf("quote total: got %s, want 375", result.Quote.Total)
	}
}

// =====================
// Detergent ledger tests
// =====================

func TestCreateOrder_UsageBelowThresholdOnlyBumpsCounter(t *testing.T) {
	detergentID := uuid.New()
	store := defaultStore(detergentID, uuid.New())

	var setCounter []database.SetDetergentUsageCounterParams
	store.setDetergentUsageCounterFn = func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
		setCounter = append(setCounter, arg)
		return nil
	}
	store.decrementStockFn = func(ctx context.Context, arg database.DecrementStockParams) (int64, error) {
		t.Fatal("stock must not be decremented below the threshold")
		return 0, nil
	}

	svc, _ := newTestService(store)
	req := basicReq() // one load
	req.DetergentName = "Breeze Powder"
	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// units = 1 load, counter 0 -> 1
	if len(setCounter) != 1 || setCounter[0].UsageCounter != 1 {
		t.Errorf("counter updates: got %+v, want one update to 1", setCounter)
	}
	if len(result.Deductions) != 0 {
		t.Errorf("deductions: got %+v, want none", result.Deductions)
	}
}

func TestCreateOrder_RolloverDecrementsStock(t *testing.T) {
	detergentID := uuid.New()
	store := defaultStore(detergentID, uuid.New())

	// Counter sits at 12; this order adds 5 units (1 load + 2 bedsheets +
	// 2 additional), crossing the threshold once with remainder 2.
	store.getDetergentUsageForUpdateFn = func(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error) {
		return database.GetDetergentUsageForUpdateRow{
			ID: 1, InventoryID: detergentID, UsageCounter: 12,
			CurrentStock: 10, ProductName: "Breeze Powder",
		}, nil
	}

	var decremented []database.DecrementStockParams
	store.decrementStockFn = func(ctx context.Context, arg database.DecrementStockParams) (int64, error) {
		decremented = append(decremented, arg)
		return 1, nil
	}
	var setCounter []database.SetDetergentUsageCounterParams
	store.setDetergentUsageCounterFn = func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
		setCounter = append(setCounter, arg)
		return nil
	}

	svc, _ := newTestService(store)
	req := basicReq()
	req.BedsheetCount = 2
	req.DetergentName = "Breeze Powder"
	req.DetergentAdditional = 2
	result, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(decremented) != 1 || decremented[0].ID != detergentID || decremented[0].Quantity != 1 {
		t.Errorf("decrements: got %+v, want one unit off %s", decremented, detergentID)
	}
	if len(setCounter) != 1 || setCounter[0].UsageCounter != 2 {
		t.Errorf("counter updates: got %+v, want remainder 2", setCounter)
	}
	if len(result.Deductions) != 1 || result.Deductions[0].ProductName != "Breeze Powder" || result.Deductions[0].Units != 1 {
		t.Errorf("deductions: got %+v, want Breeze Powder x1", result.Deductions)
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	detergentID := uuid.New()
	store := defaultStore(detergentID, uuid.New())

	store.getDetergentUsageForUpdateFn = func(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error) {
		return database.GetDetergentUsageForUpdateRow{
			ID: 1, InventoryID: detergentID, UsageCounter: 14,
			CurrentStock: 0, ProductName: "Breeze Powder",
		}, nil
	}
	store.decrementStockFn = func(ctx context.Context, arg database.DecrementStockParams) (int64, error) {
		return 0, nil // guarded update refuses to go negative
	}
	store.setDetergentUsageCounterFn = func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
		t.Fatal("counter must not move when the decrement fails")
		return nil
	}

	svc, _ := newTestService(store)
	req := basicReq()
	req.DetergentName = "Breeze Powder"
	_, err := svc.CreateOrder(context.Background(), req)

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if stockErr.ProductName != "Breeze Powder" {
		t.Errorf("product in error: got %q, want Breeze Powder", stockErr.ProductName)
	}
}

func TestCreateOrder_DetergentNotFound(t *testing.T) {
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.DetergentName = "No Such Brand"
	_, err := svc.CreateOrder(context.Background(), req)

	var notFound *DetergentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DetergentNotFoundError, got: %v", err)
	}
	if notFound.ProductName != "No Such Brand" {
		t.Errorf("product in error: got %q", notFound.ProductName)
	}
}

func TestCreateOrder_DetergentWrongType(t *testing.T) {
	// Selecting a fabric softener in the detergent slot is rejected.
	svc, _ := newTestService(defaultStore(uuid.New(), uuid.New()))

	req := basicReq()
	req.DetergentName = "Downy Softener"
	_, err := svc.CreateOrder(context.Background(), req)

	var notFound *DetergentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DetergentNotFoundError, got: %v", err)
	}
}

func TestCreateOrder_BothDetergentsGetSameUnits(t *testing.T) {
	detergentID := uuid.New()
	fabricID := uuid.New()
	store := defaultStore(detergentID, fabricID)

	counters := map[int64]int32{}
	store.setDetergentUsageCounterFn = func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
		counters[arg.ID] = arg.UsageCounter
		return nil
	}

	svc, _ := newTestService(store)
	req := basicReq() // one load
	req.ComforterSingleCount = 1
	req.DetergentName = "Breeze Powder"
	req.DetergentAdditional = 1
	req.FabricDetergentName = "Downy Softener"
	req.FabricDetergentAdditional = 2
	_, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// units = 1 load + 1 article + 1 + 2 = 5, applied to both ledgers.
	if counters[1] != 5 {
		t.Errorf("detergent counter: got %d, want 5", counters[1])
	}
	if counters[2] != 5 {
		t.Errorf("fabric detergent counter: got %d, want 5", counters[2])
	}
}

func TestCreateOrder_NoDetergentSkipsLedger(t *testing.T) {
	store := defaultStore(uuid.New(), uuid.New())
	store.getInventoryItemByNameFn = func(ctx context.Context, productName string) (database.InventoryItem, error) {
		t.Fatal("ledger must not be touched without a detergent selection")
		return database.InventoryItem{}, nil
	}

	svc, _ := newTestService(store)
	result, err := svc.CreateOrder(context.Background(), basicReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Deductions) != 0 {
		t.Errorf("deductions: got %+v, want none", result.Deductions)
	}
}

func TestCreateOrder_FirstUseSeedsCounter(t *testing.T) {
	detergentID := uuid.New()
	store := defaultStore(detergentID, uuid.New())

	store.getDetergentUsageForUpdateFn = func(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error) {
		return database.GetDetergentUsageForUpdateRow{}, pgx.ErrNoRows
	}
	lockedInventory := false
	store.getInventoryItemForUpdateFn = func(ctx context.Context, id uuid.UUID) (database.InventoryItem, error) {
		lockedInventory = true
		return database.InventoryItem{
			ID: detergentID, ProductName: "Breeze Powder",
			ProductType: enum.ProductTypeDetergent, CurrentStock: 10,
		}, nil
	}
	seeded := false
	store.createDetergentUsageFn = func(ctx context.Context, inventoryID uuid.UUID) (database.DetergentUsage, error) {
		seeded = true
		return database.DetergentUsage{ID: 9, InventoryID: inventoryID, UsageCounter: 0}, nil
	}
	var setCounter []database.SetDetergentUsageCounterParams
	store.setDetergentUsageCounterFn = func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
		setCounter = append(setCounter, arg)
		return nil
	}

	svc, _ := newTestService(store)
	req := basicReq()
	req.DetergentName = "Breeze Powder"
	_, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !lockedInventory || !seeded {
		t.Errorf("first use: locked=%v seeded=%v, want both", lockedInventory, seeded)
	}
	if len(setCounter) != 1 || setCounter[0].ID != 9 || setCounter[0].UsageCounter != 1 {
		t.Errorf("counter updates: got %+v, want ID 9 set to 1", setCounter)
	}
}

func TestCreateOrder_FirstUseRaceReusesSeededCounter(t *testing.T) {
	detergentID := uuid.New()
	store := defaultStore(detergentID, uuid.New())

	// No usage row on the first lookup; one appears on the re-check after the
	// inventory lock, as when a concurrent order seeded it while we waited.
	calls := 0
	store.getDetergentUsageForUpdateFn = func(ctx context.Context, inventoryID uuid.UUID) (database.GetDetergentUsageForUpdateRow, error) {
		calls++
		if calls == 1 {
			return database.GetDetergentUsageForUpdateRow{}, pgx.ErrNoRows
		}
		return database.GetDetergentUsageForUpdateRow{
			ID: 4, InventoryID: detergentID, UsageCounter: 3,
			CurrentStock: 10, ProductName: "Breeze Powder",
		}, nil
	}
	store.getInventoryItemForUpdateFn = func(ctx context.Context, id uuid.UUID) (database.InventoryItem, error) {
		return database.InventoryItem{
			ID: detergentID, ProductName: "Breeze Powder",
			ProductType: enum.ProductTypeDetergent, CurrentStock: 10,
		}, nil
	}
	store.createDetergentUsageFn = func(ctx context.Context, inventoryID uuid.UUID) (database.DetergentUsage, error) {
		t.Fatal("must not insert a second counter for the same detergent")
		return database.DetergentUsage{}, nil
	}
	var setCounter []database.SetDetergentUsageCounterParams
	store.setDetergentUsageCounterFn = func(ctx context.Context, arg database.SetDetergentUsageCounterParams) error {
		setCounter = append(setCounter, arg)
		return nil
	}

	svc, _ := newTestService(store)
	req := basicReq()
	req.DetergentName = "Breeze Powder"
	_, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// counter 3 + 1 load = 4, applied to the row the other order seeded.
	if len(setCounter) != 1 || setCounter[0].ID != 4 || setCounter[0].UsageCounter != 4 {
		t.Errorf("counter updates: got %+v, want ID 4 set to 4", setCounter)
	}
}

// =====================
// Transaction plumbing tests
// =====================

func TestCreateOrder_BeginError(t *testing.T) {
	store := defaultStore(uuid.New(), uuid.New())
	pool := &mockTxBeginner{err: errors.New("pool exhausted")}
	svc := NewOrderService(pool, func(db database.DBTX) OrderStore { return store })

	_, err := svc.CreateOrder(context.Background(), basicReq())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCreateOrder_CommitError(t *testing.T) {
	store := defaultStore(uuid.New(), uuid.New())
	tx := &mockTx{commitErr: errors.New("connection lost")}
	pool := &mockTxBeginner{tx: tx}
	svc := NewOrderService(pool, func(db database.DBTX) OrderStore { return store })

	_, err := svc.CreateOrder(context.Background(), basicReq())
	if err == nil {
		t.Fatal("expected commit error, got nil")
	}
}
