package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	FullName       string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type InventoryItem struct {
	ID           uuid.UUID
	ProductName  string
	ProductType  string
	CurrentStock int32
	PricePerUnit pgtype.Numeric
	TotalExpense pgtype.Numeric
	ReorderLevel pgtype.Int4
	Description  pgtype.Text
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type InventoryExpense struct {
	ID          int64
	InventoryID uuid.UUID
	Amount      pgtype.Numeric
	ExpenseDate time.Time
	Description string
}

// DetergentUsage is the per-product usage counter. The counter accumulates
// consumption units and is folded into stock decrements every 15 units.
type DetergentUsage struct {
	ID           int64
	InventoryID  uuid.UUID
	UsageCounter int32
	UpdatedAt    time.Time
}

type Order struct {
	ID                        int64
	CustomerName              string
	OrderDate                 pgtype.Date
	ServiceTier               string
	LoadCount                 int32
	ClothesWeightKg           pgtype.Numeric
	ComforterSingleCount      int32
	ComforterDoubleCount      int32
	BedsheetCount             int32
	OthersCount               int32
	DetergentName             pgtype.Text
	DetergentAdditional       int32
	FabricDetergentName       pgtype.Text
	FabricDetergentAdditional int32
	AdditionalCost            pgtype.Numeric
	TotalAmount               pgtype.Numeric
	Status                    string
	PaymentStatus             string
	PickupTime                pgtype.Text
	CreatedBy                 uuid.UUID
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
