package database

import (
	"context"

	"github.com/google/uuid"
)

// GetDetergentUsageForUpdate locks both the usage row and its inventory row
// for the remainder of the transaction, serializing concurrent orders that
// consume the same detergent.
const getDetergentUsageForUpdate = `-- name: GetDetergentUsageForUpdate :one
SELECT du.id, du.inventory_id, du.usage_counter, i.current_stock, i.product_name
FROM detergent_usage du
JOIN inventory i ON i.id = du.inventory_id
WHERE du.inventory_id = $1
FOR UPDATE OF du, i`

type GetDetergentUsageForUpdateRow struct {
	ID           int64
	InventoryID  uuid.UUID
	UsageCounter int32
	CurrentStock int32
	ProductName  string
}

func (q *Queries) GetDetergentUsageForUpdate(ctx context.Context, inventoryID uuid.UUID) (GetDetergentUsageForUpdateRow, error) {
	row := q.db.QueryRow(ctx, getDetergentUsageForUpdate, inventoryID)
	var r GetDetergentUsageForUpdateRow
	err := row.Scan(&r.ID, &r.InventoryID, &r.UsageCounter, &r.CurrentStock, &r.ProductName)
	return r, err
}

const createDetergentUsage = `-- name: CreateDetergentUsage :one
INSERT INTO detergent_usage (inventory_id, usage_counter)
VALUES ($1, 0)
RETURNING id, inventory_id, usage_counter, updated_at`

func (q *Queries) CreateDetergentUsage(ctx context.Context, inventoryID uuid.UUID) (DetergentUsage, error) {
	row := q.db.QueryRow(ctx, createDetergentUsage, inventoryID)
	var u DetergentUsage
	err := row.Scan(&u.ID, &u.InventoryID, &u.UsageCounter, &u.UpdatedAt)
	return u, err
}

const setDetergentUsageCounter = `-- name: SetDetergentUsageCounter :exec
UPDATE detergent_usage SET usage_counter = $2, updated_at = now()
WHERE id = $1`

type SetDetergentUsageCounterParams struct {
	ID           int64
	UsageCounter int32
}

func (q *Queries) SetDetergentUsageCounter(ctx context.Context, arg SetDetergentUsageCounterParams) error {
	_, err := q.db.Exec(ctx, setDetergentUsageCounter, arg.ID, arg.UsageCounter)
	return err
}
