package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const inventoryColumns = `id, product_name, product_type, current_stock,
	price_per_unit, total_expense, reorder_level, description,
	created_at, updated_at`

func scanInventoryItem(row interface{ Scan(dest ...any) error }) (InventoryItem, error) {
	var i InventoryItem
	err := row.Scan(
		&i.ID,
		&i.ProductName,
		&i.ProductType,
		&i.CurrentStock,
		&i.PricePerUnit,
		&i.TotalExpense,
		&i.ReorderLevel,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createInventoryItem = `-- name: CreateInventoryItem :one
INSERT INTO inventory (
	product_name, product_type, current_stock, price_per_unit, total_expense,
	reorder_level, description
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + inventoryColumns

type CreateInventoryItemParams struct {
	ProductName  string
	ProductType  string
	CurrentStock int32
	PricePerUnit pgtype.Numeric
	TotalExpense pgtype.Numeric
	ReorderLevel pgtype.Int4
	Description  pgtype.Text
}

func (q *Queries) CreateInventoryItem(ctx context.Context, arg CreateInventoryItemParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, createInventoryItem,
		arg.ProductName,
		arg.ProductType,
		arg.CurrentStock,
		arg.PricePerUnit,
		arg.TotalExpense,
		arg.ReorderLevel,
		arg.Description,
	)
	return scanInventoryItem(row)
}

const listInventoryItems = `-- name: ListInventoryItems :many
SELECT ` + inventoryColumns + ` FROM inventory ORDER BY product_name ASC`

func (q *Queries) ListInventoryItems(ctx context.Context) ([]InventoryItem, error) {
	rows, err := q.db.Query(ctx, listInventoryItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		i, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getInventoryItem = `-- name: GetInventoryItem :one
SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`

func (q *Queries) GetInventoryItem(ctx context.Context, id uuid.UUID) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, getInventoryItem, id)
	return scanInventoryItem(row)
}

const getInventoryItemByName = `-- name: GetInventoryItemByName :one
SELECT ` + inventoryColumns + ` FROM inventory WHERE product_name = $1 LIMIT 1`

func (q *Queries) GetInventoryItemByName(ctx context.Context, productName string) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, getInventoryItemByName, productName)
	return scanInventoryItem(row)
}

const getInventoryItemForUpdate = `-- name: GetInventoryItemForUpdate :one
SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1 FOR UPDATE`

func (q *Queries) GetInventoryItemForUpdate(ctx context.Context, id uuid.UUID) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, getInventoryItemForUpdate, id)
	return scanInventoryItem(row)
}

const updateInventoryItem = `-- name: UpdateInventoryItem :one
UPDATE inventory SET
	product_name = $2,
	product_type = $3,
	current_stock = $4,
	price_per_unit = $5,
	reorder_level = $6,
	description = $7,
	updated_at = now()
WHERE id = $1
RETURNING ` + inventoryColumns

type UpdateInventoryItemParams struct {
	ID           uuid.UUID
	ProductName  string
	ProductType  string
	CurrentStock int32
	PricePerUnit pgtype.Numeric
	ReorderLevel pgtype.Int4
	Description  pgtype.Text
}

func (q *Queries) UpdateInventoryItem(ctx context.Context, arg UpdateInventoryItemParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, updateInventoryItem,
		arg.ID,
		arg.ProductName,
		arg.ProductType,
		arg.CurrentStock,
		arg.PricePerUnit,
		arg.ReorderLevel,
		arg.Description,
	)
	return scanInventoryItem(row)
}

// AddStock books the purchase in the expense history within the same
// statement, so the stock bump and its expense row land or fail together.
const addStock = `-- name: AddStock :one
WITH restocked AS (
	UPDATE inventory SET
		current_stock = current_stock + $2,
		total_expense = total_expense + $3,
		updated_at = now()
	WHERE id = $1
	RETURNING ` + inventoryColumns + `
), booked AS (
	INSERT INTO inventory_expenses (inventory_id, amount, description)
	SELECT id, $3, $4 FROM restocked
)
SELECT ` + inventoryColumns + ` FROM restocked`

type AddStockParams struct {
	ID          uuid.UUID
	Quantity    int32
	Expense     pgtype.Numeric
	Description string
}

func (q *Queries) AddStock(ctx context.Context, arg AddStockParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, addStock, arg.ID, arg.Quantity, arg.Expense, arg.Description)
	return scanInventoryItem(row)
}

// DecrementStock only succeeds when enough stock remains; zero rows affected
// means the decrement would have gone negative.
const decrementStock = `-- name: DecrementStock :execrows
UPDATE inventory SET current_stock = current_stock - $2, updated_at = now()
WHERE id = $1 AND current_stock >= $2`

type DecrementStockParams struct {
	ID       uuid.UUID
	Quantity int32
}

func (q *Queries) DecrementStock(ctx context.Context, arg DecrementStockParams) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementStock, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listInventoryExpenses = `-- name: ListInventoryExpenses :many
SELECT id, inventory_id, amount, expense_date, description
FROM inventory_expenses
WHERE inventory_id = $1
ORDER BY expense_date DESC`

func (q *Queries) ListInventoryExpenses(ctx context.Context, inventoryID uuid.UUID) ([]InventoryExpense, error) {
	rows, err := q.db.Query(ctx, listInventoryExpenses, inventoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryExpense
	for rows.Next() {
		var e InventoryExpense
		if err := rows.Scan(&e.ID, &e.InventoryID, &e.Amount, &e.ExpenseDate, &e.Description); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const listInStockProductsByType = `-- name: ListInStockProductsByType :many
SELECT ` + inventoryColumns + ` FROM inventory
WHERE product_type = $1 AND current_stock > 0
ORDER BY product_name ASC`

func (q *Queries) ListInStockProductsByType(ctx context.Context, productType string) ([]InventoryItem, error) {
	rows, err := q.db.Query(ctx, listInStockProductsByType, productType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		i, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listStockAlerts = `-- name: ListStockAlerts :many
SELECT ` + inventoryColumns + ` FROM inventory
WHERE current_stock <= $1
ORDER BY current_stock ASC, product_name ASC`

func (q *Queries) ListStockAlerts(ctx context.Context, threshold int32) ([]InventoryItem, error) {
	rows, err := q.db.Query(ctx, listStockAlerts, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		i, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
