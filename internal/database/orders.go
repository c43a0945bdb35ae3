package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, customer_name, order_date, service_tier, load_count,
	clothes_weight_kg, comforter_single_count, comforter_double_count,
	bedsheet_count, others_count, detergent_name, detergent_additional,
	fabric_detergent_name, fabric_detergent_additional, additional_cost,
	total_amount, status, payment_status, pickup_time, created_by,
	created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.OrderDate,
		&o.ServiceTier,
		&o.LoadCount,
		&o.ClothesWeightKg,
		&o.ComforterSingleCount,
		&o.ComforterDoubleCount,
		&o.BedsheetCount,
		&o.OthersCount,
		&o.DetergentName,
		&o.DetergentAdditional,
		&o.FabricDetergentName,
		&o.FabricDetergentAdditional,
		&o.AdditionalCost,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentStatus,
		&o.PickupTime,
		&o.CreatedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (
	customer_name, order_date, service_tier, load_count, clothes_weight_kg,
	comforter_single_count, comforter_double_count, bedsheet_count,
	others_count, detergent_name, detergent_additional, fabric_detergent_name,
	fabric_detergent_additional, additional_cost, total_amount, status,
	payment_status, pickup_time, created_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
)
RETURNING ` + orderColumns

type CreateOrderParams struct {
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
	CreatedBy                 pgtype.UUID
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.CustomerName,
		arg.OrderDate,
		arg.ServiceTier,
		arg.LoadCount,
		arg.ClothesWeightKg,
		arg.ComforterSingleCount,
		arg.ComforterDoubleCount,
		arg.BedsheetCount,
		arg.OthersCount,
		arg.DetergentName,
		arg.DetergentAdditional,
		arg.FabricDetergentName,
		arg.FabricDetergentAdditional,
		arg.AdditionalCost,
		arg.TotalAmount,
		arg.Status,
		arg.PaymentStatus,
		arg.PickupTime,
		arg.CreatedBy,
	)
	return scanOrder(row)
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	return scanOrder(row)
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::text IS NULL OR payment_status = $2)
  AND ($3::text IS NULL OR service_tier = $3)
  AND ($4::date IS NULL OR order_date >= $4)
  AND ($5::date IS NULL OR order_date <= $5)
ORDER BY order_date DESC, id DESC
LIMIT $6 OFFSET $7`

type ListOrdersParams struct {
	Status        pgtype.Text
	PaymentStatus pgtype.Text
	ServiceTier   pgtype.Text
	StartDate     pgtype.Date
	EndDate       pgtype.Date
	Limit         int32
	Offset        int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.Status,
		arg.PaymentStatus,
		arg.ServiceTier,
		arg.StartDate,
		arg.EndDate,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID     int64
	Status string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status)
	return scanOrder(row)
}

const updateOrderPaymentStatus = `-- name: UpdateOrderPaymentStatus :one
UPDATE orders SET payment_status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderPaymentStatusParams struct {
	ID            int64
	PaymentStatus string
}

func (q *Queries) UpdateOrderPaymentStatus(ctx context.Context, arg UpdateOrderPaymentStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderPaymentStatus, arg.ID, arg.PaymentStatus)
	return scanOrder(row)
}

const deleteOrder = `-- name: DeleteOrder :execrows
DELETE FROM orders WHERE id = $1`

func (q *Queries) DeleteOrder(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
