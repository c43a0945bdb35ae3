package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getSalesTotal = `-- name: GetSalesTotal :one
SELECT COALESCE(SUM(total_amount), 0)::numeric
FROM orders
WHERE order_date >= $1 AND order_date <= $2
  AND (NOT $3::bool OR payment_status = 'Paid')`

type GetSalesTotalParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
	PaidOnly  bool
}

func (q *Queries) GetSalesTotal(ctx context.Context, arg GetSalesTotalParams) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, getSalesTotal, arg.StartDate, arg.EndDate, arg.PaidOnly).Scan(&total)
	return total, err
}

const getSalesByMonth = `-- name: GetSalesByMonth :many
SELECT date_trunc('month', order_date)::date AS month,
       COALESCE(SUM(total_amount), 0)::numeric AS total_sales,
       COUNT(*) AS order_count
FROM orders
WHERE order_date >= $1 AND order_date <= $2
GROUP BY 1
ORDER BY 1`

type GetSalesByMonthParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

type GetSalesByMonthRow struct {
	Month      pgtype.Date
	TotalSales pgtype.Numeric
	OrderCount int64
}

func (q *Queries) GetSalesByMonth(ctx context.Context, arg GetSalesByMonthParams) ([]GetSalesByMonthRow, error) {
	rows, err := q.db.Query(ctx, getSalesByMonth, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetSalesByMonthRow
	for rows.Next() {
		var r GetSalesByMonthRow
		if err := rows.Scan(&r.Month, &r.TotalSales, &r.OrderCount); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getTopDetergents = `-- name: GetTopDetergents :many
SELECT detergent_name, COUNT(*) AS use_count
FROM orders
WHERE detergent_name IS NOT NULL
  AND order_date >= $1 AND order_date <= $2
GROUP BY detergent_name
ORDER BY use_count DESC
LIMIT $3`

type GetTopDetergentsParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Limit     int32
}

type GetTopDetergentsRow struct {
	DetergentName pgtype.Text
	UseCount      int64
}

func (q *Queries) GetTopDetergents(ctx context.Context, arg GetTopDetergentsParams) ([]GetTopDetergentsRow, error) {
	rows, err := q.db.Query(ctx, getTopDetergents, arg.StartDate, arg.EndDate, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetTopDetergentsRow
	for rows.Next() {
		var r GetTopDetergentsRow
		if err := rows.Scan(&r.DetergentName, &r.UseCount); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getTopFabricDetergents = `-- name: GetTopFabricDetergents :many
SELECT fabric_detergent_name, COUNT(*) AS use_count
FROM orders
WHERE fabric_detergent_name IS NOT NULL
  AND order_date >= $1 AND order_date <= $2
GROUP BY fabric_detergent_name
ORDER BY use_count DESC
LIMIT $3`

func (q *Queries) GetTopFabricDetergents(ctx context.Context, arg GetTopDetergentsParams) ([]GetTopDetergentsRow, error) {
	rows, err := q.db.Query(ctx, getTopFabricDetergents, arg.StartDate, arg.EndDate, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetTopDetergentsRow
	for rows.Next() {
		var r GetTopDetergentsRow
		if err := rows.Scan(&r.DetergentName, &r.UseCount); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getCustomerStats = `-- name: GetCustomerStats :one
SELECT COUNT(*) AS total_orders,
       COUNT(DISTINCT order_date) AS active_days,
       COALESCE(SUM(total_amount), 0)::numeric AS total_sales
FROM orders
WHERE order_date >= $1 AND order_date <= $2`

type GetCustomerStatsParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

type GetCustomerStatsRow struct {
	TotalOrders int64
	ActiveDays  int64
	TotalSales  pgtype.Numeric
}

func (q *Queries) GetCustomerStats(ctx context.Context, arg GetCustomerStatsParams) (GetCustomerStatsRow, error) {
	var r GetCustomerStatsRow
	err := q.db.QueryRow(ctx, getCustomerStats, arg.StartDate, arg.EndDate).
		Scan(&r.TotalOrders, &r.ActiveDays, &r.TotalSales)
	return r, err
}
