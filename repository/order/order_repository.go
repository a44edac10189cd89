package order

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
)

type OrderRepository interface {
	InsertOrderTx(ctx context.Context, tx *sqlx.Tx, clientID int64) (int64, error)
	GetOrderTx(ctx context.Context, tx *sqlx.Tx, orderID int64) (*model.OrderEntity, error)
	UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID int64, status constant.OrderStatus) error
	AddOrderTotalTx(ctx context.Context, tx *sqlx.Tx, orderID int64, delta float64) error
	UpsertOrderLineTx(ctx context.Context, tx *sqlx.Tx, line *model.OrderLine) error
	DeleteOrderLineTx(ctx context.Context, tx *sqlx.Tx, orderID, productID, warehouseID int64) (*model.OrderLine, error)
	ListOrders(ctx context.Context, status constant.OrderStatus) ([]model.OrderListItem, error)
	ListOrderLines(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewOrderRepository(conn *sqlx.DB) OrderRepository {
	return &SQL{conn: conn}
}

const (
	// A second add of the same (order, product, warehouse) merges into the
	// existing line instead of creating a duplicate.
	upsertOrderLineQuery = `INSERT INTO order_items (order_id, product_id, warehouse_id, amount, price) VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)`

	getOrderLineForUpdateQuery = `SELECT order_id, product_id, warehouse_id, amount, price FROM order_items
WHERE order_id = ? AND product_id = ? AND warehouse_id = ? FOR UPDATE`

	listOrdersQuery = `SELECT o.id, c.full_name AS client_name, o.price, o.date, o.status
FROM orders o
JOIN clients c ON o.client_id = c.id
WHERE o.status = ?
ORDER BY o.id`

	listOrderLinesQuery = `SELECT oi.order_id, oi.product_id, oi.warehouse_id, p.name AS product_name, oi.amount, oi.price
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = ?
ORDER BY p.name`
)

func (r *SQL) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, clientID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, "INSERT INTO orders (client_id, price, date, status) VALUES (?, 0, ?, ?)",
		clientID, time.Now(), constant.OrderStatusInProgress)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQL) GetOrderTx(ctx context.Context, tx *sqlx.Tx, orderID int64) (*model.OrderEntity, error) {
	var detail model.OrderEntity
	row := tx.QueryRowxContext(ctx, "SELECT id, client_id, price, date, status FROM orders WHERE id = ?", orderID)
	if err := row.StructScan(&detail); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		return nil, err
	}
	return &detail, nil
}

func (r *SQL) UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID int64, status constant.OrderStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE orders SET status = ? WHERE id = ?", status, orderID)
	return err
}

// AddOrderTotalTx keeps the denormalized order total in step with its lines.
func (r *SQL) AddOrderTotalTx(ctx context.Context, tx *sqlx.Tx, orderID int64, delta float64) error {
	_, err := tx.ExecContext(ctx, "UPDATE orders SET price = price + ? WHERE id = ?", delta, orderID)
	return err
}

func (r *SQL) UpsertOrderLineTx(ctx context.Context, tx *sqlx.Tx, line *model.OrderLine) error {
	_, err := tx.ExecContext(ctx, upsertOrderLineQuery,
		line.OrderID, line.ProductID, line.WarehouseID, line.Amount, line.Price)
	return err
}

// DeleteOrderLineTx removes a line and returns it so the caller can restore
// the released quantity to stock.
func (r *SQL) DeleteOrderLineTx(ctx context.Context, tx *sqlx.Tx, orderID, productID, warehouseID int64) (*model.OrderLine, error) {
	var line model.OrderLine
	row := tx.QueryRowxContext(ctx, getOrderLineForUpdateQuery, orderID, productID, warehouseID)
	if err := row.StructScan(&line); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ? AND product_id = ? AND warehouse_id = ?",
		orderID, productID, warehouseID); err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *SQL) ListOrders(ctx context.Context, status constant.OrderStatus) ([]model.OrderListItem, error) {
	rows, err := r.conn.QueryxContext(ctx, listOrdersQuery, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OrderListItem, 0)
	for rows.Next() {
		var it model.OrderListItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQL) ListOrderLines(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	rows, err := r.conn.QueryxContext(ctx, listOrderLinesQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OrderLineItem, 0)
	for rows.Next() {
		var it model.OrderLineItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
