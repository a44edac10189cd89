package stock

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
)

type StockRepository interface {
	GetStockTx(ctx context.Context, tx *sqlx.Tx, warehouseID, productID int64) (*model.StockRow, error)
	AdjustStockTx(ctx context.Context, tx *sqlx.Tx, warehouseID, productID, delta int64, price float64) error
	SetStockTx(ctx context.Context, tx *sqlx.Tx, row *model.StockRow) error
	DeleteStockTx(ctx context.Context, tx *sqlx.Tx, warehouseID, productID int64) error
	ListByWarehouse(ctx context.Context, warehouseID int64) ([]model.StockListItem, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewStockRepository(conn *sqlx.DB) StockRepository {
	return &SQL{conn: conn}
}

const (
	getStockQuery = `SELECT warehouse_id, product_id, amount, price FROM productinwarehouse WHERE warehouse_id = ? AND product_id = ?`

	// Bounded decrement: the availability check and the write are one
	// statement, so the row can never be observed below zero.
	decrementStockQuery = `UPDATE productinwarehouse SET amount = amount - ? WHERE warehouse_id = ? AND product_id = ? AND amount >= ?`

	incrementStockQuery = `INSERT INTO productinwarehouse (warehouse_id, product_id, amount, price) VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)`

	setStockQuery = `INSERT INTO productinwarehouse (warehouse_id, product_id, amount, price) VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE amount = VALUES(amount), price = VALUES(price)`

	listStockQuery = `SELECT pw.warehouse_id, pw.product_id, p.name AS product_name, pw.amount, pw.price
FROM productinwarehouse pw
JOIN products p ON p.id = pw.product_id
WHERE pw.warehouse_id = ?
ORDER BY p.name`
)

// GetStockTx returns the stock row, or nil when no row exists (zero on hand).
func (r *SQL) GetStockTx(ctx context.Context, tx *sqlx.Tx, warehouseID, productID int64) (*model.StockRow, error) {
	var row model.StockRow
	if err := tx.GetContext(ctx, &row, getStockQuery, warehouseID, productID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// AdjustStockTx moves the on-hand quantity by delta. A positive delta creates
// the row if absent (price only applies to a newly created row). A negative
// delta fails with ErrNotFound if the row is absent and with
// ErrInsufficientStock if it would drive the amount below zero.
func (r *SQL) AdjustStockTx(ctx context.Context, tx *sqlx.Tx, warehouseID, productID, delta int64, price float64) error {
	if delta >= 0 {
		_, err := tx.ExecContext(ctx, incrementStockQuery, warehouseID, productID, delta, price)
		return err
	}

	need := -delta
	res, err := tx.ExecContext(ctx, decrementStockQuery, need, warehouseID, productID, need)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish an absent row from one with too little on hand.
		row, err := r.GetStockTx(ctx, tx, warehouseID, productID)
		if err != nil {
			return err
		}
		if row == nil {
			return errors.SetCustomError(constant.ErrNotFound)
		}
		return errors.SetCustomError(constant.ErrInsufficientStock)
	}
	return nil
}

// SetStockTx overwrites a stock row with an absolute state, creating it if
// absent. Negative amounts are rejected before any write.
func (r *SQL) SetStockTx(ctx context.Context, tx *sqlx.Tx, row *model.StockRow) error {
	if row.Amount < 0 {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}
	_, err := tx.ExecContext(ctx, setStockQuery, row.WarehouseID, row.ProductID, row.Amount, row.Price)
	return err
}

func (r *SQL) DeleteStockTx(ctx context.Context, tx *sqlx.Tx, warehouseID, productID int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM productinwarehouse WHERE warehouse_id = ? AND product_id = ?", warehouseID, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.SetCustomError(constant.ErrNotFound)
	}
	return nil
}

func (r *SQL) ListByWarehouse(ctx context.Context, warehouseID int64) ([]model.StockListItem, error) {
	rows, err := r.conn.QueryxContext(ctx, listStockQuery, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StockListItem, 0)
	for rows.Next() {
		var it model.StockListItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
