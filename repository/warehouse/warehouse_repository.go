package warehouse

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
)

type WarehouseRepository interface {
	List(ctx context.Context) ([]model.WarehouseEntity, error)
	GetByID(ctx context.Context, id int64) (*model.WarehouseEntity, error)
	GetIDByName(ctx context.Context, name string) (int64, error)
	Insert(ctx context.Context, w *model.WarehouseEntity) error
	Update(ctx context.Context, w *model.WarehouseEntity) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error
	NextID(ctx context.Context) (int64, error)
	RenumberTx(ctx context.Context, tx *sqlx.Tx) error
}

type SQL struct {
	conn *sqlx.DB
}

func NewWarehouseRepository(conn *sqlx.DB) WarehouseRepository {
	return &SQL{conn: conn}
}

func (r *SQL) List(ctx context.Context) ([]model.WarehouseEntity, error) {
	rows, err := r.conn.QueryxContext(ctx, "SELECT id, name, address, geo_text, geo_coordinates FROM warehouses ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WarehouseEntity, 0)
	for rows.Next() {
		var it model.WarehouseEntity
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQL) GetByID(ctx context.Context, id int64) (*model.WarehouseEntity, error) {
	var w model.WarehouseEntity
	if err := r.conn.GetContext(ctx, &w, "SELECT id, name, address, geo_text, geo_coordinates FROM warehouses WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		return nil, err
	}
	return &w, nil
}

// GetIDByName resolves a warehouse by display name. Names are expected to be
// unique; with duplicates the lowest id wins.
func (r *SQL) GetIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := r.conn.GetContext(ctx, &id, "SELECT id FROM warehouses WHERE name = ? ORDER BY id LIMIT 1", name); err != nil {
		if err == sql.ErrNoRows {
			return 0, errors.SetCustomError(constant.ErrNotFound)
		}
		return 0, err
	}
	return id, nil
}

func (r *SQL) Insert(ctx context.Context, w *model.WarehouseEntity) error {
	res, err := r.conn.ExecContext(ctx, "INSERT INTO warehouses (name, address, geo_text, geo_coordinates) VALUES (?, ?, ?, ?)",
		w.Name, w.Address, w.GeoText, w.GeoCoordinates)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = id
	return nil
}

func (r *SQL) Update(ctx context.Context, w *model.WarehouseEntity) error {
	res, err := r.conn.ExecContext(ctx, "UPDATE warehouses SET name = ?, address = ?, geo_text = ?, geo_coordinates = ? WHERE id = ?",
		w.Name, w.Address, w.GeoText, w.GeoCoordinates, w.ID)
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

// DeleteTx refuses to remove a warehouse that still holds stock or appears in
// order lines.
func (r *SQL) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	var refs int64
	if err := tx.GetContext(ctx, &refs,
		"SELECT (SELECT COUNT(*) FROM productinwarehouse WHERE warehouse_id = ?) + (SELECT COUNT(*) FROM order_items WHERE warehouse_id = ?)",
		id, id); err != nil {
		return err
	}
	if refs > 0 {
		return errors.SetCustomError(constant.ErrReferenced)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM warehouses WHERE id = ?", id)
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

// NextID is MAX(id)+1 and is racy under concurrent callers; only the
// list-editing flows that renumber afterwards use it.
func (r *SQL) NextID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := r.conn.GetContext(ctx, &max, "SELECT MAX(id) FROM warehouses"); err != nil {
		return 0, err
	}
	return max.Int64 + 1, nil
}

// RenumberTx reassigns a dense 1..N id sequence ordered by current id, all in
// one transaction. Referencing rows in productinwarehouse and order_items
// follow through ON UPDATE CASCADE; InnoDB checks foreign keys per statement,
// so the parent update must not be paired with manual child updates.
func (r *SQL) RenumberTx(ctx context.Context, tx *sqlx.Tx) error {
	var ids []int64
	if err := tx.SelectContext(ctx, &ids, "SELECT id FROM warehouses ORDER BY id"); err != nil {
		return err
	}
	for i, oldID := range ids {
		newID := int64(i + 1)
		if newID == oldID {
			continue
		}
		if _, err := tx.ExecContext(ctx, "UPDATE warehouses SET id = ? WHERE id = ?", newID, oldID); err != nil {
			return err
		}
	}
	return nil
}
