package client

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
)

type ClientRepository interface {
	List(ctx context.Context) ([]model.ClientEntity, error)
	GetByID(ctx context.Context, id int64) (*model.ClientEntity, error)
	Insert(ctx context.Context, c *model.ClientEntity) error
	Update(ctx context.Context, c *model.ClientEntity) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error
	NextID(ctx context.Context) (int64, error)
	RenumberTx(ctx context.Context, tx *sqlx.Tx) error
}

type SQL struct {
	conn *sqlx.DB
}

func NewClientRepository(conn *sqlx.DB) ClientRepository {
	return &SQL{conn: conn}
}

func (r *SQL) List(ctx context.Context) ([]model.ClientEntity, error) {
	rows, err := r.conn.QueryxContext(ctx, "SELECT id, full_name, info, phonenumber, address FROM clients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ClientEntity, 0)
	for rows.Next() {
		var it model.ClientEntity
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQL) GetByID(ctx context.Context, id int64) (*model.ClientEntity, error) {
	var c model.ClientEntity
	if err := r.conn.GetContext(ctx, &c, "SELECT id, full_name, info, phonenumber, address FROM clients WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQL) Insert(ctx context.Context, c *model.ClientEntity) error {
	res, err := r.conn.ExecContext(ctx, "INSERT INTO clients (full_name, info, phonenumber, address) VALUES (?, ?, ?, ?)",
		c.FullName, c.Info, c.PhoneNumber, c.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *SQL) Update(ctx context.Context, c *model.ClientEntity) error {
	res, err := r.conn.ExecContext(ctx, "UPDATE clients SET full_name = ?, info = ?, phonenumber = ?, address = ? WHERE id = ?",
		c.FullName, c.Info, c.PhoneNumber, c.Address, c.ID)
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

// DeleteTx refuses to remove a client that still owns orders.
func (r *SQL) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	var refs int64
	if err := tx.GetContext(ctx, &refs, "SELECT COUNT(*) FROM orders WHERE client_id = ?", id); err != nil {
		return err
	}
	if refs > 0 {
		return errors.SetCustomError(constant.ErrReferenced)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
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

func (r *SQL) NextID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := r.conn.GetContext(ctx, &max, "SELECT MAX(id) FROM clients"); err != nil {
		return 0, err
	}
	return max.Int64 + 1, nil
}

// RenumberTx reassigns a dense 1..N id sequence ordered by current id.
// Orders referencing a moved client follow through ON UPDATE CASCADE on
// orders.client_id; the immediate InnoDB check forbids touching the child
// rows manually.
func (r *SQL) RenumberTx(ctx context.Context, tx *sqlx.Tx) error {
	var ids []int64
	if err := tx.SelectContext(ctx, &ids, "SELECT id FROM clients ORDER BY id"); err != nil {
		return err
	}
	for i, oldID := range ids {
		newID := int64(i + 1)
		if newID == oldID {
			continue
		}
		if _, err := tx.ExecContext(ctx, "UPDATE clients SET id = ? WHERE id = ?", newID, oldID); err != nil {
			return err
		}
	}
	return nil
}
