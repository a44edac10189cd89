package product

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
)

type ProductRepository interface {
	List(ctx context.Context) ([]model.ProductEntity, error)
	GetByID(ctx context.Context, id int64) (*model.ProductEntity, error)
	Insert(ctx context.Context, p *model.ProductEntity) error
	Update(ctx context.Context, p *model.ProductEntity) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error
	NextID(ctx context.Context) (int64, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewProductRepository(conn *sqlx.DB) ProductRepository {
	return &SQL{conn: conn}
}

const productColumns = "id, name, article, lifetime, description, category, image, price"

func (r *SQL) List(ctx context.Context) ([]model.ProductEntity, error) {
	rows, err := r.conn.QueryxContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProductEntity, 0)
	for rows.Next() {
		var it model.ProductEntity
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQL) GetByID(ctx context.Context, id int64) (*model.ProductEntity, error) {
	var p model.ProductEntity
	if err := r.conn.GetContext(ctx, &p, "SELECT "+productColumns+" FROM products WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQL) Insert(ctx context.Context, p *model.ProductEntity) error {
	res, err := r.conn.ExecContext(ctx,
		"INSERT INTO products (name, article, lifetime, description, category, image, price) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.Name, p.Article, p.Lifetime, p.Description, p.Category, p.Image, p.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *SQL) Update(ctx context.Context, p *model.ProductEntity) error {
	res, err := r.conn.ExecContext(ctx,
		"UPDATE products SET name = ?, article = ?, lifetime = ?, description = ?, category = ?, image = ?, price = ? WHERE id = ?",
		p.Name, p.Article, p.Lifetime, p.Description, p.Category, p.Image, p.Price, p.ID)
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

// DeleteTx refuses to remove a product still referenced by stock rows or
// order lines.
func (r *SQL) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	var refs int64
	if err := tx.GetContext(ctx, &refs,
		"SELECT (SELECT COUNT(*) FROM productinwarehouse WHERE product_id = ?) + (SELECT COUNT(*) FROM order_items WHERE product_id = ?)",
		id, id); err != nil {
		return err
	}
	if refs > 0 {
		return errors.SetCustomError(constant.ErrReferenced)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
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
	if err := r.conn.GetContext(ctx, &max, "SELECT MAX(id) FROM products"); err != nil {
		return 0, err
	}
	return max.Int64 + 1, nil
}
