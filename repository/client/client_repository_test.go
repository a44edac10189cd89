package client

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// Renumbering updates only the clients table; orders.client_id follows
// through ON UPDATE CASCADE.
func TestSQL_RenumberTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	conn := sqlx.NewDb(db, "sqlmock")
	repo := NewClientRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM clients ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(5))
	mock.ExpectExec("UPDATE clients SET id = ? WHERE id = ?").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE clients SET id = ? WHERE id = ?").
		WithArgs(int64(2), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := conn.Beginx()
	if err != nil {
		t.Fatalf("Beginx() error = %v", err)
	}
	if err := repo.RenumberTx(context.Background(), tx); err != nil {
		t.Fatalf("RenumberTx() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
