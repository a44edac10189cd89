package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	appledger "github.com/mkravchenko/warehouse-manager/application/ledger"
	"github.com/mkravchenko/warehouse-manager/constant"
	ledgermocks "github.com/mkravchenko/warehouse-manager/mocks/application/ledger"
	txmocks "github.com/mkravchenko/warehouse-manager/mocks/repository/tx"
	"github.com/mkravchenko/warehouse-manager/model"
	cerr "github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/stretchr/testify/mock"
)

func insertChange(warehouseID, productID, amount int64) model.StagedChange {
	return model.StagedChange{
		Kind:  model.ChangeInsert,
		Stock: &model.StockRow{WarehouseID: warehouseID, ProductID: productID, Amount: amount},
	}
}

func deleteChange(warehouseID, productID int64) model.StagedChange {
	return model.StagedChange{
		Kind: model.ChangeDelete,
		Key:  &model.StockKey{WarehouseID: warehouseID, ProductID: productID},
	}
}

func TestCommitter_Commit(t *testing.T) {
	type fields struct {
		txRepo  *txmocks.TxRepository
		applier *ledgermocks.Applier
	}
	tests := []struct {
		name        string
		fields      fields
		changes     []model.StagedChange
		mockCall    func(f fields)
		wantApplied int
		wantFailed  bool
		wantErr     bool
		errCode     constant.ErrorType
	}{
		{
			name: "success: all records applied in append order",
			fields: fields{
				txRepo:  txmocks.NewTxRepository(t),
				applier: ledgermocks.NewApplier(t),
			},
			changes: []model.StagedChange{
				insertChange(1, 3, 5),
				deleteChange(1, 4),
				insertChange(2, 3, 1),
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.applier.On("ApplyChangeTx", mock.Anything, tx, mock.Anything).Return(nil).Times(3)
			},
			wantApplied: 3,
		},
		{
			name: "success: empty batch commits nothing",
			fields: fields{
				txRepo:  txmocks.NewTxRepository(t),
				applier: ledgermocks.NewApplier(t),
			},
			changes:     nil,
			mockCall:    nil,
			wantApplied: 0,
		},
		{
			name: "error: third record fails, nothing survives",
			fields: fields{
				txRepo:  txmocks.NewTxRepository(t),
				applier: ledgermocks.NewApplier(t),
			},
			changes: []model.StagedChange{
				insertChange(1, 3, 5),
				insertChange(1, 4, 2),
				deleteChange(9, 9),
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.applier.On("ApplyChangeTx", mock.Anything, tx, mock.MatchedBy(func(c *model.StagedChange) bool {
					return c.Kind == model.ChangeInsert
				})).Return(nil).Twice()

				notFoundErr := cerr.SetCustomError(constant.ErrNotFound)
				f.applier.On("ApplyChangeTx", mock.Anything, tx, mock.MatchedBy(func(c *model.StagedChange) bool {
					return c.Kind == model.ChangeDelete
				})).Return(notFoundErr).Once()
			},
			wantApplied: 2,
			wantFailed:  true,
			wantErr:     true,
			errCode:     constant.ErrNotFound,
		},
		{
			name: "error: BeginTx returns error",
			fields: fields{
				txRepo:  txmocks.NewTxRepository(t),
				applier: ledgermocks.NewApplier(t),
			},
			changes: []model.StagedChange{insertChange(1, 3, 5)},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(nil, errors.New("tx error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name: "error: CommitTx returns error",
			fields: fields{
				txRepo:  txmocks.NewTxRepository(t),
				applier: ledgermocks.NewApplier(t),
			},
			changes: []model.StagedChange{insertChange(1, 3, 5)},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(errors.New("commit error")).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.applier.On("ApplyChangeTx", mock.Anything, tx, mock.Anything).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			committer := appledger.NewCommitter(tt.fields.txRepo, tt.fields.applier)

			result, err := committer.Commit(context.Background(), tt.changes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Commit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
			}
			if result == nil {
				return
			}
			if len(result.Applied) != tt.wantApplied {
				t.Fatalf("Commit() applied = %d, want %d", len(result.Applied), tt.wantApplied)
			}
			if (result.Failed != nil) != tt.wantFailed {
				t.Fatalf("Commit() failed = %v, wantFailed %v", result.Failed, tt.wantFailed)
			}
		})
	}
}

func TestLedger_AppendClear(t *testing.T) {
	l := appledger.NewLedger(nil)

	l.Append(insertChange(1, 3, 5))
	l.Append(deleteChange(1, 4))
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}

	pending := l.Pending()
	if len(pending) != 2 {
		t.Fatalf("Pending() returned %d records, want 2", len(pending))
	}
	if pending[0].Kind != model.ChangeInsert || pending[1].Kind != model.ChangeDelete {
		t.Fatal("Pending() records out of append order")
	}

	// Mutating the copy must not touch the staged records.
	pending[0].Kind = model.ChangeMove
	if l.Pending()[0].Kind != model.ChangeInsert {
		t.Fatal("Pending() must return a copy")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", l.Len())
	}
}

func TestLedger_Commit(t *testing.T) {
	t.Run("success clears the ledger", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		applier := ledgermocks.NewApplier(t)

		tx := &sqlx.Tx{}
		txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		txRepo.On("CommitTx", tx).Return(nil).Once()
		applier.On("ApplyChangeTx", mock.Anything, tx, mock.Anything).Return(nil).Twice()

		l := appledger.NewLedger(appledger.NewCommitter(txRepo, applier))
		l.Append(insertChange(1, 3, 5))
		l.Append(insertChange(1, 4, 2))

		result, err := l.Commit(context.Background())
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if len(result.Applied) != 2 {
			t.Fatalf("Commit() applied = %d, want 2", len(result.Applied))
		}
		if l.Len() != 0 {
			t.Fatalf("Len() after commit = %d, want 0", l.Len())
		}
	})

	t.Run("failure keeps the staged records", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		applier := ledgermocks.NewApplier(t)

		tx := &sqlx.Tx{}
		txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		txRepo.On("RollbackTx", tx).Return(nil).Once()

		insufficientStockErr := cerr.SetCustomError(constant.ErrInsufficientStock)
		applier.On("ApplyChangeTx", mock.Anything, tx, mock.Anything).Return(insufficientStockErr).Once()

		l := appledger.NewLedger(appledger.NewCommitter(txRepo, applier))
		l.Append(insertChange(1, 3, 5))
		l.Append(insertChange(1, 4, 2))

		result, err := l.Commit(context.Background())
		if err == nil {
			t.Fatal("Commit() expected error")
		}
		if result == nil || result.Failed == nil {
			t.Fatal("Commit() result should name the failed record")
		}
		if l.Len() != 2 {
			t.Fatalf("Len() after failed commit = %d, want 2", l.Len())
		}
	})
}
