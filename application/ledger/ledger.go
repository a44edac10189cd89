package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	txrepo "github.com/mkravchenko/warehouse-manager/repository/tx"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/mkravchenko/warehouse-manager/utils/logger"
	"go.uber.org/zap"
)

// Applier replays a single staged record inside an open transaction. The
// inventory application implements it.
type Applier interface {
	ApplyChangeTx(ctx context.Context, tx *sqlx.Tx, change *model.StagedChange) error
}

// Committer replays whole batches of staged records, each batch inside one
// transaction, all-or-nothing.
type Committer interface {
	Commit(ctx context.Context, changes []model.StagedChange) (*model.CommitResult, error)
}

type committerImpl struct {
	txRepo  txrepo.TxRepository
	applier Applier
}

func NewCommitter(txRepo txrepo.TxRepository, applier Applier) Committer {
	return &committerImpl{txRepo: txRepo, applier: applier}
}

// Commit applies the records strictly in append order. A later record sees
// the effect of an earlier one only through the store, never through the
// batch itself. On any failure the whole transaction rolls back and the
// result names the records applied so far and the one that failed.
func (c *committerImpl) Commit(ctx context.Context, changes []model.StagedChange) (*model.CommitResult, error) {
	// Saving with nothing staged is a no-op, not an error.
	if len(changes) == 0 {
		return &model.CommitResult{Applied: []model.StagedChange{}}, nil
	}

	tx, err := c.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Commit] begin tx", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = c.txRepo.RollbackTx(tx)
		}
	}()

	result := &model.CommitResult{Applied: make([]model.StagedChange, 0, len(changes))}
	for i := range changes {
		change := changes[i]
		if err := c.applier.ApplyChangeTx(ctx, tx, &change); err != nil {
			result.Failed = &change
			if errors.IsType(err, constant.ErrInsufficientStock) ||
				errors.IsType(err, constant.ErrNotFound) ||
				errors.IsType(err, constant.ErrInvalidRequest) {
				return result, err
			}
			logger.Error("[Commit] apply change",
				zap.String("kind", string(change.Kind)),
				zap.String("error", err.Error()))
			return result, errors.FromStore(err)
		}
		result.Applied = append(result.Applied, change)
	}

	if err := c.txRepo.CommitTx(tx); err != nil {
		logger.Error("[Commit] commit tx", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	committed = true
	return result, nil
}

// Ledger accumulates user intent for one interactive session. Nothing is
// durable until Commit; Clear throws the staged records away with no side
// effects. A Ledger is owned by exactly one session and must not be shared.
type Ledger struct {
	committer Committer
	changes   []model.StagedChange
}

func NewLedger(committer Committer) *Ledger {
	return &Ledger{committer: committer}
}

func (l *Ledger) Append(change model.StagedChange) {
	l.changes = append(l.changes, change)
}

func (l *Ledger) Len() int {
	return len(l.changes)
}

// Pending returns a copy of the staged records in append order.
func (l *Ledger) Pending() []model.StagedChange {
	out := make([]model.StagedChange, len(l.changes))
	copy(out, l.changes)
	return out
}

func (l *Ledger) Clear() {
	l.changes = l.changes[:0]
}

// Commit replays the staged records. On success the ledger is cleared; on
// failure it is left intact so the session can correct and resubmit.
func (l *Ledger) Commit(ctx context.Context) (*model.CommitResult, error) {
	result, err := l.committer.Commit(ctx, l.Pending())
	if err != nil {
		return result, err
	}
	l.Clear()
	return result, nil
}
