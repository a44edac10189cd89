package inventory

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	orderrepo "github.com/mkravchenko/warehouse-manager/repository/order"
	redisrepo "github.com/mkravchenko/warehouse-manager/repository/redis"
	stockrepo "github.com/mkravchenko/warehouse-manager/repository/stock"
	txrepo "github.com/mkravchenko/warehouse-manager/repository/tx"
	"github.com/mkravchenko/warehouse-manager/thirdparty/rabbitmq"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/mkravchenko/warehouse-manager/utils/logger"
	"go.uber.org/zap"
)

// InventoryApp holds the business sagas over stock and order lines. Every
// saga runs inside one transaction and either fully applies or fully rolls
// back.
type InventoryApp interface {
	CreateOrder(ctx context.Context, clientID int64) (int64, error)
	AddToOrder(ctx context.Context, req *model.AddToOrderRequest) error
	RemoveFromOrder(ctx context.Context, req *model.RemoveFromOrderRequest) error
	TransferBetweenWarehouses(ctx context.Context, req *model.TransferRequest) error
	WriteOff(ctx context.Context, req *model.WriteOffRequest) error
	Receive(ctx context.Context, req *model.ReceiveRequest) error
	FinalizeOrder(ctx context.Context, orderID int64) error

	// ApplyChangeTx replays one staged record inside an already-open
	// transaction. The ledger drives it at commit time.
	ApplyChangeTx(ctx context.Context, tx *sqlx.Tx, change *model.StagedChange) error
}

type inventoryAppImpl struct {
	txRepo    txrepo.TxRepository
	stockRepo stockrepo.StockRepository
	orderRepo orderrepo.OrderRepository
	redisRepo redisrepo.Repository
	publisher *rabbitmq.Publisher
}

func NewInventoryApp(txRepo txrepo.TxRepository, stockRepo stockrepo.StockRepository, orderRepo orderrepo.OrderRepository, redisRepo redisrepo.Repository, publisher *rabbitmq.Publisher) InventoryApp {
	return &inventoryAppImpl{
		txRepo:    txRepo,
		stockRepo: stockRepo,
		orderRepo: orderRepo,
		redisRepo: redisRepo,
		publisher: publisher,
	}
}

func (s *inventoryAppImpl) CreateOrder(ctx context.Context, clientID int64) (int64, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CreateOrder] begin tx", zap.String("error", err.Error()))
		return 0, errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	orderID, err := s.orderRepo.InsertOrderTx(ctx, tx, clientID)
	if err != nil {
		logger.Error("[CreateOrder] insert order", zap.String("error", err.Error()))
		return 0, errors.FromStore(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[CreateOrder] commit tx", zap.String("error", err.Error()))
		return 0, errors.FromStore(err)
	}
	committed = true
	return orderID, nil
}

// AddToOrder allocates stock to an order. Each item is debited with a bounded
// update, so a batch naming the same product twice re-checks availability
// against the already-decremented quantity, not a stale snapshot.
func (s *inventoryAppImpl) AddToOrder(ctx context.Context, req *model.AddToOrderRequest) error {
	if len(req.Items) == 0 {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[AddToOrder] begin tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.guardInProgressTx(ctx, tx, req.OrderID, "AddToOrder"); err != nil {
		return err
	}

	for _, item := range req.Items {
		if err := s.stockRepo.AdjustStockTx(ctx, tx, item.WarehouseID, item.ProductID, -item.Quantity, 0); err != nil {
			if errors.IsType(err, constant.ErrInsufficientStock) || errors.IsType(err, constant.ErrNotFound) {
				logger.Info("[AddToOrder] cannot allocate",
					zap.Int64("warehouse_id", item.WarehouseID),
					zap.Int64("product_id", item.ProductID),
					zap.Int64("need", item.Quantity))
				return err
			}
			logger.Error("[AddToOrder] adjust stock", zap.String("error", err.Error()))
			return errors.FromStore(err)
		}

		line := &model.OrderLine{
			OrderID:     req.OrderID,
			ProductID:   item.ProductID,
			WarehouseID: item.WarehouseID,
			Amount:      item.Quantity,
			Price:       item.Price,
		}
		if err := s.orderRepo.UpsertOrderLineTx(ctx, tx, line); err != nil {
			logger.Error("[AddToOrder] upsert order line", zap.String("error", err.Error()))
			return errors.FromStore(err)
		}

		if err := s.orderRepo.AddOrderTotalTx(ctx, tx, req.OrderID, float64(item.Quantity)*item.Price); err != nil {
			logger.Error("[AddToOrder] update order total", zap.String("error", err.Error()))
			return errors.FromStore(err)
		}
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[AddToOrder] commit tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed = true

	for _, item := range req.Items {
		s.publishMovement(rabbitmq.StockMovementMessage{
			Kind:        rabbitmq.MovementAllocate,
			WarehouseID: item.WarehouseID,
			ProductID:   item.ProductID,
			OrderID:     req.OrderID,
			Quantity:    item.Quantity,
			OccurredAt:  time.Now(),
		})
		s.invalidateStock(ctx, item.WarehouseID)
	}
	return nil
}

func (s *inventoryAppImpl) RemoveFromOrder(ctx context.Context, req *model.RemoveFromOrderRequest) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[RemoveFromOrder] begin tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.guardInProgressTx(ctx, tx, req.OrderID, "RemoveFromOrder"); err != nil {
		return err
	}

	line, err := s.orderRepo.DeleteOrderLineTx(ctx, tx, req.OrderID, req.ProductID, req.WarehouseID)
	if err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return err
		}
		logger.Error("[RemoveFromOrder] delete order line", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	// Restore the released quantity; recreates the stock row if the
	// allocation had fully depleted it.
	if err := s.stockRepo.AdjustStockTx(ctx, tx, req.WarehouseID, req.ProductID, line.Amount, line.Price); err != nil {
		logger.Error("[RemoveFromOrder] restore stock", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	if err := s.orderRepo.AddOrderTotalTx(ctx, tx, req.OrderID, -float64(line.Amount)*line.Price); err != nil {
		logger.Error("[RemoveFromOrder] update order total", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[RemoveFromOrder] commit tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed = true

	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:        rabbitmq.MovementRelease,
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		OrderID:     req.OrderID,
		Quantity:    line.Amount,
		OccurredAt:  time.Now(),
	})
	s.invalidateStock(ctx, req.WarehouseID)
	return nil
}

func (s *inventoryAppImpl) TransferBetweenWarehouses(ctx context.Context, req *model.TransferRequest) error {
	if req.FromWarehouseID == req.ToWarehouseID {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if req.Quantity <= 0 {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[TransferBetweenWarehouses] begin tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.moveTx(ctx, tx, req.FromWarehouseID, req.ToWarehouseID, req.ProductID, req.Quantity); err != nil {
		if errors.IsType(err, constant.ErrInsufficientStock) || errors.IsType(err, constant.ErrNotFound) {
			return err
		}
		logger.Error("[TransferBetweenWarehouses] move stock", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[TransferBetweenWarehouses] commit tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed = true

	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:          rabbitmq.MovementTransfer,
		WarehouseID:   req.FromWarehouseID,
		ToWarehouseID: req.ToWarehouseID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		OccurredAt:    time.Now(),
	})
	s.invalidateStock(ctx, req.FromWarehouseID, req.ToWarehouseID)
	return nil
}

func (s *inventoryAppImpl) WriteOff(ctx context.Context, req *model.WriteOffRequest) error {
	if req.Quantity <= 0 {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[WriteOff] begin tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.stockRepo.AdjustStockTx(ctx, tx, req.WarehouseID, req.ProductID, -req.Quantity, 0); err != nil {
		if errors.IsType(err, constant.ErrInsufficientStock) || errors.IsType(err, constant.ErrNotFound) {
			return err
		}
		logger.Error("[WriteOff] adjust stock", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[WriteOff] commit tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed = true

	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:        rabbitmq.MovementWriteOff,
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		OccurredAt:  time.Now(),
	})
	s.invalidateStock(ctx, req.WarehouseID)
	return nil
}

func (s *inventoryAppImpl) Receive(ctx context.Context, req *model.ReceiveRequest) error {
	if req.Quantity <= 0 {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Receive] begin tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.stockRepo.AdjustStockTx(ctx, tx, req.WarehouseID, req.ProductID, req.Quantity, req.Price); err != nil {
		logger.Error("[Receive] adjust stock", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[Receive] commit tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed = true

	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:        rabbitmq.MovementReceive,
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		OccurredAt:  time.Now(),
	})
	s.invalidateStock(ctx, req.WarehouseID)
	return nil
}

func (s *inventoryAppImpl) FinalizeOrder(ctx context.Context, orderID int64) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[FinalizeOrder] begin tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.guardInProgressTx(ctx, tx, orderID, "FinalizeOrder"); err != nil {
		return err
	}

	if err := s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, constant.OrderStatusFinalized); err != nil {
		logger.Error("[FinalizeOrder] update status", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[FinalizeOrder] commit tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed = true
	return nil
}

// ApplyChangeTx replays one staged record. It never opens or closes a
// transaction; the ledger owns commit and rollback.
func (s *inventoryAppImpl) ApplyChangeTx(ctx context.Context, tx *sqlx.Tx, change *model.StagedChange) error {
	switch change.Kind {
	case model.ChangeInsert:
		if change.Stock == nil || change.Stock.Amount < 0 {
			return errors.SetCustomError(constant.ErrInvalidRequest)
		}
		return s.stockRepo.AdjustStockTx(ctx, tx, change.Stock.WarehouseID, change.Stock.ProductID, change.Stock.Amount, change.Stock.Price)
	case model.ChangeUpdate:
		if change.Stock == nil {
			return errors.SetCustomError(constant.ErrInvalidRequest)
		}
		return s.stockRepo.SetStockTx(ctx, tx, change.Stock)
	case model.ChangeDelete:
		if change.Key == nil {
			return errors.SetCustomError(constant.ErrInvalidRequest)
		}
		return s.stockRepo.DeleteStockTx(ctx, tx, change.Key.WarehouseID, change.Key.ProductID)
	case model.ChangeMove:
		if change.Move == nil || change.Move.Quantity <= 0 {
			return errors.SetCustomError(constant.ErrInvalidRequest)
		}
		return s.moveTx(ctx, tx, change.Move.FromWarehouseID, change.Move.ToWarehouseID, change.Move.ProductID, change.Move.Quantity)
	default:
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}
}

// moveTx debits the source and credits the destination. The credit carries
// the source row's denormalized price. Conservation holds: the two writes
// live or die together with the surrounding transaction.
func (s *inventoryAppImpl) moveTx(ctx context.Context, tx *sqlx.Tx, fromWarehouseID, toWarehouseID, productID, quantity int64) error {
	src, err := s.stockRepo.GetStockTx(ctx, tx, fromWarehouseID, productID)
	if err != nil {
		return err
	}
	if src == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	if err := s.stockRepo.AdjustStockTx(ctx, tx, fromWarehouseID, productID, -quantity, 0); err != nil {
		return err
	}
	return s.stockRepo.AdjustStockTx(ctx, tx, toWarehouseID, productID, quantity, src.Price)
}

func (s *inventoryAppImpl) guardInProgressTx(ctx context.Context, tx *sqlx.Tx, orderID int64, op string) error {
	detail, err := s.orderRepo.GetOrderTx(ctx, tx, orderID)
	if err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return err
		}
		logger.Error("["+op+"] get order", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	if detail.Status != constant.OrderStatusInProgress {
		return errors.SetCustomError(constant.ErrInvalidOrderStatus)
	}
	return nil
}

func (s *inventoryAppImpl) publishMovement(msg rabbitmq.StockMovementMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStockMovement(msg); err != nil {
		logger.Error("[publishMovement] publish", zap.String("error", err.Error()))
	}
}

func (s *inventoryAppImpl) invalidateStock(ctx context.Context, warehouseIDs ...int64) {
	if s.redisRepo == nil {
		return
	}
	keys := make([]string, 0, len(warehouseIDs))
	for _, id := range warehouseIDs {
		keys = append(keys, redisrepo.KeyStock(id))
	}
	if err := s.redisRepo.Delete(ctx, keys...); err != nil {
		logger.Warn("[invalidateStock] delete cache keys", zap.String("error", err.Error()))
	}
}
