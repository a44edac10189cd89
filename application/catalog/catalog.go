package catalog

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/mkravchenko/warehouse-manager/cmd/config"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	clientrepo "github.com/mkravchenko/warehouse-manager/repository/client"
	orderrepo "github.com/mkravchenko/warehouse-manager/repository/order"
	productrepo "github.com/mkravchenko/warehouse-manager/repository/product"
	redisrepo "github.com/mkravchenko/warehouse-manager/repository/redis"
	stockrepo "github.com/mkravchenko/warehouse-manager/repository/stock"
	txrepo "github.com/mkravchenko/warehouse-manager/repository/tx"
	warehouserepo "github.com/mkravchenko/warehouse-manager/repository/warehouse"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/mkravchenko/warehouse-manager/utils/logger"
	"go.uber.org/zap"
)

// CatalogApp is the read side plus plain entity management: listings for the
// interactive views, name resolution, and the identifier services the
// list-editing flows use. Lookups propagate typed errors instead of
// swallowing them into empty result sets.
type CatalogApp interface {
	ListWarehouses(ctx context.Context) ([]model.WarehouseEntity, error)
	GetWarehouse(ctx context.Context, id int64) (*model.WarehouseEntity, error)
	GetProduct(ctx context.Context, id int64) (*model.ProductEntity, error)
	GetClient(ctx context.Context, id int64) (*model.ClientEntity, error)
	ResolveWarehouseID(ctx context.Context, name string) (int64, error)
	ListStock(ctx context.Context, warehouseID int64) ([]model.StockListItem, error)
	ListOrders(ctx context.Context, status constant.OrderStatus) ([]model.OrderListItem, error)
	ListOrderLines(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)
	ListProducts(ctx context.Context) ([]model.ProductEntity, error)
	ListClients(ctx context.Context) ([]model.ClientEntity, error)

	CreateWarehouse(ctx context.Context, req *model.WarehouseRequest) (*model.WarehouseEntity, error)
	UpdateWarehouse(ctx context.Context, id int64, req *model.WarehouseRequest) error
	DeleteWarehouse(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.ProductEntity, error)
	UpdateProduct(ctx context.Context, id int64, req *model.ProductRequest) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateClient(ctx context.Context, req *model.ClientRequest) (*model.ClientEntity, error)
	UpdateClient(ctx context.Context, id int64, req *model.ClientRequest) error
	DeleteClient(ctx context.Context, id int64) error

	NextIdentifier(ctx context.Context, entity constant.Entity) (int64, error)
	RenumberIdentifiers(ctx context.Context, entity constant.Entity) error
}

type catalogAppImpl struct {
	config        *config.Config
	txRepo        txrepo.TxRepository
	warehouseRepo warehouserepo.WarehouseRepository
	productRepo   productrepo.ProductRepository
	clientRepo    clientrepo.ClientRepository
	stockRepo     stockrepo.StockRepository
	orderRepo     orderrepo.OrderRepository
	redisRepo     redisrepo.Repository
}

func NewCatalogApp(config *config.Config, txRepo txrepo.TxRepository, warehouseRepo warehouserepo.WarehouseRepository, productRepo productrepo.ProductRepository, clientRepo clientrepo.ClientRepository, stockRepo stockrepo.StockRepository, orderRepo orderrepo.OrderRepository, redisRepo redisrepo.Repository) CatalogApp {
	return &catalogAppImpl{
		config:        config,
		txRepo:        txRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		clientRepo:    clientRepo,
		stockRepo:     stockRepo,
		orderRepo:     orderRepo,
		redisRepo:     redisRepo,
	}
}

func (s *catalogAppImpl) ListWarehouses(ctx context.Context) ([]model.WarehouseEntity, error) {
	var cached []model.WarehouseEntity
	if s.cacheGet(ctx, redisrepo.KeyWarehouses, &cached) {
		return cached, nil
	}

	items, err := s.warehouseRepo.List(ctx)
	if err != nil {
		logger.Error("[ListWarehouses] list", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}

	s.cacheSet(ctx, redisrepo.KeyWarehouses, items)
	return items, nil
}

func (s *catalogAppImpl) GetWarehouse(ctx context.Context, id int64) (*model.WarehouseEntity, error) {
	w, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return nil, err
		}
		logger.Error("[GetWarehouse] get", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return w, nil
}

func (s *catalogAppImpl) GetProduct(ctx context.Context, id int64) (*model.ProductEntity, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return nil, err
		}
		logger.Error("[GetProduct] get", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return p, nil
}

func (s *catalogAppImpl) GetClient(ctx context.Context, id int64) (*model.ClientEntity, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return nil, err
		}
		logger.Error("[GetClient] get", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return c, nil
}

func (s *catalogAppImpl) ResolveWarehouseID(ctx context.Context, name string) (int64, error) {
	id, err := s.warehouseRepo.GetIDByName(ctx, name)
	if err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return 0, err
		}
		logger.Error("[ResolveWarehouseID] get by name", zap.String("error", err.Error()))
		return 0, errors.FromStore(err)
	}
	return id, nil
}

func (s *catalogAppImpl) ListStock(ctx context.Context, warehouseID int64) ([]model.StockListItem, error) {
	key := redisrepo.KeyStock(warehouseID)
	var cached []model.StockListItem
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	items, err := s.stockRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		logger.Error("[ListStock] list", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}

	s.cacheSet(ctx, key, items)
	return items, nil
}

func (s *catalogAppImpl) ListOrders(ctx context.Context, status constant.OrderStatus) ([]model.OrderListItem, error) {
	items, err := s.orderRepo.ListOrders(ctx, status)
	if err != nil {
		logger.Error("[ListOrders] list", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return items, nil
}

func (s *catalogAppImpl) ListOrderLines(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	items, err := s.orderRepo.ListOrderLines(ctx, orderID)
	if err != nil {
		logger.Error("[ListOrderLines] list", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return items, nil
}

func (s *catalogAppImpl) ListProducts(ctx context.Context) ([]model.ProductEntity, error) {
	items, err := s.productRepo.List(ctx)
	if err != nil {
		logger.Error("[ListProducts] list", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return items, nil
}

func (s *catalogAppImpl) ListClients(ctx context.Context) ([]model.ClientEntity, error) {
	items, err := s.clientRepo.List(ctx)
	if err != nil {
		logger.Error("[ListClients] list", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return items, nil
}

func (s *catalogAppImpl) CreateWarehouse(ctx context.Context, req *model.WarehouseRequest) (*model.WarehouseEntity, error) {
	w := &model.WarehouseEntity{
		Name:           req.Name,
		Address:        req.Address,
		GeoText:        req.GeoText,
		GeoCoordinates: req.GeoCoordinates,
	}
	if err := s.warehouseRepo.Insert(ctx, w); err != nil {
		logger.Error("[CreateWarehouse] insert", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	s.cacheDrop(ctx, redisrepo.KeyWarehouses)
	return w, nil
}

func (s *catalogAppImpl) UpdateWarehouse(ctx context.Context, id int64, req *model.WarehouseRequest) error {
	w := &model.WarehouseEntity{
		ID:             id,
		Name:           req.Name,
		Address:        req.Address,
		GeoText:        req.GeoText,
		GeoCoordinates: req.GeoCoordinates,
	}
	if err := s.warehouseRepo.Update(ctx, w); err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return err
		}
		logger.Error("[UpdateWarehouse] update", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	s.cacheDrop(ctx, redisrepo.KeyWarehouses)
	return nil
}

func (s *catalogAppImpl) DeleteWarehouse(ctx context.Context, id int64) error {
	err := s.withinTx(ctx, "DeleteWarehouse", func(tx *sqlx.Tx) error {
		return s.warehouseRepo.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.cacheDrop(ctx, redisrepo.KeyWarehouses, redisrepo.KeyStock(id))
	return nil
}

func (s *catalogAppImpl) CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.ProductEntity, error) {
	p := &model.ProductEntity{
		Name:        req.Name,
		Article:     req.Article,
		Lifetime:    req.Lifetime,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Price:       req.Price,
	}
	if err := s.productRepo.Insert(ctx, p); err != nil {
		logger.Error("[CreateProduct] insert", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return p, nil
}

func (s *catalogAppImpl) UpdateProduct(ctx context.Context, id int64, req *model.ProductRequest) error {
	p := &model.ProductEntity{
		ID:          id,
		Name:        req.Name,
		Article:     req.Article,
		Lifetime:    req.Lifetime,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Price:       req.Price,
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return err
		}
		logger.Error("[UpdateProduct] update", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	return nil
}

func (s *catalogAppImpl) DeleteProduct(ctx context.Context, id int64) error {
	return s.withinTx(ctx, "DeleteProduct", func(tx *sqlx.Tx) error {
		return s.productRepo.DeleteTx(ctx, tx, id)
	})
}

func (s *catalogAppImpl) CreateClient(ctx context.Context, req *model.ClientRequest) (*model.ClientEntity, error) {
	c := &model.ClientEntity{
		FullName:    req.FullName,
		Info:        req.Info,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	if err := s.clientRepo.Insert(ctx, c); err != nil {
		logger.Error("[CreateClient] insert", zap.String("error", err.Error()))
		return nil, errors.FromStore(err)
	}
	return c, nil
}

func (s *catalogAppImpl) UpdateClient(ctx context.Context, id int64, req *model.ClientRequest) error {
	c := &model.ClientEntity{
		ID:          id,
		FullName:    req.FullName,
		Info:        req.Info,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	if err := s.clientRepo.Update(ctx, c); err != nil {
		if errors.IsType(err, constant.ErrNotFound) {
			return err
		}
		logger.Error("[UpdateClient] update", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	return nil
}

func (s *catalogAppImpl) DeleteClient(ctx context.Context, id int64) error {
	return s.withinTx(ctx, "DeleteClient", func(tx *sqlx.Tx) error {
		return s.clientRepo.DeleteTx(ctx, tx, id)
	})
}

// NextIdentifier is MAX(id)+1 per entity. It is not safe under concurrent
// callers; the list-editing flows that use it renumber afterwards anyway.
func (s *catalogAppImpl) NextIdentifier(ctx context.Context, entity constant.Entity) (int64, error) {
	var (
		id  int64
		err error
	)
	switch entity {
	case constant.EntityWarehouse:
		id, err = s.warehouseRepo.NextID(ctx)
	case constant.EntityProduct:
		id, err = s.productRepo.NextID(ctx)
	case constant.EntityClient:
		id, err = s.clientRepo.NextID(ctx)
	default:
		return 0, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if err != nil {
		logger.Error("[NextIdentifier] next id", zap.String("entity", string(entity)), zap.String("error", err.Error()))
		return 0, errors.FromStore(err)
	}
	return id, nil
}

// RenumberIdentifiers compacts an entity's ids into a dense 1..N sequence,
// cascading to referencing rows within the same transaction. It is an
// explicit maintenance operation, never run automatically on delete.
func (s *catalogAppImpl) RenumberIdentifiers(ctx context.Context, entity constant.Entity) error {
	err := s.withinTx(ctx, "RenumberIdentifiers", func(tx *sqlx.Tx) error {
		switch entity {
		case constant.EntityWarehouse:
			return s.warehouseRepo.RenumberTx(ctx, tx)
		case constant.EntityClient:
			return s.clientRepo.RenumberTx(ctx, tx)
		default:
			return errors.SetCustomError(constant.ErrInvalidRequest)
		}
	})
	if err != nil {
		return err
	}
	if entity == constant.EntityWarehouse {
		s.cacheDrop(ctx, redisrepo.KeyWarehouses)
	}
	return nil
}

func (s *catalogAppImpl) withinTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("["+op+"] begin tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := fn(tx); err != nil {
		if errors.IsType(err, constant.ErrNotFound) ||
			errors.IsType(err, constant.ErrReferenced) ||
			errors.IsType(err, constant.ErrInvalidRequest) {
			return err
		}
		logger.Error("["+op+"] apply", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("["+op+"] commit tx", zap.String("error", err.Error()))
		return errors.FromStore(err)
	}
	committed = true
	return nil
}

// cacheGet fills out from the catalog cache; a miss or any cache error just
// means reading the store.
func (s *catalogAppImpl) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.redisRepo == nil {
		return false
	}
	raw, err := s.redisRepo.Get(ctx, key)
	if err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Warn("[cacheGet] unmarshal", zap.String("key", key), zap.String("error", err.Error()))
		return false
	}
	return true
}

func (s *catalogAppImpl) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.redisRepo == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redisRepo.SetWithTTL(ctx, key, string(raw), s.config.Cache.CatalogTTL); err != nil {
		logger.Warn("[cacheSet] set", zap.String("key", key), zap.String("error", err.Error()))
	}
}

func (s *catalogAppImpl) cacheDrop(ctx context.Context, keys ...string) {
	if s.redisRepo == nil {
		return
	}
	if err := s.redisRepo.Delete(ctx, keys...); err != nil {
		logger.Warn("[cacheDrop] delete", zap.String("error", err.Error()))
	}
}
