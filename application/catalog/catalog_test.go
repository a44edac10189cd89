package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	appcatalog "github.com/mkravchenko/warehouse-manager/application/catalog"
	"github.com/mkravchenko/warehouse-manager/cmd/config"
	"github.com/mkravchenko/warehouse-manager/constant"
	clientmocks "github.com/mkravchenko/warehouse-manager/mocks/repository/client"
	ordermocks "github.com/mkravchenko/warehouse-manager/mocks/repository/order"
	productmocks "github.com/mkravchenko/warehouse-manager/mocks/repository/product"
	redismocks "github.com/mkravchenko/warehouse-manager/mocks/repository/redis"
	stockmocks "github.com/mkravchenko/warehouse-manager/mocks/repository/stock"
	txmocks "github.com/mkravchenko/warehouse-manager/mocks/repository/tx"
	warehousemocks "github.com/mkravchenko/warehouse-manager/mocks/repository/warehouse"
	"github.com/mkravchenko/warehouse-manager/model"
	redisrepo "github.com/mkravchenko/warehouse-manager/repository/redis"
	cerr "github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/stretchr/testify/mock"
)

type fields struct {
	config        *config.Config
	txRepo        *txmocks.TxRepository
	warehouseRepo *warehousemocks.WarehouseRepository
	productRepo   *productmocks.ProductRepository
	clientRepo    *clientmocks.ClientRepository
	stockRepo     *stockmocks.StockRepository
	orderRepo     *ordermocks.OrderRepository
	redisRepo     *redismocks.Repository
}

func newFields(t *testing.T) fields {
	return fields{
		config: &config.Config{
			Cache: config.CacheConfig{CatalogTTL: 5 * time.Minute},
		},
		txRepo:        txmocks.NewTxRepository(t),
		warehouseRepo: warehousemocks.NewWarehouseRepository(t),
		productRepo:   productmocks.NewProductRepository(t),
		clientRepo:    clientmocks.NewClientRepository(t),
		stockRepo:     stockmocks.NewStockRepository(t),
		orderRepo:     ordermocks.NewOrderRepository(t),
		redisRepo:     redismocks.NewRepository(t),
	}
}

func newApp(f fields) appcatalog.CatalogApp {
	return appcatalog.NewCatalogApp(f.config, f.txRepo, f.warehouseRepo, f.productRepo, f.clientRepo, f.stockRepo, f.orderRepo, f.redisRepo)
}

func assertErrCode(t *testing.T, err error, errCode constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[errCode] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[errCode])
	}
}

func TestCatalogApp_ListWarehouses(t *testing.T) {
	t.Run("cache miss reads the store and fills the cache", func(t *testing.T) {
		f := newFields(t)
		want := []model.WarehouseEntity{{ID: 1, Name: "Main", Address: "Dock st 1"}}

		f.redisRepo.On("Get", mock.Anything, redisrepo.KeyWarehouses).Return("", nil).Once()
		f.warehouseRepo.On("List", mock.Anything).Return(want, nil).Once()

		raw, _ := json.Marshal(want)
		f.redisRepo.On("SetWithTTL", mock.Anything, redisrepo.KeyWarehouses, string(raw), 5*time.Minute).Return(nil).Once()

		got, err := newApp(f).ListWarehouses(context.Background())
		if err != nil {
			t.Fatalf("ListWarehouses() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "Main" {
			t.Fatalf("ListWarehouses() = %+v, want %+v", got, want)
		}
	})

	t.Run("cache hit never touches the store", func(t *testing.T) {
		f := newFields(t)
		cached := []model.WarehouseEntity{{ID: 2, Name: "Cold"}}
		raw, _ := json.Marshal(cached)

		f.redisRepo.On("Get", mock.Anything, redisrepo.KeyWarehouses).Return(string(raw), nil).Once()

		got, err := newApp(f).ListWarehouses(context.Background())
		if err != nil {
			t.Fatalf("ListWarehouses() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != 2 {
			t.Fatalf("ListWarehouses() = %+v, want cached value", got)
		}
	})

	t.Run("cache error falls through to the store", func(t *testing.T) {
		f := newFields(t)
		want := []model.WarehouseEntity{{ID: 1, Name: "Main"}}

		f.redisRepo.On("Get", mock.Anything, redisrepo.KeyWarehouses).Return("", errors.New("redis down")).Once()
		f.warehouseRepo.On("List", mock.Anything).Return(want, nil).Once()
		f.redisRepo.On("SetWithTTL", mock.Anything, redisrepo.KeyWarehouses, mock.Anything, 5*time.Minute).Return(nil).Once()

		got, err := newApp(f).ListWarehouses(context.Background())
		if err != nil {
			t.Fatalf("ListWarehouses() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("ListWarehouses() = %+v, want store value", got)
		}
	})
}

func TestCatalogApp_GetProduct(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFields(t)
		f.productRepo.On("GetByID", mock.Anything, int64(3)).Return(&model.ProductEntity{ID: 3, Name: "Bolt"}, nil).Once()

		p, err := newApp(f).GetProduct(context.Background(), 3)
		if err != nil {
			t.Fatalf("GetProduct() error = %v", err)
		}
		if p.Name != "Bolt" {
			t.Fatalf("GetProduct() = %+v, want Bolt", p)
		}
	})

	t.Run("missing id propagates not found", func(t *testing.T) {
		f := newFields(t)
		notFoundErr := cerr.SetCustomError(constant.ErrNotFound)
		f.productRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, notFoundErr).Once()

		_, err := newApp(f).GetProduct(context.Background(), 404)
		if err == nil {
			t.Fatal("GetProduct() expected error")
		}
		assertErrCode(t, err, constant.ErrNotFound)
	})
}

func TestCatalogApp_ResolveWarehouseID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFields(t)
		f.warehouseRepo.On("GetIDByName", mock.Anything, "Main").Return(int64(3), nil).Once()

		id, err := newApp(f).ResolveWarehouseID(context.Background(), "Main")
		if err != nil {
			t.Fatalf("ResolveWarehouseID() error = %v", err)
		}
		if id != 3 {
			t.Fatalf("ResolveWarehouseID() = %d, want 3", id)
		}
	})

	t.Run("unknown name propagates not found", func(t *testing.T) {
		f := newFields(t)
		notFoundErr := cerr.SetCustomError(constant.ErrNotFound)
		f.warehouseRepo.On("GetIDByName", mock.Anything, "Ghost").Return(int64(0), notFoundErr).Once()

		_, err := newApp(f).ResolveWarehouseID(context.Background(), "Ghost")
		if err == nil {
			t.Fatal("ResolveWarehouseID() expected error")
		}
		assertErrCode(t, err, constant.ErrNotFound)
	})

	t.Run("store error surfaces as internal", func(t *testing.T) {
		f := newFields(t)
		f.warehouseRepo.On("GetIDByName", mock.Anything, "Main").Return(int64(0), errors.New("db error")).Once()

		_, err := newApp(f).ResolveWarehouseID(context.Background(), "Main")
		if err == nil {
			t.Fatal("ResolveWarehouseID() expected error")
		}
		assertErrCode(t, err, constant.ErrInternal)
	})
}

func TestCatalogApp_ListStock(t *testing.T) {
	t.Run("cache miss reads the store", func(t *testing.T) {
		f := newFields(t)
		want := []model.StockListItem{{WarehouseID: 1, ProductID: 3, ProductName: "Bolt", Amount: 40, Price: 0.2}}

		f.redisRepo.On("Get", mock.Anything, redisrepo.KeyStock(1)).Return("", nil).Once()
		f.stockRepo.On("ListByWarehouse", mock.Anything, int64(1)).Return(want, nil).Once()
		f.redisRepo.On("SetWithTTL", mock.Anything, redisrepo.KeyStock(1), mock.Anything, 5*time.Minute).Return(nil).Once()

		got, err := newApp(f).ListStock(context.Background(), 1)
		if err != nil {
			t.Fatalf("ListStock() error = %v", err)
		}
		if len(got) != 1 || got[0].ProductName != "Bolt" {
			t.Fatalf("ListStock() = %+v, want %+v", got, want)
		}
	})

	t.Run("store error surfaces as internal", func(t *testing.T) {
		f := newFields(t)
		f.redisRepo.On("Get", mock.Anything, redisrepo.KeyStock(1)).Return("", nil).Once()
		f.stockRepo.On("ListByWarehouse", mock.Anything, int64(1)).Return(nil, errors.New("db error")).Once()

		_, err := newApp(f).ListStock(context.Background(), 1)
		if err == nil {
			t.Fatal("ListStock() expected error")
		}
		assertErrCode(t, err, constant.ErrInternal)
	})
}

func TestCatalogApp_DeleteWarehouse(t *testing.T) {
	t.Run("success drops the catalog caches", func(t *testing.T) {
		f := newFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("CommitTx", tx).Return(nil).Once()
		f.warehouseRepo.On("DeleteTx", mock.Anything, tx, int64(4)).Return(nil).Once()
		f.redisRepo.On("Delete", mock.Anything, redisrepo.KeyWarehouses, redisrepo.KeyStock(4)).Return(nil).Once()

		if err := newApp(f).DeleteWarehouse(context.Background(), 4); err != nil {
			t.Fatalf("DeleteWarehouse() error = %v", err)
		}
	})

	t.Run("referenced warehouse is refused", func(t *testing.T) {
		f := newFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("RollbackTx", tx).Return(nil).Once()

		referencedErr := cerr.SetCustomError(constant.ErrReferenced)
		f.warehouseRepo.On("DeleteTx", mock.Anything, tx, int64(4)).Return(referencedErr).Once()

		err := newApp(f).DeleteWarehouse(context.Background(), 4)
		if err == nil {
			t.Fatal("DeleteWarehouse() expected error")
		}
		assertErrCode(t, err, constant.ErrReferenced)
	})
}

func TestCatalogApp_NextIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		entity   constant.Entity
		mockCall func(f fields)
		want     int64
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name:   "warehouse",
			entity: constant.EntityWarehouse,
			mockCall: func(f fields) {
				f.warehouseRepo.On("NextID", mock.Anything).Return(int64(5), nil).Once()
			},
			want: 5,
		},
		{
			name:   "product",
			entity: constant.EntityProduct,
			mockCall: func(f fields) {
				f.productRepo.On("NextID", mock.Anything).Return(int64(12), nil).Once()
			},
			want: 12,
		},
		{
			name:   "client",
			entity: constant.EntityClient,
			mockCall: func(f fields) {
				f.clientRepo.On("NextID", mock.Anything).Return(int64(2), nil).Once()
			},
			want: 2,
		},
		{
			name:    "unknown entity",
			entity:  constant.Entity("carrier"),
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			got, err := newApp(f).NextIdentifier(context.Background(), tt.entity)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NextIdentifier() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if got != tt.want {
				t.Fatalf("NextIdentifier() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCatalogApp_RenumberIdentifiers(t *testing.T) {
	t.Run("warehouses renumber inside one transaction", func(t *testing.T) {
		f := newFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("CommitTx", tx).Return(nil).Once()
		f.warehouseRepo.On("RenumberTx", mock.Anything, tx).Return(nil).Once()
		f.redisRepo.On("Delete", mock.Anything, redisrepo.KeyWarehouses).Return(nil).Once()

		if err := newApp(f).RenumberIdentifiers(context.Background(), constant.EntityWarehouse); err != nil {
			t.Fatalf("RenumberIdentifiers() error = %v", err)
		}
	})

	t.Run("failure rolls back", func(t *testing.T) {
		f := newFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("RollbackTx", tx).Return(nil).Once()
		f.clientRepo.On("RenumberTx", mock.Anything, tx).Return(errors.New("db error")).Once()

		err := newApp(f).RenumberIdentifiers(context.Background(), constant.EntityClient)
		if err == nil {
			t.Fatal("RenumberIdentifiers() expected error")
		}
		assertErrCode(t, err, constant.ErrInternal)
	})

	t.Run("products are never renumbered", func(t *testing.T) {
		f := newFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("RollbackTx", tx).Return(nil).Once()

		err := newApp(f).RenumberIdentifiers(context.Background(), constant.EntityProduct)
		if err == nil {
			t.Fatal("RenumberIdentifiers() expected error")
		}
		assertErrCode(t, err, constant.ErrInvalidRequest)
	})
}
