package main

import (
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	catalogapp "github.com/mkravchenko/warehouse-manager/application/catalog"
	inventoryapp "github.com/mkravchenko/warehouse-manager/application/inventory"
	ledgerapp "github.com/mkravchenko/warehouse-manager/application/ledger"
	sessionapp "github.com/mkravchenko/warehouse-manager/application/session"
	"github.com/mkravchenko/warehouse-manager/cmd/config"
	redisclient "github.com/mkravchenko/warehouse-manager/cmd/redis"
	clientRepo "github.com/mkravchenko/warehouse-manager/repository/client"
	orderRepo "github.com/mkravchenko/warehouse-manager/repository/order"
	productRepo "github.com/mkravchenko/warehouse-manager/repository/product"
	redisRepo "github.com/mkravchenko/warehouse-manager/repository/redis"
	stockRepo "github.com/mkravchenko/warehouse-manager/repository/stock"
	txRepo "github.com/mkravchenko/warehouse-manager/repository/tx"
	warehouseRepo "github.com/mkravchenko/warehouse-manager/repository/warehouse"
	"github.com/mkravchenko/warehouse-manager/thirdparty/rabbitmq"
	"github.com/mkravchenko/warehouse-manager/transport"
	"github.com/mkravchenko/warehouse-manager/utils/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Initialize Redis client; the core degrades to uncached reads without it
	if err := redisclient.New(cfg); err != nil {
		logger.Warn("err connect redis, caching disabled", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Movement event publisher is optional as well
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Warn("err connect rabbitmq, movement events disabled", zap.Error(err))
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Initialize repositories
	TxRepo := txRepo.NewTxRepository(db)
	StockRepo := stockRepo.NewStockRepository(db)
	OrderRepo := orderRepo.NewOrderRepository(db)
	WarehouseRepo := warehouseRepo.NewWarehouseRepository(db)
	ProductRepo := productRepo.NewProductRepository(db)
	ClientRepo := clientRepo.NewClientRepository(db)
	RedisRepo := redisRepo.NewRepository()

	// Initialize application layers
	InventoryApp := inventoryapp.NewInventoryApp(TxRepo, StockRepo, OrderRepo, RedisRepo, publisher)
	Committer := ledgerapp.NewCommitter(TxRepo, InventoryApp)
	CatalogApp := catalogapp.NewCatalogApp(cfg, TxRepo, WarehouseRepo, ProductRepo, ClientRepo, StockRepo, OrderRepo, RedisRepo)
	SessionApp := sessionapp.NewSessionApp(cfg, sessionapp.NewDBVerifier(cfg), RedisRepo)

	httpTransport := transport.NewTransport(SessionApp, InventoryApp, CatalogApp, Committer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
