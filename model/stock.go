package model

// StockRow is the per-(warehouse, product) quantity-on-hand record.
// Absence of a row means zero quantity.
type StockRow struct {
	WarehouseID int64   `db:"warehouse_id" json:"warehouse_id"`
	ProductID   int64   `db:"product_id" json:"product_id"`
	Amount      int64   `db:"amount" json:"amount"`
	Price       float64 `db:"price" json:"price"`
}

// StockListItem is a stock row joined with its product name for listings
type StockListItem struct {
	WarehouseID int64   `db:"warehouse_id" json:"warehouse_id"`
	ProductID   int64   `db:"product_id" json:"product_id"`
	ProductName string  `db:"product_name" json:"product_name"`
	Amount      int64   `db:"amount" json:"amount"`
	Price       float64 `db:"price" json:"price"`
}

type ReceiveRequest struct {
	WarehouseID int64   `json:"warehouse_id" validate:"required"`
	ProductID   int64   `json:"product_id" validate:"required"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type WriteOffRequest struct {
	WarehouseID int64 `json:"warehouse_id" validate:"required"`
	ProductID   int64 `json:"product_id" validate:"required"`
	Quantity    int64 `json:"quantity" validate:"required,gt=0"`
}
