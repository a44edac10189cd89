package model

import (
	"time"

	"github.com/mkravchenko/warehouse-manager/constant"
)

// OrderEntity represents the orders table entity
type OrderEntity struct {
	ID       int64                `db:"id" json:"id"`
	ClientID int64                `db:"client_id" json:"client_id"`
	Price    float64              `db:"price" json:"price"`
	Date     time.Time            `db:"date" json:"date"`
	Status   constant.OrderStatus `db:"status" json:"status"`
}

// OrderListItem is an order joined with its client name
type OrderListItem struct {
	ID         int64                `db:"id" json:"id"`
	ClientName string               `db:"client_name" json:"client_name"`
	Price      float64              `db:"price" json:"price"`
	Date       time.Time            `db:"date" json:"date"`
	Status     constant.OrderStatus `db:"status" json:"status"`
}

// OrderLine is one product's allocation within an order, tied to the
// warehouse it was fulfilled from.
type OrderLine struct {
	OrderID     int64   `db:"order_id" json:"order_id"`
	ProductID   int64   `db:"product_id" json:"product_id"`
	WarehouseID int64   `db:"warehouse_id" json:"warehouse_id"`
	Amount      int64   `db:"amount" json:"amount"`
	Price       float64 `db:"price" json:"price"`
}

// OrderLineItem is an order line joined with its product name
type OrderLineItem struct {
	OrderID     int64   `db:"order_id" json:"order_id"`
	ProductID   int64   `db:"product_id" json:"product_id"`
	WarehouseID int64   `db:"warehouse_id" json:"warehouse_id"`
	ProductName string  `db:"product_name" json:"product_name"`
	Amount      int64   `db:"amount" json:"amount"`
	Price       float64 `db:"price" json:"price"`
}

type OrderItemRequest struct {
	ProductID   int64   `json:"product_id" validate:"required"`
	WarehouseID int64   `json:"warehouse_id" validate:"required"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type AddToOrderRequest struct {
	OrderID int64              `json:"order_id" validate:"required"`
	Items   []OrderItemRequest `json:"items" validate:"required,dive,required"`
}

type RemoveFromOrderRequest struct {
	OrderID     int64 `json:"order_id" validate:"required"`
	ProductID   int64 `json:"product_id" validate:"required"`
	WarehouseID int64 `json:"warehouse_id" validate:"required"`
}

type CreateOrderRequest struct {
	ClientID int64 `json:"client_id" validate:"required"`
}
