package model

// WarehouseEntity represents the warehouses table entity
type WarehouseEntity struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Address        string `db:"address" json:"address"`
	GeoText        string `db:"geo_text" json:"geo_text,omitempty"`
	GeoCoordinates string `db:"geo_coordinates" json:"geo_coordinates,omitempty"`
}

// WarehouseRequest for creating or updating a warehouse
type WarehouseRequest struct {
	Name           string `json:"name" validate:"required"`
	Address        string `json:"address" validate:"required"`
	GeoText        string `json:"geo_text"`
	GeoCoordinates string `json:"geo_coordinates"`
}

type TransferRequest struct {
	FromWarehouseID int64 `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   int64 `json:"to_warehouse_id" validate:"required"`
	ProductID       int64 `json:"product_id" validate:"required"`
	Quantity        int64 `json:"quantity" validate:"required,gt=0"`
}
