package model

// ProductEntity represents the products table entity
type ProductEntity struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Article     string  `db:"article" json:"article"`
	Lifetime    int64   `db:"lifetime" json:"lifetime"`
	Description string  `db:"description" json:"description,omitempty"`
	Category    string  `db:"category" json:"category,omitempty"`
	Image       string  `db:"image" json:"image,omitempty"`
	Price       float64 `db:"price" json:"price"`
}

// ProductRequest for creating or updating a catalog product
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Article     string  `json:"article" validate:"required"`
	Lifetime    int64   `json:"lifetime" validate:"gte=0"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" validate:"gte=0"`
}
