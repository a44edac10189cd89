package constant

type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusFinalized  OrderStatus = "finalized"
)
