package model

type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
	ChangeMove   ChangeKind = "move"
)

// StockKey identifies a single stock row.
type StockKey struct {
	WarehouseID int64 `json:"warehouse_id" validate:"required"`
	ProductID   int64 `json:"product_id" validate:"required"`
}

// MoveChange is a staged transfer of quantity between two warehouses.
type MoveChange struct {
	FromWarehouseID int64 `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   int64 `json:"to_warehouse_id" validate:"required"`
	ProductID       int64 `json:"product_id" validate:"required"`
	Quantity        int64 `json:"quantity" validate:"required,gt=0"`
}

// StagedChange is one record of user intent held by a session ledger until
// commit. Exactly one payload field matching Kind is set.
type StagedChange struct {
	Kind  ChangeKind  `json:"kind" validate:"required,oneof=insert update delete move"`
	Stock *StockRow   `json:"stock,omitempty"` // insert and update payload
	Key   *StockKey   `json:"key,omitempty"`   // delete key
	Move  *MoveChange `json:"move,omitempty"`
}

// CommitResult reports the outcome of replaying a ledger. On failure Applied
// holds the records that had been applied before everything was rolled back,
// and Failed points at the record that broke the transaction.
type CommitResult struct {
	Applied []StagedChange `json:"applied"`
	Failed  *StagedChange  `json:"failed,omitempty"`
}

type CommitRequest struct {
	Changes []StagedChange `json:"changes" validate:"required,dive,required"`
}
