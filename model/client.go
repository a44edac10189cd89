package model

// ClientEntity represents the clients table entity
type ClientEntity struct {
	ID          int64  `db:"id" json:"id"`
	FullName    string `db:"full_name" json:"full_name"`
	Info        string `db:"info" json:"info,omitempty"`
	PhoneNumber string `db:"phonenumber" json:"phonenumber"`
	Address     string `db:"address" json:"address"`
}

// ClientRequest for creating or updating a client
type ClientRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Info        string `json:"info"`
	PhoneNumber string `json:"phonenumber" validate:"required"`
	Address     string `json:"address"`
}
