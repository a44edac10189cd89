package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrInsufficientStock
	ErrInvalidOrderStatus
	ErrConnectionFailure
	ErrConstraintViolation
	ErrReferenced
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:             "success",
	ErrInternal:            "error internal",
	ErrNotFound:            "data not found",
	ErrInvalidRequest:      "invalid request",
	ErrUnauthorize:         "unauthorize request",
	ErrInsufficientStock:   "insufficient stock in warehouse",
	ErrInvalidOrderStatus:  "order is not in progress",
	ErrConnectionFailure:   "cannot reach database",
	ErrConstraintViolation: "store rejected the change",
	ErrReferenced:          "row is still referenced",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:             http.StatusOK,
	ErrInternal:            http.StatusInternalServerError,
	ErrNotFound:            http.StatusBadRequest,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrUnauthorize:         http.StatusUnauthorized,
	ErrInsufficientStock:   http.StatusConflict,
	ErrInvalidOrderStatus:  http.StatusConflict,
	ErrConnectionFailure:   http.StatusServiceUnavailable,
	ErrConstraintViolation: http.StatusConflict,
	ErrReferenced:          http.StatusConflict,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:             "0000",
	ErrInternal:            "0001",
	ErrNotFound:            "0002",
	ErrInvalidRequest:      "0003",
	ErrUnauthorize:         "0004",
	ErrInsufficientStock:   "0005",
	ErrInvalidOrderStatus:  "0006",
	ErrConnectionFailure:   "0007",
	ErrConstraintViolation: "0008",
	ErrReferenced:          "0009",
}
