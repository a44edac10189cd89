package errors

import (
	"database/sql/driver"
	stderrors "errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/mkravchenko/warehouse-manager/constant"
)

type CustomError struct {
	errType constant.ErrorType
}

func (c CustomError) Error() string {
	return constant.ErrorTypeMessage[c.errType]
}

func (c CustomError) ErrorCode() string {
	return constant.ErrorTypeCode[c.errType]
}

func (c CustomError) ErrorHTTPCode() int {
	return constant.ErrorTypeHTTPCode[c.errType]
}

func SetCustomError(errorType constant.ErrorType) CustomError {
	return CustomError{
		errType: errorType,
	}
}

// IsType reports whether err is a CustomError of the given type.
func IsType(err error, errorType constant.ErrorType) bool {
	var ce CustomError
	return stderrors.As(err, &ce) && ce.errType == errorType
}

// FromStore classifies a raw store error. Duplicate keys and foreign key
// rejections become ErrConstraintViolation, an unreachable or dropped
// connection becomes ErrConnectionFailure, everything else ErrInternal.
// CustomError values pass through unchanged.
func FromStore(err error) CustomError {
	var ce CustomError
	if stderrors.As(err, &ce) {
		return ce
	}

	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062, 1451, 1452:
			return SetCustomError(constant.ErrConstraintViolation)
		}
		return SetCustomError(constant.ErrInternal)
	}

	var netErr net.Error
	if stderrors.Is(err, driver.ErrBadConn) || stderrors.Is(err, mysql.ErrInvalidConn) || stderrors.As(err, &netErr) {
		return SetCustomError(constant.ErrConnectionFailure)
	}
	return SetCustomError(constant.ErrInternal)
}
