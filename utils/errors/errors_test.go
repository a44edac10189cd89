package errors_test

import (
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/mkravchenko/warehouse-manager/constant"
	cerr "github.com/mkravchenko/warehouse-manager/utils/errors"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want constant.ErrorType
	}{
		{
			name: "duplicate key",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			want: constant.ErrConstraintViolation,
		},
		{
			name: "parent row still referenced",
			err:  &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"},
			want: constant.ErrConstraintViolation,
		},
		{
			name: "missing parent row",
			err:  &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"},
			want: constant.ErrConstraintViolation,
		},
		{
			name: "wrapped foreign key rejection",
			err:  fmt.Errorf("insert stock: %w", &mysql.MySQLError{Number: 1452}),
			want: constant.ErrConstraintViolation,
		},
		{
			name: "lock wait timeout stays internal",
			err:  &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"},
			want: constant.ErrInternal,
		},
		{
			name: "bad connection",
			err:  driver.ErrBadConn,
			want: constant.ErrConnectionFailure,
		},
		{
			name: "invalid connection",
			err:  mysql.ErrInvalidConn,
			want: constant.ErrConnectionFailure,
		},
		{
			name: "dial failure",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: stderrors.New("connection refused")},
			want: constant.ErrConnectionFailure,
		},
		{
			name: "plain error stays internal",
			err:  stderrors.New("db error"),
			want: constant.ErrInternal,
		},
		{
			name: "custom error passes through",
			err:  cerr.SetCustomError(constant.ErrNotFound),
			want: constant.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cerr.FromStore(tt.err)
			if got.ErrorCode() != constant.ErrorTypeCode[tt.want] {
				t.Fatalf("FromStore() code = %s, want %s", got.ErrorCode(), constant.ErrorTypeCode[tt.want])
			}
		})
	}
}
