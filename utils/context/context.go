package context

import (
	"context"

	"github.com/mkravchenko/warehouse-manager/constant"
)

func GetUsername(ctx context.Context) (string, bool) {
	v := ctx.Value(constant.UsernameKey)
	if v == nil {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
