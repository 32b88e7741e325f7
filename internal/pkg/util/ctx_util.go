package util

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

// GetAuthUserFromContext 取出auth middleware放進去的用戶
// 未登入時回傳nil
func GetAuthUserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(constants.AuthUserKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

func SetAuthUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, constants.AuthUserKey, user)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(constants.RequestIDKey).(string)
	if !ok {
		return "unknown"
	}
	return requestID
}
