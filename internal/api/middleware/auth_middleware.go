package middleware

import (
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
)

// AuthPayloadMiddleware 解析bearer token, 有效時把用戶放進context
// 不擋未登入請求, 由AuthMiddleware在需要登入的路由上把關
func AuthPayloadMiddleware(userService service.IUserService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			fields := strings.Fields(header)
			if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.Authenticate(r.Context(), fields[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(util.SetAuthUser(r.Context(), user)))
		})
	}
}

// AuthMiddleware 驗證ctx是否有登入用戶
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.GetAuthUserFromContext(r.Context()) == nil {
			api.ErrorJSON(w, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware 管理端路由需要admin用戶
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := util.GetAuthUserFromContext(r.Context())
		if user == nil {
			api.ErrorJSON(w, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required", nil)
			return
		}
		if !user.IsAdmin {
			api.ErrorJSON(w, http.StatusForbidden, api.CodeForbidden, "admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
