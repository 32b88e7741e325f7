package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
)

// handleServiceError service錯誤到HTTP錯誤envelope的統一轉換
// 未知錯誤一律500加generic message, 細節只進log不出站
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, err.Error(), nil)
	case errors.Is(err, service.ErrPriceMismatch):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodePriceMismatch, "submitted price does not match current price", nil)
	case errors.Is(err, service.ErrInsufficientStock):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeInsufficientStock, "insufficient stock for one or more items", nil)
	case errors.Is(err, service.ErrCouponInvalid):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeInvalidCoupon, "coupon is invalid, expired or exhausted", nil)
	case errors.Is(err, service.ErrOrderNotPayable):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeOrderNotPayable, "order is not in a payable state", nil)
	case errors.Is(err, service.ErrOrderNotCancellable):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "order can no longer be cancelled", nil)
	case errors.Is(err, service.ErrInvalidStatusChange):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, err.Error(), nil)
	case errors.Is(err, service.ErrProductNotPublished):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "product is not available", nil)
	case errors.Is(err, service.ErrPaymentNotRefundable):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "payment is not refundable", nil)
	case errors.Is(err, service.ErrEmailTaken):
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "email already registered", nil)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionInvalid):
		api.ErrorJSON(w, http.StatusUnauthorized, api.CodeUnauthenticated, "invalid credentials", nil)
	case errors.Is(err, service.ErrNotOrderOwner):
		api.ErrorJSON(w, http.StatusForbidden, api.CodeForbidden, "access denied", nil)
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrUserNotFound):
		api.ErrorJSON(w, http.StatusNotFound, api.CodeNotFound, err.Error(), nil)
	default:
		api.ErrorJSON(w, http.StatusInternalServerError, api.CodeInternal, "internal server error", nil)
	}
}

// parsePaging query string分頁參數, 超界時落回預設值
func parsePaging(r *http.Request) (page, pageSize int) {
	page = constants.DefaultPaging
	pageSize = constants.DefaultPagingSize

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = v
	}
	if pageSize > constants.MaxPagingSize {
		pageSize = constants.MaxPagingSize
	}
	return page, pageSize
}

func parseUintParam(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
