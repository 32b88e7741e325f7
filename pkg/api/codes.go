package api

// 機器可讀錯誤碼
// handler層根據service錯誤轉換
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodePriceMismatch     = "PRICE_MISMATCH"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidCoupon     = "INVALID_COUPON"
	CodeOrderNotPayable   = "ORDER_NOT_PAYABLE"
	CodeInvalidSignature  = "INVALID_SIGNATURE"
	CodeInternal          = "INTERNAL_ERROR"
)
