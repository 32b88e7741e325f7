package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
)

type CouponHandler struct {
	pricingService service.IPricingService
}

func NewCouponHandler(pricingService service.IPricingService) *CouponHandler {
	if pricingService == nil {
		panic("pricingService cannot be nil")
	}
	return &CouponHandler{pricingService: pricingService}
}

// Validate POST /coupons/validate
// 試算折扣給前端顯示用, 實際核銷在下單交易內
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var validateDTO dto.ValidateCouponDTO
	if err := json.NewDecoder(r.Body).Decode(&validateDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if validateDTO.Code == "" {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "code is required", nil)
		return
	}

	coupon, discount, err := h.pricingService.ValidateCoupon(r.Context(), validateDTO.Code, validateDTO.Subtotal)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.CouponResultDTO{
		Code:     coupon.Code,
		Type:     string(coupon.Type),
		Discount: discount,
	})
}
