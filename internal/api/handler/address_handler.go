package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/go-chi/chi/v5"
)

type AddressHandler struct {
	addressService service.IAddressService
}

func NewAddressHandler(addressService service.IAddressService) *AddressHandler {
	if addressService == nil {
		panic("addressService cannot be nil")
	}
	return &AddressHandler{addressService: addressService}
}

func validateAddressDTO(upsert *dto.UpsertAddressDTO) map[string]string {
	details := map[string]string{}
	if upsert.Recipient == "" {
		details["recipient"] = "recipient is required"
	}
	if upsert.Line1 == "" {
		details["line1"] = "line1 is required"
	}
	if upsert.City == "" {
		details["city"] = "city is required"
	}
	if upsert.Country == "" {
		details["country"] = "country is required"
	}
	return details
}

// Create POST /addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	var upsert dto.UpsertAddressDTO
	if err := json.NewDecoder(r.Body).Decode(&upsert); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if details := validateAddressDTO(&upsert); len(details) > 0 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid address", details)
		return
	}

	address := &model.Address{
		UserID:     user.UserID,
		Recipient:  upsert.Recipient,
		Phone:      upsert.Phone,
		Line1:      upsert.Line1,
		Line2:      upsert.Line2,
		City:       upsert.City,
		State:      upsert.State,
		PostalCode: upsert.PostalCode,
		Country:    upsert.Country,
		IsDefault:  upsert.IsDefault,
	}
	created, err := h.addressService.CreateAddress(r.Context(), address)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.CreatedJSON(w, dto.ConvertAddressToDTO(created))
}

// List GET /addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	addresses, err := h.addressService.ListAddresses(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]dto.AddressDTO, 0, len(addresses))
	for i := range addresses {
		items = append(items, dto.ConvertAddressToDTO(&addresses[i]))
	}
	api.SuccessJSON(w, items)
}

// Update PUT /addresses/{addressID}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	addressID, err := parseUintParam(chi.URLParam(r, "addressID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid address id", nil)
		return
	}

	var upsert dto.UpsertAddressDTO
	if err := json.NewDecoder(r.Body).Decode(&upsert); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if details := validateAddressDTO(&upsert); len(details) > 0 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid address", details)
		return
	}

	address, err := h.addressService.GetAddress(r.Context(), user.UserID, addressID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	address.Recipient = upsert.Recipient
	address.Phone = upsert.Phone
	address.Line1 = upsert.Line1
	address.Line2 = upsert.Line2
	address.City = upsert.City
	address.State = upsert.State
	address.PostalCode = upsert.PostalCode
	address.Country = upsert.Country
	address.IsDefault = upsert.IsDefault

	updated, err := h.addressService.UpdateAddress(r.Context(), address)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertAddressToDTO(updated))
}

// Delete DELETE /addresses/{addressID}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	addressID, err := parseUintParam(chi.URLParam(r, "addressID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid address id", nil)
		return
	}

	if err := h.addressService.DeleteAddress(r.Context(), user.UserID, addressID); err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, nil)
}
