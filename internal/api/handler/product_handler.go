package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalogService service.ICatalogService
}

func NewProductHandler(catalogService service.ICatalogService) *ProductHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	return &ProductHandler{catalogService: catalogService}
}

// List GET /products
// 只露出PUBLISHED商品, 支援category過濾與分頁
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)
	category := r.URL.Query().Get("category")

	products, total, err := h.catalogService.ListProducts(r.Context(), page, pageSize, category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]dto.ProductDTO, 0, len(products))
	for i := range products {
		items = append(items, dto.ConvertProductToDTO(&products[i]))
	}

	api.SuccessJSON(w, dto.PagedResponse[dto.ProductDTO]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get GET /products/{productID}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(chi.URLParam(r, "productID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid product id", nil)
		return
	}

	product, err := h.catalogService.GetPublishedProduct(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertProductToDTO(product))
}

// AdminCreate POST /admin/products
func (h *ProductHandler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}

	details := map[string]string{}
	if createDTO.SKU == "" {
		details["sku"] = "sku is required"
	}
	if createDTO.Name == "" {
		details["name"] = "name is required"
	}
	if createDTO.Price.IsNegative() {
		details["price"] = "price cannot be negative"
	}
	if len(details) > 0 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid product", details)
		return
	}

	trackInventory := true
	if createDTO.TrackInventory != nil {
		trackInventory = *createDTO.TrackInventory
	}
	status := model.ProductStatusDraft
	if createDTO.Status != "" {
		status = model.ProductStatus(createDTO.Status)
	}

	product := &model.Product{
		SKU:             createDTO.SKU,
		Name:            createDTO.Name,
		Description:     createDTO.Description,
		Category:        createDTO.Category,
		Brand:           createDTO.Brand,
		Price:           createDTO.Price,
		ComparePrice:    createDTO.ComparePrice,
		TrackInventory:  trackInventory,
		AllowOutOfStock: createDTO.AllowOutOfStock,
		Status:          status,
	}
	for _, v := range createDTO.Variants {
		product.Variants = append(product.Variants, model.ProductVariant{
			SKU:   v.SKU,
			Name:  v.Name,
			Price: v.Price,
		})
	}

	created, err := h.catalogService.CreateProduct(r.Context(), product, createDTO.InitialStock)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.CreatedJSON(w, dto.ConvertProductToDTO(created))
}

// AdminUpdate PUT /admin/products/{productID}
// 部分更新, 只覆寫請求有帶的欄位
func (h *ProductHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(chi.URLParam(r, "productID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid product id", nil)
		return
	}

	var updateDTO dto.UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if updateDTO.Name != nil {
		product.Name = *updateDTO.Name
	}
	if updateDTO.Description != nil {
		product.Description = *updateDTO.Description
	}
	if updateDTO.Category != nil {
		product.Category = *updateDTO.Category
	}
	if updateDTO.Brand != nil {
		product.Brand = *updateDTO.Brand
	}
	if updateDTO.Price != nil {
		product.Price = *updateDTO.Price
	}
	if updateDTO.ComparePrice != nil {
		product.ComparePrice = updateDTO.ComparePrice
	}
	if updateDTO.TrackInventory != nil {
		product.TrackInventory = *updateDTO.TrackInventory
	}
	if updateDTO.AllowOutOfStock != nil {
		product.AllowOutOfStock = *updateDTO.AllowOutOfStock
	}
	if updateDTO.Status != nil {
		product.Status = model.ProductStatus(*updateDTO.Status)
	}

	updated, err := h.catalogService.UpdateProduct(r.Context(), product)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertProductToDTO(updated))
}

// AdminArchive DELETE /admin/products/{productID}
func (h *ProductHandler) AdminArchive(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(chi.URLParam(r, "productID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid product id", nil)
		return
	}

	if err := h.catalogService.ArchiveProduct(r.Context(), productID); err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, nil)
}

// AdminSetStock PUT /admin/products/{productID}/stock
func (h *ProductHandler) AdminSetStock(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(chi.URLParam(r, "productID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid product id", nil)
		return
	}

	var stockDTO dto.SetStockDTO
	if err := json.NewDecoder(r.Body).Decode(&stockDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if stockDTO.Quantity < 0 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "quantity cannot be negative", nil)
		return
	}

	if err := h.catalogService.SetStock(r.Context(), productID, stockDTO.VariantID, stockDTO.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	inv, err := h.catalogService.GetInventory(r.Context(), productID, stockDTO.VariantID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.InventoryDTO{
		ProductID:        inv.ProductID,
		VariantID:        inv.VariantID,
		Quantity:         inv.Quantity,
		ReservedQuantity: inv.ReservedQuantity,
		Available:        inv.Available(),
	})
}
