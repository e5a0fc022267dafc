package handlers

import (
	"encoding/json"
	"net/http"

	"mart-backend/internal/cache"
	"mart-backend/internal/models"
	"mart-backend/internal/services"
	"mart-backend/pkg/utils"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func NewProductHandler(c *services.CatalogService) *ProductHandler {
	return &ProductHandler{Catalog: c}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if data, ok := cache.GetCachedProducts(ctx); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	products, err := h.Catalog.List(ctx)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.CacheProducts(ctx, data)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
