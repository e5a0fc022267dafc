package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mart-backend/internal/cache"
	"mart-backend/internal/ledger"
	"mart-backend/internal/models"
	"mart-backend/internal/services"
	"mart-backend/internal/timeutil"
	"mart-backend/pkg/utils"
)

type MartHandler struct {
	Service *services.MartService
}

func NewMartHandler(s *services.MartService) *MartHandler {
	return &MartHandler{Service: s}
}

func (h *MartHandler) ListMarts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if data, ok := cache.GetCachedMartList(ctx); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	marts, err := h.Service.ListMarts(ctx)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Ensure we return empty array instead of null
	if marts == nil {
		marts = []*models.Mart{}
	}

	data, err := json.Marshal(marts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.CacheMartList(ctx, data)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *MartHandler) CreateMart(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mart, err := h.Service.CreateMart(r.Context(), &req)
	if err != nil {
		writeMartError(w, err)
		return
	}

	cache.InvalidateMartCaches(r.Context(), mart.ID)
	utils.JSON(w, http.StatusCreated, mart)
}

func (h *MartHandler) GetMart(w http.ResponseWriter, r *http.Request) {
	id, err := martID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mart ID")
		return
	}

	mart, err := h.Service.GetMart(r.Context(), id)
	if err != nil {
		writeMartError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, mart)
}

func (h *MartHandler) UpdateMart(w http.ResponseWriter, r *http.Request) {
	id, err := martID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mart ID")
		return
	}

	var req models.UpdateMartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mart, err := h.Service.UpdateMart(r.Context(), id, &req)
	if err != nil {
		writeMartError(w, err)
		return
	}

	cache.InvalidateMartCaches(r.Context(), id)
	utils.JSON(w, http.StatusOK, mart)
}

func (h *MartHandler) DeleteMart(w http.ResponseWriter, r *http.Request) {
	id, err := martID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mart ID")
		return
	}

	if err := h.Service.DeleteMart(r.Context(), id); err != nil {
		writeMartError(w, err)
		return
	}

	cache.InvalidateMartCaches(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *MartHandler) RecordRefill(w http.ResponseWriter, r *http.Request) {
	id, err := martID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mart ID")
		return
	}

	var req models.RecordRefillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mart, err := h.Service.RecordRefill(r.Context(), id, &req)
	if err != nil {
		writeMartError(w, err)
		return
	}

	cache.InvalidateMartCaches(r.Context(), id)
	utils.JSON(w, http.StatusCreated, mart)
}

func (h *MartHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	id, err := martID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mart ID")
		return
	}

	var req models.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mart, unresolved, err := h.Service.RecordSale(r.Context(), id, &req)
	if err != nil {
		writeMartError(w, err)
		return
	}

	cache.InvalidateMartCaches(r.Context(), id)

	// Unpriced lines are excluded from the total; surface them so the
	// operator can fix the catalog or the override and not trust the figure
	// blindly.
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"mart":              mart,
		"unresolved_prices": unresolved,
	})
}

func (h *MartHandler) UpdateSalePayment(w http.ResponseWriter, r *http.Request) {
	id, err := martID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mart ID")
		return
	}
	saleID, err := strconv.ParseInt(mux.Vars(r)["sale_id"], 10, 64)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid sale ID")
		return
	}

	var req models.UpdateSalePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mart, err := h.Service.UpdateSalePayment(r.Context(), id, saleID, &req)
	if err != nil {
		writeMartError(w, err)
		return
	}

	cache.InvalidateMartCaches(r.Context(), id)
	utils.JSON(w, http.StatusOK, mart)
}

func (h *MartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, err := martID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mart ID")
		return
	}
	ctx := r.Context()

	if data, ok := cache.GetCachedMartSummary(ctx, id); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	summary, err := h.Service.Summary(ctx, id)
	if err != nil {
		writeMartError(w, err)
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.CacheMartSummary(ctx, id, data)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *MartHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Export(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("marts-%s.json", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}

func martID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func writeMartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMartNotFound), errors.Is(err, services.ErrSaleNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientStock):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidStatus),
		errors.Is(err, ledger.ErrNegativeAmount):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
