package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mart-backend/internal/services"
	"mart-backend/pkg/utils"
)

type InvoiceHandler struct {
	Marts    *services.MartService
	Invoices *services.InvoiceService
}

func NewInvoiceHandler(marts *services.MartService, invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Marts: marts, Invoices: invoices}
}

// DownloadSaleInvoice renders the PDF for a single sale entry.
func (h *InvoiceHandler) DownloadSaleInvoice(w http.ResponseWriter, r *http.Request) {
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

	mart, sale, err := h.Marts.FindSale(r.Context(), id, saleID)
	if err != nil {
		writeMartError(w, err)
		return
	}

	pdf, err := h.Invoices.GenerateSaleInvoice(mart, sale)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d-%d.pdf", mart.ID, sale.ID))
	w.Write(pdf)
}
