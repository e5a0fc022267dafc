package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mart-backend/internal/handlers"
	"mart-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	martHandler *handlers.MartHandler,
	productHandler *handlers.ProductHandler,
	invoiceHandler *handlers.InvoiceHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/products", productHandler.ListProducts).Methods("GET")

	api.HandleFunc("/marts", martHandler.ListMarts).Methods("GET")
	api.HandleFunc("/marts", martHandler.CreateMart).Methods("POST")
	api.HandleFunc("/marts/export", martHandler.Export).Methods("GET")
	api.HandleFunc("/marts/{id}", martHandler.GetMart).Methods("GET")
	api.HandleFunc("/marts/{id}", martHandler.UpdateMart).Methods("PUT")
	api.Handle("/marts/{id}",
		authMiddleware.RequireRole("admin")(http.HandlerFunc(martHandler.DeleteMart))).Methods("DELETE")

	api.HandleFunc("/marts/{id}/refills", martHandler.RecordRefill).Methods("POST")
	api.HandleFunc("/marts/{id}/sales", martHandler.RecordSale).Methods("POST")
	api.HandleFunc("/marts/{id}/sales/{sale_id}/payment", martHandler.UpdateSalePayment).Methods("PUT")
	api.HandleFunc("/marts/{id}/sales/{sale_id}/invoice", invoiceHandler.DownloadSaleInvoice).Methods("GET")
	api.HandleFunc("/marts/{id}/summary", martHandler.GetSummary).Methods("GET")

	return r
}
