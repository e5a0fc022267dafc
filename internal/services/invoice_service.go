package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf/v2"

	"mart-backend/internal/ledger"
	"mart-backend/internal/models"
	"mart-backend/internal/timeutil"
)

// InvoiceService renders sale invoices as PDF. Line amounts come from the
// sale's stored total, priced at sale time; current catalog prices are shown
// for reference only and never rewrite the billed figure.
type InvoiceService struct {
	Catalog ledger.Catalog
}

func NewInvoiceService(catalog ledger.Catalog) *InvoiceService {
	return &InvoiceService{Catalog: catalog}
}

// GenerateSaleInvoice produces the invoice PDF for one sale entry.
func (s *InvoiceService) GenerateSaleInvoice(mart *models.Mart, sale *models.SalesEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Mart Sale Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Mart section
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Mart", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", mart.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Mobile: %s", mart.Mobile), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Sector: %s", mart.Sector), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Sale Date: %s", timeutil.FormatIST(sale.Date, timeutil.DateLayout)), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line items
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(40, 7, "Code", "1", 0, "C", true, 0, "")
	pdf.CellFormat(80, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Size", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Units", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, key := range sortedKeys(sale.Quantities) {
		qty := sale.Quantities[key]
		if qty <= 0 {
			continue
		}
		name, size := key, ""
		if product, ok := s.Catalog.Resolve(key); ok {
			name, size = product.Name, product.SizeLabel
		}
		pdf.CellFormat(40, 6, key, "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, size, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", qty), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Payment section
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Payment", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Total: Rs. %.2f", sale.TotalAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Received: Rs. %.2f", sale.AmountReceived), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Status: %s", sale.Status), "1", 1, "C", false, 0, "")

	balance := sale.TotalAmount - sale.AmountReceived
	if balance > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Balance Due: Rs. %.2f", balance), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedKeys(quantities map[string]int) []string {
	keys := make([]string, 0, len(quantities))
	for key := range quantities {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
