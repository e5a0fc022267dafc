package ledger

import "mart-backend/internal/models"

// Summary is the derived view of a mart's ledger: current stock, lifetime
// movement per product and the outstanding payment position.
type Summary struct {
	MartID        int            `json:"mart_id"`
	Stock         map[string]int `json:"stock"`
	TotalRefilled map[string]int `json:"total_refilled"`
	TotalSold     map[string]int `json:"total_sold"`
	RefillCount   int            `json:"refill_count"`
	SaleCount     int            `json:"sale_count"`
	TotalBilled   float64        `json:"total_billed"`
	TotalReceived float64        `json:"total_received"`
	Outstanding   float64        `json:"outstanding"`
	PendingSales  int            `json:"pending_sales"` // sales not yet marked PAID
}

// Summarize computes the derived view from the mart record alone.
func Summarize(mart *models.Mart) *Summary {
	s := &Summary{
		MartID:        mart.ID,
		Stock:         copyStock(mart.Stock),
		TotalRefilled: TotalRefilled(mart),
		TotalSold:     TotalSold(mart),
		RefillCount:   len(mart.Refills),
		SaleCount:     len(mart.Sales),
	}

	for _, sale := range mart.Sales {
		s.TotalBilled += sale.TotalAmount
		s.TotalReceived += sale.AmountReceived
		if sale.Status != models.PaymentStatusPaid {
			s.PendingSales++
		}
	}
	s.Outstanding = s.TotalBilled - s.TotalReceived

	return s
}

// TotalRefilled sums refill quantities per product key over the whole ledger.
func TotalRefilled(mart *models.Mart) map[string]int {
	totals := make(map[string]int)
	for _, refill := range mart.Refills {
		for key, qty := range refill.Quantities {
			totals[key] += qty
		}
	}
	return totals
}

// TotalSold sums sale quantities per product key over the whole ledger.
func TotalSold(mart *models.Mart) map[string]int {
	totals := make(map[string]int)
	for _, sale := range mart.Sales {
		for key, qty := range sale.Quantities {
			totals[key] += qty
		}
	}
	return totals
}

// RebuildStock recomputes the stock snapshot from the ledgers:
// sum(refills) - sum(sales), clipped at zero per product key. The persisted
// snapshot must always match this value.
func RebuildStock(mart *models.Mart) map[string]int {
	stock := make(map[string]int)
	for key, qty := range TotalRefilled(mart) {
		stock[key] = qty
	}
	for key, qty := range TotalSold(mart) {
		remaining := stock[key] - qty
		if remaining < 0 {
			remaining = 0
		}
		stock[key] = remaining
	}
	return stock
}

// Shortfall reports, per product key, how many requested units exceed the
// on-hand stock. An empty map means the sale is fully covered.
func Shortfall(stock map[string]int, quantities map[string]int) map[string]int {
	deficit := make(map[string]int)
	for key, qty := range quantities {
		if qty > stock[key] {
			deficit[key] = qty - stock[key]
		}
	}
	return deficit
}

func copyStock(stock map[string]int) map[string]int {
	c := make(map[string]int, len(stock))
	for k, v := range stock {
		c[k] = v
	}
	return c
}
