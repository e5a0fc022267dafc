package ledger

import (
	"fmt"

	"mart-backend/internal/models"
)

// Engine applies refill and sale transactions to a mart. All operations are
// pure: they take the current mart, return a new mart, and never touch
// storage. Persisting the result is the caller's job.
type Engine struct {
	catalog     Catalog
	strictStock bool
}

// NewEngine creates an engine over the given catalog. With strictStock set,
// ApplySale refuses to sell more than is on hand; otherwise the deficit is
// absorbed and stock floors at zero, which is the historical behavior.
func NewEngine(catalog Catalog, strictStock bool) *Engine {
	return &Engine{catalog: catalog, strictStock: strictStock}
}

// ApplyRefill increases the stock snapshot by the refill quantities and
// appends the entry to the refill ledger. Keys absent from the refill are
// unchanged; stock never decreases here.
func (e *Engine) ApplyRefill(mart *models.Mart, refill models.RefillEntry) (*models.Mart, error) {
	if err := validateQuantities(refill.Quantities); err != nil {
		return nil, err
	}

	next := mart.Clone()
	for key, qty := range refill.Quantities {
		next.Stock[key] += qty
	}
	next.Refills = append(next.Refills, refill)

	return next, nil
}

// ApplySale decreases the stock snapshot by the sale quantities and appends
// the entry to the sales ledger. The sale's TotalAmount must already be
// computed; ApplySale never recomputes it.
//
// Default policy: a sale larger than the on-hand stock is still recorded and
// the per-key stock floors at zero. In strict mode the same sale is rejected
// with ErrInsufficientStock and no state is derived.
func (e *Engine) ApplySale(mart *models.Mart, sale models.SalesEntry) (*models.Mart, error) {
	if err := validateQuantities(sale.Quantities); err != nil {
		return nil, err
	}

	if e.strictStock {
		for key, qty := range sale.Quantities {
			if qty > mart.Stock[key] {
				return nil, fmt.Errorf("%w: %s has %d units, sale needs %d",
					ErrInsufficientStock, key, mart.Stock[key], qty)
			}
		}
	}

	next := mart.Clone()
	for key, qty := range sale.Quantities {
		remaining := next.Stock[key] - qty
		if remaining < 0 {
			remaining = 0
		}
		next.Stock[key] = remaining
	}
	next.Sales = append(next.Sales, sale)

	return next, nil
}

// ResolveUnitPrice returns the effective unit price for a product at this
// mart: the mart's override if one is set, else the catalog default. ok=false
// means the price is unresolvable; callers must not treat that as zero.
func (e *Engine) ResolveUnitPrice(mart *models.Mart, key string) (float64, bool) {
	if price, ok := mart.PriceOverrides[key]; ok {
		return price, true
	}
	if product, ok := e.catalog.Resolve(key); ok {
		return product.DefaultUnitPrice, true
	}
	return 0, false
}

// ComputeSaleTotal prices the sale lines with ResolveUnitPrice and sums them.
// Lines with quantity <= 0 or an unresolvable price are skipped; the skipped
// keys are returned so the caller can warn the operator. The result is stored
// on the sale at creation time and never recomputed, so later catalog or
// override changes do not rewrite history.
func (e *Engine) ComputeSaleTotal(mart *models.Mart, quantities map[string]int) (float64, []string) {
	var total float64
	var unresolved []string

	for key, qty := range quantities {
		if qty <= 0 {
			continue
		}
		price, ok := e.ResolveUnitPrice(mart, key)
		if !ok {
			unresolved = append(unresolved, key)
			continue
		}
		total += float64(qty) * price
	}

	return total, unresolved
}

// ReconcilePayment returns a copy of the sale with the payment status and
// amount received replaced. It never touches stock, quantities or the total.
// Any status may follow any other status; operators correct records by hand.
// AmountReceived above TotalAmount is deliberately not rejected.
func (e *Engine) ReconcilePayment(sale models.SalesEntry, status models.PaymentStatus, amountReceived float64) (models.SalesEntry, error) {
	if !status.Valid() {
		return models.SalesEntry{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if amountReceived < 0 {
		return models.SalesEntry{}, ErrNegativeAmount
	}

	next := sale
	next.Status = status
	next.AmountReceived = amountReceived
	return next, nil
}

func validateQuantities(quantities map[string]int) error {
	for key, qty := range quantities {
		if qty < 0 {
			return fmt.Errorf("%w: %s = %d", ErrInvalidQuantity, key, qty)
		}
	}
	return nil
}
