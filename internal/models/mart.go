package models

import "time"

// PaymentStatus represents the payment state of a sale
type PaymentStatus string

const (
	PaymentStatusPaid        PaymentStatus = "PAID"         // Full amount received
	PaymentStatusPartialPaid PaymentStatus = "PARTIAL_PAID" // Part of the amount received
	PaymentStatusPending     PaymentStatus = "PENDING"      // Nothing received yet
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPartialPaid, PaymentStatusPending:
		return true
	}
	return false
}

// RefillEntry records a stock delivery to a mart. Immutable once created;
// the refills list is append-only.
type RefillEntry struct {
	ID         int64          `json:"id"` // creation timestamp in ms, bumped on collision
	Date       time.Time      `json:"date"`
	Quantities map[string]int `json:"quantities"` // product key -> units, absent key means 0
}

// SalesEntry records units sold from a mart's stock. Quantities, TotalAmount
// and Date are immutable once created; Status and AmountReceived are updated
// during payment follow-up.
type SalesEntry struct {
	ID             int64          `json:"id"`
	Date           time.Time      `json:"date"`
	Quantities     map[string]int `json:"quantities"`
	TotalAmount    float64        `json:"total_amount"` // priced at sale time, never recomputed
	Status         PaymentStatus  `json:"status"`
	AmountReceived float64        `json:"amount_received"`
}

// Mart is a retail partner that stocks and resells product units. Stock and
// the two transaction logs are persisted as one document; every mutation
// writes the whole record back.
type Mart struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Mobile            string             `json:"mobile"`
	Sector            string             `json:"sector"`
	Address           string             `json:"address"`
	OnboardingDate    time.Time          `json:"onboarding_date"`
	CommissionPercent *float64           `json:"commission_percent,omitempty"` // 0-100
	Stock             map[string]int     `json:"stock"`                        // current on-hand units per product key
	PriceOverrides    map[string]float64 `json:"price_overrides"`              // mart price beats catalog default
	Refills           []RefillEntry      `json:"refills"`
	Sales             []SalesEntry       `json:"sales"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// Clone returns a deep copy of the mart. The ledger engine works on copies so
// a failed persistence call leaves the caller's record untouched.
func (m *Mart) Clone() *Mart {
	c := *m

	if m.CommissionPercent != nil {
		v := *m.CommissionPercent
		c.CommissionPercent = &v
	}

	c.Stock = make(map[string]int, len(m.Stock))
	for k, v := range m.Stock {
		c.Stock[k] = v
	}

	c.PriceOverrides = make(map[string]float64, len(m.PriceOverrides))
	for k, v := range m.PriceOverrides {
		c.PriceOverrides[k] = v
	}

	c.Refills = make([]RefillEntry, len(m.Refills))
	for i, r := range m.Refills {
		c.Refills[i] = r.clone()
	}

	c.Sales = make([]SalesEntry, len(m.Sales))
	for i, s := range m.Sales {
		c.Sales[i] = s.clone()
	}

	return &c
}

func (r RefillEntry) clone() RefillEntry {
	c := r
	c.Quantities = make(map[string]int, len(r.Quantities))
	for k, v := range r.Quantities {
		c.Quantities[k] = v
	}
	return c
}

func (s SalesEntry) clone() SalesEntry {
	c := s
	c.Quantities = make(map[string]int, len(s.Quantities))
	for k, v := range s.Quantities {
		c.Quantities[k] = v
	}
	return c
}

// CreateMartRequest represents the request body for onboarding a mart
type CreateMartRequest struct {
	Name              string             `json:"name"`
	Mobile            string             `json:"mobile"`
	Sector            string             `json:"sector"`
	Address           string             `json:"address"`
	OnboardingDate    string             `json:"onboarding_date"` // YYYY-MM-DD, defaults to today
	CommissionPercent *float64           `json:"commission_percent"`
	PriceOverrides    map[string]float64 `json:"price_overrides"`
}

// UpdateMartRequest represents the request body for editing mart identity
// fields and price overrides. Stock and ledgers are never edited directly.
type UpdateMartRequest struct {
	Name              string             `json:"name"`
	Mobile            string             `json:"mobile"`
	Sector            string             `json:"sector"`
	Address           string             `json:"address"`
	CommissionPercent *float64           `json:"commission_percent"`
	PriceOverrides    map[string]float64 `json:"price_overrides"`
}

// RecordRefillRequest represents the request body for recording a refill
type RecordRefillRequest struct {
	Date       string         `json:"date"` // YYYY-MM-DD, defaults to today
	Quantities map[string]int `json:"quantities"`
}

// RecordSaleRequest represents the request body for recording a sale.
// Status and AmountReceived are optional; a fresh sale defaults to PENDING/0.
type RecordSaleRequest struct {
	Date           string         `json:"date"`
	Quantities     map[string]int `json:"quantities"`
	Status         PaymentStatus  `json:"status"`
	AmountReceived float64        `json:"amount_received"`
}

// UpdateSalePaymentRequest represents the request body for payment follow-up
type UpdateSalePaymentRequest struct {
	Status         PaymentStatus `json:"status"`
	AmountReceived float64       `json:"amount_received"`
}
