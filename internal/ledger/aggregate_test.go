package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mart-backend/internal/models"
)

func TestRebuildStockMatchesSnapshot(t *testing.T) {
	e := NewEngine(testCatalog(), false)
	current := testMart()

	steps := []struct {
		refill map[string]int
		sale   map[string]int
	}{
		{refill: map[string]int{"gir500": 10, "honey350": 6}},
		{sale: map[string]int{"gir500": 4}},
		{sale: map[string]int{"gir500": 9, "honey350": 2}}, // oversell, absorbed
		{refill: map[string]int{"gir500": 5}},
		{sale: map[string]int{"honey350": 1}},
	}

	var err error
	for _, step := range steps {
		if step.refill != nil {
			current, err = e.ApplyRefill(current, models.RefillEntry{Quantities: step.refill})
			require.NoError(t, err)
		}
		if step.sale != nil {
			current, err = e.ApplySale(current, models.SalesEntry{Quantities: step.sale, Status: models.PaymentStatusPending})
			require.NoError(t, err)
		}
	}

	rebuilt := RebuildStock(current)
	for key, units := range current.Stock {
		assert.Equal(t, rebuilt[key], units, "snapshot diverged from ledger for %s", key)
	}
}

func TestSummarize(t *testing.T) {
	mart := testMart()
	mart.Stock = map[string]int{"gir500": 3}
	mart.Refills = []models.RefillEntry{
		{ID: 1, Quantities: map[string]int{"gir500": 10}},
		{ID: 2, Quantities: map[string]int{"gir500": 5, "honey350": 4}},
	}
	mart.Sales = []models.SalesEntry{
		{ID: 3, Quantities: map[string]int{"gir500": 12}, TotalAmount: 10800, Status: models.PaymentStatusPaid, AmountReceived: 10800},
		{ID: 4, Quantities: map[string]int{"honey350": 4}, TotalAmount: 1800, Status: models.PaymentStatusPartialPaid, AmountReceived: 1000},
	}

	s := Summarize(mart)

	assert.Equal(t, map[string]int{"gir500": 15, "honey350": 4}, s.TotalRefilled)
	assert.Equal(t, map[string]int{"gir500": 12, "honey350": 4}, s.TotalSold)
	assert.Equal(t, 2, s.RefillCount)
	assert.Equal(t, 2, s.SaleCount)
	assert.Equal(t, 12600.0, s.TotalBilled)
	assert.Equal(t, 11800.0, s.TotalReceived)
	assert.Equal(t, 800.0, s.Outstanding)
	assert.Equal(t, 1, s.PendingSales)

	// summary holds a copy, not the live snapshot
	s.Stock["gir500"] = 99
	assert.Equal(t, 3, mart.Stock["gir500"])
}

func TestShortfall(t *testing.T) {
	stock := map[string]int{"gir500": 10, "honey350": 2}

	assert.Empty(t, Shortfall(stock, map[string]int{"gir500": 10}))
	assert.Equal(t, map[string]int{"gir500": 5}, Shortfall(stock, map[string]int{"gir500": 15}))
	assert.Equal(t, map[string]int{"gir1000": 3}, Shortfall(stock, map[string]int{"gir1000": 3, "honey350": 1}))
}

func TestMartClone(t *testing.T) {
	mart := testMart()
	commission := 12.5
	mart.CommissionPercent = &commission
	mart.Stock["gir500"] = 5
	mart.PriceOverrides["gir500"] = 850
	mart.Refills = []models.RefillEntry{{ID: 1, Quantities: map[string]int{"gir500": 5}}}

	clone := mart.Clone()
	clone.Stock["gir500"] = 0
	clone.PriceOverrides["gir500"] = 700
	clone.Refills[0].Quantities["gir500"] = 99
	*clone.CommissionPercent = 50

	assert.Equal(t, 5, mart.Stock["gir500"])
	assert.Equal(t, 850.0, mart.PriceOverrides["gir500"])
	assert.Equal(t, 5, mart.Refills[0].Quantities["gir500"])
	assert.Equal(t, 12.5, *mart.CommissionPercent)
}
