package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mart-backend/internal/ledger"
	"mart-backend/internal/models"
	"mart-backend/internal/repositories"
)

// Mock MartGateway
type mockGateway struct {
	marts      map[int]*models.Mart
	nextID     int
	failGet    bool
	failUpdate bool
	failCreate bool
}

func newMockGateway() *mockGateway {
	return &mockGateway{marts: map[int]*models.Mart{}, nextID: 1}
}

var errGateway = errors.New("storage unavailable")

func (g *mockGateway) List(ctx context.Context) ([]*models.Mart, error) {
	var out []*models.Mart
	for _, m := range g.marts {
		out = append(out, m.Clone())
	}
	return out, nil
}

func (g *mockGateway) Get(ctx context.Context, id int) (*models.Mart, error) {
	if g.failGet {
		return nil, errGateway
	}
	m, ok := g.marts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return m.Clone(), nil
}

func (g *mockGateway) Create(ctx context.Context, mart *models.Mart) error {
	if g.failCreate {
		return errGateway
	}
	mart.ID = g.nextID
	g.nextID++
	g.marts[mart.ID] = mart.Clone()
	return nil
}

func (g *mockGateway) Update(ctx context.Context, mart *models.Mart) error {
	if g.failUpdate {
		return errGateway
	}
	if _, ok := g.marts[mart.ID]; !ok {
		return repositories.ErrNotFound
	}
	g.marts[mart.ID] = mart.Clone()
	return nil
}

func (g *mockGateway) Delete(ctx context.Context, id int) error {
	if _, ok := g.marts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(g.marts, id)
	return nil
}

func serviceCatalog() ledger.StaticCatalog {
	return ledger.StaticCatalog{
		"gir500":   {Key: "gir500", Name: "Gir Cow Ghee", SizeLabel: "500 ml", DefaultUnitPrice: 900},
		"honey350": {Key: "honey350", Name: "Raw Forest Honey", SizeLabel: "350 g", DefaultUnitPrice: 450},
	}
}

func newTestService(g *mockGateway) *MartService {
	return NewMartService(g, ledger.NewEngine(serviceCatalog(), false))
}

func onboardMart(t *testing.T, svc *MartService) *models.Mart {
	t.Helper()
	mart, err := svc.CreateMart(context.Background(), &models.CreateMartRequest{
		Name:   "Shree Kirana",
		Mobile: "9876543210",
		Sector: "Sector 12",
	})
	require.NoError(t, err)
	return mart
}

func TestCreateMart(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)

	mart := onboardMart(t, svc)

	assert.NotZero(t, mart.ID)
	assert.Empty(t, mart.Stock)
	assert.Empty(t, mart.Refills)
	assert.Empty(t, mart.Sales)
}

func TestCreateMart_Validation(t *testing.T) {
	svc := newTestService(newMockGateway())
	ctx := context.Background()

	_, err := svc.CreateMart(ctx, &models.CreateMartRequest{Mobile: "9876543210"})
	assert.Error(t, err)

	_, err = svc.CreateMart(ctx, &models.CreateMartRequest{Name: "X", Mobile: "12345"})
	assert.Error(t, err)

	bad := 130.0
	_, err = svc.CreateMart(ctx, &models.CreateMartRequest{Name: "X", Mobile: "9876543210", CommissionPercent: &bad})
	assert.Error(t, err)
}

func TestRecordRefill(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)

	next, err := svc.RecordRefill(context.Background(), mart.ID, &models.RecordRefillRequest{
		Quantities: map[string]int{"gir500": 10},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, next.Stock["gir500"])
	require.Len(t, next.Refills, 1)
	assert.NotZero(t, next.Refills[0].ID)

	stored, err := svc.GetMart(context.Background(), mart.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock["gir500"])
}

func TestRecordRefill_MartNotFound(t *testing.T) {
	svc := newTestService(newMockGateway())
	_, err := svc.RecordRefill(context.Background(), 404, &models.RecordRefillRequest{
		Quantities: map[string]int{"gir500": 1},
	})
	assert.ErrorIs(t, err, ErrMartNotFound)
}

// A storage outage on the read path must surface as the storage error, never
// as a missing mart.
func TestGetMart_StorageFailurePassthrough(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)

	gw.failGet = true
	_, err := svc.GetMart(context.Background(), mart.ID)
	assert.ErrorIs(t, err, errGateway)
	assert.NotErrorIs(t, err, ErrMartNotFound)

	_, err = svc.RecordRefill(context.Background(), mart.ID, &models.RecordRefillRequest{
		Quantities: map[string]int{"gir500": 1},
	})
	assert.ErrorIs(t, err, errGateway)
	assert.NotErrorIs(t, err, ErrMartNotFound)

	_, err = svc.Summary(context.Background(), mart.ID)
	assert.ErrorIs(t, err, errGateway)
	assert.NotErrorIs(t, err, ErrMartNotFound)
}

func TestDeleteMart_NotFound(t *testing.T) {
	svc := newTestService(newMockGateway())
	err := svc.DeleteMart(context.Background(), 404)
	assert.ErrorIs(t, err, ErrMartNotFound)
}

func TestRecordSale_OversellAbsorbed(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)

	_, err := svc.RecordRefill(context.Background(), mart.ID, &models.RecordRefillRequest{
		Quantities: map[string]int{"gir500": 10},
	})
	require.NoError(t, err)

	next, unresolved, err := svc.RecordSale(context.Background(), mart.ID, &models.RecordSaleRequest{
		Quantities: map[string]int{"gir500": 15},
	})
	require.NoError(t, err)
	assert.Empty(t, unresolved)

	assert.Equal(t, 0, next.Stock["gir500"])
	require.Len(t, next.Sales, 1)
	assert.Equal(t, 13500.0, next.Sales[0].TotalAmount)
	assert.Equal(t, models.PaymentStatusPending, next.Sales[0].Status)
	assert.Equal(t, 0.0, next.Sales[0].AmountReceived)
}

func TestRecordSale_UnresolvedPriceWarning(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)

	next, unresolved, err := svc.RecordSale(context.Background(), mart.ID, &models.RecordSaleRequest{
		Quantities: map[string]int{"gir500": 2, "nosuch": 3},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"nosuch"}, unresolved)
	assert.Equal(t, 1800.0, next.Sales[0].TotalAmount, "priced lines still total")
	assert.Len(t, next.Sales, 1, "sale recorded despite the warning")
}

func TestRecordSale_UsesOverridePrice(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)

	_, err := svc.UpdateMart(context.Background(), mart.ID, &models.UpdateMartRequest{
		Name:           mart.Name,
		Mobile:         mart.Mobile,
		Sector:         mart.Sector,
		PriceOverrides: map[string]float64{"gir500": 850},
	})
	require.NoError(t, err)

	next, _, err := svc.RecordSale(context.Background(), mart.ID, &models.RecordSaleRequest{
		Quantities: map[string]int{"gir500": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1700.0, next.Sales[0].TotalAmount)
}

func TestUpdateSalePayment(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)
	ctx := context.Background()

	_, err := svc.RecordRefill(ctx, mart.ID, &models.RecordRefillRequest{Quantities: map[string]int{"gir500": 20}})
	require.NoError(t, err)
	withSale, _, err := svc.RecordSale(ctx, mart.ID, &models.RecordSaleRequest{Quantities: map[string]int{"gir500": 15}})
	require.NoError(t, err)
	saleID := withSale.Sales[0].ID

	next, err := svc.UpdateSalePayment(ctx, mart.ID, saleID, &models.UpdateSalePaymentRequest{
		Status:         models.PaymentStatusPaid,
		AmountReceived: 13500,
	})
	require.NoError(t, err)

	require.Len(t, next.Sales, 1)
	assert.Equal(t, models.PaymentStatusPaid, next.Sales[0].Status)
	assert.Equal(t, 13500.0, next.Sales[0].AmountReceived)
	assert.Equal(t, 13500.0, next.Sales[0].TotalAmount)
	assert.Equal(t, map[string]int{"gir500": 15}, next.Sales[0].Quantities)
	assert.Equal(t, 5, next.Stock["gir500"], "payment reconciliation must not move stock")
}

func TestUpdateSalePayment_SaleNotFound(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)

	_, err := svc.UpdateSalePayment(context.Background(), mart.ID, 999, &models.UpdateSalePaymentRequest{
		Status: models.PaymentStatusPaid,
	})
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestGatewayFailureLeavesStateUnchanged(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)
	ctx := context.Background()

	_, err := svc.RecordRefill(ctx, mart.ID, &models.RecordRefillRequest{Quantities: map[string]int{"gir500": 10}})
	require.NoError(t, err)

	gw.failUpdate = true
	_, _, err = svc.RecordSale(ctx, mart.ID, &models.RecordSaleRequest{Quantities: map[string]int{"gir500": 5}})
	assert.ErrorIs(t, err, errGateway)

	gw.failUpdate = false
	stored, err := svc.GetMart(ctx, mart.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock["gir500"], "failed write must not change stock")
	assert.Empty(t, stored.Sales, "failed write must not append to the ledger")
}

// Two operators read the same record, both record a refill, and the second
// write silently replaces the first. The final stock reflects exactly one of
// the refills, never both: the documented last-write-wins contract.
func TestConcurrentRefills_LastWriteWins(t *testing.T) {
	gw := newMockGateway()
	engine := ledger.NewEngine(serviceCatalog(), false)
	svc := newTestService(gw)
	mart := onboardMart(t, svc)
	ctx := context.Background()

	_, err := svc.RecordRefill(ctx, mart.ID, &models.RecordRefillRequest{Quantities: map[string]int{"gir500": 5}})
	require.NoError(t, err)

	// both "tabs" read before either writes
	readA, err := gw.Get(ctx, mart.ID)
	require.NoError(t, err)
	readB, err := gw.Get(ctx, mart.ID)
	require.NoError(t, err)

	nextA, err := engine.ApplyRefill(readA, models.RefillEntry{ID: 1, Quantities: map[string]int{"gir500": 3}})
	require.NoError(t, err)
	nextB, err := engine.ApplyRefill(readB, models.RefillEntry{ID: 2, Quantities: map[string]int{"gir500": 2}})
	require.NoError(t, err)

	require.NoError(t, gw.Update(ctx, nextA))
	require.NoError(t, gw.Update(ctx, nextB))

	stored, err := gw.Get(ctx, mart.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Stock["gir500"], "later write wins; refills are not merged")
	assert.Len(t, stored.Refills, 2) // the initial refill plus B's
}

func TestSummaryAndExport(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)
	ctx := context.Background()

	_, err := svc.RecordRefill(ctx, mart.ID, &models.RecordRefillRequest{Quantities: map[string]int{"gir500": 10, "honey350": 4}})
	require.NoError(t, err)
	withSale, _, err := svc.RecordSale(ctx, mart.ID, &models.RecordSaleRequest{Quantities: map[string]int{"gir500": 4}})
	require.NoError(t, err)
	_, err = svc.UpdateSalePayment(ctx, mart.ID, withSale.Sales[0].ID, &models.UpdateSalePaymentRequest{
		Status:         models.PaymentStatusPartialPaid,
		AmountReceived: 2000,
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, mart.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Stock["gir500"])
	assert.Equal(t, 3600.0, summary.TotalBilled)
	assert.Equal(t, 1600.0, summary.Outstanding)
	assert.Equal(t, 1, summary.PendingSales)

	data, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Shree Kirana")
}

func TestDeleteMartCascades(t *testing.T) {
	gw := newMockGateway()
	svc := newTestService(gw)
	mart := onboardMart(t, svc)
	ctx := context.Background()

	_, err := svc.RecordRefill(ctx, mart.ID, &models.RecordRefillRequest{Quantities: map[string]int{"gir500": 10}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMart(ctx, mart.ID))
	_, err = svc.GetMart(ctx, mart.ID)
	assert.ErrorIs(t, err, ErrMartNotFound)
}
