package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"mart-backend/internal/ledger"
	"mart-backend/internal/metrics"
	"mart-backend/internal/models"
	"mart-backend/internal/repositories"
	"mart-backend/internal/timeutil"
)

var (
	ErrMartNotFound = errors.New("mart not found")
	ErrSaleNotFound = errors.New("sale entry not found")
	ErrValidation   = errors.New("invalid input")
)

// MartGateway is the persistence contract for whole mart records. Every write
// replaces the full record; the service never persists partial state.
// Get and Delete signal a missing record with repositories.ErrNotFound; any
// other error is a storage failure and must surface unchanged.
type MartGateway interface {
	List(ctx context.Context) ([]*models.Mart, error)
	Get(ctx context.Context, id int) (*models.Mart, error)
	Create(ctx context.Context, mart *models.Mart) error
	Update(ctx context.Context, mart *models.Mart) error
	Delete(ctx context.Context, id int) error
}

// MartService sequences the ledger engine with the persistence gateway:
// read the current record, derive the next record, write it back wholesale.
// A gateway failure surfaces unchanged and leaves nothing half-applied.
type MartService struct {
	Gateway MartGateway
	Engine  *ledger.Engine
}

func NewMartService(gateway MartGateway, engine *ledger.Engine) *MartService {
	return &MartService{
		Gateway: gateway,
		Engine:  engine,
	}
}

func (s *MartService) CreateMart(ctx context.Context, req *models.CreateMartRequest) (*models.Mart, error) {
	if err := validateMartFields(req.Name, req.Mobile, req.CommissionPercent, req.PriceOverrides); err != nil {
		return nil, err
	}

	onboarding := timeutil.StartOfDay(timeutil.Now())
	if req.OnboardingDate != "" {
		parsed, err := timeutil.ParseInIST(timeutil.DateLayout, req.OnboardingDate)
		if err != nil {
			return nil, fmt.Errorf("%w: onboarding date must be in YYYY-MM-DD format", ErrValidation)
		}
		onboarding = parsed
	}

	mart := &models.Mart{
		Name:              req.Name,
		Mobile:            req.Mobile,
		Sector:            req.Sector,
		Address:           req.Address,
		OnboardingDate:    onboarding,
		CommissionPercent: req.CommissionPercent,
		Stock:             map[string]int{},
		PriceOverrides:    map[string]float64{},
		Refills:           []models.RefillEntry{},
		Sales:             []models.SalesEntry{},
	}
	for key, price := range req.PriceOverrides {
		mart.PriceOverrides[key] = price
	}

	if err := s.Gateway.Create(ctx, mart); err != nil {
		return nil, err
	}

	return mart, nil
}

func (s *MartService) GetMart(ctx context.Context, id int) (*models.Mart, error) {
	return s.loadMart(ctx, id)
}

// loadMart reads one record and translates the gateway's missing-record
// sentinel. A storage failure is not a 404: it passes through untouched.
func (s *MartService) loadMart(ctx context.Context, id int) (*models.Mart, error) {
	mart, err := s.Gateway.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrMartNotFound
	}
	if err != nil {
		return nil, err
	}
	return mart, nil
}

func (s *MartService) ListMarts(ctx context.Context) ([]*models.Mart, error) {
	return s.Gateway.List(ctx)
}

// UpdateMart edits identity fields and price overrides. Stock and the two
// ledgers are carried over untouched; they only ever change through refill
// and sale transactions.
func (s *MartService) UpdateMart(ctx context.Context, id int, req *models.UpdateMartRequest) (*models.Mart, error) {
	if err := validateMartFields(req.Name, req.Mobile, req.CommissionPercent, req.PriceOverrides); err != nil {
		return nil, err
	}

	mart, err := s.loadMart(ctx, id)
	if err != nil {
		return nil, err
	}

	next := mart.Clone()
	next.Name = req.Name
	next.Mobile = req.Mobile
	next.Sector = req.Sector
	next.Address = req.Address
	next.CommissionPercent = req.CommissionPercent
	next.PriceOverrides = map[string]float64{}
	for key, price := range req.PriceOverrides {
		next.PriceOverrides[key] = price
	}

	if err := s.Gateway.Update(ctx, next); err != nil {
		return nil, err
	}

	return next, nil
}

func (s *MartService) DeleteMart(ctx context.Context, id int) error {
	// the ledgers live inside the record, so the delete cascades by itself
	err := s.Gateway.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrMartNotFound
	}
	return err
}

// RecordRefill applies a refill transaction: load the mart, derive the next
// record through the engine, persist it wholesale.
func (s *MartService) RecordRefill(ctx context.Context, martID int, req *models.RecordRefillRequest) (*models.Mart, error) {
	if len(req.Quantities) == 0 {
		return nil, fmt.Errorf("%w: refill must carry at least one product quantity", ErrValidation)
	}

	mart, err := s.loadMart(ctx, martID)
	if err != nil {
		return nil, err
	}

	date, err := transactionDate(req.Date)
	if err != nil {
		return nil, err
	}

	refill := models.RefillEntry{
		ID:         timeutil.NextEntryID(lastRefillID(mart)),
		Date:       date,
		Quantities: req.Quantities,
	}

	next, err := s.Engine.ApplyRefill(mart, refill)
	if err != nil {
		return nil, err
	}

	if err := s.Gateway.Update(ctx, next); err != nil {
		return nil, err
	}

	metrics.RefillsRecorded.Inc()
	return next, nil
}

// RecordSale prices the sale lines, applies the transaction and persists the
// result. The returned key list names lines skipped for unresolvable prices;
// the sale still goes through, the caller surfaces the warning.
func (s *MartService) RecordSale(ctx context.Context, martID int, req *models.RecordSaleRequest) (*models.Mart, []string, error) {
	if len(req.Quantities) == 0 {
		return nil, nil, fmt.Errorf("%w: sale must carry at least one product quantity", ErrValidation)
	}

	mart, err := s.loadMart(ctx, martID)
	if err != nil {
		return nil, nil, err
	}

	date, err := transactionDate(req.Date)
	if err != nil {
		return nil, nil, err
	}

	total, unresolved := s.Engine.ComputeSaleTotal(mart, req.Quantities)
	if len(unresolved) > 0 {
		log.Printf("[MartService] sale for mart %d: no price for %v, lines excluded from total", martID, unresolved)
	}

	sale := models.SalesEntry{
		ID:          timeutil.NextEntryID(lastSaleID(mart)),
		Date:        date,
		Quantities:  req.Quantities,
		TotalAmount: total,
	}

	status := req.Status
	if status == "" {
		status = models.PaymentStatusPending
	}
	sale, err = s.Engine.ReconcilePayment(sale, status, req.AmountReceived)
	if err != nil {
		return nil, nil, err
	}

	shortfall := ledger.Shortfall(mart.Stock, req.Quantities)

	next, err := s.Engine.ApplySale(mart, sale)
	if err != nil {
		return nil, nil, err
	}

	if err := s.Gateway.Update(ctx, next); err != nil {
		return nil, nil, err
	}

	metrics.SalesRecorded.Inc()
	for _, deficit := range shortfall {
		metrics.OversellUnitsAbsorbed.Add(float64(deficit))
	}

	return next, unresolved, nil
}

// UpdateSalePayment reconciles a sale's payment fields. The entry keeps its
// position in the ledger; only status and amount received change.
func (s *MartService) UpdateSalePayment(ctx context.Context, martID int, saleID int64, req *models.UpdateSalePaymentRequest) (*models.Mart, error) {
	mart, err := s.loadMart(ctx, martID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, sale := range mart.Sales {
		if sale.ID == saleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrSaleNotFound, saleID)
	}

	updated, err := s.Engine.ReconcilePayment(mart.Sales[idx], req.Status, req.AmountReceived)
	if err != nil {
		return nil, err
	}

	next := mart.Clone()
	next.Sales[idx] = updated

	if err := s.Gateway.Update(ctx, next); err != nil {
		return nil, err
	}

	return next, nil
}

// FindSale locates a sale entry inside a mart's ledger.
func (s *MartService) FindSale(ctx context.Context, martID int, saleID int64) (*models.Mart, *models.SalesEntry, error) {
	mart, err := s.loadMart(ctx, martID)
	if err != nil {
		return nil, nil, err
	}
	for i := range mart.Sales {
		if mart.Sales[i].ID == saleID {
			return mart, &mart.Sales[i], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %d", ErrSaleNotFound, saleID)
}

// Summary returns the derived ledger view for one mart.
func (s *MartService) Summary(ctx context.Context, martID int) (*ledger.Summary, error) {
	mart, err := s.loadMart(ctx, martID)
	if err != nil {
		return nil, err
	}
	return ledger.Summarize(mart), nil
}

// Export serializes every mart record for download.
func (s *MartService) Export(ctx context.Context) ([]byte, error) {
	marts, err := s.Gateway.List(ctx)
	if err != nil {
		return nil, err
	}
	if marts == nil {
		marts = []*models.Mart{}
	}
	return json.MarshalIndent(marts, "", "  ")
}

func validateMartFields(name, mobile string, commission *float64, overrides map[string]float64) error {
	if name == "" {
		return fmt.Errorf("%w: mart name is required", ErrValidation)
	}
	if len(mobile) != 10 {
		return fmt.Errorf("%w: mobile number must be exactly 10 digits", ErrValidation)
	}
	if commission != nil && (*commission < 0 || *commission > 100) {
		return fmt.Errorf("%w: commission percent must be between 0 and 100", ErrValidation)
	}
	for key, price := range overrides {
		if price <= 0 {
			return fmt.Errorf("%w: price override for %s must be positive", ErrValidation, key)
		}
	}
	return nil
}

func transactionDate(raw string) (time.Time, error) {
	if raw == "" {
		return timeutil.Now(), nil
	}
	parsed, err := timeutil.ParseInIST(timeutil.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrValidation)
	}
	return parsed, nil
}

func lastRefillID(mart *models.Mart) int64 {
	if len(mart.Refills) == 0 {
		return 0
	}
	return mart.Refills[len(mart.Refills)-1].ID
}

func lastSaleID(mart *models.Mart) int64 {
	if len(mart.Sales) == 0 {
		return 0
	}
	return mart.Sales[len(mart.Sales)-1].ID
}
