package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mart-backend/internal/models"
)

// ErrNotFound marks a lookup that matched no row. Callers check it with
// errors.Is; any other repository error means the store itself failed.
var ErrNotFound = errors.New("record not found")

// MartRepository persists mart records wholesale. Every Update overwrites the
// full record, stock and ledgers included; there is no version column, so the
// last writer wins. That is the documented contract of this store, not an
// oversight.
type MartRepository struct {
	DB *pgxpool.Pool
}

func NewMartRepository(db *pgxpool.Pool) *MartRepository {
	return &MartRepository{DB: db}
}

const martColumns = `id, name, mobile, sector, address, onboarding_date, commission_percent,
       stock, price_overrides, refills, sales, created_at, updated_at`

func (r *MartRepository) Create(ctx context.Context, mart *models.Mart) error {
	stock, overrides, refills, sales, err := marshalLedger(mart)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO marts (name, mobile, sector, address, onboarding_date, commission_percent,
		                   stock, price_overrides, refills, sales)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err = r.DB.QueryRow(ctx, query,
		mart.Name,
		mart.Mobile,
		mart.Sector,
		mart.Address,
		mart.OnboardingDate,
		mart.CommissionPercent,
		stock,
		overrides,
		refills,
		sales,
	).Scan(&mart.ID, &mart.CreatedAt, &mart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mart: %w", err)
	}

	return nil
}

func (r *MartRepository) Get(ctx context.Context, id int) (*models.Mart, error) {
	query := `SELECT ` + martColumns + ` FROM marts WHERE id = $1`

	mart, err := scanMart(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mart %d: %w", id, ErrNotFound)
	}
	return mart, err
}

func (r *MartRepository) List(ctx context.Context) ([]*models.Mart, error) {
	query := `SELECT ` + martColumns + ` FROM marts ORDER BY name, id`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var marts []*models.Mart
	for rows.Next() {
		mart, err := scanMart(rows)
		if err != nil {
			return nil, err
		}
		marts = append(marts, mart)
	}

	return marts, rows.Err()
}

// Update overwrites the whole record. Identity fields, price overrides, the
// stock snapshot and both ledgers are written together so a mutation is
// either fully persisted or not at all.
func (r *MartRepository) Update(ctx context.Context, mart *models.Mart) error {
	stock, overrides, refills, sales, err := marshalLedger(mart)
	if err != nil {
		return err
	}

	query := `
		UPDATE marts
		SET name = $2, mobile = $3, sector = $4, address = $5, onboarding_date = $6,
		    commission_percent = $7, stock = $8, price_overrides = $9, refills = $10,
		    sales = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.DB.QueryRow(ctx, query,
		mart.ID,
		mart.Name,
		mart.Mobile,
		mart.Sector,
		mart.Address,
		mart.OnboardingDate,
		mart.CommissionPercent,
		stock,
		overrides,
		refills,
		sales,
	).Scan(&mart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("mart %d: %w", mart.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update mart %d: %w", mart.ID, err)
	}

	return nil
}

func (r *MartRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM marts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mart %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mart %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMart(row rowScanner) (*models.Mart, error) {
	mart := &models.Mart{}
	var stock, overrides, refills, sales []byte

	err := row.Scan(
		&mart.ID,
		&mart.Name,
		&mart.Mobile,
		&mart.Sector,
		&mart.Address,
		&mart.OnboardingDate,
		&mart.CommissionPercent,
		&stock,
		&overrides,
		&refills,
		&sales,
		&mart.CreatedAt,
		&mart.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(stock, &mart.Stock); err != nil {
		return nil, fmt.Errorf("corrupt stock document for mart %d: %w", mart.ID, err)
	}
	if err := json.Unmarshal(overrides, &mart.PriceOverrides); err != nil {
		return nil, fmt.Errorf("corrupt price overrides for mart %d: %w", mart.ID, err)
	}
	if err := json.Unmarshal(refills, &mart.Refills); err != nil {
		return nil, fmt.Errorf("corrupt refill ledger for mart %d: %w", mart.ID, err)
	}
	if err := json.Unmarshal(sales, &mart.Sales); err != nil {
		return nil, fmt.Errorf("corrupt sales ledger for mart %d: %w", mart.ID, err)
	}

	if mart.Stock == nil {
		mart.Stock = map[string]int{}
	}
	if mart.PriceOverrides == nil {
		mart.PriceOverrides = map[string]float64{}
	}

	return mart, nil
}

func marshalLedger(mart *models.Mart) (stock, overrides, refills, sales []byte, err error) {
	if stock, err = json.Marshal(mart.Stock); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal stock: %w", err)
	}
	if overrides, err = json.Marshal(mart.PriceOverrides); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal price overrides: %w", err)
	}
	if refills, err = json.Marshal(mart.Refills); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal refills: %w", err)
	}
	if sales, err = json.Marshal(mart.Sales); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal sales: %w", err)
	}
	return stock, overrides, refills, sales, nil
}
