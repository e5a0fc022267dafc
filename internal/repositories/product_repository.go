package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mart-backend/internal/models"
)

// ProductRepository reads the product catalog. The catalog is seeded by
// migration and never written through this service.
type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT key, name, size_label, default_unit_price
		FROM products
		ORDER BY name, size_label
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(
			&product.Key,
			&product.Name,
			&product.SizeLabel,
			&product.DefaultUnitPrice,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *ProductRepository) GetByKey(ctx context.Context, key string) (*models.Product, error) {
	query := `
		SELECT key, name, size_label, default_unit_price
		FROM products
		WHERE key = $1
	`

	product := &models.Product{}
	err := r.DB.QueryRow(ctx, query, key).Scan(
		&product.Key,
		&product.Name,
		&product.SizeLabel,
		&product.DefaultUnitPrice,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}
