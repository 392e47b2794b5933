package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/database"
	"catalog-service/internal/errs"

	"github.com/google/uuid"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, created_at, updated_at`

// Create inserts product, assigning a fresh ID when none is set.
func (r *ProductRepository) Create(ctx context.Context, product *database.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	query := `
        INSERT INTO products (` + productColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Description, product.Price, now, now)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("product %s: %w", product.ID, errs.ErrAlreadyExists)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

// List returns every product, oldest first. The result is never nil.
func (r *ProductRepository) List(ctx context.Context) ([]database.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]database.Product, 0)
	for rows.Next() {
		var p database.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*database.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p database.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}

	return &p, nil
}

// Update applies the non-nil fields of patch and returns the stored row.
// An empty patch leaves the row, including updated_at, untouched.
func (r *ProductRepository) Update(ctx context.Context, id string, patch database.ProductPatch) (*database.Product, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	query := `
        UPDATE products
        SET name = COALESCE($1, name),
            description = COALESCE($2, description),
            price = COALESCE($3, price),
            updated_at = $4
        WHERE id = $5
    `
	result, err := r.db.ExecContext(ctx, query,
		patch.Name, patch.Description, patch.Price, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return nil, errs.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes the product; errs.ErrNotFound if it did not exist.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return errs.ErrNotFound
	}

	return nil
}
