package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// InventoryRepository handles persistence for stock items.
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	Update(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error)
	List(ctx context.Context, filter InventoryFilter) ([]domain.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]domain.InventoryItem, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// InventoryFilter defines query params for item listing.
type InventoryFilter struct {
	Category *domain.InventoryCategory
	Quantity *int
	Limit    int
	Offset   int
}

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository instantiates the repository.
func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepository{pool: pool}
}

const inventoryColumns = `
        id, name, category, description, quantity, unit, minimum_stock,
        last_restocked, supplier, location, expiry_date`

func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	const query = `
        INSERT INTO inventory_items (name, category, description, quantity, unit,
            minimum_stock, supplier, location, expiry_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, last_restocked`

	return r.pool.QueryRow(ctx, query,
		item.Name,
		item.Category,
		item.Description,
		item.Quantity,
		item.Unit,
		item.MinimumStock,
		item.Supplier,
		item.Location,
		item.ExpiryDate,
	).Scan(&item.ID, &item.LastRestocked)
}

func (r *inventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	const query = `
        UPDATE inventory_items SET name=$1, category=$2, description=$3, quantity=$4,
            unit=$5, minimum_stock=$6, last_restocked=NOW(), supplier=$7,
            location=$8, expiry_date=$9
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		item.Name,
		item.Category,
		item.Description,
		item.Quantity,
		item.Unit,
		item.MinimumStock,
		item.Supplier,
		item.Location,
		item.ExpiryDate,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	query := `SELECT` + inventoryColumns + ` FROM inventory_items WHERE id=$1`
	return scanInventoryItem(r.pool.QueryRow(ctx, query, id))
}

func (r *inventoryRepository) List(ctx context.Context, filter InventoryFilter) ([]domain.InventoryItem, error) {
	query := `SELECT` + inventoryColumns + ` FROM inventory_items`
	args := []any{}
	clauses := []string{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Quantity != nil {
		args = append(args, *filter.Quantity)
		clauses = append(clauses, fmt.Sprintf("quantity=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY name"
	query += limitOffsetClause(filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInventoryItems(rows)
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	query := `SELECT` + inventoryColumns + ` FROM inventory_items WHERE quantity <= minimum_stock ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInventoryItems(rows)
}

func (r *inventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_items`).Scan(&count)
	return count, err
}

func (r *inventoryRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "inventory_items", id)
}

func collectInventoryItems(rows pgx.Rows) ([]domain.InventoryItem, error) {
	var result []domain.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func scanInventoryItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Description,
		&item.Quantity,
		&item.Unit,
		&item.MinimumStock,
		&item.LastRestocked,
		&item.Supplier,
		&item.Location,
		&item.ExpiryDate,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
