package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre SQLite (usable con DB o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar DB o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Upsert inserta o sobrescribe el artículo con el mismo ID. Un artículo con
// borrado lógico revive con los campos nuevos.
func (r *ItemRepo) Upsert(item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, description, quantity, price_usd, price_bs, deleted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			quantity = excluded.quantity,
			price_usd = excluded.price_usd,
			price_bs = excluded.price_bs,
			deleted = 0,
			updated_at = excluded.updated_at`
	_, err := r.q.ExecContext(context.Background(), query,
		item.ID, item.Name, item.Description, item.Quantity,
		item.PriceUSD, item.PriceBs, domain.FormatTime(item.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo visible por ID. Devuelve nil si no existe o
// está borrado.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `
		SELECT id, name, description, quantity, price_usd, price_bs, deleted, updated_at
		FROM items WHERE id = ? AND deleted = 0`
	item, err := scanItem(r.q.QueryRowContext(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List devuelve los artículos visibles ordenados por ID.
func (r *ItemRepo) List() ([]*entity.Item, error) {
	query := `
		SELECT id, name, description, quantity, price_usd, price_bs, deleted, updated_at
		FROM items WHERE deleted = 0 ORDER BY id`
	rows, err := r.q.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// UpdateQuantity fija la cantidad de un artículo visible.
func (r *ItemRepo) UpdateQuantity(id string, quantity int64, now time.Time) error {
	res, err := r.q.ExecContext(context.Background(),
		`UPDATE items SET quantity = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		quantity, domain.FormatTime(now), id,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update quantity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca un artículo como borrado. Devuelve false si ya no era visible.
func (r *ItemRepo) SoftDelete(id string, now time.Time) (bool, error) {
	res, err := r.q.ExecContext(context.Background(),
		`UPDATE items SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
		domain.FormatTime(now), id,
	)
	if err != nil {
		return false, fmt.Errorf("soft delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete item: %w", err)
	}
	return n > 0, nil
}

// DeleteAll elimina físicamente todos los artículos, borrados lógicos
// incluidos. Solo lo usa el vaciado total del inventario.
func (r *ItemRepo) DeleteAll() (int64, error) {
	res, err := r.q.ExecContext(context.Background(), `DELETE FROM items`)
	if err != nil {
		return 0, fmt.Errorf("delete all items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all items: %w", err)
	}
	return n, nil
}

// Count devuelve el total de artículos visibles.
func (r *ItemRepo) Count() (int64, error) {
	var n int64
	err := r.q.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM items WHERE deleted = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem lee una fila de items. Los timestamps se guardan como texto en la
// zona UTC, así que el orden lexicográfico coincide con el cronológico.
func scanItem(row rowScanner) (*entity.Item, error) {
	var it entity.Item
	var deleted int64
	var updatedAt string
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Quantity,
		&it.PriceUSD, &it.PriceBs, &deleted, &updatedAt); err != nil {
		return nil, err
	}
	it.Deleted = deleted != 0
	ts, err := domain.ParseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	it.UpdatedAt = ts
	return &it, nil
}
