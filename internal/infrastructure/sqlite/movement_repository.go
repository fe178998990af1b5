package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre SQLite (usable con DB o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia para movimientos. Pasar DB o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, item_id, type, quantity, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(context.Background(), query,
		m.ID, m.ItemID, m.Type, m.Quantity, m.CreatedBy, domain.FormatTime(m.CreatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List devuelve movimientos filtrados, el más reciente primero.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT id, item_id, type, quantity, created_by, created_at FROM movements`
	var conds []string
	var args []any
	if filter.ItemID != "" {
		conds = append(conds, "item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var createdAt string
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Type, &m.Quantity, &m.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		ts, err := domain.ParseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		m.CreatedAt = ts
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteAll elimina todo el historial de movimientos. Solo lo usa el vaciado
// total del inventario, antes de borrar los artículos referenciados.
func (r *MovementRepo) DeleteAll() (int64, error) {
	res, err := r.q.ExecContext(context.Background(), `DELETE FROM movements`)
	if err != nil {
		return 0, fmt.Errorf("delete all movements: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all movements: %w", err)
	}
	return n, nil
}
