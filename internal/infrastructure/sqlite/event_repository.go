package sqlite

import (
	"context"
	"fmt"

	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

var _ repository.EventRepository = (*EventRepo)(nil)

// EventRepo implementación del puerto EventRepository sobre SQLite.
type EventRepo struct {
	q Querier
}

// NewEventRepository construye el adaptador de persistencia para la bitácora.
func NewEventRepository(q Querier) *EventRepo {
	return &EventRepo{q: q}
}

// Create persiste una entrada de la bitácora.
func (r *EventRepo) Create(e *entity.Event) error {
	_, err := r.q.ExecContext(context.Background(),
		`INSERT INTO events (id, at, actor, action, detail) VALUES (?, ?, ?, ?, ?)`,
		e.ID, domain.FormatTime(e.At), e.Actor, e.Action, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListRecent devuelve las últimas entradas, la más nueva primero.
func (r *EventRepo) ListRecent(limit int) ([]*entity.Event, error) {
	rows, err := r.q.QueryContext(context.Background(),
		`SELECT id, at, actor, action, detail FROM events ORDER BY at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	var list []*entity.Event
	for rows.Next() {
		var e entity.Event
		var at string
		if err := rows.Scan(&e.ID, &at, &e.Actor, &e.Action, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ts, err := domain.ParseTime(at)
		if err != nil {
			return nil, fmt.Errorf("parse at: %w", err)
		}
		e.At = ts
		list = append(list, &e)
	}
	return list, rows.Err()
}
