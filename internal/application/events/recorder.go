// Package events registra la bitácora de operaciones del servidor: cada
// mutación relevante (altas, ventas, respaldos, restauraciones, rotación de
// claves) queda persistida y espejada en el log estructurado.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
	"github.com/jdrojas/repuestos-lan/pkg/logger"
)

// Recorder persiste eventos de auditoría. El registro es best-effort: un
// fallo al guardar se loguea pero nunca aborta la operación que lo originó.
type Recorder struct {
	repo repository.EventRepository
	log  *logger.Logger
}

// NewRecorder crea el recorder.
func NewRecorder(repo repository.EventRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record guarda un evento y lo espeja en el log estructurado.
func (r *Recorder) Record(actor, action, detail string) {
	e := &entity.Event{
		ID:     uuid.New().String(),
		At:     time.Now().UTC(),
		Actor:  actor,
		Action: action,
		Detail: detail,
	}
	if err := r.repo.Create(e); err != nil {
		r.log.Error().Err(err).Str("action", action).Msg("no se pudo persistir el evento")
	}
	r.log.Info().
		Str("actor", actor).
		Str("action", action).
		Str("detail", detail).
		Msg("evento registrado")
}

// Recent devuelve los últimos eventos, el más nuevo primero.
func (r *Recorder) Recent(limit int) ([]dto.EventResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	list, err := r.repo.ListRecent(limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.EventResponse{
			ID:     e.ID,
			At:     domain.FormatTime(e.At),
			Actor:  e.Actor,
			Action: e.Action,
			Detail: e.Detail,
		})
	}
	return out, nil
}
