package backup

import (
	"context"
	"time"

	"github.com/jdrojas/repuestos-lan/pkg/logger"
)

// Actor con el que firman la bitácora los respaldos programados.
const scheduledActor = "auto"

// Scheduler toma respaldos automáticos: uno al arrancar y luego uno por
// intervalo. Corre en su propia goroutine y se detiene con el contexto.
type Scheduler struct {
	uc       *UseCase
	interval time.Duration
	log      *logger.Logger
}

// NewScheduler construye el scheduler. interval <= 0 lo deja inactivo.
func NewScheduler(uc *UseCase, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{uc: uc, interval: interval, log: log}
}

// Run bloquea hasta que el contexto se cancele.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info().Msg("respaldo automático desactivado")
		return
	}
	s.log.Info().Dur("interval", s.interval).Msg("respaldo automático activo")

	// Respaldo inicial: garantiza una copia fresca aunque el servidor se
	// reinicie antes del primer tick.
	s.snapshot(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("respaldo automático detenido")
			return
		case <-ticker.C:
			s.snapshot(ctx)
		}
	}
}

func (s *Scheduler) snapshot(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	resp, err := s.uc.Create(scheduledActor)
	if err != nil {
		s.log.Error().Err(err).Msg("falló el respaldo automático")
		return
	}
	s.log.Info().Str("backup", resp.Name).Int64("size", resp.Size).Msg("respaldo automático creado")
}
