package usecase

import (
	"github.com/mgarzon/almacen-api/internal/application/events"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// sideEffects agrupa lo que ocurre tras cada escritura confirmada: marcar la
// estadística de la tabla y notificar el cambio a los observadores. Un fallo
// en la estadística no deshace la escritura, solo se registra.
type sideEffects struct {
	stats    repository.TableStatsRepository
	notifier *events.Notifier
	log      *logger.Logger
}

func (s *sideEffects) changed(table string, op events.Op, row any, opts repository.WriteOptions) {
	if opts.NoTableStatsUpdate {
		return
	}
	if err := s.stats.Touch(table); err != nil {
		s.log.Warn().Err(err).Str("table", table).Msg("no se pudo actualizar la estadística de tabla")
	}
	s.notifier.Publish(events.Event{Table: table, Op: op, Row: row})
}
