// Package system arma la fachada del proceso: pool de PostgreSQL,
// repositorios, notificador de cambios y motor de stock, con el puente que
// traduce cambios de fila confirmados en actualizaciones incrementales
// del agregado.
package system

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mgarzon/almacen-api/internal/application/backup"
	"github.com/mgarzon/almacen-api/internal/application/events"
	"github.com/mgarzon/almacen-api/internal/application/stock"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/internal/infrastructure/postgres"
	"github.com/mgarzon/almacen-api/pkg/config"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// dbHandle envuelve el pool vigente detrás del contrato Querier. Restart
// sustituye el pool sin recablear repositorios; las operaciones en vuelo
// terminan sobre el pool con el que empezaron.
type dbHandle struct {
	mu   sync.RWMutex
	pool *pgxpool.Pool
}

func (h *dbHandle) current() *pgxpool.Pool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pool
}

func (h *dbHandle) swap(pool *pgxpool.Pool) *pgxpool.Pool {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.pool
	h.pool = pool
	return old
}

func (h *dbHandle) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return h.current().Exec(ctx, sql, args...)
}

func (h *dbHandle) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return h.current().Query(ctx, sql, args...)
}

func (h *dbHandle) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return h.current().QueryRow(ctx, sql, args...)
}

var _ postgres.Querier = (*dbHandle)(nil)

// Repositories acceso agregado a todos los puertos de persistencia.
type Repositories struct {
	Articles      repository.ArticleRepository
	Attributes    repository.AttributeRepository
	Images        repository.ImageReferenceRepository
	Stores        repository.StoreRepository
	Sections      repository.StoreSectionRepository
	Manufacturers repository.ManufacturerRepository
	Receivers     repository.ReceiverRepository
	Hashtags      repository.HashtagRepository
	CostUnits     repository.CostUnitRepository
	Users         repository.UserRepository
	Receipts      repository.ReceiptRepository
	Emissions     repository.EmissionRepository
	TableStats    repository.TableStatsRepository
}

// BackupRepos proyección de los puertos que recorre el servicio de respaldo.
func (r Repositories) BackupRepos() backup.Repos {
	return backup.Repos{
		Articles:      r.Articles,
		Attributes:    r.Attributes,
		Images:        r.Images,
		Stores:        r.Stores,
		Sections:      r.Sections,
		Manufacturers: r.Manufacturers,
		Receivers:     r.Receivers,
		Hashtags:      r.Hashtags,
		CostUnits:     r.CostUnits,
		Users:         r.Users,
		Receipts:      r.Receipts,
		Emissions:     r.Emissions,
	}
}

// System fachada del proceso.
type System struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *dbHandle
	repos    Repositories
	notifier *events.Notifier
	engine   *stock.Engine
	sub      *events.Subscription
}

// New construye la fachada y carga el agregado de stock. Si la carga inicial
// falla, el proceso arranca igualmente: el resto de la API funciona y las
// consultas de stock responden no-inicializado hasta un Restart exitoso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*System, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	db := &dbHandle{pool: pool}
	repos := Repositories{
		Articles:      postgres.NewArticleRepository(db),
		Attributes:    postgres.NewAttributeRepository(db),
		Images:        postgres.NewImageReferenceRepository(db),
		Stores:        postgres.NewStoreRepository(db),
		Sections:      postgres.NewStoreSectionRepository(db),
		Manufacturers: postgres.NewManufacturerRepository(db),
		Receivers:     postgres.NewReceiverRepository(db),
		Hashtags:      postgres.NewHashtagRepository(db),
		CostUnits:     postgres.NewCostUnitRepository(db),
		Users:         postgres.NewUserRepository(db),
		Receipts:      postgres.NewReceiptRepository(db),
		Emissions:     postgres.NewEmissionRepository(db),
		TableStats:    postgres.NewTableStatsRepository(db),
	}

	s := &System{
		cfg:      cfg,
		log:      log,
		db:       db,
		repos:    repos,
		notifier: events.NewNotifier(),
		engine: stock.NewEngine(
			repos.Articles,
			repos.Sections,
			repos.Receipts,
			repos.Emissions,
			log,
		),
	}
	s.sub = s.notifier.Subscribe(s.dispatch)

	if err := s.engine.InitFromSystem(); err != nil {
		log.Error().Err(err).Msg("la carga inicial de stock falló; las consultas responderán no-inicializado")
	}
	return s, nil
}

// dispatch puente síncrono entre cambios de fila confirmados y el agregado
// de stock. Se ejecuta en la goroutine que confirmó la escritura, con lo que
// cada caller observa su propio movimiento ya aplicado.
func (s *System) dispatch(e events.Event) {
	var err error
	switch e.Table {
	case repository.TableStoreSections:
		sec, ok := e.Row.(*entity.StoreSection)
		if !ok {
			return
		}
		switch e.Op {
		case events.OpInsert:
			err = s.engine.UpdateNewStoreSection(sec)
		case events.OpUpdate:
			err = s.engine.UpdateChangedStoreSection(sec)
		}
	case repository.TableArticles:
		art, ok := e.Row.(*entity.Article)
		if !ok || e.Op != events.OpUpdate {
			return
		}
		err = s.engine.UpdateChangedArticle(art)
	case repository.TableReceipts:
		r, ok := e.Row.(*entity.Receipt)
		if !ok || e.Op != events.OpInsert {
			return
		}
		err = s.engine.UpdateNewReceipt(r)
	case repository.TableEmissions:
		em, ok := e.Row.(*entity.Emission)
		if !ok || e.Op != events.OpInsert {
			return
		}
		err = s.engine.UpdateNewEmission(em)
	default:
		return
	}
	if err == nil {
		return
	}
	if errors.Is(err, domain.ErrStockNotReady) {
		s.log.Debug().Str("table", e.Table).Msg("cambio descartado: stock no inicializado")
		return
	}
	s.log.Error().Err(err).Str("table", e.Table).Msg("no se pudo aplicar el cambio al stock")
}

// Persistence acceso a los repositorios.
func (s *System) Persistence() Repositories { return s.repos }

// Notifier acceso al notificador de cambios.
func (s *System) Notifier() *events.Notifier { return s.notifier }

// ArticleStock acceso al motor de stock.
func (s *System) ArticleStock() *stock.Engine { return s.engine }

// Restart abre un pool nuevo, lo pone en servicio, cierra el anterior y
// reconstruye el agregado de stock desde cero. Pensado para después de una
// importación de volcado o de un cambio de base de datos.
func (s *System) Restart(ctx context.Context) error {
	pool, err := postgres.NewPool(ctx, s.cfg.DB)
	if err != nil {
		return err
	}
	old := s.db.swap(pool)
	if old != nil {
		old.Close()
	}
	if err := s.engine.InitFromSystem(); err != nil {
		return err
	}
	s.log.Info().Msg("sistema reiniciado")
	return nil
}

// Close libera las suscripciones y el pool.
func (s *System) Close() {
	s.sub.Cancel()
	if pool := s.db.swap(nil); pool != nil {
		pool.Close()
	}
}
