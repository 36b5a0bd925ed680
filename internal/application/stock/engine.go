package stock

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// Inicio de la ventana de agregación. Los libros anteriores a esta fecha no
// participan del stock vivo; solo un reinicio del proceso reconstruye la caché.
var stockEpoch = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

// Margen sobre now para tolerar relojes adelantados en los eventos del libro.
const horizonSlack = 2 * time.Hour

type state int

const (
	stateUninitialized state = iota
	stateInitializing
	stateReady
)

// cellKey clave compuesta del agregado: una celda por (sección, artículo).
type cellKey struct {
	SectionID string
	ArticleID string
}

// Cell celda agregada de stock. Base es una reserva para futuras
// funcionalidades y hoy vale siempre 0; Receipt y Emitted son sumas
// acumuladas del libro desde stockEpoch.
type Cell struct {
	Article *entity.Article
	Base    int64
	Receipt int64
	Emitted int64
}

// Physical existencias físicas: base + entradas - salidas. Puede ser
// negativo; las salidas no se validan contra disponibilidad en esta capa.
func (c *Cell) Physical() int64 { return c.Base + c.Receipt - c.Emitted }

// Available existencias disponibles. Sin modelo de reservas todavía,
// coincide con Physical.
func (c *Cell) Available() int64 { return c.Physical() }

// StockState estado de un artículo en una sección.
type StockState struct {
	Section        *entity.StoreSection `json:"section"`
	Article        *entity.Article      `json:"article"`
	PhysicalCount  int64                `json:"physical_count"`
	AvailableCount int64                `json:"available_count"`
}

// SectionStock estados de todos los artículos de una sección.
type SectionStock struct {
	Section *entity.StoreSection `json:"section"`
	States  []StockState         `json:"states"`
}

// ArticleStock estados de un artículo en todas las secciones donde tiene celda.
type ArticleStock struct {
	Article *entity.Article `json:"article"`
	States  []StockState    `json:"states"`
}

// Engine motor de agregación de stock. Mantiene en memoria el catálogo de
// secciones y una celda por (sección, artículo) derivada de los dos libros.
// El mutex serializa todas las mutaciones (la creación de celda incluye la
// resolución del artículo contra el row store, de modo que bajo escrituras
// concurrentes de una clave nunca vista se crea a lo sumo una celda); las
// consultas toman el lock compartido. La carga inicial ocurre bajo el lock
// exclusivo, así que ninguna consulta ni actualización la adelanta.
type Engine struct {
	mu       sync.RWMutex
	st       state
	sections map[string]*entity.StoreSection
	cells    map[cellKey]*Cell

	articles     repository.ArticleRepository
	sectionsRepo repository.StoreSectionRepository
	receipts     repository.ReceiptRepository
	emissions    repository.EmissionRepository

	// Movimientos ignorados por referenciar artículos o secciones
	// inexistentes. El salto silencioso replica el comportamiento
	// histórico; los contadores permiten vigilar si esconde violaciones
	// de integridad referencial. Toda celda nace con su sección en el
	// catálogo, así que las consultas pueden desreferenciarla siempre.
	skippedUnknown         atomic.Int64
	skippedUnknownSections atomic.Int64

	log *logger.Logger
}

// NewEngine construye el motor sin inicializar. Llamar InitFromSystem antes
// de servir consultas o actualizaciones.
func NewEngine(
	articles repository.ArticleRepository,
	sections repository.StoreSectionRepository,
	receipts repository.ReceiptRepository,
	emissions repository.EmissionRepository,
	log *logger.Logger,
) *Engine {
	return &Engine{
		st:           stateUninitialized,
		sections:     make(map[string]*entity.StoreSection),
		cells:        make(map[cellKey]*Cell),
		articles:     articles,
		sectionsRepo: sections,
		receipts:     receipts,
		emissions:    emissions,
		log:          log,
	}
}

// InitFromSystem carga el estado inicial: catálogo de secciones, índice de
// artículos y sumas agrupadas de ambos libros sobre la ventana
// [stockEpoch, now + horizonSlack]. Cualquier error del row store aborta la
// inicialización; el motor nunca sirve una caché cargada a medias.
// Es idempotente: un Restart del sistema la vuelve a ejecutar desde cero.
func (e *Engine) InitFromSystem() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.st = stateInitializing
	e.sections = make(map[string]*entity.StoreSection)
	e.cells = make(map[cellKey]*Cell)
	e.skippedUnknown.Store(0)
	e.skippedUnknownSections.Store(0)

	secs, err := e.sectionsRepo.All()
	if err != nil {
		e.st = stateUninitialized
		return err
	}
	for _, s := range secs {
		e.sections[s.ID] = s
	}

	arts, err := e.articles.All()
	if err != nil {
		e.st = stateUninitialized
		return err
	}
	index := make(map[string]*entity.Article, len(arts))
	for _, a := range arts {
		index[a.ID] = a
	}

	from, to := stockEpoch, time.Now().Add(horizonSlack)

	receiptSums, err := e.receipts.SumGrouped(from, to)
	if err != nil {
		e.st = stateUninitialized
		return err
	}
	emissionSums, err := e.emissions.SumGrouped(from, to)
	if err != nil {
		e.st = stateUninitialized
		return err
	}

	for _, sum := range receiptSums {
		e.accumulateLocked(index, sum, false)
	}
	for _, sum := range emissionSums {
		e.accumulateLocked(index, sum, true)
	}

	e.st = stateReady
	e.log.Info().
		Int("sections", len(e.sections)).
		Int("cells", len(e.cells)).
		Msg("stock inicializado")
	return nil
}

func (e *Engine) accumulateLocked(index map[string]*entity.Article, sum entity.LedgerSum, emitted bool) {
	art, ok := index[sum.ArticleID]
	if !ok {
		e.skippedUnknown.Add(1)
		e.log.Debug().
			Str("article_id", sum.ArticleID).
			Str("section_id", sum.SectionID).
			Msg("suma de libro con artículo desconocido, ignorada")
		return
	}
	if _, ok := e.sections[sum.SectionID]; !ok {
		// Pasa tras borrar una sección con movimientos y recargar: las
		// sumas huérfanas se ignoran igual que las de artículo desconocido.
		e.skippedUnknownSections.Add(1)
		e.log.Debug().
			Str("article_id", sum.ArticleID).
			Str("section_id", sum.SectionID).
			Msg("suma de libro con sección desconocida, ignorada")
		return
	}
	key := cellKey{SectionID: sum.SectionID, ArticleID: sum.ArticleID}
	cell, ok := e.cells[key]
	if !ok {
		cell = &Cell{Article: art}
		e.cells[key] = cell
	}
	if emitted {
		cell.Emitted += sum.Total
	} else {
		cell.Receipt += sum.Total
	}
}

// StockStateForArticle devuelve el estado del artículo en cada sección que
// tiene celda para él; las secciones sin celda se omiten, no se rellenan a cero.
func (e *Engine) StockStateForArticle(articleID string) ([]StockState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.st != stateReady {
		return nil, domain.ErrStockNotReady
	}
	var states []StockState
	for key, cell := range e.cells {
		if key.ArticleID != articleID {
			continue
		}
		states = append(states, e.stateLocked(key, cell))
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Section.ID < states[j].Section.ID })
	return states, nil
}

// StockStateForAllStoreSections devuelve, por sección catalogada, los estados
// de todos los artículos con celda en ella.
func (e *Engine) StockStateForAllStoreSections() ([]SectionStock, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.st != stateReady {
		return nil, domain.ErrStockNotReady
	}
	bySection := make(map[string][]StockState)
	for key, cell := range e.cells {
		bySection[key.SectionID] = append(bySection[key.SectionID], e.stateLocked(key, cell))
	}
	result := make([]SectionStock, 0, len(e.sections))
	for id, sec := range e.sections {
		states := bySection[id]
		sort.Slice(states, func(i, j int) bool { return states[i].Article.ID < states[j].Article.ID })
		result = append(result, SectionStock{Section: sec, States: states})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Section.ID < result[j].Section.ID })
	return result, nil
}

// StockStateForAllArticles agrupación inversa: por artículo, los estados en
// todas las secciones donde tiene celda.
func (e *Engine) StockStateForAllArticles() ([]ArticleStock, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.st != stateReady {
		return nil, domain.ErrStockNotReady
	}
	byArticle := make(map[string]*ArticleStock)
	for key, cell := range e.cells {
		as, ok := byArticle[key.ArticleID]
		if !ok {
			as = &ArticleStock{Article: cell.Article}
			byArticle[key.ArticleID] = as
		}
		as.States = append(as.States, e.stateLocked(key, cell))
	}
	result := make([]ArticleStock, 0, len(byArticle))
	for _, as := range byArticle {
		sort.Slice(as.States, func(i, j int) bool { return as.States[i].Section.ID < as.States[j].Section.ID })
		result = append(result, *as)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Article.ID < result[j].Article.ID })
	return result, nil
}

func (e *Engine) stateLocked(key cellKey, cell *Cell) StockState {
	return StockState{
		Section:        e.sections[key.SectionID],
		Article:        cell.Article,
		PhysicalCount:  cell.Physical(),
		AvailableCount: cell.Available(),
	}
}

// UpdateNewStoreSection incorpora una sección recién creada al catálogo,
// con su cubo de celdas vacío.
func (e *Engine) UpdateNewStoreSection(s *entity.StoreSection) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st != stateReady {
		return domain.ErrStockNotReady
	}
	e.sections[s.ID] = s
	return nil
}

// UpdateChangedStoreSection sustituye la entrada del catálogo conservando
// las celdas de stock existentes.
func (e *Engine) UpdateChangedStoreSection(s *entity.StoreSection) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st != stateReady {
		return domain.ErrStockNotReady
	}
	e.sections[s.ID] = s
	return nil
}

// UpdateChangedArticle refresca la instantánea del artículo en cada celda
// que ya lo referencia. No crea celdas nuevas.
func (e *Engine) UpdateChangedArticle(a *entity.Article) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st != stateReady {
		return domain.ErrStockNotReady
	}
	for key, cell := range e.cells {
		if key.ArticleID == a.ID {
			cell.Article = a
		}
	}
	return nil
}

// UpdateNewReceipt aplica una entrada recién confirmada a su celda.
func (e *Engine) UpdateNewReceipt(r *entity.Receipt) error {
	return e.apply(r.SectionID, r.ArticleID, r.ArticleCount, false)
}

// UpdateNewEmission aplica una salida recién confirmada a su celda.
func (e *Engine) UpdateNewEmission(em *entity.Emission) error {
	return e.apply(em.SectionID, em.ArticleID, em.ArticleCount, true)
}

// apply localiza (o crea) la celda y acumula la cantidad del movimiento.
// Si la celda no existe, artículo y sección se resuelven con lecturas
// frescas del row store, no con el estado de la carga inicial. Un movimiento
// que referencia un artículo o una sección inexistentes se ignora sin error
// y se cuenta; una sección existente pero aún no catalogada se incorpora.
func (e *Engine) apply(sectionID, articleID string, count int64, emitted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st != stateReady {
		return domain.ErrStockNotReady
	}
	key := cellKey{SectionID: sectionID, ArticleID: articleID}
	cell, ok := e.cells[key]
	if !ok {
		art, err := e.articles.GetByID(articleID)
		if err != nil {
			return err
		}
		if art == nil {
			e.skippedUnknown.Add(1)
			e.log.Debug().
				Str("article_id", articleID).
				Str("section_id", sectionID).
				Msg("movimiento con artículo desconocido, ignorado")
			return nil
		}
		if _, ok := e.sections[sectionID]; !ok {
			sec, err := e.sectionsRepo.GetByID(sectionID)
			if err != nil {
				return err
			}
			if sec == nil {
				e.skippedUnknownSections.Add(1)
				e.log.Debug().
					Str("article_id", articleID).
					Str("section_id", sectionID).
					Msg("movimiento con sección desconocida, ignorado")
				return nil
			}
			e.sections[sectionID] = sec
		}
		cell = &Cell{Article: art}
		e.cells[key] = cell
	}
	if emitted {
		cell.Emitted += count
	} else {
		cell.Receipt += count
	}
	return nil
}

// SkippedUnknownArticles número de movimientos ignorados por artículo
// desconocido desde el último InitFromSystem del proceso.
func (e *Engine) SkippedUnknownArticles() int64 {
	return e.skippedUnknown.Load()
}

// SkippedUnknownSections número de movimientos ignorados por sección
// desconocida desde el último InitFromSystem del proceso.
func (e *Engine) SkippedUnknownSections() int64 {
	return e.skippedUnknownSections.Load()
}
