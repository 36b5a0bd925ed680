package stock

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos que consume el motor
// ──────────────────────────────────────────────────────────────────────────────

type fakeArticleRepo struct {
	mu       sync.Mutex
	byID     map[string]*entity.Article
	allErr   error
	getCalls int
}

func (f *fakeArticleRepo) Insert(a *entity.Article) error { return nil }
func (f *fakeArticleRepo) Update(a *entity.Article, opts repository.WriteOptions) error {
	return nil
}
func (f *fakeArticleRepo) GetByID(id string) (*entity.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.byID[id], nil
}
func (f *fakeArticleRepo) Search(nameLike string) ([]*entity.Article, error) { return nil, nil }
func (f *fakeArticleRepo) All() ([]*entity.Article, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Article, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, nil
}
func (f *fakeArticleRepo) Delete(id string) error { return nil }

type fakeSectionRepo struct {
	sections []*entity.StoreSection
	byID     map[string]*entity.StoreSection
	allErr   error
}

func (f *fakeSectionRepo) Insert(s *entity.StoreSection) error { return nil }
func (f *fakeSectionRepo) Update(s *entity.StoreSection, opts repository.WriteOptions) error {
	return nil
}
func (f *fakeSectionRepo) GetByID(id string) (*entity.StoreSection, error) {
	return f.byID[id], nil
}
func (f *fakeSectionRepo) ListByStore(storeID string) ([]*entity.StoreSection, error) {
	return nil, nil
}
func (f *fakeSectionRepo) All() ([]*entity.StoreSection, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.sections, nil
}
func (f *fakeSectionRepo) Delete(id string) error { return nil }

type fakeReceiptRepo struct {
	sums []entity.LedgerSum
}

func (f *fakeReceiptRepo) Insert(r *entity.Receipt) (int64, error) { return 0, nil }
func (f *fakeReceiptRepo) ListInterval(from, to time.Time) ([]*entity.Receipt, error) {
	return nil, nil
}
func (f *fakeReceiptRepo) SumGrouped(from, to time.Time) ([]entity.LedgerSum, error) {
	return f.sums, nil
}
func (f *fakeReceiptRepo) Upsert(r *entity.Receipt) error { return nil }
func (f *fakeReceiptRepo) All() ([]*entity.Receipt, error) {
	return nil, nil
}

type fakeEmissionRepo struct {
	sums []entity.LedgerSum
}

func (f *fakeEmissionRepo) Insert(e *entity.Emission) (int64, error) { return 0, nil }
func (f *fakeEmissionRepo) ListInterval(from, to time.Time) ([]*entity.Emission, error) {
	return nil, nil
}
func (f *fakeEmissionRepo) SumGrouped(from, to time.Time) ([]entity.LedgerSum, error) {
	return f.sums, nil
}
func (f *fakeEmissionRepo) Upsert(e *entity.Emission) error { return nil }
func (f *fakeEmissionRepo) All() ([]*entity.Emission, error) {
	return nil, nil
}

func newTestEngine(arts *fakeArticleRepo, secs *fakeSectionRepo, rec *fakeReceiptRepo, emi *fakeEmissionRepo) *Engine {
	return NewEngine(arts, secs, rec, emi, logger.Nop())
}

func art(id, name string) *entity.Article {
	return &entity.Article{ID: id, Name: name}
}

func sec(id, storeID, name string) *entity.StoreSection {
	return &entity.StoreSection{ID: id, StoreID: storeID, Name: name}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestInitFromSystem_SumasDeAmbosLibros(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	secs := &fakeSectionRepo{sections: []*entity.StoreSection{sec("S1", "W1", "Estantería 1")}}
	rec := &fakeReceiptRepo{sums: []entity.LedgerSum{{SectionID: "S1", ArticleID: "A1", Total: 10}}}
	emi := &fakeEmissionRepo{sums: []entity.LedgerSum{{SectionID: "S1", ArticleID: "A1", Total: 3}}}

	e := newTestEngine(arts, secs, rec, emi)
	require.NoError(t, e.InitFromSystem())

	states, err := e.StockStateForArticle("A1")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, int64(7), states[0].PhysicalCount, "físico = entradas - salidas")
	assert.Equal(t, int64(7), states[0].AvailableCount, "disponible coincide con físico")
	assert.Equal(t, "S1", states[0].Section.ID)
	assert.Equal(t, "Tornillos", states[0].Article.Name)
}

func TestInitFromSystem_ArticuloDesconocidoSeIgnoraYSeCuenta(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	secs := &fakeSectionRepo{sections: []*entity.StoreSection{sec("S1", "W1", "Estantería 1")}}
	rec := &fakeReceiptRepo{sums: []entity.LedgerSum{
		{SectionID: "S1", ArticleID: "A1", Total: 5},
		{SectionID: "S1", ArticleID: "huerfano", Total: 99},
	}}
	emi := &fakeEmissionRepo{}

	e := newTestEngine(arts, secs, rec, emi)
	require.NoError(t, e.InitFromSystem())

	assert.Equal(t, int64(1), e.SkippedUnknownArticles())

	states, err := e.StockStateForArticle("huerfano")
	require.NoError(t, err)
	assert.Empty(t, states, "el artículo desconocido no genera celda")

	states, err = e.StockStateForArticle("A1")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, int64(5), states[0].PhysicalCount)
}

func TestInitFromSystem_SeccionDesconocidaSeIgnoraYSeCuenta(t *testing.T) {
	// Sumas huérfanas de una sección borrada antes de la recarga: el
	// movimiento se ignora como el de artículo desconocido.
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	secs := &fakeSectionRepo{sections: []*entity.StoreSection{sec("S1", "W1", "Estantería 1")}}
	rec := &fakeReceiptRepo{sums: []entity.LedgerSum{
		{SectionID: "S1", ArticleID: "A1", Total: 5},
		{SectionID: "borrada", ArticleID: "A1", Total: 99},
	}}
	emi := &fakeEmissionRepo{sums: []entity.LedgerSum{
		{SectionID: "borrada", ArticleID: "A1", Total: 2},
	}}

	e := newTestEngine(arts, secs, rec, emi)
	require.NoError(t, e.InitFromSystem())

	assert.Equal(t, int64(2), e.SkippedUnknownSections())
	assert.Equal(t, int64(0), e.SkippedUnknownArticles())

	states, err := e.StockStateForArticle("A1")
	require.NoError(t, err)
	require.Len(t, states, 1, "la sección desconocida no genera celda")
	assert.Equal(t, "S1", states[0].Section.ID)
	assert.Equal(t, int64(5), states[0].PhysicalCount)

	all, err := e.StockStateForAllArticles()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].States, 1)
}

func TestInitFromSystem_ReiniciaContadorDeIgnorados(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{}}
	secs := &fakeSectionRepo{}
	rec := &fakeReceiptRepo{sums: []entity.LedgerSum{{SectionID: "S1", ArticleID: "X", Total: 1}}}
	emi := &fakeEmissionRepo{}

	e := newTestEngine(arts, secs, rec, emi)
	require.NoError(t, e.InitFromSystem())
	assert.Equal(t, int64(1), e.SkippedUnknownArticles())

	rec.sums = nil
	require.NoError(t, e.InitFromSystem())
	assert.Equal(t, int64(0), e.SkippedUnknownArticles(), "cada recarga parte de cero")
	assert.Equal(t, int64(0), e.SkippedUnknownSections())
}

func TestInitFromSystem_ErrorDelRowStoreAbortaLaCarga(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{}, allErr: errors.New("conexión caída")}
	secs := &fakeSectionRepo{}
	e := newTestEngine(arts, secs, &fakeReceiptRepo{}, &fakeEmissionRepo{})

	require.Error(t, e.InitFromSystem())

	_, err := e.StockStateForAllArticles()
	assert.ErrorIs(t, err, domain.ErrStockNotReady, "una carga abortada no deja caché a medias")
}

func TestConsultas_AntesDeInicializar(t *testing.T) {
	e := newTestEngine(&fakeArticleRepo{byID: map[string]*entity.Article{}}, &fakeSectionRepo{}, &fakeReceiptRepo{}, &fakeEmissionRepo{})

	_, err := e.StockStateForArticle("A1")
	assert.ErrorIs(t, err, domain.ErrStockNotReady)
	_, err = e.StockStateForAllStoreSections()
	assert.ErrorIs(t, err, domain.ErrStockNotReady)
	_, err = e.StockStateForAllArticles()
	assert.ErrorIs(t, err, domain.ErrStockNotReady)

	err = e.UpdateNewReceipt(&entity.Receipt{SectionID: "S1", ArticleID: "A1", ArticleCount: 1})
	assert.ErrorIs(t, err, domain.ErrStockNotReady)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualizaciones incrementales
// ──────────────────────────────────────────────────────────────────────────────

func TestIncremental_EquivaleALaCargaPorLotes(t *testing.T) {
	movs := []struct {
		section string
		article string
		count   int64
		emitted bool
	}{
		{"S1", "A1", 10, false},
		{"S1", "A1", 3, true},
		{"S2", "A1", 4, false},
		{"S1", "A2", 7, false},
		{"S1", "A2", 9, true}, // deja físico negativo
	}

	articles := map[string]*entity.Article{"A1": art("A1", "Tornillos"), "A2": art("A2", "Tuercas")}
	sections := []*entity.StoreSection{sec("S1", "W1", "E1"), sec("S2", "W1", "E2")}

	// Motor A: todo vía carga inicial.
	var recSums, emiSums []entity.LedgerSum
	for _, m := range movs {
		s := entity.LedgerSum{SectionID: m.section, ArticleID: m.article, Total: m.count}
		if m.emitted {
			emiSums = append(emiSums, s)
		} else {
			recSums = append(recSums, s)
		}
	}
	batch := newTestEngine(
		&fakeArticleRepo{byID: articles},
		&fakeSectionRepo{sections: sections},
		&fakeReceiptRepo{sums: recSums},
		&fakeEmissionRepo{sums: emiSums},
	)
	require.NoError(t, batch.InitFromSystem())

	// Motor B: carga vacía y todo vía actualizaciones incrementales.
	incr := newTestEngine(
		&fakeArticleRepo{byID: articles},
		&fakeSectionRepo{sections: sections},
		&fakeReceiptRepo{},
		&fakeEmissionRepo{},
	)
	require.NoError(t, incr.InitFromSystem())
	for _, m := range movs {
		if m.emitted {
			require.NoError(t, incr.UpdateNewEmission(&entity.Emission{SectionID: m.section, ArticleID: m.article, ArticleCount: m.count}))
		} else {
			require.NoError(t, incr.UpdateNewReceipt(&entity.Receipt{SectionID: m.section, ArticleID: m.article, ArticleCount: m.count}))
		}
	}

	a, err := batch.StockStateForAllArticles()
	require.NoError(t, err)
	b, err := incr.StockStateForAllArticles()
	require.NoError(t, err)
	assert.Equal(t, a, b, "ambos caminos producen el mismo agregado")

	// El físico negativo se conserva tal cual.
	states, err := incr.StockStateForArticle("A2")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, int64(-2), states[0].PhysicalCount)
}

func TestUpdateNewReceipt_ArticuloDesconocidoSilencioso(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{}}
	e := newTestEngine(arts, &fakeSectionRepo{}, &fakeReceiptRepo{}, &fakeEmissionRepo{})
	require.NoError(t, e.InitFromSystem())

	err := e.UpdateNewReceipt(&entity.Receipt{SectionID: "S1", ArticleID: "fantasma", ArticleCount: 5})
	require.NoError(t, err, "un movimiento con artículo inexistente no es un error")
	assert.Equal(t, int64(1), e.SkippedUnknownArticles())

	states, err := e.StockStateForArticle("fantasma")
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestUpdateNewReceipt_SeccionDesconocidaSilenciosa(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	e := newTestEngine(arts, &fakeSectionRepo{}, &fakeReceiptRepo{}, &fakeEmissionRepo{})
	require.NoError(t, e.InitFromSystem())

	err := e.UpdateNewReceipt(&entity.Receipt{SectionID: "fantasma", ArticleID: "A1", ArticleCount: 5})
	require.NoError(t, err, "un movimiento con sección inexistente no es un error")
	assert.Equal(t, int64(1), e.SkippedUnknownSections())
	assert.Equal(t, int64(0), e.SkippedUnknownArticles())

	states, err := e.StockStateForArticle("A1")
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestUpdateNewReceipt_SeccionNoCatalogadaSeResuelveDelRowStore(t *testing.T) {
	// Sección creada sin pasar por el notificador (otra instancia, carrera):
	// la lectura fresca la incorpora al catálogo y la celda nace completa.
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	secs := &fakeSectionRepo{byID: map[string]*entity.StoreSection{"S9": sec("S9", "W1", "E9")}}
	e := newTestEngine(arts, secs, &fakeReceiptRepo{}, &fakeEmissionRepo{})
	require.NoError(t, e.InitFromSystem())

	require.NoError(t, e.UpdateNewReceipt(&entity.Receipt{SectionID: "S9", ArticleID: "A1", ArticleCount: 4}))
	assert.Equal(t, int64(0), e.SkippedUnknownSections())

	states, err := e.StockStateForArticle("A1")
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.NotNil(t, states[0].Section)
	assert.Equal(t, "S9", states[0].Section.ID)
	assert.Equal(t, int64(4), states[0].PhysicalCount)

	bySection, err := e.StockStateForAllStoreSections()
	require.NoError(t, err)
	require.Len(t, bySection, 1)
	assert.Equal(t, "S9", bySection[0].Section.ID)
}

func TestUpdateChangedArticle_RefrescaSinCrearCeldas(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	secs := &fakeSectionRepo{sections: []*entity.StoreSection{sec("S1", "W1", "E1")}}
	rec := &fakeReceiptRepo{sums: []entity.LedgerSum{{SectionID: "S1", ArticleID: "A1", Total: 2}}}

	e := newTestEngine(arts, secs, rec, &fakeEmissionRepo{})
	require.NoError(t, e.InitFromSystem())

	renamed := art("A1", "Tornillos M8")
	require.NoError(t, e.UpdateChangedArticle(renamed))

	states, err := e.StockStateForArticle("A1")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "Tornillos M8", states[0].Article.Name)
	assert.Equal(t, int64(2), states[0].PhysicalCount, "el cambio de artículo no toca contadores")

	// Un artículo sin celdas no gana ninguna por un cambio de masterdata.
	require.NoError(t, e.UpdateChangedArticle(art("A9", "Nuevo")))
	all, err := e.StockStateForAllArticles()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestUpdateStoreSections_CatalogoYSumas(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	secs := &fakeSectionRepo{sections: []*entity.StoreSection{sec("S1", "W1", "E1")}}
	rec := &fakeReceiptRepo{sums: []entity.LedgerSum{{SectionID: "S1", ArticleID: "A1", Total: 2}}}

	e := newTestEngine(arts, secs, rec, &fakeEmissionRepo{})
	require.NoError(t, e.InitFromSystem())

	// Sección nueva: aparece en el catálogo con cubo vacío.
	require.NoError(t, e.UpdateNewStoreSection(sec("S2", "W1", "E2")))
	bySection, err := e.StockStateForAllStoreSections()
	require.NoError(t, err)
	require.Len(t, bySection, 2)
	assert.Equal(t, "S2", bySection[1].Section.ID)
	assert.Empty(t, bySection[1].States)

	// Sección cambiada: se sustituye la entrada y las celdas sobreviven.
	require.NoError(t, e.UpdateChangedStoreSection(sec("S1", "W1", "E1 renombrada")))
	bySection, err = e.StockStateForAllStoreSections()
	require.NoError(t, err)
	assert.Equal(t, "E1 renombrada", bySection[0].Section.Name)
	require.Len(t, bySection[0].States, 1)
	assert.Equal(t, int64(2), bySection[0].States[0].PhysicalCount)
}

func TestApply_EscriturasConcurrentesSobreClaveNueva(t *testing.T) {
	arts := &fakeArticleRepo{byID: map[string]*entity.Article{"A1": art("A1", "Tornillos")}}
	e := newTestEngine(arts, &fakeSectionRepo{sections: []*entity.StoreSection{sec("S1", "W1", "E1")}}, &fakeReceiptRepo{}, &fakeEmissionRepo{})
	require.NoError(t, e.InitFromSystem())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.UpdateNewReceipt(&entity.Receipt{SectionID: "S1", ArticleID: "A1", ArticleCount: 1})
		}()
	}
	wg.Wait()

	states, err := e.StockStateForArticle("A1")
	require.NoError(t, err)
	require.Len(t, states, 1, "como mucho una celda por clave bajo concurrencia")
	assert.Equal(t, int64(n), states[0].PhysicalCount, "no se pierde ningún movimiento")
}
