package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgarzon/almacen-api/internal/application/dto"
	"github.com/mgarzon/almacen-api/internal/application/events"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

type fakeReceiptRepo struct {
	nextID   int64
	inserted []*entity.Receipt
}

func (f *fakeReceiptRepo) Insert(r *entity.Receipt) (int64, error) {
	f.nextID++
	f.inserted = append(f.inserted, r)
	return f.nextID, nil
}
func (f *fakeReceiptRepo) ListInterval(from, to time.Time) ([]*entity.Receipt, error) {
	return nil, nil
}
func (f *fakeReceiptRepo) SumGrouped(from, to time.Time) ([]entity.LedgerSum, error) {
	return nil, nil
}
func (f *fakeReceiptRepo) Upsert(r *entity.Receipt) error { return nil }
func (f *fakeReceiptRepo) All() ([]*entity.Receipt, error) { return nil, nil }

type fakeEmissionRepo struct {
	nextID   int64
	inserted []*entity.Emission
}

func (f *fakeEmissionRepo) Insert(e *entity.Emission) (int64, error) {
	f.nextID++
	f.inserted = append(f.inserted, e)
	return f.nextID, nil
}
func (f *fakeEmissionRepo) ListInterval(from, to time.Time) ([]*entity.Emission, error) {
	return nil, nil
}
func (f *fakeEmissionRepo) SumGrouped(from, to time.Time) ([]entity.LedgerSum, error) {
	return nil, nil
}
func (f *fakeEmissionRepo) Upsert(e *entity.Emission) error { return nil }
func (f *fakeEmissionRepo) All() ([]*entity.Emission, error) { return nil, nil }

func newLedgerFixture() (*LedgerUsecase, *fakeReceiptRepo, *fakeEmissionRepo, *fakeStats, *[]events.Event) {
	rec := &fakeReceiptRepo{}
	emi := &fakeEmissionRepo{}
	stats := &fakeStats{}
	notifier := events.NewNotifier()
	got := collectEvents(notifier)
	uc := NewLedgerUsecase(rec, emi, stats, notifier, logger.Nop())
	return uc, rec, emi, stats, got
}

func TestRecordReceipt_AsignaDatasetIDYNotifica(t *testing.T) {
	uc, rec, _, stats, got := newLedgerFixture()

	out, err := uc.RecordReceipt(dto.RecordReceiptRequest{
		ArticleID:    "A1",
		SectionID:    "S1",
		ArticleCount: 10,
		Note:         "pedido 42",
	}, "user-7")
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.DatasetID, "el id viene del almacén de filas")
	assert.Equal(t, "user-7", out.CreatedBy)
	assert.False(t, out.EventAt.IsZero(), "sin event_at explícito se usa el reloj del servidor")

	require.Len(t, rec.inserted, 1)
	assert.Equal(t, []string{repository.TableReceipts}, stats.touched)
	require.Len(t, *got, 1)
	assert.Equal(t, events.OpInsert, (*got)[0].Op)
	assert.Same(t, out, (*got)[0].Row)
}

func TestRecordReceipt_EventAtExplicitoSeConserva(t *testing.T) {
	uc, _, _, _, _ := newLedgerFixture()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out, err := uc.RecordReceipt(dto.RecordReceiptRequest{
		ArticleID:    "A1",
		SectionID:    "S1",
		ArticleCount: 3,
		EventAt:      &at,
	}, "user-7")
	require.NoError(t, err)
	assert.True(t, out.EventAt.Equal(at))
}

func TestRecordReceipt_SinReferenciasEsInvalido(t *testing.T) {
	uc, rec, _, _, got := newLedgerFixture()

	cases := []dto.RecordReceiptRequest{
		{SectionID: "S1", ArticleCount: 1},                  // sin artículo
		{ArticleID: "A1", ArticleCount: 1},                  // sin sección
		{ArticleID: "A1", SectionID: "S1", ArticleCount: 0}, // cantidad cero
	}
	for _, req := range cases {
		_, err := uc.RecordReceipt(req, "user-7")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, rec.inserted)
	assert.Empty(t, *got)
}

func TestRecordEmission_LlevaDestinatarioYUnidadDeCoste(t *testing.T) {
	uc, _, emi, _, got := newLedgerFixture()

	out, err := uc.RecordEmission(dto.RecordEmissionRequest{
		ArticleID:    "A1",
		SectionID:    "S1",
		ArticleCount: 4,
		ReceiverID:   "R1",
		CostUnitID:   "C1",
	}, "user-7")
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.DatasetID)
	assert.Equal(t, "R1", out.ReceiverID)
	assert.Equal(t, "C1", out.CostUnitID)
	require.Len(t, emi.inserted, 1)
	require.Len(t, *got, 1)
	assert.Equal(t, repository.TableEmissions, (*got)[0].Table)
}
