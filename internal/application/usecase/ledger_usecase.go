package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/mgarzon/almacen-api/internal/application/dto"
	"github.com/mgarzon/almacen-api/internal/application/events"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// LedgerUsecase casos de uso de los libros de movimientos. Las filas son de
// solo inserción: nunca se actualizan ni se borran por la API. A propósito no
// se valida que article_id o section_id existan; un movimiento sobre un
// artículo luego borrado sigue siendo un hecho histórico válido.
type LedgerUsecase struct {
	receipts  repository.ReceiptRepository
	emissions repository.EmissionRepository
	effects   sideEffects
}

// NewLedgerUsecase crea el caso de uso de libros.
func NewLedgerUsecase(
	receipts repository.ReceiptRepository,
	emissions repository.EmissionRepository,
	stats repository.TableStatsRepository,
	notifier *events.Notifier,
	log *logger.Logger,
) *LedgerUsecase {
	return &LedgerUsecase{
		receipts:  receipts,
		emissions: emissions,
		effects:   sideEffects{stats: stats, notifier: notifier, log: log},
	}
}

func validateMovement(articleID, sectionID string, count int64) error {
	if strings.TrimSpace(articleID) == "" {
		return fmt.Errorf("%w: article_id requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(sectionID) == "" {
		return fmt.Errorf("%w: section_id requerido", domain.ErrInvalidInput)
	}
	if count == 0 {
		return fmt.Errorf("%w: article_count no puede ser cero", domain.ErrInvalidInput)
	}
	return nil
}

// RecordReceipt registra una entrada de stock y devuelve la fila con el
// dataset_id asignado por el almacén.
func (u *LedgerUsecase) RecordReceipt(req dto.RecordReceiptRequest, createdBy string) (*entity.Receipt, error) {
	if err := validateMovement(req.ArticleID, req.SectionID, req.ArticleCount); err != nil {
		return nil, err
	}
	eventAt := time.Now()
	if req.EventAt != nil {
		eventAt = *req.EventAt
	}
	r := &entity.Receipt{
		ArticleID:    req.ArticleID,
		SectionID:    req.SectionID,
		ArticleCount: req.ArticleCount,
		EventAt:      eventAt,
		Note:         req.Note,
		CreatedBy:    createdBy,
	}
	id, err := u.receipts.Insert(r)
	if err != nil {
		return nil, err
	}
	r.DatasetID = id
	u.effects.changed(repository.TableReceipts, events.OpInsert, r, repository.WriteOptions{})
	return r, nil
}

// RecordEmission registra una salida de stock.
func (u *LedgerUsecase) RecordEmission(req dto.RecordEmissionRequest, createdBy string) (*entity.Emission, error) {
	if err := validateMovement(req.ArticleID, req.SectionID, req.ArticleCount); err != nil {
		return nil, err
	}
	eventAt := time.Now()
	if req.EventAt != nil {
		eventAt = *req.EventAt
	}
	e := &entity.Emission{
		ArticleID:    req.ArticleID,
		SectionID:    req.SectionID,
		ArticleCount: req.ArticleCount,
		EventAt:      eventAt,
		ReceiverID:   req.ReceiverID,
		CostUnitID:   req.CostUnitID,
		Note:         req.Note,
		CreatedBy:    createdBy,
	}
	id, err := u.emissions.Insert(e)
	if err != nil {
		return nil, err
	}
	e.DatasetID = id
	u.effects.changed(repository.TableEmissions, events.OpInsert, e, repository.WriteOptions{})
	return e, nil
}

// ListReceipts entradas dentro de un intervalo [from, to).
func (u *LedgerUsecase) ListReceipts(from, to time.Time) ([]*entity.Receipt, error) {
	return u.receipts.ListInterval(from, to)
}

// ListEmissions salidas dentro de un intervalo [from, to).
func (u *LedgerUsecase) ListEmissions(from, to time.Time) ([]*entity.Emission, error) {
	return u.emissions.ListInterval(from, to)
}
