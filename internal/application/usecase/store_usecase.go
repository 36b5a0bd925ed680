package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mgarzon/almacen-api/internal/application/dto"
	"github.com/mgarzon/almacen-api/internal/application/events"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// StoreUsecase casos de uso de almacenes y de sus secciones.
type StoreUsecase struct {
	stores   repository.StoreRepository
	sections repository.StoreSectionRepository
	effects  sideEffects
}

// NewStoreUsecase crea el caso de uso de almacenes.
func NewStoreUsecase(
	stores repository.StoreRepository,
	sections repository.StoreSectionRepository,
	stats repository.TableStatsRepository,
	notifier *events.Notifier,
	log *logger.Logger,
) *StoreUsecase {
	return &StoreUsecase{
		stores:   stores,
		sections: sections,
		effects:  sideEffects{stats: stats, notifier: notifier, log: log},
	}
}

// Create da de alta un almacén.
func (u *StoreUsecase) Create(req dto.CreateStoreRequest) (*entity.Store, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	s := &entity.Store{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Address: req.Address,
	}
	s.StampNew(time.Now())
	if err := u.stores.Insert(s); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableStores, events.OpInsert, s, repository.WriteOptions{})
	return s, nil
}

// Update reescritura versionada de un almacén.
func (u *StoreUsecase) Update(id string, req dto.UpdateStoreRequest) (*entity.Store, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	s := &entity.Store{ID: id, Name: req.Name, Address: req.Address}
	s.DatasetVersion = req.DatasetVersion
	if err := u.stores.Update(s, repository.WriteOptions{}); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableStores, events.OpUpdate, s, repository.WriteOptions{})
	return s, nil
}

// Get devuelve un almacén por id.
func (u *StoreUsecase) Get(id string) (*entity.Store, error) {
	s, err := u.stores.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Search busca almacenes por nombre.
func (u *StoreUsecase) Search(nameLike string) ([]*entity.Store, error) {
	return u.stores.Search(nameLike)
}

// List devuelve todos los almacenes.
func (u *StoreUsecase) List() ([]*entity.Store, error) {
	return u.stores.All()
}

// Delete elimina un almacén.
func (u *StoreUsecase) Delete(id string) error {
	s, err := u.stores.GetByID(id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	if err := u.stores.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableStores, events.OpDelete, s, repository.WriteOptions{})
	return nil
}

// CreateSection da de alta una sección dentro de un almacén. El evento de
// inserción alimenta al motor de stock, que crea la celda vacía.
func (u *StoreUsecase) CreateSection(req dto.CreateStoreSectionRequest) (*entity.StoreSection, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.StoreID) == "" {
		return nil, fmt.Errorf("%w: store_id requerido", domain.ErrInvalidInput)
	}
	sec := &entity.StoreSection{
		ID:       uuid.NewString(),
		StoreID:  req.StoreID,
		Name:     req.Name,
		Position: req.Position,
	}
	sec.StampNew(time.Now())
	if err := u.sections.Insert(sec); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableStoreSections, events.OpInsert, sec, repository.WriteOptions{})
	return sec, nil
}

// UpdateSection reescritura versionada de una sección.
func (u *StoreUsecase) UpdateSection(id string, req dto.UpdateStoreSectionRequest) (*entity.StoreSection, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	sec := &entity.StoreSection{ID: id, StoreID: req.StoreID, Name: req.Name, Position: req.Position}
	sec.DatasetVersion = req.DatasetVersion
	if err := u.sections.Update(sec, repository.WriteOptions{}); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableStoreSections, events.OpUpdate, sec, repository.WriteOptions{})
	return sec, nil
}

// GetSection devuelve una sección por id.
func (u *StoreUsecase) GetSection(id string) (*entity.StoreSection, error) {
	sec, err := u.sections.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, domain.ErrNotFound
	}
	return sec, nil
}

// ListSections secciones de un almacén ordenadas por posición.
func (u *StoreUsecase) ListSections(storeID string) ([]*entity.StoreSection, error) {
	return u.sections.ListByStore(storeID)
}

// ListAllSections todas las secciones de todos los almacenes.
func (u *StoreUsecase) ListAllSections() ([]*entity.StoreSection, error) {
	return u.sections.All()
}

// DeleteSection elimina una sección.
func (u *StoreUsecase) DeleteSection(id string) error {
	sec, err := u.sections.GetByID(id)
	if err != nil {
		return err
	}
	if sec == nil {
		return domain.ErrNotFound
	}
	if err := u.sections.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableStoreSections, events.OpDelete, sec, repository.WriteOptions{})
	return nil
}
