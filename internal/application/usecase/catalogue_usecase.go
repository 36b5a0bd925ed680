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

// CatalogueUsecase casos de uso de los catálogos simples: fabricantes,
// destinatarios, hashtags y unidades de coste. Comparten el mismo ciclo
// de vida versionado que el resto de tablas maestras.
type CatalogueUsecase struct {
	manufacturers repository.ManufacturerRepository
	receivers     repository.ReceiverRepository
	hashtags      repository.HashtagRepository
	costUnits     repository.CostUnitRepository
	effects       sideEffects
}

// NewCatalogueUsecase crea el caso de uso de catálogos.
func NewCatalogueUsecase(
	manufacturers repository.ManufacturerRepository,
	receivers repository.ReceiverRepository,
	hashtags repository.HashtagRepository,
	costUnits repository.CostUnitRepository,
	stats repository.TableStatsRepository,
	notifier *events.Notifier,
	log *logger.Logger,
) *CatalogueUsecase {
	return &CatalogueUsecase{
		manufacturers: manufacturers,
		receivers:     receivers,
		hashtags:      hashtags,
		costUnits:     costUnits,
		effects:       sideEffects{stats: stats, notifier: notifier, log: log},
	}
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	return nil
}

// ---- Fabricantes ----

func (u *CatalogueUsecase) CreateManufacturer(req dto.CreateManufacturerRequest) (*entity.Manufacturer, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	m := &entity.Manufacturer{ID: uuid.NewString(), Name: req.Name}
	m.StampNew(time.Now())
	if err := u.manufacturers.Insert(m); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableManufacturers, events.OpInsert, m, repository.WriteOptions{})
	return m, nil
}

func (u *CatalogueUsecase) UpdateManufacturer(id string, req dto.UpdateManufacturerRequest) (*entity.Manufacturer, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	m := &entity.Manufacturer{ID: id, Name: req.Name}
	m.DatasetVersion = req.DatasetVersion
	if err := u.manufacturers.Update(m, repository.WriteOptions{}); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableManufacturers, events.OpUpdate, m, repository.WriteOptions{})
	return m, nil
}

func (u *CatalogueUsecase) GetManufacturer(id string) (*entity.Manufacturer, error) {
	m, err := u.manufacturers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (u *CatalogueUsecase) ListManufacturers() ([]*entity.Manufacturer, error) {
	return u.manufacturers.All()
}

func (u *CatalogueUsecase) DeleteManufacturer(id string) error {
	m, err := u.manufacturers.GetByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if err := u.manufacturers.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableManufacturers, events.OpDelete, m, repository.WriteOptions{})
	return nil
}

// ---- Destinatarios ----

func (u *CatalogueUsecase) CreateReceiver(req dto.CreateReceiverRequest) (*entity.Receiver, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	r := &entity.Receiver{ID: uuid.NewString(), Name: req.Name, Email: req.Email}
	r.StampNew(time.Now())
	if err := u.receivers.Insert(r); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableReceivers, events.OpInsert, r, repository.WriteOptions{})
	return r, nil
}

func (u *CatalogueUsecase) UpdateReceiver(id string, req dto.UpdateReceiverRequest) (*entity.Receiver, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	r := &entity.Receiver{ID: id, Name: req.Name, Email: req.Email}
	r.DatasetVersion = req.DatasetVersion
	if err := u.receivers.Update(r, repository.WriteOptions{}); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableReceivers, events.OpUpdate, r, repository.WriteOptions{})
	return r, nil
}

func (u *CatalogueUsecase) GetReceiver(id string) (*entity.Receiver, error) {
	r, err := u.receivers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (u *CatalogueUsecase) ListReceivers() ([]*entity.Receiver, error) {
	return u.receivers.All()
}

func (u *CatalogueUsecase) DeleteReceiver(id string) error {
	r, err := u.receivers.GetByID(id)
	if err != nil {
		return err
	}
	if r == nil {
		return domain.ErrNotFound
	}
	if err := u.receivers.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableReceivers, events.OpDelete, r, repository.WriteOptions{})
	return nil
}

// ---- Hashtags ----

func (u *CatalogueUsecase) CreateHashtag(req dto.CreateHashtagRequest) (*entity.Hashtag, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	h := &entity.Hashtag{ID: uuid.NewString(), Name: req.Name}
	h.StampNew(time.Now())
	if err := u.hashtags.Insert(h); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableHashtags, events.OpInsert, h, repository.WriteOptions{})
	return h, nil
}

func (u *CatalogueUsecase) UpdateHashtag(id string, req dto.UpdateHashtagRequest) (*entity.Hashtag, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	h := &entity.Hashtag{ID: id, Name: req.Name}
	h.DatasetVersion = req.DatasetVersion
	if err := u.hashtags.Update(h, repository.WriteOptions{}); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableHashtags, events.OpUpdate, h, repository.WriteOptions{})
	return h, nil
}

func (u *CatalogueUsecase) GetHashtag(id string) (*entity.Hashtag, error) {
	h, err := u.hashtags.GetByID(id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.ErrNotFound
	}
	return h, nil
}

func (u *CatalogueUsecase) ListHashtags() ([]*entity.Hashtag, error) {
	return u.hashtags.All()
}

func (u *CatalogueUsecase) DeleteHashtag(id string) error {
	h, err := u.hashtags.GetByID(id)
	if err != nil {
		return err
	}
	if h == nil {
		return domain.ErrNotFound
	}
	if err := u.hashtags.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableHashtags, events.OpDelete, h, repository.WriteOptions{})
	return nil
}

// ---- Unidades de coste ----

func (u *CatalogueUsecase) CreateCostUnit(req dto.CreateCostUnitRequest) (*entity.CostUnit, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	c := &entity.CostUnit{ID: uuid.NewString(), Name: req.Name, Code: req.Code}
	c.StampNew(time.Now())
	if err := u.costUnits.Insert(c); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableCostUnits, events.OpInsert, c, repository.WriteOptions{})
	return c, nil
}

func (u *CatalogueUsecase) UpdateCostUnit(id string, req dto.UpdateCostUnitRequest) (*entity.CostUnit, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	c := &entity.CostUnit{ID: id, Name: req.Name, Code: req.Code}
	c.DatasetVersion = req.DatasetVersion
	if err := u.costUnits.Update(c, repository.WriteOptions{}); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableCostUnits, events.OpUpdate, c, repository.WriteOptions{})
	return c, nil
}

func (u *CatalogueUsecase) GetCostUnit(id string) (*entity.CostUnit, error) {
	c, err := u.costUnits.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (u *CatalogueUsecase) ListCostUnits() ([]*entity.CostUnit, error) {
	return u.costUnits.All()
}

func (u *CatalogueUsecase) DeleteCostUnit(id string) error {
	c, err := u.costUnits.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if err := u.costUnits.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableCostUnits, events.OpDelete, c, repository.WriteOptions{})
	return nil
}
