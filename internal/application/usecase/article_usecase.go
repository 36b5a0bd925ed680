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

// ArticleUsecase casos de uso de artículos y de sus sub-recursos
// (atributos y referencias de imagen).
type ArticleUsecase struct {
	articles   repository.ArticleRepository
	attributes repository.AttributeRepository
	images     repository.ImageReferenceRepository
	effects    sideEffects
}

// NewArticleUsecase crea el caso de uso de artículos.
func NewArticleUsecase(
	articles repository.ArticleRepository,
	attributes repository.AttributeRepository,
	images repository.ImageReferenceRepository,
	stats repository.TableStatsRepository,
	notifier *events.Notifier,
	log *logger.Logger,
) *ArticleUsecase {
	return &ArticleUsecase{
		articles:   articles,
		attributes: attributes,
		images:     images,
		effects:    sideEffects{stats: stats, notifier: notifier, log: log},
	}
}

// Create da de alta un artículo con versión inicial 1.
func (u *ArticleUsecase) Create(req dto.CreateArticleRequest) (*entity.Article, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	a := &entity.Article{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Barcode:        req.Barcode,
		Unit:           req.Unit,
		Price:          req.Price,
		ManufacturerID: req.ManufacturerID,
		CostUnitID:     req.CostUnitID,
		Hashtags:       req.Hashtags,
		Description:    req.Description,
	}
	a.StampNew(time.Now())
	if err := u.articles.Insert(a); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableArticles, events.OpInsert, a, repository.WriteOptions{})
	return a, nil
}

// Update reescribe la fila completa condicionada a la dataset_version enviada.
// Una versión obsoleta produce un conflicto; el caller debe releer y decidir,
// aquí nunca se reintenta.
func (u *ArticleUsecase) Update(id string, req dto.UpdateArticleRequest) (*entity.Article, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	a := &entity.Article{
		ID:             id,
		Name:           req.Name,
		Barcode:        req.Barcode,
		Unit:           req.Unit,
		Price:          req.Price,
		ManufacturerID: req.ManufacturerID,
		CostUnitID:     req.CostUnitID,
		Hashtags:       req.Hashtags,
		Description:    req.Description,
	}
	a.DatasetVersion = req.DatasetVersion
	if err := u.articles.Update(a, repository.WriteOptions{}); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableArticles, events.OpUpdate, a, repository.WriteOptions{})
	return a, nil
}

// Get devuelve un artículo por id.
func (u *ArticleUsecase) Get(id string) (*entity.Article, error) {
	a, err := u.articles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// Search busca artículos por nombre (subcadena, sin distinguir mayúsculas).
func (u *ArticleUsecase) Search(nameLike string) ([]*entity.Article, error) {
	return u.articles.Search(nameLike)
}

// List devuelve todos los artículos.
func (u *ArticleUsecase) List() ([]*entity.Article, error) {
	return u.articles.All()
}

// Delete elimina un artículo. Las filas de los libros que lo referencian
// permanecen; el motor de stock las ignora al no resolver el artículo.
func (u *ArticleUsecase) Delete(id string) error {
	a, err := u.articles.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	if err := u.articles.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableArticles, events.OpDelete, a, repository.WriteOptions{})
	return nil
}

// CreateAttribute añade un par clave/valor a un artículo.
func (u *ArticleUsecase) CreateAttribute(articleID string, req dto.CreateAttributeRequest) (*entity.Attribute, error) {
	if strings.TrimSpace(req.Key) == "" {
		return nil, fmt.Errorf("%w: key requerido", domain.ErrInvalidInput)
	}
	at := &entity.Attribute{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		Key:       req.Key,
		Value:     req.Value,
	}
	at.StampNew(time.Now())
	if err := u.attributes.Insert(at); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableAttributes, events.OpInsert, at, repository.WriteOptions{})
	return at, nil
}

// ListAttributes atributos de un artículo.
func (u *ArticleUsecase) ListAttributes(articleID string) ([]*entity.Attribute, error) {
	return u.attributes.ListByArticle(articleID)
}

// DeleteAttribute elimina un atributo.
func (u *ArticleUsecase) DeleteAttribute(id string) error {
	at, err := u.attributes.GetByID(id)
	if err != nil {
		return err
	}
	if at == nil {
		return domain.ErrNotFound
	}
	if err := u.attributes.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableAttributes, events.OpDelete, at, repository.WriteOptions{})
	return nil
}

// CreateImageReference registra una referencia de imagen del artículo.
func (u *ArticleUsecase) CreateImageReference(articleID string, req dto.CreateImageReferenceRequest) (*entity.ImageReference, error) {
	if strings.TrimSpace(req.FileName) == "" {
		return nil, fmt.Errorf("%w: file_name requerido", domain.ErrInvalidInput)
	}
	img := &entity.ImageReference{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		FileName:  req.FileName,
		SortIndex: req.SortIndex,
	}
	img.StampNew(time.Now())
	if err := u.images.Insert(img); err != nil {
		return nil, err
	}
	u.effects.changed(repository.TableImageReferences, events.OpInsert, img, repository.WriteOptions{})
	return img, nil
}

// ListImageReferences referencias de imagen de un artículo.
func (u *ArticleUsecase) ListImageReferences(articleID string) ([]*entity.ImageReference, error) {
	return u.images.ListByArticle(articleID)
}

// DeleteImageReference elimina una referencia de imagen.
func (u *ArticleUsecase) DeleteImageReference(id string) error {
	img, err := u.images.GetByID(id)
	if err != nil {
		return err
	}
	if img == nil {
		return domain.ErrNotFound
	}
	if err := u.images.Delete(id); err != nil {
		return err
	}
	u.effects.changed(repository.TableImageReferences, events.OpDelete, img, repository.WriteOptions{})
	return nil
}
