package repository

import "github.com/mgarzon/almacen-api/internal/domain/entity"

// Puertos de persistencia de las tablas maestras (DIP). Todas comparten el
// mismo contrato de escritura: Insert persiste la fila tal cual (el caller
// estampa los campos del protocolo) y Update ejecuta la escritura
// condicionada por dataset_version descrita en el paquete postgres.
// GetByID devuelve (nil, nil) cuando la clave no existe.

type ArticleRepository interface {
	Insert(article *entity.Article) error
	Update(article *entity.Article, opts WriteOptions) error
	GetByID(id string) (*entity.Article, error)
	Search(nameLike string) ([]*entity.Article, error)
	All() ([]*entity.Article, error)
	Delete(id string) error
}

type AttributeRepository interface {
	Insert(attribute *entity.Attribute) error
	Update(attribute *entity.Attribute, opts WriteOptions) error
	GetByID(id string) (*entity.Attribute, error)
	ListByArticle(articleID string) ([]*entity.Attribute, error)
	All() ([]*entity.Attribute, error)
	Delete(id string) error
}

type ImageReferenceRepository interface {
	Insert(image *entity.ImageReference) error
	Update(image *entity.ImageReference, opts WriteOptions) error
	GetByID(id string) (*entity.ImageReference, error)
	ListByArticle(articleID string) ([]*entity.ImageReference, error)
	All() ([]*entity.ImageReference, error)
	Delete(id string) error
}

type StoreRepository interface {
	Insert(store *entity.Store) error
	Update(store *entity.Store, opts WriteOptions) error
	GetByID(id string) (*entity.Store, error)
	Search(nameLike string) ([]*entity.Store, error)
	All() ([]*entity.Store, error)
	Delete(id string) error
}

type StoreSectionRepository interface {
	Insert(section *entity.StoreSection) error
	Update(section *entity.StoreSection, opts WriteOptions) error
	GetByID(id string) (*entity.StoreSection, error)
	ListByStore(storeID string) ([]*entity.StoreSection, error)
	All() ([]*entity.StoreSection, error)
	Delete(id string) error
}

type ManufacturerRepository interface {
	Insert(m *entity.Manufacturer) error
	Update(m *entity.Manufacturer, opts WriteOptions) error
	GetByID(id string) (*entity.Manufacturer, error)
	Search(nameLike string) ([]*entity.Manufacturer, error)
	All() ([]*entity.Manufacturer, error)
	Delete(id string) error
}

type ReceiverRepository interface {
	Insert(r *entity.Receiver) error
	Update(r *entity.Receiver, opts WriteOptions) error
	GetByID(id string) (*entity.Receiver, error)
	Search(nameLike string) ([]*entity.Receiver, error)
	All() ([]*entity.Receiver, error)
	Delete(id string) error
}

type HashtagRepository interface {
	Insert(h *entity.Hashtag) error
	Update(h *entity.Hashtag, opts WriteOptions) error
	GetByID(id string) (*entity.Hashtag, error)
	Search(nameLike string) ([]*entity.Hashtag, error)
	All() ([]*entity.Hashtag, error)
	Delete(id string) error
}

type CostUnitRepository interface {
	Insert(c *entity.CostUnit) error
	Update(c *entity.CostUnit, opts WriteOptions) error
	GetByID(id string) (*entity.CostUnit, error)
	Search(nameLike string) ([]*entity.CostUnit, error)
	All() ([]*entity.CostUnit, error)
	Delete(id string) error
}
