package repository

import "github.com/mgarzon/almacen-api/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	All() ([]*entity.User, error)
}

// TableStatsRepository puerto de la estadística de cambios por tabla.
// Touch registra el instante del último cambio e invalida el conteo cacheado;
// RefreshCount recalcula y cachea el número de filas.
type TableStatsRepository interface {
	Touch(table string) error
	Get(table string) (*entity.TableStats, error)
	RefreshCount(table string) (int64, error)
}
