package repository

import (
	"time"

	"github.com/mgarzon/almacen-api/internal/domain/entity"
)

// ReceiptRepository puerto del libro de entradas. Insert devuelve el
// dataset_id secuencial asignado por el almacén; Upsert existe solo para la
// importación de un volcado con dataset_id explícito.
type ReceiptRepository interface {
	Insert(r *entity.Receipt) (int64, error)
	ListInterval(from, to time.Time) ([]*entity.Receipt, error)
	SumGrouped(from, to time.Time) ([]entity.LedgerSum, error)
	Upsert(r *entity.Receipt) error
	All() ([]*entity.Receipt, error)
}

// EmissionRepository puerto del libro de salidas.
type EmissionRepository interface {
	Insert(e *entity.Emission) (int64, error)
	ListInterval(from, to time.Time) ([]*entity.Emission, error)
	SumGrouped(from, to time.Time) ([]entity.LedgerSum, error)
	Upsert(e *entity.Emission) error
	All() ([]*entity.Emission, error)
}
