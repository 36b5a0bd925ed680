package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

var _ repository.StoreSectionRepository = (*StoreSectionRepo)(nil)

const sectionColumns = `id, store_id, name, position, dataset_version, created_at, edited_at`

// StoreSectionRepo implementación del puerto StoreSectionRepository sobre PostgreSQL.
type StoreSectionRepo struct {
	q Querier
}

// NewStoreSectionRepository construye el adaptador de persistencia para secciones.
func NewStoreSectionRepository(q Querier) *StoreSectionRepo {
	return &StoreSectionRepo{q: q}
}

func (r *StoreSectionRepo) Insert(s *entity.StoreSection) error {
	query := `
		INSERT INTO store_sections (` + sectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.StoreID, s.Name, s.Position, s.DatasetVersion, s.CreatedAt, s.EditedAt,
	)
	if err != nil {
		return storeError("insert store_sections", err)
	}
	return nil
}

func (r *StoreSectionRepo) Update(s *entity.StoreSection, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableStoreSections, s.ID, &s.Masterdata, opts,
		`store_id = $4, name = $5, position = $6`, s.StoreID, s.Name, s.Position,
	)
}

func (r *StoreSectionRepo) GetByID(id string) (*entity.StoreSection, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+sectionColumns+` FROM store_sections WHERE id = $1`, id)
	s, err := scanSection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get store_section", Err: err}
	}
	return s, nil
}

func (r *StoreSectionRepo) ListByStore(storeID string) ([]*entity.StoreSection, error) {
	return r.list(`SELECT `+sectionColumns+` FROM store_sections WHERE store_id = $1 ORDER BY position`, storeID)
}

// All devuelve todas las secciones (catálogo inicial del motor de stock).
func (r *StoreSectionRepo) All() ([]*entity.StoreSection, error) {
	return r.list(`SELECT ` + sectionColumns + ` FROM store_sections ORDER BY store_id, position`)
}

func (r *StoreSectionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM store_sections WHERE id = $1`, id)
	if err != nil {
		return storeError("delete store_sections", err)
	}
	return nil
}

func (r *StoreSectionRepo) list(query string, args ...any) ([]*entity.StoreSection, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list store_sections", Err: err}
	}
	defer rows.Close()
	var list []*entity.StoreSection
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, &domain.FatalError{Op: "scan store_section", Err: err}
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list store_sections", Err: err}
	}
	return list, nil
}

func scanSection(row pgx.Row) (*entity.StoreSection, error) {
	var s entity.StoreSection
	err := row.Scan(&s.ID, &s.StoreID, &s.Name, &s.Position, &s.DatasetVersion, &s.CreatedAt, &s.EditedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
