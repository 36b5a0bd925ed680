package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de persistencia para almacenes.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

func (r *StoreRepo) Insert(s *entity.Store) error {
	query := `
		INSERT INTO stores (id, name, address, dataset_version, created_at, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.Address, s.DatasetVersion, s.CreatedAt, s.EditedAt,
	)
	if err != nil {
		return storeError("insert stores", err)
	}
	return nil
}

func (r *StoreRepo) Update(s *entity.Store, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableStores, s.ID, &s.Masterdata, opts,
		`name = $4, address = $5`, s.Name, s.Address,
	)
}

func (r *StoreRepo) GetByID(id string) (*entity.Store, error) {
	var s entity.Store
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, address, dataset_version, created_at, edited_at FROM stores WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Address, &s.DatasetVersion, &s.CreatedAt, &s.EditedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get store", Err: err}
	}
	return &s, nil
}

func (r *StoreRepo) Search(nameLike string) ([]*entity.Store, error) {
	return r.list(`SELECT id, name, address, dataset_version, created_at, edited_at
		FROM stores WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, nameLike)
}

func (r *StoreRepo) All() ([]*entity.Store, error) {
	return r.list(`SELECT id, name, address, dataset_version, created_at, edited_at FROM stores ORDER BY name`)
}

func (r *StoreRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return storeError("delete stores", err)
	}
	return nil
}

func (r *StoreRepo) list(query string, args ...any) ([]*entity.Store, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list stores", Err: err}
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.DatasetVersion, &s.CreatedAt, &s.EditedAt); err != nil {
			return nil, &domain.FatalError{Op: "scan store", Err: err}
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list stores", Err: err}
	}
	return list, nil
}
