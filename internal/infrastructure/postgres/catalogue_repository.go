package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

// Adaptadores de las tablas de catálogo simples (fabricantes, destinatarios,
// hashtags y unidades de coste). Comparten el protocolo de escritura
// versionada vía updateVersioned; el SQL por tabla queda explícito.

var _ repository.ManufacturerRepository = (*ManufacturerRepo)(nil)
var _ repository.ReceiverRepository = (*ReceiverRepo)(nil)
var _ repository.HashtagRepository = (*HashtagRepo)(nil)
var _ repository.CostUnitRepository = (*CostUnitRepo)(nil)

// ManufacturerRepo persistencia de fabricantes.
type ManufacturerRepo struct {
	q Querier
}

func NewManufacturerRepository(q Querier) *ManufacturerRepo { return &ManufacturerRepo{q: q} }

func (r *ManufacturerRepo) Insert(m *entity.Manufacturer) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO manufacturers (id, name, dataset_version, created_at, edited_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.DatasetVersion, m.CreatedAt, m.EditedAt,
	)
	if err != nil {
		return storeError("insert manufacturers", err)
	}
	return nil
}

func (r *ManufacturerRepo) Update(m *entity.Manufacturer, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableManufacturers, m.ID, &m.Masterdata, opts, `name = $4`, m.Name)
}

func (r *ManufacturerRepo) GetByID(id string) (*entity.Manufacturer, error) {
	var m entity.Manufacturer
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, dataset_version, created_at, edited_at FROM manufacturers WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.DatasetVersion, &m.CreatedAt, &m.EditedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get manufacturer", Err: err}
	}
	return &m, nil
}

func (r *ManufacturerRepo) Search(nameLike string) ([]*entity.Manufacturer, error) {
	return r.list(`SELECT id, name, dataset_version, created_at, edited_at
		FROM manufacturers WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, nameLike)
}

func (r *ManufacturerRepo) All() ([]*entity.Manufacturer, error) {
	return r.list(`SELECT id, name, dataset_version, created_at, edited_at FROM manufacturers ORDER BY name`)
}

func (r *ManufacturerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM manufacturers WHERE id = $1`, id)
	if err != nil {
		return storeError("delete manufacturers", err)
	}
	return nil
}

func (r *ManufacturerRepo) list(query string, args ...any) ([]*entity.Manufacturer, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list manufacturers", Err: err}
	}
	defer rows.Close()
	var list []*entity.Manufacturer
	for rows.Next() {
		var m entity.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.DatasetVersion, &m.CreatedAt, &m.EditedAt); err != nil {
			return nil, &domain.FatalError{Op: "scan manufacturer", Err: err}
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list manufacturers", Err: err}
	}
	return list, nil
}

// ReceiverRepo persistencia de destinatarios.
type ReceiverRepo struct {
	q Querier
}

func NewReceiverRepository(q Querier) *ReceiverRepo { return &ReceiverRepo{q: q} }

func (r *ReceiverRepo) Insert(rc *entity.Receiver) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO receivers (id, name, email, dataset_version, created_at, edited_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		rc.ID, rc.Name, rc.Email, rc.DatasetVersion, rc.CreatedAt, rc.EditedAt,
	)
	if err != nil {
		return storeError("insert receivers", err)
	}
	return nil
}

func (r *ReceiverRepo) Update(rc *entity.Receiver, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableReceivers, rc.ID, &rc.Masterdata, opts,
		`name = $4, email = $5`, rc.Name, rc.Email)
}

func (r *ReceiverRepo) GetByID(id string) (*entity.Receiver, error) {
	var rc entity.Receiver
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, email, dataset_version, created_at, edited_at FROM receivers WHERE id = $1`, id,
	).Scan(&rc.ID, &rc.Name, &rc.Email, &rc.DatasetVersion, &rc.CreatedAt, &rc.EditedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get receiver", Err: err}
	}
	return &rc, nil
}

func (r *ReceiverRepo) Search(nameLike string) ([]*entity.Receiver, error) {
	return r.list(`SELECT id, name, email, dataset_version, created_at, edited_at
		FROM receivers WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, nameLike)
}

func (r *ReceiverRepo) All() ([]*entity.Receiver, error) {
	return r.list(`SELECT id, name, email, dataset_version, created_at, edited_at FROM receivers ORDER BY name`)
}

func (r *ReceiverRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM receivers WHERE id = $1`, id)
	if err != nil {
		return storeError("delete receivers", err)
	}
	return nil
}

func (r *ReceiverRepo) list(query string, args ...any) ([]*entity.Receiver, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list receivers", Err: err}
	}
	defer rows.Close()
	var list []*entity.Receiver
	for rows.Next() {
		var rc entity.Receiver
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.Email, &rc.DatasetVersion, &rc.CreatedAt, &rc.EditedAt); err != nil {
			return nil, &domain.FatalError{Op: "scan receiver", Err: err}
		}
		list = append(list, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list receivers", Err: err}
	}
	return list, nil
}

// HashtagRepo persistencia de hashtags.
type HashtagRepo struct {
	q Querier
}

func NewHashtagRepository(q Querier) *HashtagRepo { return &HashtagRepo{q: q} }

func (r *HashtagRepo) Insert(h *entity.Hashtag) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO hashtags (id, name, dataset_version, created_at, edited_at) VALUES ($1, $2, $3, $4, $5)`,
		h.ID, h.Name, h.DatasetVersion, h.CreatedAt, h.EditedAt,
	)
	if err != nil {
		return storeError("insert hashtags", err)
	}
	return nil
}

func (r *HashtagRepo) Update(h *entity.Hashtag, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableHashtags, h.ID, &h.Masterdata, opts, `name = $4`, h.Name)
}

func (r *HashtagRepo) GetByID(id string) (*entity.Hashtag, error) {
	var h entity.Hashtag
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, dataset_version, created_at, edited_at FROM hashtags WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.DatasetVersion, &h.CreatedAt, &h.EditedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get hashtag", Err: err}
	}
	return &h, nil
}

func (r *HashtagRepo) Search(nameLike string) ([]*entity.Hashtag, error) {
	return r.list(`SELECT id, name, dataset_version, created_at, edited_at
		FROM hashtags WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, nameLike)
}

func (r *HashtagRepo) All() ([]*entity.Hashtag, error) {
	return r.list(`SELECT id, name, dataset_version, created_at, edited_at FROM hashtags ORDER BY name`)
}

func (r *HashtagRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM hashtags WHERE id = $1`, id)
	if err != nil {
		return storeError("delete hashtags", err)
	}
	return nil
}

func (r *HashtagRepo) list(query string, args ...any) ([]*entity.Hashtag, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list hashtags", Err: err}
	}
	defer rows.Close()
	var list []*entity.Hashtag
	for rows.Next() {
		var h entity.Hashtag
		if err := rows.Scan(&h.ID, &h.Name, &h.DatasetVersion, &h.CreatedAt, &h.EditedAt); err != nil {
			return nil, &domain.FatalError{Op: "scan hashtag", Err: err}
		}
		list = append(list, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list hashtags", Err: err}
	}
	return list, nil
}

// CostUnitRepo persistencia de unidades de coste.
type CostUnitRepo struct {
	q Querier
}

func NewCostUnitRepository(q Querier) *CostUnitRepo { return &CostUnitRepo{q: q} }

func (r *CostUnitRepo) Insert(c *entity.CostUnit) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO cost_units (id, name, code, dataset_version, created_at, edited_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Code, c.DatasetVersion, c.CreatedAt, c.EditedAt,
	)
	if err != nil {
		return storeError("insert cost_units", err)
	}
	return nil
}

func (r *CostUnitRepo) Update(c *entity.CostUnit, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableCostUnits, c.ID, &c.Masterdata, opts,
		`name = $4, code = $5`, c.Name, c.Code)
}

func (r *CostUnitRepo) GetByID(id string) (*entity.CostUnit, error) {
	var c entity.CostUnit
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, code, dataset_version, created_at, edited_at FROM cost_units WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Code, &c.DatasetVersion, &c.CreatedAt, &c.EditedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get cost_unit", Err: err}
	}
	return &c, nil
}

func (r *CostUnitRepo) Search(nameLike string) ([]*entity.CostUnit, error) {
	return r.list(`SELECT id, name, code, dataset_version, created_at, edited_at
		FROM cost_units WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, nameLike)
}

func (r *CostUnitRepo) All() ([]*entity.CostUnit, error) {
	return r.list(`SELECT id, name, code, dataset_version, created_at, edited_at FROM cost_units ORDER BY name`)
}

func (r *CostUnitRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cost_units WHERE id = $1`, id)
	if err != nil {
		return storeError("delete cost_units", err)
	}
	return nil
}

func (r *CostUnitRepo) list(query string, args ...any) ([]*entity.CostUnit, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list cost_units", Err: err}
	}
	defer rows.Close()
	var list []*entity.CostUnit
	for rows.Next() {
		var c entity.CostUnit
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.DatasetVersion, &c.CreatedAt, &c.EditedAt); err != nil {
			return nil, &domain.FatalError{Op: "scan cost_unit", Err: err}
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list cost_units", Err: err}
	}
	return list, nil
}
