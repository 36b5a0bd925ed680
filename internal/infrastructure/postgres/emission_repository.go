package postgres

import (
	"context"
	"time"

	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

var _ repository.EmissionRepository = (*EmissionRepo)(nil)

const emissionColumns = `dataset_id, article_id, section_id, article_count, event_at, receiver_id, cost_unit_id, note, created_by`

// EmissionRepo persistencia del libro de salidas (append-only).
type EmissionRepo struct {
	q Querier
}

// NewEmissionRepository construye el adaptador del libro de salidas.
func NewEmissionRepository(q Querier) *EmissionRepo {
	return &EmissionRepo{q: q}
}

// Insert añade una salida y devuelve el dataset_id secuencial asignado.
func (r *EmissionRepo) Insert(em *entity.Emission) (int64, error) {
	var id int64
	err := r.q.QueryRow(context.Background(),
		`INSERT INTO emissions (article_id, section_id, article_count, event_at, receiver_id, cost_unit_id, note, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING dataset_id`,
		em.ArticleID, em.SectionID, em.ArticleCount, em.EventAt, em.ReceiverID, em.CostUnitID, em.Note, em.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, storeError("insert emissions", err)
	}
	return id, nil
}

// ListInterval lista salidas cuyo evento cae en el intervalo semiabierto
// [from, to): intervalos consecutivos no repiten eventos en la frontera.
func (r *EmissionRepo) ListInterval(from, to time.Time) ([]*entity.Emission, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+emissionColumns+` FROM emissions WHERE event_at >= $1 AND event_at < $2 ORDER BY dataset_id`,
		from, to,
	)
	if err != nil {
		return nil, &domain.FatalError{Op: "list emissions", Err: err}
	}
	defer rows.Close()
	var list []*entity.Emission
	for rows.Next() {
		var em entity.Emission
		if err := rows.Scan(&em.DatasetID, &em.ArticleID, &em.SectionID, &em.ArticleCount, &em.EventAt,
			&em.ReceiverID, &em.CostUnitID, &em.Note, &em.CreatedBy); err != nil {
			return nil, &domain.FatalError{Op: "scan emission", Err: err}
		}
		list = append(list, &em)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list emissions", Err: err}
	}
	return list, nil
}

// SumGrouped agrega SUM(article_count) por (sección, artículo) en [from, to].
func (r *EmissionRepo) SumGrouped(from, to time.Time) ([]entity.LedgerSum, error) {
	return sumGrouped(r.q, repository.TableEmissions, from, to)
}

// Upsert inserta o actualiza una salida con dataset_id explícito (solo importación).
func (r *EmissionRepo) Upsert(em *entity.Emission) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO emissions (`+emissionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (dataset_id) DO UPDATE SET
		   article_id = EXCLUDED.article_id, section_id = EXCLUDED.section_id,
		   article_count = EXCLUDED.article_count, event_at = EXCLUDED.event_at,
		   receiver_id = EXCLUDED.receiver_id, cost_unit_id = EXCLUDED.cost_unit_id,
		   note = EXCLUDED.note, created_by = EXCLUDED.created_by`,
		em.DatasetID, em.ArticleID, em.SectionID, em.ArticleCount, em.EventAt,
		em.ReceiverID, em.CostUnitID, em.Note, em.CreatedBy,
	)
	if err != nil {
		return storeError("upsert emissions", err)
	}
	return nil
}

// All devuelve el libro completo en orden de dataset_id (exportación).
func (r *EmissionRepo) All() ([]*entity.Emission, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+emissionColumns+` FROM emissions ORDER BY dataset_id`)
	if err != nil {
		return nil, &domain.FatalError{Op: "all emissions", Err: err}
	}
	defer rows.Close()
	var list []*entity.Emission
	for rows.Next() {
		var em entity.Emission
		if err := rows.Scan(&em.DatasetID, &em.ArticleID, &em.SectionID, &em.ArticleCount, &em.EventAt,
			&em.ReceiverID, &em.CostUnitID, &em.Note, &em.CreatedBy); err != nil {
			return nil, &domain.FatalError{Op: "scan emission", Err: err}
		}
		list = append(list, &em)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "all emissions", Err: err}
	}
	return list, nil
}
