package postgres

import (
	"context"
	"time"

	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

const receiptColumns = `dataset_id, article_id, section_id, article_count, event_at, note, created_by`

// ReceiptRepo persistencia del libro de entradas (append-only: la API normal
// solo inserta; Upsert existe únicamente para la importación de volcados).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador del libro de entradas.
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Insert añade una entrada y devuelve el dataset_id secuencial asignado.
func (r *ReceiptRepo) Insert(rc *entity.Receipt) (int64, error) {
	var id int64
	err := r.q.QueryRow(context.Background(),
		`INSERT INTO receipts (article_id, section_id, article_count, event_at, note, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING dataset_id`,
		rc.ArticleID, rc.SectionID, rc.ArticleCount, rc.EventAt, rc.Note, rc.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, storeError("insert receipts", err)
	}
	return id, nil
}

// ListInterval lista entradas cuyo evento cae en el intervalo semiabierto
// [from, to): intervalos consecutivos no repiten eventos en la frontera.
func (r *ReceiptRepo) ListInterval(from, to time.Time) ([]*entity.Receipt, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+receiptColumns+` FROM receipts WHERE event_at >= $1 AND event_at < $2 ORDER BY dataset_id`,
		from, to,
	)
	if err != nil {
		return nil, &domain.FatalError{Op: "list receipts", Err: err}
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		var rc entity.Receipt
		if err := rows.Scan(&rc.DatasetID, &rc.ArticleID, &rc.SectionID, &rc.ArticleCount, &rc.EventAt, &rc.Note, &rc.CreatedBy); err != nil {
			return nil, &domain.FatalError{Op: "scan receipt", Err: err}
		}
		list = append(list, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list receipts", Err: err}
	}
	return list, nil
}

// SumGrouped agrega SUM(article_count) por (sección, artículo) en [from, to].
func (r *ReceiptRepo) SumGrouped(from, to time.Time) ([]entity.LedgerSum, error) {
	return sumGrouped(r.q, repository.TableReceipts, from, to)
}

// Upsert inserta o actualiza una entrada con dataset_id explícito
// (solo importación; preserva el orden causal por id ascendente).
func (r *ReceiptRepo) Upsert(rc *entity.Receipt) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO receipts (`+receiptColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (dataset_id) DO UPDATE SET
		   article_id = EXCLUDED.article_id, section_id = EXCLUDED.section_id,
		   article_count = EXCLUDED.article_count, event_at = EXCLUDED.event_at,
		   note = EXCLUDED.note, created_by = EXCLUDED.created_by`,
		rc.DatasetID, rc.ArticleID, rc.SectionID, rc.ArticleCount, rc.EventAt, rc.Note, rc.CreatedBy,
	)
	if err != nil {
		return storeError("upsert receipts", err)
	}
	return nil
}

// All devuelve el libro completo en orden de dataset_id (exportación).
func (r *ReceiptRepo) All() ([]*entity.Receipt, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+receiptColumns+` FROM receipts ORDER BY dataset_id`)
	if err != nil {
		return nil, &domain.FatalError{Op: "all receipts", Err: err}
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		var rc entity.Receipt
		if err := rows.Scan(&rc.DatasetID, &rc.ArticleID, &rc.SectionID, &rc.ArticleCount, &rc.EventAt, &rc.Note, &rc.CreatedBy); err != nil {
			return nil, &domain.FatalError{Op: "scan receipt", Err: err}
		}
		list = append(list, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "all receipts", Err: err}
	}
	return list, nil
}

// sumGrouped consulta de agregación compartida por ambos libros.
func sumGrouped(q Querier, table string, from, to time.Time) ([]entity.LedgerSum, error) {
	rows, err := q.Query(context.Background(),
		`SELECT section_id, article_id, COALESCE(SUM(article_count), 0)
		 FROM `+table+` WHERE event_at >= $1 AND event_at <= $2
		 GROUP BY section_id, article_id`,
		from, to,
	)
	if err != nil {
		return nil, &domain.FatalError{Op: "sum " + table, Err: err}
	}
	defer rows.Close()
	var sums []entity.LedgerSum
	for rows.Next() {
		var s entity.LedgerSum
		if err := rows.Scan(&s.SectionID, &s.ArticleID, &s.Total); err != nil {
			return nil, &domain.FatalError{Op: "scan sum " + table, Err: err}
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "sum " + table, Err: err}
	}
	return sums, nil
}
