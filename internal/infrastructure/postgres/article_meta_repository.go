package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

// Adaptadores de las tablas subordinadas a artículo: atributos clave/valor
// y referencias de imagen (el binario vive fuera de este backend).

var _ repository.AttributeRepository = (*AttributeRepo)(nil)
var _ repository.ImageReferenceRepository = (*ImageReferenceRepo)(nil)

// AttributeRepo persistencia de atributos de artículo.
type AttributeRepo struct {
	q Querier
}

func NewAttributeRepository(q Querier) *AttributeRepo { return &AttributeRepo{q: q} }

func (r *AttributeRepo) Insert(a *entity.Attribute) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO attributes (id, article_id, key, value, dataset_version, created_at, edited_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ArticleID, a.Key, a.Value, a.DatasetVersion, a.CreatedAt, a.EditedAt,
	)
	if err != nil {
		return storeError("insert attributes", err)
	}
	return nil
}

func (r *AttributeRepo) Update(a *entity.Attribute, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableAttributes, a.ID, &a.Masterdata, opts,
		`article_id = $4, key = $5, value = $6`, a.ArticleID, a.Key, a.Value)
}

func (r *AttributeRepo) GetByID(id string) (*entity.Attribute, error) {
	var a entity.Attribute
	err := r.q.QueryRow(context.Background(),
		`SELECT id, article_id, key, value, dataset_version, created_at, edited_at FROM attributes WHERE id = $1`, id,
	).Scan(&a.ID, &a.ArticleID, &a.Key, &a.Value, &a.DatasetVersion, &a.CreatedAt, &a.EditedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get attribute", Err: err}
	}
	return &a, nil
}

func (r *AttributeRepo) ListByArticle(articleID string) ([]*entity.Attribute, error) {
	return r.list(`SELECT id, article_id, key, value, dataset_version, created_at, edited_at
		FROM attributes WHERE article_id = $1 ORDER BY key`, articleID)
}

func (r *AttributeRepo) All() ([]*entity.Attribute, error) {
	return r.list(`SELECT id, article_id, key, value, dataset_version, created_at, edited_at
		FROM attributes ORDER BY article_id, key`)
}

func (r *AttributeRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		return storeError("delete attributes", err)
	}
	return nil
}

func (r *AttributeRepo) list(query string, args ...any) ([]*entity.Attribute, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list attributes", Err: err}
	}
	defer rows.Close()
	var list []*entity.Attribute
	for rows.Next() {
		var a entity.Attribute
		if err := rows.Scan(&a.ID, &a.ArticleID, &a.Key, &a.Value, &a.DatasetVersion, &a.CreatedAt, &a.EditedAt); err != nil {
			return nil, &domain.FatalError{Op: "scan attribute", Err: err}
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list attributes", Err: err}
	}
	return list, nil
}

// ImageReferenceRepo persistencia de referencias de imagen.
type ImageReferenceRepo struct {
	q Querier
}

func NewImageReferenceRepository(q Querier) *ImageReferenceRepo { return &ImageReferenceRepo{q: q} }

func (r *ImageReferenceRepo) Insert(img *entity.ImageReference) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO image_references (id, article_id, file_name, sort_index, dataset_version, created_at, edited_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		img.ID, img.ArticleID, img.FileName, img.SortIndex, img.DatasetVersion, img.CreatedAt, img.EditedAt,
	)
	if err != nil {
		return storeError("insert image_references", err)
	}
	return nil
}

func (r *ImageReferenceRepo) Update(img *entity.ImageReference, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableImageReferences, img.ID, &img.Masterdata, opts,
		`article_id = $4, file_name = $5, sort_index = $6`, img.ArticleID, img.FileName, img.SortIndex)
}

func (r *ImageReferenceRepo) GetByID(id string) (*entity.ImageReference, error) {
	var img entity.ImageReference
	err := r.q.QueryRow(context.Background(),
		`SELECT id, article_id, file_name, sort_index, dataset_version, created_at, edited_at
		 FROM image_references WHERE id = $1`, id,
	).Scan(&img.ID, &img.ArticleID, &img.FileName, &img.SortIndex, &img.DatasetVersion, &img.CreatedAt, &img.EditedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get image_reference", Err: err}
	}
	return &img, nil
}

func (r *ImageReferenceRepo) ListByArticle(articleID string) ([]*entity.ImageReference, error) {
	return r.list(`SELECT id, article_id, file_name, sort_index, dataset_version, created_at, edited_at
		FROM image_references WHERE article_id = $1 ORDER BY sort_index`, articleID)
}

func (r *ImageReferenceRepo) All() ([]*entity.ImageReference, error) {
	return r.list(`SELECT id, article_id, file_name, sort_index, dataset_version, created_at, edited_at
		FROM image_references ORDER BY article_id, sort_index`)
}

func (r *ImageReferenceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM image_references WHERE id = $1`, id)
	if err != nil {
		return storeError("delete image_references", err)
	}
	return nil
}

func (r *ImageReferenceRepo) list(query string, args ...any) ([]*entity.ImageReference, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list image_references", Err: err}
	}
	defer rows.Close()
	var list []*entity.ImageReference
	for rows.Next() {
		var img entity.ImageReference
		if err := rows.Scan(&img.ID, &img.ArticleID, &img.FileName, &img.SortIndex, &img.DatasetVersion, &img.CreatedAt, &img.EditedAt); err != nil {
			return nil, &domain.FatalError{Op: "scan image_reference", Err: err}
		}
		list = append(list, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list image_references", Err: err}
	}
	return list, nil
}
