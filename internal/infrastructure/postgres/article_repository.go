package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, name, barcode, unit, price, manufacturer_id, cost_unit_id, hashtags, description, dataset_version, created_at, edited_at`

// ArticleRepo implementación del puerto ArticleRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

// Insert persiste un artículo tal cual llega: el caller estampa los campos
// del protocolo (alta normal) o los trae del volcado (importación).
func (r *ArticleRepo) Insert(a *entity.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Name, a.Barcode, a.Unit, a.Price, a.ManufacturerID, a.CostUnitID,
		a.Hashtags, a.Description, a.DatasetVersion, a.CreatedAt, a.EditedAt,
	)
	if err != nil {
		return storeError("insert articles", err)
	}
	return nil
}

// Update aplica la escritura versionada. created_at nunca entra en el SET.
func (r *ArticleRepo) Update(a *entity.Article, opts repository.WriteOptions) error {
	return updateVersioned(r.q, repository.TableArticles, a.ID, &a.Masterdata, opts,
		`name = $4, barcode = $5, unit = $6, price = $7, manufacturer_id = $8, cost_unit_id = $9, hashtags = $10, description = $11`,
		a.Name, a.Barcode, a.Unit, a.Price, a.ManufacturerID, a.CostUnitID, a.Hashtags, a.Description,
	)
}

// GetByID obtiene un artículo por ID. Devuelve (nil, nil) si no existe.
func (r *ArticleRepo) GetByID(id string) (*entity.Article, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get article", Err: err}
	}
	return a, nil
}

// Search lista artículos cuyo nombre contiene el patrón (case-insensitive).
func (r *ArticleRepo) Search(nameLike string) ([]*entity.Article, error) {
	return r.list(`SELECT `+articleColumns+` FROM articles WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, nameLike)
}

// All devuelve todos los artículos (carga inicial del stock y exportación).
func (r *ArticleRepo) All() ([]*entity.Article, error) {
	return r.list(`SELECT ` + articleColumns + ` FROM articles ORDER BY name`)
}

// Delete elimina un artículo por ID.
func (r *ArticleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return storeError("delete articles", err)
	}
	return nil
}

func (r *ArticleRepo) list(query string, args ...any) ([]*entity.Article, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, &domain.FatalError{Op: "list articles", Err: err}
	}
	defer rows.Close()
	var list []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, &domain.FatalError{Op: "scan article", Err: err}
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FatalError{Op: "list articles", Err: err}
	}
	return list, nil
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(
		&a.ID, &a.Name, &a.Barcode, &a.Unit, &a.Price, &a.ManufacturerID, &a.CostUnitID,
		&a.Hashtags, &a.Description, &a.DatasetVersion, &a.CreatedAt, &a.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
