package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

var _ repository.TableStatsRepository = (*TableStatsRepo)(nil)

// TableStatsRepo estadística de cambios por tabla. Cada escritura confirmada
// de masterdata toca la fila correspondiente e invalida el conteo cacheado.
type TableStatsRepo struct {
	q Querier
}

// NewTableStatsRepository construye el adaptador de estadísticas.
func NewTableStatsRepository(q Querier) *TableStatsRepo {
	return &TableStatsRepo{q: q}
}

// Touch registra el instante del último cambio e invalida row_count.
func (r *TableStatsRepo) Touch(table string) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO table_stats (table_name, last_change_at, row_count)
		 VALUES ($1, now(), NULL)
		 ON CONFLICT (table_name) DO UPDATE SET last_change_at = now(), row_count = NULL`,
		table,
	)
	if err != nil {
		return storeError("touch table_stats", err)
	}
	return nil
}

// Get devuelve la estadística de una tabla. (nil, nil) si nunca cambió.
func (r *TableStatsRepo) Get(table string) (*entity.TableStats, error) {
	var st entity.TableStats
	err := r.q.QueryRow(context.Background(),
		`SELECT table_name, last_change_at, row_count FROM table_stats WHERE table_name = $1`, table,
	).Scan(&st.TableName, &st.LastChangeAt, &st.RowCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.FatalError{Op: "get table_stats", Err: err}
	}
	return &st, nil
}

// RefreshCount recalcula el número de filas de la tabla y lo cachea.
// El nombre de tabla viene de las constantes de repository, nunca del usuario.
func (r *TableStatsRepo) RefreshCount(table string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT count(*) FROM %s`, table),
	).Scan(&n)
	if err != nil {
		return 0, &domain.FatalError{Op: "count " + table, Err: err}
	}
	_, err = r.q.Exec(context.Background(),
		`INSERT INTO table_stats (table_name, last_change_at, row_count)
		 VALUES ($1, now(), $2)
		 ON CONFLICT (table_name) DO UPDATE SET row_count = EXCLUDED.row_count`,
		table, n,
	)
	if err != nil {
		return 0, storeError("cache row_count", err)
	}
	return n, nil
}
