package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mgarzon/almacen-api/internal/domain"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
)

// nowUnix se sustituye en tests para fijar el reloj.
var nowUnix = func() int64 { return time.Now().Unix() }

// updateVersioned ejecuta la escritura condicionada por dataset_version que
// comparten todas las tablas maestras:
//
//	UPDATE <tabla> SET dataset_version = $2, edited_at = $3, <assigns>
//	WHERE id = $1 AND dataset_version = <versión enviada>
//	RETURNING created_at
//
// assigns usa placeholders a partir de $4 y nunca incluye created_at
// (inmutable tras el alta). Si la escritura no afecta filas se relee la
// versión almacenada para desambiguar: fila con otra versión →
// *domain.VersionConflictError, fila inexistente → domain.ErrNotFound,
// relectura fallida → *domain.FatalError. No hay reintentos en esta capa.
//
// En éxito actualiza md in place: versión incrementada (salvo
// NoIncreaseDatasetVersion), edited_at fresco y created_at leído de la fila.
func updateVersioned(q Querier, table, id string, md *entity.Masterdata, opts repository.WriteOptions, assigns string, args ...any) error {
	editedAt := nowUnix()
	newVersion := md.DatasetVersion
	if !opts.NoIncreaseDatasetVersion {
		newVersion++
	}

	sql := fmt.Sprintf(`UPDATE %s SET dataset_version = $2, edited_at = $3, %s WHERE id = $1`, table, assigns)
	sqlArgs := append([]any{id, newVersion, editedAt}, args...)
	if !opts.NoCheckDatasetVersion {
		sqlArgs = append(sqlArgs, md.DatasetVersion)
		sql += fmt.Sprintf(` AND dataset_version = $%d`, len(sqlArgs))
	}
	sql += ` RETURNING created_at`

	var createdAt int64
	err := q.QueryRow(context.Background(), sql, sqlArgs...).Scan(&createdAt)
	if err == nil {
		md.DatasetVersion = newVersion
		md.EditedAt = editedAt
		md.CreatedAt = createdAt
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return storeError("update "+table, err)
	}

	// 0 filas afectadas: releer la versión por clave primaria para distinguir
	// conflicto de inexistencia.
	var current int64
	err = q.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT dataset_version FROM %s WHERE id = $1`, table), id,
	).Scan(&current)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case err != nil:
		return &domain.FatalError{Op: "reread " + table, Err: err}
	}
	return &domain.VersionConflictError{Table: table, ID: id, Given: md.DatasetVersion, Current: current}
}
