package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgarzon/almacen-api/internal/domain"
)

// fakeRows conjunto de filas guionado: sin filas, con un error de iteración
// opcional que aflora en Err tras agotar Next.
type fakeRows struct {
	iterErr error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.iterErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return false }
func (r *fakeRows) Scan(dest ...any) error                       { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func TestListInterval_PredicadoSemiabierto(t *testing.T) {
	q := &fakeQuerier{queryRows: &fakeRows{}}
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewReceiptRepository(q).ListInterval(from, to)
	require.NoError(t, err)
	_, err = NewEmissionRepository(q).ListInterval(from, to)
	require.NoError(t, err)

	require.Len(t, q.calls, 2)
	for _, call := range q.calls {
		assert.Contains(t, call.sql, "event_at >= $1 AND event_at < $2",
			"intervalos consecutivos no deben repetir eventos en la frontera")
		assert.Equal(t, []any{from, to}, call.args)
	}
}

func TestListInterval_ErrorDeIteracionEsFatal(t *testing.T) {
	q := &fakeQuerier{queryRows: &fakeRows{iterErr: errors.New("conexión rota")}}

	_, err := NewReceiptRepository(q).ListInterval(time.Time{}, time.Time{})
	var fe *domain.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "list receipts", fe.Op)
}

func TestSearch_ErrorDeIteracionEsFatal(t *testing.T) {
	q := &fakeQuerier{queryRows: &fakeRows{iterErr: errors.New("conexión rota")}}

	_, err := NewArticleRepository(q).Search("tornillo")
	var fe *domain.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "list articles", fe.Op)
}
