package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/blog-articles/internal/config"
	"github.com/deppfellow/blog-articles/internal/errs"
	"github.com/deppfellow/blog-articles/internal/model/article"
	"github.com/deppfellow/blog-articles/internal/repository"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var articleColumns = []string{"id", "title", "excerpt", "image", "tags", "date", "read_time"}

func newTestService(t *testing.T) (*ArticleService, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Observability: config.DefaultObservabilityConfig()},
		Logger: &log,
	}

	return NewArticleService(s, repository.NewArticleRepository(mock)), mock
}

func validInput(t *testing.T) *article.Input {
	t.Helper()

	var in article.Input
	require.NoError(t, json.Unmarshal([]byte(
		`{"title":"A","excerpt":"B","image":"img.png","tags":["x"],"date":"2024-01-01","readTime":"5 min"}`,
	), &in))
	return &in
}

func TestArticleService_UpdateMissingIsNotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("UPDATE articles").
		WithArgs("A", "B", "img.png", []string{"x"}, "2024-01-01", "5 min", int64(999999)).
		WillReturnRows(pgxmock.NewRows(articleColumns))

	_, err := svc.Update(context.Background(), 999999, validInput(t))
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Article not found", httpErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_UpdateStoreFailurePropagates(t *testing.T) {
	svc, mock := newTestService(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery("UPDATE articles").
		WithArgs("A", "B", "img.png", []string{"x"}, "2024-01-01", "5 min", int64(1)).
		WillReturnError(boom)

	_, err := svc.Update(context.Background(), 1, validInput(t))
	assert.ErrorIs(t, err, boom)

	var httpErr *errs.HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_CreateAndList(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("INSERT INTO articles").
		WithArgs("A", "B", "img.png", []string{"x"}, "2024-01-01", "5 min").
		WillReturnRows(pgxmock.NewRows(articleColumns).
			AddRow(int64(1), "A", "B", "img.png", []string{"x"}, "2024-01-01", "5 min"))
	mock.ExpectQuery("SELECT (.+) FROM articles").
		WillReturnRows(pgxmock.NewRows(articleColumns).
			AddRow(int64(1), "A", "B", "img.png", []string{"x"}, "2024-01-01", "5 min"))

	created, err := svc.Create(context.Background(), validInput(t))
	require.NoError(t, err)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *created, listed[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_DeleteIsIdempotent(t *testing.T) {
	svc, mock := newTestService(t)

	for i := 0; i < 2; i++ {
		mock.ExpectExec("DELETE FROM articles").
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
	}

	require.NoError(t, svc.Delete(context.Background(), 42))
	require.NoError(t, svc.Delete(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
