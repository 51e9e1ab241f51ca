package handler

import (
	"testing"

	"github.com/deppfellow/blog-articles/internal/config"
	"github.com/deppfellow/blog-articles/internal/database"
	"github.com/deppfellow/blog-articles/internal/repository"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/deppfellow/blog-articles/internal/service"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var articleColumns = []string{"id", "title", "excerpt", "image", "tags", "date", "read_time"}

// newTestServer backs the server with a pgxmock pool. Pings are matched
// against expectations like any other call.
func newTestServer(t *testing.T) (*server.Server, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &log,
		DB:     database.NewWithPool(mock, &log),
	}

	return s, mock
}

func newTestHandlers(t *testing.T) (*Handlers, pgxmock.PgxPoolIface) {
	t.Helper()

	s, mock := newTestServer(t)

	services, err := service.NewServices(s, repository.NewRepositories(s))
	require.NoError(t, err)

	return NewHandlers(s, services), mock
}
