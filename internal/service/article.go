package service

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/blog-articles/internal/errs"
	"github.com/deppfellow/blog-articles/internal/model/article"
	"github.com/deppfellow/blog-articles/internal/repository"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ErrArticleNotFound is returned by Update when no row has the given id.
var ErrArticleNotFound = errs.NewNotFoundError("Article not found", true, nil)

type ArticleService struct {
	server *server.Server
	repo   *repository.ArticleRepository
}

func NewArticleService(s *server.Server, repo *repository.ArticleRepository) *ArticleService {
	return &ArticleService{
		server: s,
		repo:   repo,
	}
}

func (s *ArticleService) List(ctx context.Context) ([]article.Article, error) {
	start := time.Now()

	articles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.observe(ctx, "list_articles", start).
		Int("count", len(articles)).
		Msg("listed articles")

	return articles, nil
}

func (s *ArticleService) Create(ctx context.Context, in *article.Input) (*article.Article, error) {
	start := time.Now()

	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.observe(ctx, "create_article", start).
		Int64("article_id", created.ID).
		Msg("article created")

	return created, nil
}

// Update overwrites the article. A missing id is reported as
// ErrArticleNotFound, not as a store failure.
func (s *ArticleService) Update(ctx context.Context, id int64, in *article.Input) (*article.Article, error) {
	start := time.Now()

	updated, err := s.repo.Update(ctx, id, in)
	if errors.Is(err, pgx.ErrNoRows) {
		zerolog.Ctx(ctx).Debug().
			Int64("article_id", id).
			Msg("article to update does not exist")
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}

	s.observe(ctx, "update_article", start).
		Int64("article_id", id).
		Msg("article updated")

	return updated, nil
}

// Delete is idempotent: deleting an unknown id succeeds.
func (s *ArticleService) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.observe(ctx, "delete_article", start).
		Int64("article_id", id).
		Int64("rows_affected", affected).
		Msg("article deleted")

	return nil
}

// observe starts a log event for a finished store operation. Operations slower
// than the configured slow query threshold are logged at warn level.
func (s *ArticleService) observe(ctx context.Context, operation string, start time.Time) *zerolog.Event {
	elapsed := time.Since(start)
	logger := zerolog.Ctx(ctx)

	event := logger.Debug()
	if threshold := s.slowQueryThreshold(); threshold > 0 && elapsed > threshold {
		event = logger.Warn().Bool("slow", true)
	}

	return event.
		Str("operation", operation).
		Dur("duration", elapsed)
}

func (s *ArticleService) slowQueryThreshold() time.Duration {
	if s.server == nil || s.server.Config == nil || s.server.Config.Observability == nil {
		return 0
	}
	return s.server.Config.Observability.Logging.SlowQueryThreshold
}
