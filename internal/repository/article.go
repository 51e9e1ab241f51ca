package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/blog-articles/internal/database"
	"github.com/deppfellow/blog-articles/internal/model/article"
	"github.com/jackc/pgx/v5"
)

const (
	listArticlesQuery = `
		SELECT id, title, excerpt, image, tags, date, read_time
		FROM articles
		ORDER BY created_at DESC, id DESC`

	createArticleQuery = `
		INSERT INTO articles (title, excerpt, image, tags, date, read_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, excerpt, image, tags, date, read_time`

	updateArticleQuery = `
		UPDATE articles
		SET title = $1, excerpt = $2, image = $3, tags = $4,
		    date = $5, read_time = $6, updated_at = now()
		WHERE id = $7
		RETURNING id, title, excerpt, image, tags, date, read_time`

	deleteArticleQuery = `DELETE FROM articles WHERE id = $1`
)

// ArticleRepository runs the article statements.
//
// Each method issues exactly one statement. The Querier hands out one
// pooled connection per statement and takes it back on every return path;
// single statements commit on their own, so no explicit transaction is used.
type ArticleRepository struct {
	db database.Querier
}

func NewArticleRepository(db database.Querier) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// List returns every article, newest first. An empty table yields an empty,
// non-nil slice.
func (r *ArticleRepository) List(ctx context.Context) ([]article.Article, error) {
	rows, err := r.db.Query(ctx, listArticlesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (article.Article, error) {
		return scanArticle(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning articles: %w", err)
	}

	if articles == nil {
		articles = []article.Article{}
	}

	return articles, nil
}

// Create inserts a row and returns it as stored.
func (r *ArticleRepository) Create(ctx context.Context, in *article.Input) (*article.Article, error) {
	row := r.db.QueryRow(ctx, createArticleQuery, in.Values()...)

	created, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("inserting article: %w", err)
	}

	return &created, nil
}

// Update overwrites every mutable column of the row with the given id.
// A missing row surfaces as pgx.ErrNoRows in the returned error chain.
func (r *ArticleRepository) Update(ctx context.Context, id int64, in *article.Input) (*article.Article, error) {
	args := append(in.Values(), id)
	row := r.db.QueryRow(ctx, updateArticleQuery, args...)

	updated, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("updating article %d: %w", id, err)
	}

	return &updated, nil
}

// Delete removes the row with the given id and reports how many rows went away.
func (r *ArticleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteArticleQuery, id)
	if err != nil {
		return 0, fmt.Errorf("deleting article %d: %w", id, err)
	}

	return tag.RowsAffected(), nil
}

// scanArticle maps a row positionally; column order is fixed by the queries above.
func scanArticle(row pgx.Row) (article.Article, error) {
	var a article.Article

	err := row.Scan(&a.ID, &a.Title, &a.Excerpt, &a.Image, &a.Tags, &a.Date, &a.ReadTime)
	if err != nil {
		return article.Article{}, err
	}

	if a.Tags == nil {
		a.Tags = []string{}
	}

	return a, nil
}
