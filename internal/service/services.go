package service

import (
	"github.com/deppfellow/blog-articles/internal/repository"
	"github.com/deppfellow/blog-articles/internal/server"
)

type Services struct {
	Article *ArticleService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Article: NewArticleService(s, repos.Article),
	}, nil
}
