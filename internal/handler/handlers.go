package handler

import (
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/deppfellow/blog-articles/internal/service"
)

// Handlers groups all HTTP handlers so router setup takes a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Article *ArticleHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Article: NewArticleHandler(s, services.Article),
	}
}
