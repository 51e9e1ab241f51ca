package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/deppfellow/blog-articles/internal/handler"
	"github.com/labstack/echo/v4"
)

const articlesPath = "/articles"

// registerArticleRoutes mounts the article resource.
//
// Both paths accept every standard method; the article handler itself
// answers preflights and rejects unsupported methods with 405.
func registerArticleRoutes(r *echo.Group, h *handler.Handlers) {
	articles := handler.HandleEnvelope(h.Article.Serve)

	r.Any(articlesPath, articles)
	r.Any(articlesPath+"/:id", articles)
}

// articleErrorHandler hands Echo's own 405 (a method Any does not register,
// such as a custom verb) on article paths back to the article handler, so
// the response is the article 405 envelope. Everything else goes to next.
func articleErrorHandler(next echo.HTTPErrorHandler, articles echo.HandlerFunc) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) && echoErr.Code == http.StatusMethodNotAllowed &&
			isArticlePath(c.Request().URL.Path) && !c.Response().Committed {
			if err = articles(c); err == nil {
				return
			}
		}

		next(err, c)
	}
}

func isArticlePath(path string) bool {
	base := APIPrefix + articlesPath
	return path == base || strings.HasPrefix(path, base+"/")
}
