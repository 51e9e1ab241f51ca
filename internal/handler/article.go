package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/deppfellow/blog-articles/internal/errs"
	"github.com/deppfellow/blog-articles/internal/model/article"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/deppfellow/blog-articles/internal/service"
	"github.com/deppfellow/blog-articles/internal/validation"
	"github.com/rs/zerolog"
)

var errMethodNotAllowed = errs.NewMethodNotAllowedError("Method not allowed")

// ArticleHandler turns one normalized request into at most one store
// operation and exactly one response.
type ArticleHandler struct {
	Handler
	articles *service.ArticleService
}

func NewArticleHandler(s *server.Server, articles *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		Handler:  NewHandler(s),
		articles: articles,
	}
}

// Serve dispatches on the request method.
//
// Expected failures (bad input, unknown id on update, unsupported method)
// come back as error envelopes with a nil error. A non-nil error means the
// store failed and is left to the hosting layer.
func (h *ArticleHandler) Serve(ctx context.Context, req *Request) (*Response, error) {
	var (
		status int
		result any
		err    error
	)

	switch req.HTTPMethod {
	case http.MethodOptions:
		return NewPreflightResponse(), nil
	case http.MethodGet:
		status = http.StatusOK
		result, err = h.list(ctx)
	case http.MethodPost:
		status = http.StatusCreated
		result, err = h.create(ctx, req)
	case http.MethodPut:
		status = http.StatusOK
		result, err = h.update(ctx, req)
	case http.MethodDelete:
		status = http.StatusOK
		result, err = h.delete(ctx, req)
	default:
		err = errMethodNotAllowed
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		zerolog.Ctx(ctx).Debug().
			Int("status", httpErr.Status).
			Str("reason", httpErr.Message).
			Msg("article request rejected")
		return NewErrorResponse(httpErr)
	}
	if err != nil {
		return nil, err
	}

	return NewJSONResponse(status, result)
}

func (h *ArticleHandler) list(ctx context.Context) (any, error) {
	return h.articles.List(ctx)
}

func (h *ArticleHandler) create(ctx context.Context, req *Request) (any, error) {
	var in article.Input
	if err := validation.DecodeAndValidate(req.Body, &in); err != nil {
		return nil, err
	}

	return h.articles.Create(ctx, &in)
}

func (h *ArticleHandler) update(ctx context.Context, req *Request) (any, error) {
	id, ok, err := articleID(req)
	if err != nil {
		return nil, err
	}

	var in article.Input
	if err := validation.DecodeAndValidate(req.Body, &in); err != nil {
		return nil, err
	}

	// No id matches no row.
	if !ok {
		return nil, service.ErrArticleNotFound
	}

	return h.articles.Update(ctx, id, &in)
}

func (h *ArticleHandler) delete(ctx context.Context, req *Request) (any, error) {
	id, ok, err := articleID(req)
	if err != nil {
		return nil, err
	}

	if ok {
		if err := h.articles.Delete(ctx, id); err != nil {
			return nil, err
		}
	}

	return successBody{Success: true}, nil
}

// articleID reads the integer "id" path parameter. ok is false when the
// parameter is absent; a present but non-integer id is a 400.
func articleID(req *Request) (id int64, ok bool, err error) {
	raw := req.PathParam("id")
	if raw == "" {
		return 0, false, nil
	}

	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, errs.NewBadRequestError("Invalid article id", true, nil, []errs.FieldError{
			{Field: "id", Error: "must be an integer"},
		}, nil)
	}

	return id, true, nil
}
