package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/deppfellow/blog-articles/internal/middleware"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds shared application dependencies for concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// EnvelopeFunc serves one normalized request.
type EnvelopeFunc func(ctx context.Context, req *Request) (*Response, error)

// HandleEnvelope adapts an EnvelopeFunc to an Echo route.
//
// The adapter builds the Request from the method, route parameters and raw
// body, then copies the Response status, headers and body back verbatim.
// Access-Control-Allow-Origin is set before serving so it is present even
// when the request ends in the global error handler.
func HandleEnvelope(serve EnvelopeFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleEnvelope(c, serve)
	}
}

func handleEnvelope(c echo.Context, serve EnvelopeFunc) error {
	start := time.Now()
	path := c.Path()

	c.Response().Header().Set(HeaderAllowOrigin, allowedOrigin)

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", path)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "envelope").
		Str("method", c.Request().Method).
		Str("route", path).
		Logger()

	req, err := newRequest(c)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read request body")
		return err
	}

	logger.Debug().
		Interface("path_params", req.PathParams).
		Int("body_bytes", len(req.Body)).
		Msg("handling request")

	handlerStart := time.Now()
	res, err := serve(c.Request().Context(), req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
	}

	logger.Debug().
		Int("status", res.StatusCode).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return writeResponse(c, res)
}

func newRequest(c echo.Context) (*Request, error) {
	var body []byte
	if c.Request().Body != nil {
		var err error
		body, err = io.ReadAll(c.Request().Body)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
	}

	params := make(map[string]string, len(c.ParamNames()))
	for _, name := range c.ParamNames() {
		params[name] = c.Param(name)
	}

	return &Request{
		HTTPMethod: c.Request().Method,
		PathParams: params,
		Body:       string(body),
	}, nil
}

func writeResponse(c echo.Context, res *Response) error {
	header := c.Response().Header()
	for name, value := range res.Headers {
		header.Set(name, value)
	}

	if res.Body == "" {
		return c.NoContent(res.StatusCode)
	}

	body := []byte(res.Body)
	if res.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(res.Body)
		if err != nil {
			return fmt.Errorf("decoding base64 response body: %w", err)
		}
		body = decoded
	}

	return c.Blob(res.StatusCode, header.Get(HeaderContentType), body)
}
