package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/deppfellow/blog-articles/internal/errs"
)

const (
	HeaderContentType  = "Content-Type"
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderMaxAge       = "Access-Control-Max-Age"

	ContentTypeJSON = "application/json"

	allowedOrigin  = "*"
	allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowedHeaders = "Content-Type"
	preflightTTL   = "86400"
)

// Request is the normalized inbound request handed over by the hosting layer.
type Request struct {
	HTTPMethod string            `json:"httpMethod"`
	PathParams map[string]string `json:"pathParams,omitempty"`

	// Body is the raw JSON text; empty means "{}".
	Body string `json:"body,omitempty"`
}

// PathParam returns the named path parameter, or "" when absent.
func (r *Request) PathParam(name string) string {
	if r.PathParams == nil {
		return ""
	}
	return r.PathParams[name]
}

// Response is the normalized outbound response the hosting layer writes back.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Errors []errs.FieldError `json:"errors,omitempty"`
}

type successBody struct {
	Success bool `json:"success"`
}

// NewJSONResponse encodes payload as the response body.
//
// Non-ASCII and HTML-significant characters are written as-is rather than
// as \u escapes.
func NewJSONResponse(status int, payload any) (*Response, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encoding response body: %w", err)
	}

	return &Response{
		StatusCode: status,
		Headers: map[string]string{
			HeaderContentType: ContentTypeJSON,
			HeaderAllowOrigin: allowedOrigin,
		},
		// Encode terminates the document with a newline.
		Body: string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))),
	}, nil
}

// NewErrorResponse renders an HTTPError as {"error": message}.
func NewErrorResponse(httpErr *errs.HTTPError) (*Response, error) {
	return NewJSONResponse(httpErr.Status, ErrorBody{
		Error:  httpErr.Message,
		Errors: httpErr.Errors,
	})
}

// NewPreflightResponse answers a CORS preflight with an empty body.
func NewPreflightResponse() *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			HeaderAllowOrigin:  allowedOrigin,
			HeaderAllowMethods: allowedMethods,
			HeaderAllowHeaders: allowedHeaders,
			HeaderMaxAge:       preflightTTL,
		},
		Body: "",
	}
}
