package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/blog-articles/internal/errs"
	"github.com/deppfellow/blog-articles/internal/model/article"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slugPayload struct {
	Slug string `json:"slug"`
}

func (p *slugPayload) Validate() error {
	if p.Slug == "" {
		return CustomValidationErrors{{Field: "slug", Message: "must not be empty"}}
	}
	return nil
}

func requireBadRequest(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func TestDecodeAndValidate_Valid(t *testing.T) {
	var in article.Input
	err := DecodeAndValidate(`{"title":"A","excerpt":"B","image":"img.png","tags":["x"],"date":"2024-01-01","readTime":"5 min","extra":true}`, &in)
	require.NoError(t, err)
	assert.Equal(t, "A", *in.Title)
}

func TestDecodeAndValidate_EmptyBodyReportsEveryField(t *testing.T) {
	var in article.Input
	httpErr := requireBadRequest(t, DecodeAndValidate("", &in))

	assert.Equal(t, "Validation failed", httpErr.Message)

	var fields []string
	for _, fe := range httpErr.Errors {
		assert.Equal(t, "is required", fe.Error)
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"title", "excerpt", "image", "tags", "date", "readTime"}, fields)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	var in article.Input
	httpErr := requireBadRequest(t, DecodeAndValidate(`{"title":`, &in))
	assert.Equal(t, "Invalid JSON body", httpErr.Message)
}

func TestDecodeAndValidate_WrongType(t *testing.T) {
	var in article.Input
	httpErr := requireBadRequest(t, DecodeAndValidate(`{"tags":"go"}`, &in))

	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "tags", httpErr.Errors[0].Field)
	assert.Equal(t, "must not be string", httpErr.Errors[0].Error)
}

func TestDecodeAndValidate_CustomErrors(t *testing.T) {
	var p slugPayload
	httpErr := requireBadRequest(t, DecodeAndValidate(`{}`, &p))

	assert.Equal(t, []errs.FieldError{{Field: "slug", Error: "must not be empty"}}, httpErr.Errors)
}
