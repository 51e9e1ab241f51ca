// Package article holds the article entity and its write payload.
package article

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Article is a blog post's metadata as exposed by the API.
// Store-managed timestamps are deliberately absent.
type Article struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
	Date     string   `json:"date"`
	ReadTime string   `json:"readTime"`
}

// Input is the create/update payload.
//
// Every field is a pointer or slice so that presence can be checked
// independently of content: "" and [] are accepted, a missing key or
// an explicit null is not.
type Input struct {
	Title    *string  `json:"title" validate:"required"`
	Excerpt  *string  `json:"excerpt" validate:"required"`
	Image    *string  `json:"image" validate:"required"`
	Tags     []string `json:"tags" validate:"required"`
	Date     *Label   `json:"date" validate:"required"`
	ReadTime *Label   `json:"readTime" validate:"required"`
}

var validate = newValidator()

// newValidator reports fields by their JSON names ("readTime", not "ReadTime").
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field presence.
func (in *Input) Validate() error {
	return validate.Struct(in)
}

// Values returns the mutable columns in statement order:
// title, excerpt, image, tags, date, read_time.
// Validate must have succeeded first.
func (in *Input) Values() []any {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return []any{
		*in.Title,
		*in.Excerpt,
		*in.Image,
		tags,
		in.Date.String(),
		in.ReadTime.String(),
	}
}

// Label is free text that also accepts a bare JSON number, so
// "readTime": 5 and "readTime": "5" both store "5".
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Label(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Label(n.String())
		return nil
	}

	return fmt.Errorf("expected text or number, got %s", data)
}

func (l *Label) String() string {
	if l == nil {
		return ""
	}
	return string(*l)
}
