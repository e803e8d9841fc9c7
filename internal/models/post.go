package models

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
	"reflect"
	"strings"
	"unicode/utf8"
)

// TitleMaxLength is the bound on Post.Title in characters (runes).
// It has to stay in sync with the `size` and `max` tags on Post.Title.
const TitleMaxLength = 100

// Post is a titled piece of content.
//
// Title is the bounded field, Content is unbounded. Both columns are indexed;
// the indexes are declared in database.PostIndexes rather than in tags because
// the index method differs per dialect.
type Post struct {
	Model
	Title   string `gorm:"size:100;not null" json:"title" validate:"required,max=100"`
	Content string `gorm:"type:text;not null" json:"content" validate:"required"`
}

func (Post) TableName() string { return "posts" }

// BoundedFieldPolicy decides what happens to a bounded field that exceeds its maximum.
type BoundedFieldPolicy string

const (
	// RejectOverlong fails validation for overlong values.
	RejectOverlong BoundedFieldPolicy = "reject"
	// TruncateOverlong cuts overlong values down to the maximum.
	TruncateOverlong BoundedFieldPolicy = "truncate"
)

// ParseBoundedFieldPolicy parses a policy name; the empty string yields RejectOverlong.
func ParseBoundedFieldPolicy(s string) (BoundedFieldPolicy, error) {
	switch BoundedFieldPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RejectOverlong:
		return RejectOverlong, nil
	case TruncateOverlong:
		return TruncateOverlong, nil
	}
	return "", fmt.Errorf("unknown bounded field policy %q (want %q or %q)", s, RejectOverlong, TruncateOverlong)
}

// Prepare normalizes user input before it is validated and stored.
func (p *Post) Prepare() {
	p.Title = strings.TrimSpace(p.Title)
}

// ApplyPolicy enforces the bounded field policy on the post.
// Under RejectOverlong the post is left untouched and Validate reports the violation.
func (p *Post) ApplyPolicy(policy BoundedFieldPolicy) {
	if policy == TruncateOverlong {
		p.Title = TruncateTitle(p.Title)
	}
}

// Validate checks the post against its field constraints.
// A non-nil error is always of type ValidationErrors.
func (p *Post) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "post", Tag: "invalid", Param: err.Error()}}
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, ValidationError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return result
}

// TruncateTitle shortens s to at most TitleMaxLength runes.
//
// The cut is moved back to the nearest normalization boundary, so a base
// character is never separated from the combining marks that follow it.
func TruncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= TitleMaxLength {
		return s
	}

	cut, n := 0, 0
	for i := range s {
		if n == TitleMaxLength {
			cut = i
			break
		}
		n++
	}

	if norm.NFC.FirstBoundaryInString(s[cut:]) == 0 {
		return s[:cut]
	}

	boundary := norm.NFC.LastBoundary([]byte(s[:cut]))
	if boundary <= 0 {
		return ""
	}
	return s[:boundary]
}

// ValidationError describes a single violated field constraint.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (v ValidationError) Error() string {
	switch v.Tag {
	case "required":
		return fmt.Sprintf("%s is required", v.Field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", v.Field, v.Param)
	}
	if v.Param != "" {
		return fmt.Sprintf("%s failed on '%s': %s", v.Field, v.Tag, v.Param)
	}
	return fmt.Sprintf("%s failed on '%s'", v.Field, v.Tag)
}

// ValidationErrors is returned by Validate when one or more constraints are violated.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether the given field failed on the given tag.
func (v ValidationErrors) Has(field, tag string) bool {
	for _, e := range v {
		if e.Field == field && e.Tag == tag {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names (title, content) instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
