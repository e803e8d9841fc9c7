package models_test

import (
	"errors"
	"github.com/google/go-cmp/cmp"
	"post-store/internal/models"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPost_Validate(t *testing.T) {
	tests := []struct {
		name    string
		post    models.Post
		wantErr bool
		field   string
		tag     string
	}{
		{name: "simple", post: models.Post{Title: "Hello", Content: "World"}},
		{name: "title at bound", post: models.Post{Title: strings.Repeat("t", 100), Content: "c"}},
		{name: "multi-byte title at bound", post: models.Post{Title: strings.Repeat("ä", 100), Content: "c"}},
		{name: "large content", post: models.Post{Title: "t", Content: strings.Repeat("c", 100_000)}},
		{name: "title over bound", post: models.Post{Title: strings.Repeat("t", 101), Content: "c"}, wantErr: true, field: "title", tag: "max"},
		{name: "empty title", post: models.Post{Content: "c"}, wantErr: true, field: "title", tag: "required"},
		{name: "empty content", post: models.Post{Title: "t"}, wantErr: true, field: "content", tag: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("want no error, got %v", err)
				}
				return
			}

			var validationErrs models.ValidationErrors
			if !errors.As(err, &validationErrs) {
				t.Fatalf("want ValidationErrors, got %T (%v)", err, err)
			}

			if !validationErrs.Has(tt.field, tt.tag) {
				t.Errorf("want %s/%s violation, got %v", tt.field, tt.tag, validationErrs)
				return
			}
		})
	}
}

func TestPost_Validate_Message(t *testing.T) {
	p := models.Post{Title: strings.Repeat("t", 101)}

	err := p.Validate()
	if err == nil {
		t.Fatalf("want error, got nil")
	}

	want := "validation failed: title must be at most 100 characters long; content is required"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
		return
	}
}

func TestPost_Prepare(t *testing.T) {
	p := models.Post{Title: "  Hello \t", Content: "  World  "}
	p.Prepare()

	want := models.Post{Title: "Hello", Content: "  World  "}
	if !cmp.Equal(want, p) {
		t.Error(cmp.Diff(want, p))
		return
	}
}

func TestPost_ApplyPolicy(t *testing.T) {
	overlong := strings.Repeat("x", 101)

	rejected := models.Post{Title: overlong, Content: "c"}
	rejected.ApplyPolicy(models.RejectOverlong)
	if rejected.Title != overlong {
		t.Errorf("reject policy must not modify the title")
		return
	}
	if rejected.Validate() == nil {
		t.Errorf("want validation error for overlong title under reject policy")
		return
	}

	truncated := models.Post{Title: overlong, Content: "c"}
	truncated.ApplyPolicy(models.TruncateOverlong)
	if truncated.Title != strings.Repeat("x", 100) {
		t.Errorf("want title truncated to 100 characters, got %d", utf8.RuneCountInString(truncated.Title))
		return
	}
	if err := truncated.Validate(); err != nil {
		t.Errorf("want truncated post to validate, got %v", err)
		return
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "short", input: "Hello", want: "Hello"},
		{name: "exactly at bound", input: strings.Repeat("a", 100), want: strings.Repeat("a", 100)},
		{name: "one over", input: strings.Repeat("a", 101), want: strings.Repeat("a", 100)},
		{name: "multi-byte", input: strings.Repeat("ö", 150), want: strings.Repeat("ö", 100)},
		{
			// the 100th rune is an 'e' followed by a combining acute accent;
			// keeping the 'e' alone would strip its accent
			name:  "combining mark at cut",
			input: strings.Repeat("a", 99) + "e\u0301" + "xyz",
			want:  strings.Repeat("a", 99),
		},
	}

	for _, tt := range tests {
		got := models.TruncateTitle(tt.input)
		if got != tt.want {
			t.Errorf("%s: got %q (%d runes), want %q", tt.name, got, utf8.RuneCountInString(got), tt.want)
			return
		}
	}
}

func TestParseBoundedFieldPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    models.BoundedFieldPolicy
		wantErr bool
	}{
		{input: "", want: models.RejectOverlong},
		{input: "reject", want: models.RejectOverlong},
		{input: " Truncate ", want: models.TruncateOverlong},
		{input: "ignore", wantErr: true},
	}

	for _, tt := range tests {
		got, err := models.ParseBoundedFieldPolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoundedFieldPolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			return
		}
		if got != tt.want {
			t.Errorf("ParseBoundedFieldPolicy(%q) = %q, want %q", tt.input, got, tt.want)
			return
		}
	}
}
