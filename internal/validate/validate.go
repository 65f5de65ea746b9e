// Package validate provides declarative input validation for tool
// arguments plus the string and file-path sanitization shared by the
// tool handlers.
package validate

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// Property describes a single named field of a schema.
type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
}

// Schema is a declarative shape for tool input: an object with named,
// typed properties and a list of required fields.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// FieldError reports a single violated constraint. Field uses dotted
// paths for nested structures so batch corrections are possible.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks input against the schema and returns the validated
// value. Every violated constraint is reported, not just the first.
// Missing optional properties with a declared default are filled in.
func Validate(schema Schema, input map[string]any) (map[string]any, []FieldError) {
	out := make(map[string]any, len(input))
	var errs []FieldError

	for key, value := range input {
		out[key] = value
	}

	for _, required := range schema.Required {
		if _, ok := input[required]; !ok {
			errs = append(errs, FieldError{Field: required, Message: "is required"})
		}
	}

	for name, prop := range schema.Properties {
		value, ok := out[name]
		if !ok {
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}
		errs = append(errs, checkProperty(name, prop, value)...)
	}

	return out, errs
}

func checkProperty(path string, prop Property, value any) []FieldError {
	var errs []FieldError

	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return []FieldError{{Field: path, Message: "must be a string", Value: value}}
		}
		if len(prop.Enum) > 0 && !contains(prop.Enum, s) {
			errs = append(errs, FieldError{
				Field:   path,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(prop.Enum, ", ")),
				Value:   value,
			})
		}
	case "number", "integer":
		if _, ok := toFloat(value); !ok {
			errs = append(errs, FieldError{Field: path, Message: "must be a number", Value: value})
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			errs = append(errs, FieldError{Field: path, Message: "must be a boolean", Value: value})
		}
	case "object":
		nested, ok := value.(map[string]any)
		if !ok {
			return []FieldError{{Field: path, Message: "must be an object", Value: value}}
		}
		for name, sub := range prop.Properties {
			if v, present := nested[name]; present {
				errs = append(errs, checkProperty(path+"."+name, sub, v)...)
			}
		}
	}

	return errs
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// NewValidator returns a function that validates against the schema and
// either returns the typed data or fails with a single combined message
// listing every violated field, comma-joined. Used by callers that want
// a single error point instead of a result list.
func NewValidator(schema Schema) func(map[string]any) (map[string]any, error) {
	return func(input map[string]any) (map[string]any, error) {
		out, errs := Validate(schema, input)
		if len(errs) == 0 {
			return out, nil
		}
		parts := make([]string, len(errs))
		for i, e := range errs {
			parts[i] = e.Error()
		}
		return nil, fmt.Errorf("validation failed: %s", strings.Join(parts, ", "))
	}
}

var (
	sanitizePattern = regexp.MustCompile(`[<>"']`)
	pathAllowList   = regexp.MustCompile(`[^A-Za-z0-9._\-/]`)
)

// SanitizeString removes angle brackets and quote characters and trims
// surrounding whitespace.
func SanitizeString(s string) string {
	return strings.TrimSpace(sanitizePattern.ReplaceAllString(s, ""))
}

// ErrPathTraversal is the code carried by path containment failures.
const ErrPathTraversal = "PATH_TRAVERSAL"

// PathError reports a rejected file path.
type PathError struct {
	Code string
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: invalid file path: %s", e.Code, e.Path)
}

// ValidateFilePath rejects paths containing a parent-directory segment
// or starting at the filesystem root, then strips every character
// outside the allow-list (alphanumeric, '.', '-', '_', '/').
func ValidateFilePath(path string) (string, error) {
	if strings.Contains(path, "..") || strings.HasPrefix(path, "/") {
		return "", &PathError{Code: ErrPathTraversal, Path: path}
	}
	return pathAllowList.ReplaceAllString(path, ""), nil
}

// NonEmptyString checks that s contains at least one non-whitespace rune.
func NonEmptyString(field, s string) *FieldError {
	if strings.TrimSpace(s) == "" {
		return &FieldError{Field: field, Message: "must not be empty", Value: s}
	}
	return nil
}

// PositiveNumber checks that n is strictly positive.
func PositiveNumber(field string, n float64) *FieldError {
	if n <= 0 {
		return &FieldError{Field: field, Message: "must be a positive number", Value: n}
	}
	return nil
}

// Email checks that s is a syntactically valid email address.
func Email(field, s string) *FieldError {
	if _, err := mail.ParseAddress(s); err != nil {
		return &FieldError{Field: field, Message: "must be a valid email address", Value: s}
	}
	return nil
}

// URL checks that s is a syntactically valid absolute URL.
func URL(field, s string) *FieldError {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &FieldError{Field: field, Message: "must be a valid URL", Value: s}
	}
	return nil
}
