// Package validation checks request bodies against JSON schemas and turns
// them into typed values.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/internal/keycase"
)

const schemaBaseURL = "https://vintegcorp.local/schemas/"

// Normalizer is implemented by bodies that fill in defaults after decoding
type Normalizer interface {
	Normalize()
}

// Schema is a compiled JSON schema
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile compiles a draft 2020-12 schema. Formats such as email and uuid are asserted.
func Compile(name, source string) (*Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true

	url := schemaBaseURL + name
	if err := c.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

func MustCompile(name, source string) *Schema {
	s, err := Compile(name, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string {
	return s.name
}

// Validate checks raw JSON against the schema. An empty body is treated as an
// empty object. Every violation is reported in one 400 error.
func (s *Schema) Validate(raw []byte) error {
	doc, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	return s.validateDocument(doc)
}

func (s *Schema) validateDocument(doc any) error {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !apperrors.As(err, &ve) {
		return apperrors.BadRequest("Validation Error: %s", err.Error())
	}
	return apperrors.BadRequest("Validation Error: %s", strings.Join(issues(ve), ", "))
}

// Decode validates raw and decodes it into out, which must be a pointer.
// When out implements Normalizer its defaults are applied afterwards.
func (s *Schema) Decode(raw []byte, out any) error {
	if err := s.Validate(raw); err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.BadRequest("Validation Error: %s", err.Error())
		}
	}
	if n, ok := out.(Normalizer); ok {
		n.Normalize()
	}
	return nil
}

func decodeDocument(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.BadRequest("Validation Error: body: invalid JSON")
	}
	return doc, nil
}

// issues flattens a validation error tree into "path: reason" strings
func issues(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		out = append(out, describe(e)...)
	}
	walk(ve)
	sort.Strings(out)
	return out
}

func describe(e *jsonschema.ValidationError) []string {
	path := instancePath(e.InstanceLocation)

	if strings.HasSuffix(e.KeywordLocation, "/required") {
		if names, ok := missingProperties(e.Message); ok {
			out := make([]string, 0, len(names))
			for _, name := range names {
				out = append(out, joinPath(path, name)+": Required")
			}
			return out
		}
	}
	if path == "" {
		return []string{e.Message}
	}
	return []string{path + ": " + e.Message}
}

// instancePath converts a JSON pointer such as /attachments/0/name to attachments.0.name
func instancePath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return strings.Join(parts, ".")
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// missingProperties parses the names out of "missing properties: 'a', 'b'"
func missingProperties(msg string) ([]string, bool) {
	rest, ok := strings.CutPrefix(msg, "missing properties: ")
	if !ok {
		return nil, false
	}
	var names []string
	for _, part := range strings.Split(rest, ",") {
		name := strings.Trim(strings.TrimSpace(part), "'")
		if name != "" {
			names = append(names, name)
		}
	}
	return names, len(names) > 0
}

// Binder validates a raw body and returns the typed value it describes
type Binder interface {
	Name() string
	Bind(raw []byte) (any, error)
}

// TypedBinder binds request bodies of type T
type TypedBinder[T any] struct {
	schema    *Schema
	snakeKeys bool
}

type BinderOption func(*binderOptions)

type binderOptions struct {
	snakeKeys bool
}

// WithSnakeKeys converts top level camelCase keys to snake_case before validation
func WithSnakeKeys() BinderOption {
	return func(o *binderOptions) {
		o.snakeKeys = true
	}
}

func NewBinder[T any](schema *Schema, options ...BinderOption) *TypedBinder[T] {
	o := &binderOptions{}
	for _, opt := range options {
		opt(o)
	}
	return &TypedBinder[T]{schema: schema, snakeKeys: o.snakeKeys}
}

func (s *TypedBinder[T]) Name() string {
	return s.schema.Name()
}

// Bind returns a *T decoded from raw
func (s *TypedBinder[T]) Bind(raw []byte) (any, error) {
	if s.snakeKeys {
		converted, err := snakeCaseBody(raw)
		if err != nil {
			return nil, err
		}
		raw = converted
	}
	v := new(T)
	if err := s.schema.Decode(raw, v); err != nil {
		return nil, err
	}
	return v, nil
}

func snakeCaseBody(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		// leave it to the schema to report
		return raw, nil
	}
	converted, err := json.Marshal(keycase.ToSnake(m))
	if err != nil {
		return nil, fmt.Errorf("re-encode body: %w", err)
	}
	return converted, nil
}

type bodyKey struct{}

// WithBody stores a validated body in ctx
func WithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

// Body returns the validated body stored in ctx, or nil when there is none of type *T
func Body[T any](ctx context.Context) *T {
	v, _ := ctx.Value(bodyKey{}).(*T)
	return v
}
