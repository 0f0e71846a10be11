package envelope

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastygo/envelope/pkg/pipeline"
)

// Resolver computes a field value for one request. On the success path err is nil.
type Resolver func(c *pipeline.Context, err error) (any, error)

// Field is one named envelope entry: either a constant or a resolver.
type Field struct {
	name     string
	constant any
	resolve  Resolver
}

// Const declares a field whose value is copied as-is into every envelope.
func Const(name string, value any) Field {
	return Field{name: name, constant: value}
}

// Resolve declares a field computed per request.
func Resolve(name string, fn Resolver) Field {
	return Field{name: name, resolve: fn}
}

func (f Field) Name() string { return f.name }

func (f Field) value(c *pipeline.Context, err error) (any, error) {
	if f.resolve == nil {
		return f.constant, nil
	}
	return f.resolve(c, err)
}

// Spec is an ordered, immutable set of envelope fields. The zero Spec means
// "not configured" and selects the built-in default.
type Spec struct {
	fields []Field
}

// NewSpec validates fields and fixes their order. Names must be unique and non-empty.
func NewSpec(fields ...Field) (Spec, error) {
	if len(fields) == 0 {
		return Spec{}, &ConfigError{Reason: "envelope: spec has no fields"}
	}
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f.name == "" {
			return Spec{}, &ConfigError{Reason: fmt.Sprintf("envelope: field %d has no name", i)}
		}
		if _, dup := seen[f.name]; dup {
			return Spec{}, &ConfigError{Reason: fmt.Sprintf("envelope: duplicate field %q", f.name)}
		}
		seen[f.name] = struct{}{}
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return Spec{fields: out}, nil
}

// MustSpec is NewSpec that panics on invalid input.
func MustSpec(fields ...Field) Spec {
	s, err := NewSpec(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// IsZero reports whether the spec is unset.
func (s Spec) IsZero() bool { return len(s.fields) == 0 }

// Names lists field names in output order.
func (s Spec) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Build evaluates every field in declared order. Each resolver completes
// before the next starts. Nothing partial is returned on failure.
// Only a cancelled request stops the build; a request past its deadline still
// gets its envelope, and resolvers can check the deadline themselves.
func (s Spec) Build(c *pipeline.Context, err error) (Body, error) {
	body := make(Body, 0, len(s.fields))
	for _, f := range s.fields {
		if cerr := c.Context().Err(); errors.Is(cerr, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", ErrAborted, cerr)
		}
		v, rerr := f.value(c, err)
		if rerr != nil {
			return nil, &ResolverError{Field: f.name, Err: rerr}
		}
		body = append(body, Entry{Key: f.name, Value: v})
	}
	return body, nil
}
