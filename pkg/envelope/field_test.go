package envelope

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/envelope/pkg/pipeline"
)

func TestNewSpec_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{name: "empty", fields: nil},
		{name: "unnamed field", fields: []Field{Const("", 1)}},
		{name: "duplicate field", fields: []Field{Const("code", 1), Const("code", 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpec(tt.fields...)
			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}

	assert.Panics(t, func() { MustSpec() })
}

func TestSpec_NamesKeepDeclarationOrder(t *testing.T) {
	fields := []Field{Const("b", 1), Const("a", 2), Resolve("c", nil)}
	spec := MustSpec(fields...)
	assert.Equal(t, []string{"b", "a", "c"}, spec.Names())

	fields[0] = Const("mutated", 0)
	assert.Equal(t, []string{"b", "a", "c"}, spec.Names(), "spec must not alias the caller's slice")

	assert.True(t, Spec{}.IsZero())
}

func TestSpec_BuildStopsOnCancelledRequest(t *testing.T) {
	std, cancel := context.WithCancel(context.Background())
	var fast fasthttp.RequestCtx
	c := pipeline.NewContext(&fast, std, nil)

	var called []string
	spec := MustSpec(
		Resolve("first", func(*pipeline.Context, error) (any, error) {
			called = append(called, "first")
			cancel()
			return 1, nil
		}),
		Resolve("second", func(*pipeline.Context, error) (any, error) {
			called = append(called, "second")
			return 2, nil
		}),
	)

	body, err := spec.Build(c, nil)
	assert.Nil(t, body)
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, called)
}

func TestSpec_BuildContinuesPastDeadline(t *testing.T) {
	std, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	var fast fasthttp.RequestCtx
	c := pipeline.NewContext(&fast, std, nil)

	body, err := MustSpec(Const("a", 1), Const("b", 2)).Build(c, nil)
	require.NoError(t, err)
	assert.Equal(t, Body{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, body)
}

func TestSpec_BuildWrapsResolverError(t *testing.T) {
	var fast fasthttp.RequestCtx
	c := pipeline.NewContext(&fast, nil, nil)
	cause := errors.New("nope")

	_, err := MustSpec(
		Const("ok", true),
		Resolve("bad", func(*pipeline.Context, error) (any, error) { return nil, cause }),
	).Build(c, nil)

	var rerr *ResolverError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "bad", rerr.Field)
	assert.ErrorIs(t, err, cause)
	assert.True(t, passthrough(err))
}

func TestBody_MarshalKeepsOrder(t *testing.T) {
	body := Body{{Key: "z", Value: 1}, {Key: "a", Value: "x"}, {Key: "m", Value: nil}}
	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":null}`, string(out))

	out, err = json.Marshal(Body{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        any
		wantErr     bool
	}{
		{name: "json object", contentType: "application/json", body: `{"a":1}`, want: map[string]any{"a": json.Number("1")}},
		{name: "large integer", contentType: "application/json", body: `{"id":9007199254740993}`, want: map[string]any{"id": json.Number("9007199254740993")}},
		{name: "json mixed case", contentType: "Application/JSON; charset=utf-8", body: `"hi"`, want: "hi"},
		{name: "problem json", contentType: "application/problem+json", body: `[true]`, want: []any{true}},
		{name: "empty json", contentType: "application/json", body: "", want: nil},
		{name: "plain text", contentType: "text/plain", body: `{"a":1}`, want: `{"a":1}`},
		{name: "invalid json", contentType: "application/json", body: `{`, wantErr: true},
		{name: "trailing json", contentType: "application/json", body: `{} {}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fast fasthttp.RequestCtx
			fast.Response.Header.SetContentType(tt.contentType)
			fast.Response.SetBodyString(tt.body)
			c := pipeline.NewContext(&fast, nil, nil)

			got, err := DecodeBody(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBody_Stream(t *testing.T) {
	t.Run("read to the end", func(t *testing.T) {
		var fast fasthttp.RequestCtx
		fast.Response.Header.SetContentType("application/json")
		fast.Response.SetBodyStream(strings.NewReader(`{"n":1}`), -1)
		c := pipeline.NewContext(&fast, nil, nil)

		got, err := DecodeBody(c)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"n": json.Number("1")}, got)
		assert.False(t, fast.Response.IsBodyStream())
	})

	t.Run("read error is returned", func(t *testing.T) {
		var fast fasthttp.RequestCtx
		fast.Response.Header.SetContentType("text/plain")
		fast.Response.SetBodyStream(iotest.ErrReader(errors.New("connection reset")), -1)
		c := pipeline.NewContext(&fast, nil, nil)

		got, err := DecodeBody(c)
		assert.Nil(t, got)
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestStatusResolver(t *testing.T) {
	var fast fasthttp.RequestCtx
	fast.SetStatusCode(fasthttp.StatusAccepted)
	c := pipeline.NewContext(&fast, nil, nil)

	status, err := FixedStatus(fasthttp.StatusOK).Resolve(c, errors.New("x"))
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusOK, status)

	status, err = DefaultStatus().Resolve(c, nil)
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusAccepted, status)

	status, err = DefaultStatus().Resolve(c, errors.New("x"))
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusInternalServerError, status)

	status, err = DefaultStatus().Resolve(c, pipeline.NewHTTPError(fasthttp.StatusConflict, ""))
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusConflict, status)

	assert.True(t, StatusResolver{}.IsZero())
	assert.False(t, FixedStatus(200).IsZero())
}
