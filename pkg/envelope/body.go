package envelope

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/fastygo/envelope/pkg/pipeline"
)

// Entry is one key/value pair of an envelope.
type Entry struct {
	Key   string
	Value any
}

// Body is an envelope object. It marshals as a JSON object whose keys keep
// the order of the spec that produced it.
type Body []Entry

func (b Body) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeBody reads the response produced so far. A JSON content type yields
// the decoded value (nil for an empty body) with numbers kept as json.Number;
// anything else yields the body as text. A streamed body is read to the end
// and a read error is returned instead of being enveloped.
func DecodeBody(c *pipeline.Context) (any, error) {
	resp := c.Response()
	if resp.IsBodyStream() {
		streamed, err := io.ReadAll(resp.BodyStream())
		if err != nil {
			_ = resp.CloseBodyStream()
			return nil, fmt.Errorf("read response stream: %w", err)
		}
		resp.SetBodyRaw(streamed)
	}
	body := resp.Body()
	contentType := strings.ToLower(string(resp.Header.ContentType()))
	if !strings.Contains(contentType, "json") {
		return string(body), nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("response body holds more than one JSON value")
	}
	return v, nil
}
