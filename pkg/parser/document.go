package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrMultipleDocuments is returned when a YAML stream holds more than one document.
var ErrMultipleDocuments = errors.New("expected a single document in the stream")

// ParseDocument decodes raw YAML into a generic value made of maps, slices and
// scalars. Mapping keys are converted to strings so the result can be handed
// to a JSON Schema validator. The input must hold at most one document.
func ParseDocument(raw []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return normalize(doc), nil
	case err != nil:
		return nil, err
	default:
		return nil, fmt.Errorf("line %d: %w", extra.Line, ErrMultipleDocuments)
	}
}

// ParseJSON decodes a JSON document. Syntax errors report the byte offset of
// the failure.
func ParseJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("offset %d: %w", syntaxErr.Offset, err)
		}
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("offset %d: unexpected data after top-level value", dec.InputOffset())
	}
	return doc, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
