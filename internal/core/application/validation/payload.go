// Package validation turns untyped CRM payloads into typed, resolved commands.
//
// Rules shared by both payloads:
//   - a value is missing when absent or blank: null, zero, "", false, [] or {}
//   - integers must be JSON integers, 3.0 and "3" are rejected
//   - every identifier must resolve through the reference resolver
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Payload is a decoded JSON object. Numbers are json.Number.
type Payload map[string]any

var ErrPayloadIsNotObject = errors.New("payload must be a JSON object")

// DecodePayload reads one JSON object from r keeping numbers as json.Number.
func DecodePayload(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrPayloadIsNotObject
	}
	return Payload(obj), nil
}

// DecodePayloadBytes is DecodePayload over a byte slice.
func DecodePayloadBytes(b []byte) (Payload, error) {
	return DecodePayload(bytes.NewReader(b))
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case string:
		return x == ""
	case bool:
		return !x
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	case Payload:
		return len(x) == 0
	default:
		return false
	}
}

// asInt accepts JSON integers only. Booleans and floats are not integers.
func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		return n, err == nil
	case int:
		return int64(x), true
	case int64:
		return x, true
	default:
		return 0, false
	}
}

func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case Payload:
		return x, true
	default:
		return nil, false
	}
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case json.Number:
		return x.String()
	case []any:
		return "a list"
	case map[string]any, Payload:
		return "an object"
	default:
		return fmt.Sprintf("%v", x)
	}
}
