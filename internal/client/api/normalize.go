package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is a list response together with the total the server reported.
type Page[T any] struct {
	Results []T
	Count   int
}

type envelope struct {
	Results json.RawMessage `json:"results"`
	Count   *int            `json:"count"`
}

// ToList extracts the items of a list response. A JSON array is decoded as
// is; an object whose "results" field is an array yields that array; any other
// payload yields an empty, non-nil slice. Order is preserved. The only error
// is an element that does not decode into T.
func ToList[T any](payload []byte) ([]T, error) {
	p, err := ToPage[T](payload)
	if err != nil {
		return nil, err
	}
	return p.Results, nil
}

// ToPage is ToList plus the "count" field of a paginated envelope. For a raw
// array, or an envelope without count, Count is the number of items.
func ToPage[T any](payload []byte) (Page[T], error) {
	trimmed := bytes.TrimSpace(payload)

	items := trimmed
	count := -1
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Page[T]{Results: []T{}}, nil
		}
		items = bytes.TrimSpace(env.Results)
		if env.Count != nil {
			count = *env.Count
		}
	}

	if len(items) == 0 || items[0] != '[' {
		return Page[T]{Results: []T{}, Count: max(count, 0)}, nil
	}

	out := []T{}
	if err := json.Unmarshal(items, &out); err != nil {
		return Page[T]{}, fmt.Errorf("decode list items: %w", err)
	}
	if count < 0 {
		count = len(out)
	}
	return Page[T]{Results: out, Count: count}, nil
}

// ExtractErrorMessage picks the message to show for an error payload. Fields
// are checked in a fixed order: "name" (first element when it is an array),
// then "detail", then "message". Field-level errors such as a duplicate
// category name must win over generic text. fallback is returned when none of
// them is present or the payload is not a JSON object.
func ExtractErrorMessage(payload []byte, fallback string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return fallback
	}

	for _, key := range []string{"name", "detail", "message"} {
		if msg, ok := messageFrom(fields[key]); ok {
			return msg
		}
	}
	return fallback
}

func messageFrom(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}

	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return "", false
		}
		v = list[0]
	}

	switch value := v.(type) {
	case nil, map[string]any, []any:
		return "", false
	case string:
		return value, value != ""
	default:
		return fmt.Sprint(value), true
	}
}
