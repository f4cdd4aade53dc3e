// Package validate checks create and update payloads. Every problem in a
// payload is reported, not just the first, and defaults are applied to
// optional fields that are absent.
package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidJSON is returned by Decode for bodies that are not a JSON object.
var ErrInvalidJSON = errors.New("invalid JSON")

// Raw is a decoded request body. Numbers are kept as json.Number so that
// integers can be told apart from fractions.
type Raw map[string]any

// Decode reads a JSON object from r.
func Decode(r io.Reader) (Raw, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw Raw
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, ErrInvalidJSON
	}
	return raw, nil
}

// IDSource lists the ids of a referenced collection.
type IDSource interface {
	IDs(ctx context.Context) ([]int, error)
}

func idSet(ctx context.Context, src IDSource) (map[int]struct{}, error) {
	ids, err := src.IDs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	}
	return 0, false
}

func requiredString(raw Raw, field string, errs *Errors) string {
	s, ok := raw[field].(string)
	if !ok || s == "" {
		errs.typeErr(field, "non-empty string")
		return ""
	}
	return s
}

func optionalString(raw Raw, field, def string, errs *Errors) string {
	v, present := raw[field]
	if !present {
		return def
	}
	s, ok := v.(string)
	if !ok {
		errs.typeErr(field, "string")
		return def
	}
	return s
}

func optionalInt(raw Raw, field string, def int, errs *Errors) int {
	v, present := raw[field]
	if !present {
		return def
	}
	n, ok := asInt(v)
	if !ok {
		errs.typeErr(field, "integer")
		return def
	}
	return n
}
