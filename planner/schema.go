package planner

import (
	"encoding/json"
	"strings"
)

// ─── Schema Validator / Normalizer ────────────────────────────────────────────

// Shape declares what a decoded value of type T must look like.
//
// Default builds a complete, internally consistent value of T; it is the
// substitute for every decode failure and must itself pass Valid. Aliases
// maps legacy snake_case field names onto their canonical camelCase form —
// the upstream still emits both spellings for historically renamed fields.
type Shape[T any] struct {
	Default func() T
	Valid   func(T) bool
	Aliases map[string]string
}

// Decode turns raw upstream text into a value of shape T. It never fails:
// any parse, shape, or validation problem yields Default(). The boolean
// reports whether the value genuinely came from the upstream — callers log
// a malformed-response event when it is false, the client never sees it.
func (s Shape[T]) Decode(raw string) (T, bool) {
	obj := extractJSON(raw)
	if obj == "" {
		return s.Default(), false
	}

	var tree any
	if err := json.Unmarshal([]byte(obj), &tree); err != nil {
		return s.Default(), false
	}
	tree = normalizeKeys(tree, s.Aliases)

	buf, err := json.Marshal(tree)
	if err != nil {
		return s.Default(), false
	}

	var v T
	if err := json.Unmarshal(buf, &v); err != nil {
		return s.Default(), false
	}
	if s.Valid != nil && !s.Valid(v) {
		// No partial merge: a half-valid object is discarded whole.
		return s.Default(), false
	}
	return v, true
}

// extractJSON cuts the first top-level JSON object out of free-form model
// output (prose before it, markdown fences around it, trailing commentary).
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// normalizeKeys coalesces aliased field names at every nesting level.
// When both spellings are present the camelCase one wins; the snake_case
// key is dropped either way.
func normalizeKeys(v any, aliases map[string]string) any {
	if len(aliases) == 0 {
		return v
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = normalizeKeys(child, aliases)
		}
		for legacy, canonical := range aliases {
			val, ok := out[legacy]
			if !ok {
				continue
			}
			if _, exists := out[canonical]; !exists {
				out[canonical] = val
			}
			delete(out, legacy)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeKeys(t[i], aliases)
		}
		return t
	default:
		return v
	}
}
