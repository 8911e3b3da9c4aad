package services

import (
	"encoding/json"
	"strconv"
	"strings"
)

// emptyListMarkers are submitted values that mean "no list" rather than a decode error.
var emptyListMarkers = map[string]bool{
	"":          true,
	"null":      true,
	"undefined": true,
	"None":      true,
	"[]":        true,
}

// ListDecode is the result of decoding a JSON-encoded list form field.
// OK is false when the text was present but not a JSON list or string;
// Items is empty in that case.
type ListDecode struct {
	Items []string
	OK    bool
}

// DecodeList decodes a form field holding a JSON array of strings. A bare
// JSON string becomes a one-element list and empty elements are dropped.
func DecodeList(raw string) ListDecode {
	raw = strings.TrimSpace(raw)
	if emptyListMarkers[raw] {
		return ListDecode{Items: []string{}, OK: true}
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ListDecode{Items: []string{}}
	}

	switch t := v.(type) {
	case string:
		return ListDecode{Items: []string{t}, OK: true}
	case []any:
		items := make([]string, 0, len(t))
		for _, el := range t {
			if s, ok := listItem(el); ok {
				items = append(items, s)
			}
		}
		return ListDecode{Items: items, OK: true}
	default:
		return ListDecode{Items: []string{}}
	}
}

// listItem stringifies one decoded element, reporting false for empty ones.
func listItem(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		return strconv.FormatBool(t), t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), t != 0
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		s := string(b)
		return s, s != "[]" && s != "{}"
	}
}
