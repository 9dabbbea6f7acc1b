package extract

import (
	"strconv"
	"strings"

	"matchdata-scraper/internal/model"
)

// Lookup walks a dotted path ("a.b[0].c" or "a.b.0.c") through decoded JSON.
// ok is false when any segment is absent, null, or of the wrong shape.
func Lookup(doc any, path string) (any, bool) {
	segments, ok := splitPath(path)
	if !ok {
		return nil, false
	}

	current := doc
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, exists := node[segment]
			if !exists {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

// GetPath is Lookup with a fallback: def is returned whenever the path does not resolve.
func GetPath(doc any, path string, def any) any {
	if v, ok := Lookup(doc, path); ok {
		return v
	}
	return def
}

// GetMap returns the object at path, or an empty object.
func GetMap(doc any, path string) map[string]any {
	if v, ok := Lookup(doc, path); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

// GetSlice returns the array at path, or an empty array.
func GetSlice(doc any, path string) []any {
	if v, ok := Lookup(doc, path); ok {
		if s, ok := v.([]any); ok {
			return s
		}
	}
	return []any{}
}

// GetString returns the trimmed string at path, or "".
func GetString(doc any, path string) string {
	if v, ok := Lookup(doc, path); ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// GetID returns the id at path rendered as a string, or "" when missing or zero.
func GetID(doc any, path string) string {
	v, _ := Lookup(doc, path)
	return model.FormatID(v)
}

func GetBool(doc any, path string) bool {
	if v, ok := Lookup(doc, path); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetFloat accepts JSON numbers and numeric strings.
func GetFloat(doc any, path string) (float64, bool) {
	v, ok := Lookup(doc, path)
	if !ok {
		return 0, false
	}
	switch typed := v.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func splitPath(path string) ([]string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, true
	}

	out := make([]string, 0, 8)
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		name := part
		var indexes []string
		if open := strings.IndexByte(part, '['); open >= 0 {
			name = part[:open]
			rest := part[open:]
			for rest != "" {
				if rest[0] != '[' {
					return nil, false
				}
				end := strings.IndexByte(rest, ']')
				if end < 2 {
					return nil, false
				}
				indexes = append(indexes, rest[1:end])
				rest = rest[end+1:]
			}
		}
		if name != "" {
			out = append(out, name)
		}
		out = append(out, indexes...)
	}
	return out, true
}
