// Package binding 将 JSON 数据插值到幻灯片文本中。
//
// 语法：${path.to[0].value}，可用 "|" 提供默认值：${product.name | Untitled}。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces every ${path} in text with the value found in data.
// Unresolved placeholders without a default are left untouched.
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		expr := match[2 : len(match)-1]
		path, fallback, hasDefault := strings.Cut(expr, "|")
		path = strings.TrimSpace(path)
		if val, ok := Lookup(data, path); ok {
			return format(val)
		}
		if hasDefault {
			return strings.TrimSpace(fallback)
		}
		return match
	})
}

// Lookup resolves a dotted path with optional [n] indexes against decoded JSON.
func Lookup(data any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			obj, isObj := current.(map[string]any)
			if !isObj {
				return nil, false
			}
			if current, ok = obj[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			list, isList := current.([]any)
			if !isList || idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

// splitSegment parses "items[2][0]" into name and indexes.
func splitSegment(segment string) (string, []int, bool) {
	name, rest, found := strings.Cut(segment, "[")
	if !found {
		return name, nil, true
	}
	var indexes []int
	rest = "[" + rest
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, n)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// format 整数值的 float64 不输出小数部分（JSON 数字解码为 float64）。
func format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
