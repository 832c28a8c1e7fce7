// Package normalize turns loosely shaped backend payloads into canonical models.
// Every fallback chain of field names lives here and nowhere else.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Object - декодированный JSON-объект.
type Object = map[string]any

// Number приводит значение к конечному числу. Числовые строки принимаются,
// NaN, бесконечности, пустые строки и прочие типы - нет.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String возвращает строковое представление скаляра или "" для остальных типов.
func String(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// ID извлекает идентификатор из строки, числа или вложенного объекта с "_id"/"id".
func ID(v any) string {
	if obj, ok := v.(map[string]any); ok {
		return FirstString(obj, "_id", "id")
	}
	return String(v)
}

// Bool принимает true и строку "true" в любом регистре.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// FirstNumber возвращает первое поле, которое присутствует и приводится к числу.
func FirstNumber(obj Object, keys ...string) (float64, bool) {
	for _, key := range keys {
		if f, ok := Number(obj[key]); ok {
			return f, true
		}
	}
	return 0, false
}

// FirstString возвращает первое непустое строковое поле.
func FirstString(obj Object, keys ...string) string {
	for _, key := range keys {
		if s := String(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

// FirstID возвращает первый непустой идентификатор среди полей.
func FirstID(obj Object, keys ...string) string {
	for _, key := range keys {
		if id := ID(obj[key]); id != "" {
			return id
		}
	}
	return ""
}

// List разворачивает голый массив или массив под одним из ключей контейнера.
// Неожиданная форма даёт пустой список, а не ошибку.
func List(payload any, containerKeys ...string) []Object {
	var list []any
	switch v := payload.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range containerKeys {
			if inner, ok := v[key].([]any); ok {
				list = inner
				break
			}
		}
	}

	objects := make([]Object, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time разбирает ISO-строку или unix-время (секунды или миллисекунды).
func Time(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}
	if n, ok := Number(v); ok && n > 0 {
		if n > 1e12 {
			return time.UnixMilli(int64(n)).UTC(), true
		}
		return time.Unix(int64(n), 0).UTC(), true
	}
	return time.Time{}, false
}

// FirstTime возвращает первую разбираемую отметку времени или начало эпохи.
func FirstTime(obj Object, keys ...string) time.Time {
	for _, key := range keys {
		if t, ok := Time(obj[key]); ok {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}
