package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// reader walks an untyped object, reporting type mismatches with their path.
type reader struct {
	diags    Diagnostics
	reported []string
}

func newReader() *reader {
	return &reader{}
}

func (r *reader) fail(path, message string) {
	r.diags = append(r.diags, Diagnostic{Path: path, Message: message})
	r.reported = append(r.reported, path)
}

// report records a diagnostic unless the path is already covered by an earlier one.
func (r *reader) report(path, message string) {
	if r.covered(path) {
		return
	}
	r.fail(path, message)
}

// covered reports whether path, or an object or list containing it, already has a diagnostic.
func (r *reader) covered(path string) bool {
	for _, p := range r.reported {
		if path == p || strings.HasPrefix(path, p+".") || strings.HasPrefix(path, p+"[") {
			return true
		}
	}
	return false
}

func (r *reader) object(v interface{}, path string) map[string]interface{} {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		r.fail(path, "must be an object")
		return nil
	}
	return m
}

func (r *reader) child(obj map[string]interface{}, key, parent string) map[string]interface{} {
	if obj == nil {
		return nil
	}
	return r.object(obj[key], join(parent, key))
}

func (r *reader) str(obj map[string]interface{}, key, parent string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(join(parent, key), "must be a string")
		return ""
	}
	return s
}

func (r *reader) boolean(obj map[string]interface{}, key, parent string) bool {
	v, ok := obj[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(join(parent, key), "must be a boolean")
		return false
	}
	return b
}

func (r *reader) number(v interface{}, path string) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			r.fail(path, "must be an integer")
			return 0, false
		}
		return i, true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			r.fail(path, "must be an integer")
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		r.fail(path, "must be an integer")
		return 0, false
	}
}

func (r *reader) integer(obj map[string]interface{}, key, parent string) int {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0
	}
	path := join(parent, key)
	n, ok := r.number(v, path)
	if !ok {
		return 0
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		r.fail(path, "is out of range")
		return 0
	}
	return int(n)
}

func (r *reader) bounded(obj map[string]interface{}, key, parent string, max int64) int64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0
	}
	path := join(parent, key)
	n, ok := r.number(v, path)
	if !ok {
		return 0
	}
	if n < 0 || n > max {
		r.fail(path, fmt.Sprintf("must be between 0 and %d", max))
		return 0
	}
	return n
}

func (r *reader) uint32(obj map[string]interface{}, key, parent string) uint32 {
	return uint32(r.bounded(obj, key, parent, math.MaxUint32))
}

func (r *reader) uint16(obj map[string]interface{}, key, parent string) uint16 {
	return uint16(r.bounded(obj, key, parent, math.MaxUint16))
}

func (r *reader) list(obj map[string]interface{}, key, parent string) []interface{} {
	if obj == nil {
		return nil
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	l, ok := v.([]interface{})
	if !ok {
		r.fail(join(parent, key), "must be an array")
		return nil
	}
	return l
}

func (r *reader) strings(obj map[string]interface{}, key, parent string) []string {
	items := r.list(obj, key, parent)
	if items == nil {
		return nil
	}
	path := join(parent, key)
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			r.fail(index(path, i), "must be a string")
			continue
		}
		out[i] = s
	}
	return out
}

func (r *reader) integers(obj map[string]interface{}, key, parent string) []int {
	items := r.list(obj, key, parent)
	if items == nil {
		return nil
	}
	path := join(parent, key)
	out := make([]int, len(items))
	for i, item := range items {
		if n, ok := r.number(item, index(path, i)); ok {
			out[i] = int(n)
		}
	}
	return out
}

// objects calls fn for every element of an array of objects.
// Elements that are not objects are reported and passed to fn as nil maps.
func (r *reader) objects(obj map[string]interface{}, key, parent string, fn func(i int, item map[string]interface{}, path string)) {
	path := join(parent, key)
	for i, item := range r.list(obj, key, parent) {
		itemPath := index(path, i)
		fn(i, r.object(item, itemPath), itemPath)
	}
}
