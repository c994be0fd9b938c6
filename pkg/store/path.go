package store

// getPath walks doc following path, returning the value found and
// whether the full path resolved. A missing intermediate key, or a
// non-map intermediate value, is treated as "not found" rather than
// an error — projections over missing paths are simply absent.
func getPath(doc Doc, path Path) (interface{}, bool) {
	var cur interface{} = doc
	for _, key := range path {
		m, ok := cur.(Doc)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath writes value at path, creating intermediate maps as needed.
// It fails only if an intermediate key already holds a non-map value.
func setPath(doc Doc, path Path, value interface{}) error {
	if len(path) == 0 {
		return nil
	}
	cur := doc
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key]
		if !ok {
			m := Doc{}
			cur[key] = m
			cur = m
			continue
		}
		m, ok := next.(Doc)
		if !ok {
			return errNotAMap(key)
		}
		cur = m
	}
	cur[path[len(path)-1]] = value
	return nil
}

// unsetPath removes the value at path, reporting whether anything was
// removed.
func unsetPath(doc Doc, path Path) bool {
	if len(path) == 0 {
		return false
	}
	cur := doc
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key]
		if !ok {
			return false
		}
		m, ok := next.(Doc)
		if !ok {
			return false
		}
		cur = m
	}
	last := path[len(path)-1]
	if _, ok := cur[last]; !ok {
		return false
	}
	delete(cur, last)
	return true
}

// incPath adds delta to the numeric value at path, creating it as
// delta if absent. It fails if the existing value is non-numeric.
func incPath(doc Doc, path Path, delta float64) error {
	existing, ok := getPath(doc, path)
	if !ok {
		return setPath(doc, path, delta)
	}
	n, ok := toFloat64(existing)
	if !ok {
		return errNotNumeric(dotted(path))
	}
	return setPath(doc, path, n+delta)
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// project builds a new document containing only the values reachable
// at the given paths; a path that does not resolve is simply omitted.
func project(doc Doc, paths []Path) Doc {
	if len(paths) == 0 {
		return cloneDoc(doc)
	}
	out := Doc{}
	for _, p := range paths {
		v, ok := getPath(doc, p)
		if !ok {
			continue
		}
		_ = setPath(out, p, cloneValue(v))
	}
	return out
}

func cloneDoc(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Doc:
		return cloneDoc(val)
	case map[string]interface{}:
		return cloneDoc(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}

type pathError struct {
	kind string
	key  string
}

func (e *pathError) Error() string {
	return "store: " + e.kind + ": " + e.key
}

func errNotAMap(key string) error    { return &pathError{kind: "not a map at", key: key} }
func errNotNumeric(key string) error { return &pathError{kind: "not numeric at", key: key} }
