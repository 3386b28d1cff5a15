package placeholder

// Map is the placeholder-to-value assignment for one run.
type Map struct {
	keys   []string
	values map[string]string
}

// Len returns the number of distinct placeholders.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the placeholder bodies, longest first.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Value returns the generated value for a placeholder body.
func (m *Map) Value(placeholder string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[placeholder]
	return v, ok
}
