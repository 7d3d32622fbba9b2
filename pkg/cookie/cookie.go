package cookie

import (
	"slices"
	"strings"
)

const (
	entrySeparator = "; "
	pairSeparator  = "="
)

// Values maps cookie names to their raw values.
type Values map[string]string

// Parse converts a host cookie string ("a=1; b=2") into Values.
// Each entry is split on the first "=" only. Entries with an empty name or
// without a separator are dropped.
func Parse(raw string) Values {
	vals := make(Values)
	if raw == "" {
		return vals
	}

	for entry := range strings.SplitSeq(raw, entrySeparator) {
		name, value, ok := strings.Cut(entry, pairSeparator)
		if !ok || name == "" {
			continue
		}
		vals[name] = value
	}

	return vals
}

// Get returns the value of the named cookie and whether it exists.
func (v Values) Get(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// Value returns the value of the named cookie or ErrCookieNotFound.
func (v Values) Value(name string) (string, error) {
	value, ok := v[name]
	if !ok {
		return "", ErrCookieNotFound
	}
	return value, nil
}

// Has reports whether every named cookie exists. Without names it reports
// whether any cookie exists.
func (v Values) Has(names ...string) bool {
	if len(names) == 0 {
		return len(v) > 0
	}

	for _, name := range names {
		if _, ok := v[name]; !ok {
			return false
		}
	}
	return true
}

// HasValue is like Has but also requires every named cookie to carry a
// non-empty value.
func (v Values) HasValue(names ...string) bool {
	if len(names) == 0 {
		return len(v) > 0
	}

	for _, name := range names {
		if v[name] == "" {
			return false
		}
	}
	return true
}

// Names returns the cookie names in lexical order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// String serializes the values back into the host cookie string shape.
// Names are emitted in lexical order so the output is stable.
func (v Values) String() string {
	var sb strings.Builder
	for i, name := range v.Names() {
		if i > 0 {
			sb.WriteString(entrySeparator)
		}
		sb.WriteString(name)
		sb.WriteString(pairSeparator)
		sb.WriteString(v[name])
	}
	return sb.String()
}

// Clone returns an independent copy so callbacks cannot mutate the snapshot
// taken for a validation attempt.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for name, value := range v {
		out[name] = value
	}
	return out
}
