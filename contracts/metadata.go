package contracts

import "reflect"

// MetaData is a mapping of string keys to values attached to a message.
// MetaData values are treated as immutable: With, Without and MergedWith
// return a copy and leave the receiver untouched. Callers must not modify a
// MetaData after attaching it to a message.
type MetaData map[string]any

// EmptyMetaData returns a new empty MetaData.
func EmptyMetaData() MetaData {
	return MetaData{}
}

// MetaDataWith returns a MetaData holding a single entry.
func MetaDataWith(key string, value any) MetaData {
	return MetaData{key: value}
}

// With returns a copy of the metadata with the given entry added or replaced.
func (m MetaData) With(key string, value any) MetaData {
	out := m.copy(1)
	out[key] = value
	return out
}

// Without returns a copy of the metadata with the given key removed.
func (m MetaData) Without(key string) MetaData {
	out := m.copy(0)
	delete(out, key)
	return out
}

// MergedWith returns a copy of the metadata overlaid with other. Keys from
// other win on conflict.
func (m MetaData) MergedWith(other MetaData) MetaData {
	out := m.copy(len(other))
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Get returns the value for key and whether it was present.
func (m MetaData) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Equals reports whether both metadata hold the same entries, regardless of
// iteration order.
func (m MetaData) Equals(other MetaData) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

func (m MetaData) copy(extra int) MetaData {
	out := make(MetaData, len(m)+extra)
	for k, v := range m {
		out[k] = v
	}
	return out
}
