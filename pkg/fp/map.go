package fp

import (
	"cmp"
	"encoding/json"
	"slices"
)

// FromMap maps a generic document onto T using its json tags.
func FromMap[T any](input map[string]any) (*T, error) {
	in, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := json.Unmarshal(in, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Keys returns the keys of m in ascending order.
func Keys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
