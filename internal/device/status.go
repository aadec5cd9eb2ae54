package device

import "sort"

// DeviceStatus is the snapshot produced by a capability invocation.
type DeviceStatus struct { //nolint:revive // device.DeviceStatus reads better at call sites in the shell
	Kind       Kind           `json:"kind"`
	ID         string         `json:"id"`
	Power      Power          `json:"power"`
	Attributes map[string]int `json:"attributes,omitempty"`
	Summary    string         `json:"summary"`
}

// String returns the human-readable summary line.
func (s DeviceStatus) String() string {
	return s.Summary
}

// copyAttrs returns an independent copy of an attribute map.
func copyAttrs(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	cpy := make(map[string]int, len(m))
	for k, v := range m {
		cpy[k] = v
	}
	return cpy
}

// sortedKeys returns the keys of m in lexical order so that validation
// errors are deterministic.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
