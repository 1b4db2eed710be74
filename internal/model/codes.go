// Package model holds the domain types shared by the repository, service
// and handler layers.
package model

import (
	"math"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// CodeMap maps a categorical field's integer codes to their labels.
// Position i of the hub code string is code i.
type CodeMap []string

// ParseCodeMap splits a tab separated code string into a CodeMap.
// An empty string yields a map with a single empty label, as splitting does.
func ParseCodeMap(code string) CodeMap {
	return CodeMap(strings.Split(code, "\t"))
}

// Labels returns the labels in code order.
func (m CodeMap) Labels() []string {
	out := make([]string, len(m))
	copy(out, m)
	return out
}

// Label returns the label of code, or null when code has no label.
func (m CodeMap) Label(code int) null.String {
	if code < 0 || code >= len(m) {
		return null.String{}
	}
	return null.StringFrom(m[code])
}

// Resolve maps a raw hub value to its label. Missing (NaN) values,
// non-integral values and codes outside the map resolve to null.
func (m CodeMap) Resolve(raw float64) null.String {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw != math.Trunc(raw) {
		return null.String{}
	}
	if raw < 0 || raw >= float64(len(m)) {
		return null.String{}
	}
	return m.Label(int(raw))
}

// ResolveAll resolves every raw value, preserving order.
func (m CodeMap) ResolveAll(raw []float64) []null.String {
	out := make([]null.String, len(raw))
	for i, v := range raw {
		out[i] = m.Resolve(v)
	}
	return out
}
