package xena

import (
	"bytes"
	"encoding/json"
	"math"
)

// The hub serializes missing numeric values as bare NaN tokens, which
// encoding/json rejects. sanitizeNaN rewrites every NaN outside a string
// literal to null before decoding.
func sanitizeNaN(body []byte) []byte {
	if !bytes.Contains(body, []byte("NaN")) {
		return body
	}

	out := make([]byte, 0, len(body)+16)
	inString := false
	escaped := false

	for i := 0; i < len(body); i++ {
		c := body[i]

		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		if c == 'N' && bytes.HasPrefix(body[i:], []byte("NaN")) {
			// Drop a sign, if any, already copied in front of the token.
			if n := len(out); n > 0 && (out[n-1] == '-' || out[n-1] == '+') {
				out = out[:n-1]
			}
			out = append(out, "null"...)
			i += len("NaN") - 1
			continue
		}

		out = append(out, c)
	}

	return out
}

// decode unmarshals a hub response body into v.
func decode(body []byte, v interface{}) error {
	return json.Unmarshal(sanitizeNaN(body), v)
}

// nullableVector converts decoded values into floats, mapping null to NaN.
func nullableVector(in []*float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return out
}
