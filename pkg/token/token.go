// Package token mints deterministic, collision-resistant names for graph
// nodes from their logical inputs (spec.md §4.10, Design Note "Name
// collision safety"). Two planner calls with the same logical inputs
// produce the same name, enabling CSE and caching; different inputs must
// not collide, hence the 128-bit-class digest.
package token

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Tokenize returns a deterministic, collision-resistant digest string for
// the given parts. Parts are serialized in order; slices and maps are
// flattened rather than wrapped, since the source's nested-tuple wrapping
// was a hashing workaround specific to its own hash function and is not
// needed here (§9 Open Question — dropped).
//
// The digest is two xxhash64 passes, one over the serialized byte stream and
// one over that stream with two fixed separator bytes appended, concatenated
// into a 128-bit hex string, following
// the "use a 128-bit digest" guidance without requiring a heavier hashing
// dependency than the rest of the stack already pulls in.
func Tokenize(parts ...any) string {
	buf := make([]byte, 0, 256)
	for _, p := range parts {
		buf = appendPart(buf, p)
		buf = append(buf, 0x1f) // unit separator between parts
	}

	const seed2 = 0x9e3779b97f4a7c15
	d1 := xxhash.Sum64(buf)
	d2 := xxhash.Sum64(append(buf, byte(seed2), byte(seed2>>8)))

	out := make([]byte, 16)
	for i := 0; i < 8; i++ {
		out[i] = byte(d1 >> (8 * i))
		out[8+i] = byte(d2 >> (8 * i))
	}
	return hex.EncodeToString(out)
}

// appendPart serializes one value into buf in a stable, type-tagged form so
// that e.g. the int 1 and the string "1" never collide, and so that slice
// order matters but map key order does not.
func appendPart(buf []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(buf, "nil"...)
	case string:
		return append(buf, "s:"+x...)
	case fmt.Stringer:
		return append(buf, "S:"+x.String()...)
	case bool:
		if x {
			return append(buf, "b:1"...)
		}
		return append(buf, "b:0"...)
	case int:
		return append(buf, fmt.Sprintf("i:%d", x)...)
	case int64:
		return append(buf, fmt.Sprintf("i:%d", x)...)
	case []string:
		buf = append(buf, "[:"...)
		for _, e := range x {
			buf = appendPart(buf, e)
			buf = append(buf, ',')
		}
		return append(buf, ":]"...)
	case []any:
		buf = append(buf, "[:"...)
		for _, e := range x {
			buf = appendPart(buf, e)
			buf = append(buf, ',')
		}
		return append(buf, ":]"...)
	case map[string]bool:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf = append(buf, "{:"...)
		for _, k := range keys {
			buf = appendPart(buf, k)
			buf = append(buf, '=')
			buf = appendPart(buf, x[k])
			buf = append(buf, ',')
		}
		return append(buf, ":}"...)
	default:
		return append(buf, fmt.Sprintf("v:%v", x)...)
	}
}
