// Package quantity converts Kubernetes-style quantity strings into the
// canonical integer units used by the report: bytes for memory and
// millicores for CPU.
//
// Converters never fail. Input that cannot be parsed yields zero; the
// Parsed variants additionally report that the value was defaulted so that
// strict callers can reject it.
package quantity

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Parsed is the result of a conversion.
type Parsed struct {
	// Value is the converted quantity in canonical units.
	Value int64

	// Defaulted is true when the input could not be parsed and Value is the
	// zero fallback.
	Defaulted bool
}

type scale struct {
	mul float64
	div float64
}

type suffix struct {
	symbol string
	scale
}

// Binary suffixes are checked before decimal ones.
var binarySuffixes = []suffix{
	{"Ki", scale{1 << 10, 1}},
	{"Mi", scale{1 << 20, 1}},
	{"Gi", scale{1 << 30, 1}},
	{"Ti", scale{1 << 40, 1}},
	{"Pi", scale{1 << 50, 1}},
	{"Ei", scale{1 << 60, 1}},
}

// Sub-unit suffixes divide rather than multiply by a fraction so that exact
// inputs such as "500000000n" stay exact.
var decimalSuffixes = map[string]scale{
	"n": {1, 1e9},
	"u": {1, 1e6},
	"m": {1, 1e3},
	"k": {1e3, 1},
	"K": {1e3, 1},
	"M": {1e6, 1},
	"G": {1e9, 1},
	"T": {1e12, 1},
	"P": {1e15, 1},
	"E": {1e18, 1},
}

var (
	unit  = scale{1, 1}
	milli = scale{1, 1}
	nano  = scale{1000, 1e9}
	cores = scale{1000, 1}
)

var suffixedRe = regexp.MustCompile(`^([0-9.]+)([a-zA-Z]{1,2})$`)

// ParseMemory returns the number of bytes described by s, or 0.
func ParseMemory(s string) int64 {
	return Memory(s).Value
}

// Memory converts a memory quantity such as "128Ki", "1G" or "1048576"
// into bytes.
func Memory(s string) Parsed {
	s = strings.TrimSpace(s)

	for _, suf := range binarySuffixes {
		if strings.HasSuffix(s, suf.symbol) {
			return scaled(strings.TrimSuffix(s, suf.symbol), suf.scale)
		}
	}

	if m := suffixedRe.FindStringSubmatch(s); m != nil {
		sc, ok := decimalSuffixes[m[2]]
		if !ok {
			return Parsed{Defaulted: true}
		}
		return scaled(m[1], sc)
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Parsed{Value: v}
	}
	return scaled(s, unit)
}

// ParseCPU returns the number of millicores described by s, or 0.
func ParseCPU(s string) int64 {
	return CPU(s).Value
}

// CPU converts a CPU quantity into millicores. A trailing "m" is read as
// millicores, a trailing "n" as nanocores, anything else as whole cores.
func CPU(s string) Parsed {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasSuffix(s, "m"):
		return scaled(strings.TrimSuffix(s, "m"), milli)
	case strings.HasSuffix(s, "n"):
		return scaled(strings.TrimSuffix(s, "n"), nano)
	default:
		return scaled(s, cores)
	}
}

// scaled parses num as a float and applies sc, truncating toward zero.
// Non-finite or out-of-range results are treated as unparsable.
func scaled(num string, sc scale) Parsed {
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Parsed{Defaulted: true}
	}

	v := f * sc.mul / sc.div
	if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v <= math.MinInt64 {
		return Parsed{Defaulted: true}
	}
	return Parsed{Value: int64(v)}
}
