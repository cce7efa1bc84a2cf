package orderby

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Column identifies a sortable report column.
type Column int

const (
	ColumnName Column = iota
	ColumnCPU
	ColumnCPUPercent
	ColumnMemory
	ColumnMemoryPercent
	ColumnDiskPercent
	ColumnLabel
)

var columnNames = map[Column]string{
	ColumnName:          "name",
	ColumnCPU:           "cpu",
	ColumnCPUPercent:    "cpu%",
	ColumnMemory:        "memory",
	ColumnMemoryPercent: "memory%",
	ColumnDiskPercent:   "disk%",
	ColumnLabel:         "label",
}

// String returns the canonical column name.
func (c Column) String() string {
	if s, ok := columnNames[c]; ok {
		return s
	}
	return "unknown"
}

// Directive is one sort key of a Spec.
type Directive struct {
	Column     Column `json:"column" yaml:"column"`
	Descending bool   `json:"descending" yaml:"descending"`

	// Label is the label key when Column is ColumnLabel.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// String renders the directive back into expression syntax.
func (d Directive) String() string {
	name := d.Column.String()
	if d.Column == ColumnLabel {
		name = d.Label
	}
	if d.Descending {
		return name + ":desc"
	}
	return name + ":asc"
}

// Spec is an ordered list of directives, highest priority first.
type Spec []Directive

// String renders the spec back into expression syntax.
func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

type alias struct {
	name   string
	column Column
}

// Declaration order matters: prefix fallback takes the first match.
var aliases = []alias{
	{"name", ColumnName},
	{"cpu", ColumnCPU},
	{"cpu(cores)", ColumnCPU},
	{"cpucores", ColumnCPU},
	{"cpu%", ColumnCPUPercent},
	{"memory", ColumnMemory},
	{"memory(bytes)", ColumnMemory},
	{"mem", ColumnMemory},
	{"memory%", ColumnMemoryPercent},
	{"mem%", ColumnMemoryPercent},
	{"disk", ColumnDiskPercent},
	{"disk%", ColumnDiskPercent},
	{"disk usage%", ColumnDiskPercent},
}

// normalizedAliases holds aliases with normalized names, in declaration order.
var normalizedAliases = func() []alias {
	out := make([]alias, len(aliases))
	for i, a := range aliases {
		out[i] = alias{name: normalize(a.name), column: a.column}
	}
	return out
}()

// normalize lowercases s and keeps only ASCII letters, digits and '%'.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r == '%' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parse turns an order-by expression into a Spec. labelKeys are the label
// columns requested for display; only those can be sorted on. Names that do
// not resolve are returned in dropped, in input order.
func Parse(expr string, labelKeys []string) (spec Spec, dropped []string) {
	for _, item := range strings.Split(expr, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, desc := splitDirection(item)
		d, ok := resolve(name, labelKeys)
		if !ok {
			dropped = append(dropped, name)
			logDropped(name)
			continue
		}
		d.Descending = desc
		spec = append(spec, d)
	}
	return spec, dropped
}

func splitDirection(item string) (name string, desc bool) {
	lower := strings.ToLower(item)
	switch {
	case strings.HasSuffix(lower, ":desc"):
		return strings.TrimSpace(item[:len(item)-len(":desc")]), true
	case strings.HasSuffix(lower, ":asc"):
		return strings.TrimSpace(item[:len(item)-len(":asc")]), false
	default:
		return item, false
	}
}

func resolve(name string, labelKeys []string) (Directive, bool) {
	norm := normalize(name)

	if norm != "" {
		for _, a := range normalizedAliases {
			if a.name == norm {
				return Directive{Column: a.column}, true
			}
		}
	}

	for _, key := range labelKeys {
		if key == name || (norm != "" && normalize(key) == norm) {
			return Directive{Column: ColumnLabel, Label: key}, true
		}
	}

	if norm == "" {
		return Directive{}, false
	}
	for _, a := range normalizedAliases {
		if strings.HasPrefix(a.name, norm) || strings.HasPrefix(norm, a.name) {
			return Directive{Column: a.column}, true
		}
	}

	return Directive{}, false
}

// Suggest returns the builtin alias closest to name, or "" when nothing is
// reasonably close.
func Suggest(name string) string {
	norm := normalize(name)
	if norm == "" {
		return ""
	}

	best, bestDist := "", 3
	for _, a := range aliases {
		if d := levenshtein.ComputeDistance(norm, normalize(a.name)); d < bestDist {
			best, bestDist = a.name, d
		}
	}
	return best
}

func logDropped(name string) {
	attrs := []any{slog.String("column", name)}
	if s := Suggest(name); s != "" {
		attrs = append(attrs, slog.String("suggestion", s))
	}
	slog.Debug("ignoring unknown order-by column", attrs...)
}
