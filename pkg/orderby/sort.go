package orderby

import "sort"

// Keyed is implemented by rows that can be ordered by a Spec.
type Keyed interface {
	// SortName returns the row name.
	SortName() string
	// SortNumber returns the value of a numeric column and whether the row has one.
	SortNumber(c Column) (float64, bool)
	// SortLabel returns the value of a label, or "" when the row lacks it.
	SortLabel(key string) string
}

// Sort orders rows in place. An empty spec leaves rows untouched.
func Sort[T Keyed](rows []T, spec Spec) {
	for i := len(spec) - 1; i >= 0; i-- {
		d := spec[i]
		sort.SliceStable(rows, func(a, b int) bool {
			return less(d, rows[a], rows[b])
		})
	}
}

func less[T Keyed](d Directive, a, b T) bool {
	switch d.Column {
	case ColumnName:
		return lessString(a.SortName(), b.SortName(), d.Descending)
	case ColumnLabel:
		return lessString(a.SortLabel(d.Label), b.SortLabel(d.Label), d.Descending)
	default:
		av, aok := a.SortNumber(d.Column)
		bv, bok := b.SortNumber(d.Column)
		switch {
		case !aok:
			return false
		case !bok:
			return true
		case d.Descending:
			return av > bv
		default:
			return av < bv
		}
	}
}

func lessString(a, b string, desc bool) bool {
	if desc {
		return a > b
	}
	return a < b
}
