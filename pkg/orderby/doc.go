// Package orderby parses order-by expressions and sorts report rows with them.
//
// # Syntax
//
// An expression is a comma-separated list of columns, each optionally
// followed by ":asc" or ":desc" (case-insensitive, ascending by default):
//
//	cpu%:desc,topology.kubernetes.io/zone:asc,name
//
// Column names are compared after normalization: lowercased, with every
// character other than [a-z0-9%] removed. A name resolves to, in order:
//
//  1. a builtin column whose alias matches exactly ("cpu(cores)", "mem%",
//     "disk usage%", ...)
//  2. a requested label column whose key matches, raw or normalized
//  3. the first builtin alias, in declaration order, where one of the two
//     normalized strings is a prefix of the other ("c" is cpu, "d" is disk)
//
// Names that resolve to nothing are dropped from the result.
//
// # Sorting
//
// Sort applies one stable sort per directive, last directive first, so the
// first directive ends up as the primary key. Rows without a value for a
// numeric column sort after all rows with one, in both directions.
package orderby
