package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dverzolla/kubectl-topd/pkg/defaults"
)

const (
	colorHighlight = "\033[91m"
	colorReset     = "\033[0m"
	unknownValue   = "<unknown>"
	bytesPerMi     = 1024 * 1024
)

// Table renders a Report as a fixed-width text table.
type Table struct {
	Report *Report

	// Threshold is the percentage above which usage cells are highlighted.
	Threshold float64

	// Color enables ANSI highlighting.
	Color bool
}

// NewTable returns a colored table with the default threshold.
func NewTable(r *Report) *Table {
	return &Table{Report: r, Threshold: defaults.HighlightThreshold, Color: true}
}

// RenderTable writes the header and one line per row to w.
func (t *Table) RenderTable(w io.Writer) error {
	bw := bufio.NewWriter(w)

	upper := cases.Upper(language.Und)
	header := []string{
		pad("NAME", defaults.NameWidth),
		pad("CPU(cores)", defaults.CPUWidth),
		pad("CPU%", defaults.CPUPercentWidth),
		pad("MEMORY(bytes)", defaults.MemoryWidth),
		pad("MEMORY%", defaults.MemoryPercentWidth),
		pad("DISK USAGE%", defaults.DiskPercentWidth),
	}
	for _, key := range t.Report.LabelColumns {
		header = append(header, pad(upper.String(key), defaults.LabelWidth))
	}
	writeLine(bw, header)

	for _, row := range t.Report.Rows {
		writeLine(bw, t.cells(row))
	}

	return bw.Flush()
}

func (t *Table) cells(row Row) []string {
	cpu, cpuPct := pad(unknownValue, defaults.CPUWidth), pad(unknownValue, defaults.CPUPercentWidth)
	mem, memPct := pad(unknownValue, defaults.MemoryWidth), pad(unknownValue, defaults.MemoryPercentWidth)

	if u := row.Usage; u != nil {
		cpu = pad(fmt.Sprintf("%dm", u.CPU), defaults.CPUWidth)
		cpuPct = t.highlight(float64(u.CPUPercent),
			pad(fmt.Sprintf("%d%%", u.CPUPercent), defaults.CPUPercentWidth))
		mem = pad(fmt.Sprintf("%dMi", u.Memory/bytesPerMi), defaults.MemoryWidth)
		memPct = t.highlight(float64(u.MemoryPercent),
			pad(fmt.Sprintf("%d%%", u.MemoryPercent), defaults.MemoryPercentWidth))
	}

	disk := t.highlight(row.DiskPercent,
		pad(fmt.Sprintf("%.2f%%", row.DiskPercent), defaults.DiskPercentWidth))

	cells := []string{pad(row.Name, defaults.NameWidth), cpu, cpuPct, mem, memPct, disk}
	for _, key := range t.Report.LabelColumns {
		cells = append(cells, pad(row.Labels[key], defaults.LabelWidth))
	}
	return cells
}

func (t *Table) highlight(value float64, cell string) string {
	if t.Color && value > t.Threshold {
		return colorHighlight + cell + colorReset
	}
	return cell
}

// pad left-aligns s in a field of width; longer values are kept whole.
func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}

func writeLine(w *bufio.Writer, cells []string) {
	_, _ = w.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
	_ = w.WriteByte('\n')
}
