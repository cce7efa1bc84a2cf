package orderby

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	labels := []string{"topology.kubernetes.io/zone", "zone", "node.kubernetes.io/instance-type"}

	tests := []struct {
		name    string
		expr    string
		want    Spec
		dropped []string
	}{
		{
			name: "empty",
			expr: "",
			want: nil,
		},
		{
			name: "builtin with direction and label",
			expr: "cpu%:desc,zone:asc",
			want: Spec{
				{Column: ColumnCPUPercent, Descending: true},
				{Column: ColumnLabel, Label: "zone"},
			},
		},
		{
			name: "default ascending",
			expr: "name",
			want: Spec{{Column: ColumnName}},
		},
		{
			name: "direction is case-insensitive",
			expr: "MEMORY%:DESC,Disk:Asc",
			want: Spec{
				{Column: ColumnMemoryPercent, Descending: true},
				{Column: ColumnDiskPercent},
			},
		},
		{
			name: "kubectl top header names",
			expr: "CPU(cores),MEMORY(bytes),DISK USAGE%:desc",
			want: Spec{
				{Column: ColumnCPU},
				{Column: ColumnMemory},
				{Column: ColumnDiskPercent, Descending: true},
			},
		},
		{
			name: "aliases",
			expr: "cpucores,mem,mem%,disk%",
			want: Spec{
				{Column: ColumnCPU},
				{Column: ColumnMemory},
				{Column: ColumnMemoryPercent},
				{Column: ColumnDiskPercent},
			},
		},
		{
			name: "raw label key",
			expr: "topology.kubernetes.io/zone:desc",
			want: Spec{{Column: ColumnLabel, Label: "topology.kubernetes.io/zone", Descending: true}},
		},
		{
			name: "normalized label key",
			expr: "Node.Kubernetes.IO/Instance-Type",
			want: Spec{{Column: ColumnLabel, Label: "node.kubernetes.io/instance-type"}},
		},
		{
			name: "prefix fallback takes first declared alias",
			expr: "c,m:desc,d,n",
			want: Spec{
				{Column: ColumnCPU},
				{Column: ColumnMemory, Descending: true},
				{Column: ColumnDiskPercent},
				{Column: ColumnName},
			},
		},
		{
			name: "alias is a prefix of the input",
			expr: "diskusage,cpuz",
			want: Spec{
				{Column: ColumnDiskPercent},
				{Column: ColumnCPU},
			},
		},
		{
			name:    "unknown columns dropped",
			expr:    "cpu%:desc,rack,name,:desc",
			want:    Spec{{Column: ColumnCPUPercent, Descending: true}, {Column: ColumnName}},
			dropped: []string{"rack", ""},
		},
		{
			name: "blank items skipped",
			expr: " , cpu ,, ",
			want: Spec{{Column: ColumnCPU}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := Parse(tt.expr, labels)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.dropped, dropped)
		})
	}
}

func TestParse_UnknownColumnShrinksSpec(t *testing.T) {
	full, _ := Parse("cpu,memory,disk", nil)
	partial, dropped := Parse("cpu,bogus,memory,nothing,disk", nil)

	assert.Len(t, full, 3)
	assert.Len(t, partial, 3)
	assert.Equal(t, []string{"bogus", "nothing"}, dropped)
	assert.Equal(t, full, partial)
}

func TestParse_LabelNotRequestedIsDropped(t *testing.T) {
	spec, dropped := Parse("zone", nil)
	assert.Empty(t, spec)
	assert.Equal(t, []string{"zone"}, dropped)
}

func TestParse_BuiltinWinsOverLabel(t *testing.T) {
	spec, _ := Parse("name", []string{"name"})
	assert.Equal(t, Spec{{Column: ColumnName}}, spec)
}

func TestSpec_String(t *testing.T) {
	spec, _ := Parse("cpu%:desc,zone,n", []string{"zone"})
	assert.Equal(t, "cpu%:desc,zone:asc,name:asc", spec.String())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cpucores", normalize("CPU(cores)"))
	assert.Equal(t, "diskusage%", normalize("Disk Usage %"))
	assert.Equal(t, "topologykubernetesiozone", normalize("topology.kubernetes.io/zone"))
	assert.Equal(t, "", normalize("()-_"))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "cpu%", Suggest("cpu%%"))
	assert.Equal(t, "disk", Suggest("dsk"))
	assert.Equal(t, "", Suggest("availability"))
	assert.Equal(t, "", Suggest(""))
}
