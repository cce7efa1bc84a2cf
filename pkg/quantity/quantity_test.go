package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMemory(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"128Ki", 131072},
		{"1Gi", 1073741824},
		{"1.5Gi", 1610612736},
		{"4096Mi", 4294967296},
		{"2Ti", 2 << 40},
		{"1k", 1000},
		{"1K", 1000},
		{"3M", 3000000},
		{"2G", 2000000000},
		{"500m", 0},
		{"1500m", 1},
		{"1048576", 1048576},
		{"12.7", 12},
		{" 64Mi ", 64 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMemory(tt.in))
		})
	}
}

func TestMemory_Defaulted(t *testing.T) {
	for _, in := range []string{"", "abc", "Gi", "12Xy", "1.2.3Mi", "100Ei"} {
		t.Run(in, func(t *testing.T) {
			p := Memory(in)
			assert.Zero(t, p.Value)
			assert.True(t, p.Defaulted, "expected %q to be defaulted", in)
		})
	}

	// a valid parse that truncates to zero is not a default
	p := Memory("500m")
	assert.Zero(t, p.Value)
	assert.False(t, p.Defaulted)
}

func TestParseCPU(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"250m", 250},
		{"500000000n", 500},
		{"1234567n", 1},
		{"2", 2000},
		{"0.5", 500},
		{"1.25", 1250},
		{"0m", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCPU(tt.in))
		})
	}
}

func TestCPU_Defaulted(t *testing.T) {
	for _, in := range []string{"", "m", "n", "two", "5Ki"} {
		t.Run(in, func(t *testing.T) {
			p := CPU(in)
			assert.Zero(t, p.Value)
			assert.True(t, p.Defaulted, "expected %q to be defaulted", in)
		})
	}
}
