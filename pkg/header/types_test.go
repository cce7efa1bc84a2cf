package header

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	h := New(
		WithKind("NodeUsageReport"),
		WithAPIVersion("topd.kubectl.io/v1alpha1"),
		WithMetadata("report-version", "v1.2.3"),
		WithMetadata("empty", ""),
	)

	assert.Equal(t, "NodeUsageReport", h.Kind)
	assert.Equal(t, "topd.kubectl.io/v1alpha1", h.APIVersion)
	assert.Equal(t, map[string]string{"report-version": "v1.2.3"}, h.Metadata)
}

func TestNew_NoOptions(t *testing.T) {
	h := New()
	assert.Empty(t, h.Kind)
	assert.Nil(t, h.Metadata)
}

func TestHeader_Inline(t *testing.T) {
	type doc struct {
		Header `json:",inline" yaml:",inline"`
		Name   string `json:"name" yaml:"name"`
	}
	d := doc{Header: New(WithKind("K"), WithAPIVersion("v1")), Name: "x"}

	j, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"K","apiVersion":"v1","name":"x"}`, string(j))

	y, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "kind: K\napiVersion: v1\nname: x\n", string(y))
}
