package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionTranslatorResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.json")
	doc := `{"partitions":[{"regions":{
		"us-east-1":{"description":"US East (N. Virginia)"},
		"ap-southeast-2":{"description":"Asia Pacific (Sydney)"}
	}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	translator := NewRegionTranslator(path)

	assert.Equal(t, "Asia Pacific (Sydney)", translator.Resolve("ap-southeast-2"))
	assert.Equal(t, "US East (N. Virginia)", translator.Resolve("us-east-1"))

	// Memoized lookups stay stable.
	assert.Equal(t, "Asia Pacific (Sydney)", translator.Resolve("ap-southeast-2"))
}

func TestRegionTranslatorFallback(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.json")
			},
			code: "ap-southeast-2",
		},
		{
			name: "malformed document",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "endpoints.json")
				require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))
				return p
			},
			code: "ap-southeast-2",
		},
		{
			name: "unknown region code",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "endpoints.json")
				require.NoError(t, os.WriteFile(p, []byte(`{"partitions":[{"regions":{}}]}`), 0o644))
				return p
			},
			code: "xx-nowhere-1",
		},
		{
			name: "no partitions",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "endpoints.json")
				require.NoError(t, os.WriteFile(p, []byte(`{"partitions":[]}`), 0o644))
				return p
			},
			code: "us-east-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translator := NewRegionTranslator(tt.path(t))
			assert.Equal(t, DefaultRegionName, translator.Resolve(tt.code))
		})
	}
}
