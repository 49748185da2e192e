package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockArgumentGetter struct {
	args map[string]any
}

func (m *mockArgumentGetter) GetArguments() map[string]any {
	return m.args
}

type sampleArgs struct {
	Name    string `json:"name"`
	Limit   int    `json:"limit,omitempty"`
	Verbose bool   `json:"verbose,omitempty"`
}

func TestBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("proper types", func(t *testing.T) {
		t.Parallel()

		var got sampleArgs
		err := bindArguments(&mockArgumentGetter{args: map[string]any{
			"name": "util", "limit": float64(10), "verbose": true,
		}}, &got)
		require.NoError(t, err)
		assert.Equal(t, sampleArgs{Name: "util", Limit: 10, Verbose: true}, got)
	})

	t.Run("stringly typed", func(t *testing.T) {
		t.Parallel()

		var got sampleArgs
		err := bindArguments(&mockArgumentGetter{args: map[string]any{
			"name": "util", "limit": "25", "verbose": "true",
		}}, &got)
		require.NoError(t, err)
		assert.Equal(t, sampleArgs{Name: "util", Limit: 25, Verbose: true}, got)
	})

	t.Run("missing optional fields", func(t *testing.T) {
		t.Parallel()

		var got sampleArgs
		err := bindArguments(&mockArgumentGetter{args: map[string]any{"name": "x"}}, &got)
		require.NoError(t, err)
		assert.Equal(t, sampleArgs{Name: "x"}, got)
	})

	t.Run("nil arguments", func(t *testing.T) {
		t.Parallel()

		var got sampleArgs
		require.NoError(t, bindArguments(&mockArgumentGetter{}, &got))
		assert.Equal(t, sampleArgs{}, got)
	})
}
