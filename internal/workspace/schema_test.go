package workspace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSchema checks that the schema is valid JSON and that property names
// follow the workspace file keys.
func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "tmux-workspace", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok, "expanded struct exposes top-level properties")
	assert.Contains(t, props, "session_name")
	assert.Contains(t, props, "windows")
	assert.Contains(t, props, "shell_command_before")
	assert.NotContains(t, props, "SessionName")
}
