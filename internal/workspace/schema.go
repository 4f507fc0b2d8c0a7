package workspace

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema describing a workspace file, for editor
// completion and validation. Property names follow the YAML keys, which are
// the same in every supported format.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "tmux-workspace"
	schema.Description = "A tmux session described as windows and panes."

	return json.MarshalIndent(schema, "", "  ")
}
