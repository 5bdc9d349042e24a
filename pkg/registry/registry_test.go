package registry

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_List(t *testing.T) {
	c := Default()
	specs := c.List()

	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		domain.ActionFindFiles,
		domain.ActionMoveFiles,
		domain.ActionCopyFiles,
		domain.ActionWriteFile,
		domain.ActionRunTerminalCommand,
	}, names)

	// Deterministic and not aliased
	specs[0].Name = "mutated"
	assert.Equal(t, domain.ActionFindFiles, c.List()[0].Name)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	spec, ok := c.Lookup(domain.ActionMoveFiles)
	require.True(t, ok)
	assert.Equal(t, []string{"source_paths", "destination_folder"}, spec.RequiredParams())

	_, ok = c.Lookup("delete_everything")
	assert.False(t, ok)
	assert.Nil(t, c.Schema("delete_everything"))
}

func TestCatalog_DuplicateNamesIgnored(t *testing.T) {
	c := New(
		domain.ActionSpec{Name: "a", Description: "first"},
		domain.ActionSpec{Name: "a", Description: "second"},
	)
	require.Len(t, c.List(), 1)
	spec, _ := c.Lookup("a")
	assert.Equal(t, "first", spec.Description)
}

func TestCatalog_SchemaValidation(t *testing.T) {
	c := Default()
	schema := c.Schema(domain.ActionMoveFiles)
	require.NotNil(t, schema)

	t.Run("valid arguments pass", func(t *testing.T) {
		err := schema.VisitJSON(map[string]any{
			"source_paths":       []any{"/tmp/a"},
			"destination_folder": "/tmp/b",
		})
		assert.NoError(t, err)
	})

	t.Run("missing required property fails", func(t *testing.T) {
		err := schema.VisitJSON(map[string]any{"source_paths": []any{"/tmp/a"}})
		assert.Error(t, err)
	})

	t.Run("wrong element type fails", func(t *testing.T) {
		err := schema.VisitJSON(map[string]any{
			"source_paths":       []any{float64(1)},
			"destination_folder": "/tmp/b",
		})
		assert.Error(t, err)
	})
}

func TestToolDefinitions(t *testing.T) {
	defs := ToolDefinitions(Default().List())
	require.Len(t, defs, 5)

	data, err := json.Marshal(defs[1])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "function", decoded["type"])
	fn := decoded["function"].(map[string]any)
	assert.Equal(t, "move_files", fn["name"])

	params := fn["parameters"].(map[string]any)
	assert.Equal(t, "object", params["type"])
	assert.ElementsMatch(t, []any{"source_paths", "destination_folder"}, params["required"])

	props := params["properties"].(map[string]any)
	sources := props["source_paths"].(map[string]any)
	assert.Equal(t, "array", sources["type"])
	assert.Equal(t, map[string]any{"type": "string"}, sources["items"])
}

func TestParameters_NoRequired(t *testing.T) {
	params := Parameters(domain.ActionSpec{Name: "noop"})
	assert.Equal(t, []string{}, params["required"])
	assert.Empty(t, params["properties"])
}
