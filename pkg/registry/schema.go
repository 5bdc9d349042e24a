package registry

import "github.com/aretw0/deckhand/pkg/domain"

// ToolDefinition is the function-calling schema sent to the provider.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes one callable function.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolDefinitions converts specs into the provider's function-calling schema.
func ToolDefinitions(specs []domain.ActionSpec) []ToolDefinition {
	out := make([]ToolDefinition, 0, len(specs))
	for _, spec := range specs {
		out = append(out, ToolDefinition{
			Type: "function",
			Function: FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  Parameters(spec),
			},
		})
	}
	return out
}

// Parameters renders the JSON schema object of a spec's parameters.
func Parameters(spec domain.ActionSpec) map[string]any {
	properties := make(map[string]any, len(spec.Params))
	for _, p := range spec.Params {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Type == domain.ParamArray {
			items := p.Items
			if items == "" {
				items = domain.ParamString
			}
			prop["items"] = map[string]any{"type": items}
		}
		properties[p.Name] = prop
	}
	required := spec.RequiredParams()
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
