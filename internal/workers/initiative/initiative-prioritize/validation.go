package initiativeprioritize

import (
	"regexp"

	"productlab-workers/internal/common/validation"
)

const boardIDExpr = `^[A-Za-z0-9][A-Za-z0-9_.:-]{0,127}$`

var boardIDPattern = regexp.MustCompile(boardIDExpr)

func GetInputSchema(maxItems int) validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"action": {
				Type:        []string{"string", "null"},
				Description: "render or sort; defaults to render",
			},
			"boardId": {
				Type:        []string{"string", "null"},
				Description: "Stored board to work on",
				Pattern:     boardIDExpr,
			},
			"initiatives": {
				Type:        []string{"array", "null"},
				Description: "Initiatives to work on instead of a stored board",
				MinItems:    validation.Int(1),
				MaxItems:    validation.Int(maxItems),
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"name", "userValue", "businessValue", "effort"},
					Properties: map[string]validation.Property{
						"name":          {Type: "string", MinLength: validation.Int(1)},
						"userValue":     {Type: "number"},
						"businessValue": {Type: "number"},
						"effort":        {Type: "number"},
					},
				},
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"boardId", "action", "store", "rows"},
		Properties: map[string]validation.Property{
			"boardId": {Type: "string"},
			"action":  {Type: "string", Enum: []string{string(ActionRender), string(ActionSort)}},
			"store":   {Type: "string"},
			"rows": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"name", "userValue", "businessValue", "effort", "score", "scoreText"},
					Properties: map[string]validation.Property{
						"name":          {Type: "string"},
						"userValue":     {Type: "number"},
						"businessValue": {Type: "number"},
						"effort":        {Type: "number"},
						"score":         {Type: []string{"number", "null"}},
						"scoreText":     {Type: "string"},
					},
				},
			},
		},
		AdditionalProperties: validation.Bool(false),
	}
}
