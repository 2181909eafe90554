package personaselect

import "productlab-workers/internal/common/validation"

// GetInputSchema leaves personaKey as a free string so unknown keys surface as
// INVALID_PERSONA_KEY rather than a schema violation.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"personaKey": {
				Type:        []string{"string", "null"},
				Description: "Persona to show: salesLead, ae or founder",
				MaxLength:   validation.Int(64),
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	list := &validation.Property{Type: "string"}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"personaKey", "personaTitle", "personaJobs", "personaPains", "personaOpportunities"},
		Properties: map[string]validation.Property{
			"personaKey":           {Type: "string", Enum: Keys()},
			"personaTitle":         {Type: "string"},
			"personaJobs":          {Type: "array", Items: list},
			"personaPains":         {Type: "array", Items: list},
			"personaOpportunities": {Type: "array", Items: list},
		},
		AdditionalProperties: validation.Bool(false),
	}
}
