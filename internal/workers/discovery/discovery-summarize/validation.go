package discoverysummarize

import "productlab-workers/internal/common/validation"

func GetInputSchema(maxChars int) validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"notes": {
				Type:        []string{"string", "null"},
				Description: "Free-text discovery notes; bullet lines start with - or •",
				MaxLength:   validation.Int(maxChars),
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"summary", "outcome", "bulletCount"},
		Properties: map[string]validation.Property{
			"summary":     {Type: "string", MinLength: validation.Int(1)},
			"outcome":     {Type: "string", Enum: []string{string(OutcomeEmpty), string(OutcomeUnstructured), string(OutcomeProposal)}},
			"bulletCount": {Type: "integer", Minimum: validation.Float(0)},
		},
		AdditionalProperties: validation.Bool(false),
	}
}
