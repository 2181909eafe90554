package personaselect

// Input is read from the job variables. A missing or null personaKey selects
// the configured default persona.
type Input struct {
	PersonaKey *string `json:"personaKey,omitempty"`
}

// Output is written back as process variables.
type Output struct {
	PersonaKey           string   `json:"personaKey" yaml:"key"`
	PersonaTitle         string   `json:"personaTitle" yaml:"title"`
	PersonaJobs          []string `json:"personaJobs" yaml:"jobs"`
	PersonaPains         []string `json:"personaPains" yaml:"pains"`
	PersonaOpportunities []string `json:"personaOpportunities" yaml:"opportunities"`
}

type ServiceDependencies struct {
	Logger Logger
}
