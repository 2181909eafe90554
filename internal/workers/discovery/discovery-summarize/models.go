package discoverysummarize

// Outcome tells which of the three fixed messages a summary carries.
type Outcome string

const (
	OutcomeEmpty        Outcome = "empty"
	OutcomeUnstructured Outcome = "unstructured"
	OutcomeProposal     Outcome = "proposal"
)

// Summary is the summarizer result and the job output. Outcome and BulletCount
// are diagnostics; Text is what gets shown.
type Summary struct {
	Text        string  `json:"summary" yaml:"summary"`
	Outcome     Outcome `json:"outcome" yaml:"outcome"`
	BulletCount int     `json:"bulletCount" yaml:"bulletCount"`
}

type Input struct {
	Notes string `json:"notes"`
}
