package initiativeprioritize

import "productlab-workers/internal/models"

type Action string

const (
	ActionRender Action = "render"
	ActionSort   Action = "sort"
)

// Input is read from the job variables. With Initiatives set the job works
// on that list alone; otherwise it works on the stored board BoardID.
type Input struct {
	Action      string              `json:"action"`
	BoardID     string              `json:"boardId,omitempty"`
	Initiatives []models.Initiative `json:"initiatives,omitempty"`
}

type Output struct {
	BoardID string `json:"boardId" yaml:"boardId"`
	Action  string `json:"action" yaml:"action"`
	Store   string `json:"store" yaml:"store"`
	Rows    []Row  `json:"rows" yaml:"rows"`
}

// StoreInline names boards that were passed in with the job and never stored.
const StoreInline = "inline"
