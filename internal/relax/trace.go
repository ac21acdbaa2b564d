package relax

import (
	"encoding/json"

	"jobmatch-engine/internal/filter"
)

type StepKind string

const (
	StepApply     StepKind = "apply"
	StepRelax     StepKind = "relax"
	StepFallback  StepKind = "fallback"
	StepNoResults StepKind = "no_results"
)

// Step is one trace entry. Which fields are meaningful depends on Kind:
// apply uses Include, Exclude, Results and Rejected; relax uses Removed;
// fallback and no_results use Reason.
type Step struct {
	Kind     StepKind
	Include  filter.Set
	Exclude  filter.Set
	Results  int
	Rejected string
	Removed  Candidate
	Reason   string
}

type applyPayload struct {
	Include  filter.Set `json:"include"`
	Exclude  filter.Set `json:"exclude"`
	Results  int        `json:"results"`
	Rejected string     `json:"rejected,omitempty"`
}

type relaxPayload struct {
	Removed Candidate `json:"removed"`
}

type terminalPayload struct {
	Reason string `json:"reason"`
}

func (s Step) MarshalJSON() ([]byte, error) {
	var payload any
	switch s.Kind {
	case StepApply:
		payload = applyPayload{Include: s.Include, Exclude: s.Exclude, Results: s.Results, Rejected: s.Rejected}
	case StepRelax:
		payload = relaxPayload{Removed: s.Removed}
	default:
		payload = terminalPayload{Reason: s.Reason}
	}
	return json.Marshal(struct {
		Kind    StepKind `json:"kind"`
		Payload any      `json:"payload"`
	}{s.Kind, payload})
}
