// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

// Outcome classifies what happened to one discovered library.
type Outcome string

const (
	// OutcomeLoaded means the plugin initialized and is active.
	OutcomeLoaded Outcome = "loaded"
	// OutcomeDisabled means the plugin loaded but configuration keeps
	// it out of dispatch.
	OutcomeDisabled Outcome = "disabled"
	// OutcomeFailed means the candidate could not be loaded or
	// initialized.
	OutcomeFailed Outcome = "failed"
)

// Candidate records the result of loading one library file.
type Candidate struct {
	Path    string
	Plugin  string // empty when the library never produced metadata
	Outcome Outcome
	Err     error
}

// LoadReport accumulates per-candidate outcomes from one directory scan.
type LoadReport struct {
	Candidates []Candidate
}

func (r *LoadReport) add(c Candidate) {
	r.Candidates = append(r.Candidates, c)
}

// Loaded returns the candidates that became active plugins.
func (r *LoadReport) Loaded() []Candidate { return r.byOutcome(OutcomeLoaded) }

// Disabled returns the candidates kept out of dispatch by configuration.
func (r *LoadReport) Disabled() []Candidate { return r.byOutcome(OutcomeDisabled) }

// Failed returns the candidates that could not be loaded.
func (r *LoadReport) Failed() []Candidate { return r.byOutcome(OutcomeFailed) }

func (r *LoadReport) byOutcome(o Outcome) []Candidate {
	var out []Candidate
	for _, c := range r.Candidates {
		if c.Outcome == o {
			out = append(out, c)
		}
	}
	return out
}
