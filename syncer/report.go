package syncer

import (
	"errors"

	"github.com/minios-linux/sheetsync/config"
	"github.com/minios-linux/sheetsync/mapper"
)

// Phase names one step of a sync run.
type Phase string

const (
	PhasePrepare Phase = "prepare"
	PhaseFetch   Phase = "fetch"
	PhaseMap     Phase = "map"
	PhaseWrite   Phase = "write"
)

// PhaseResult is the outcome of one phase.
type PhaseResult struct {
	Phase   Phase
	Err     error
	Skipped bool
}

// FileResult is the outcome of writing one locale file.
type FileResult struct {
	Lang string
	Path string
	Keys int
	Err  error
}

// Report collects the outcome of every phase of a run.
type Report struct {
	Phases []PhaseResult
	Files  []FileResult
	// Result is the mapped data, nil when fetch or map failed.
	Result *mapper.Result
}

func (r *Report) add(p Phase, err error) {
	r.Phases = append(r.Phases, PhaseResult{Phase: p, Err: err})
}

func (r *Report) skip(p Phase) {
	r.Phases = append(r.Phases, PhaseResult{Phase: p, Skipped: true})
}

// Phase returns the result of phase p.
func (r *Report) Phase(p Phase) (PhaseResult, bool) {
	for _, pr := range r.Phases {
		if pr.Phase == p {
			return pr, true
		}
	}
	return PhaseResult{}, false
}

// Fatal reports whether fetching or mapping failed. No files are written
// after a fatal failure.
func (r *Report) Fatal() bool {
	for _, pr := range r.Phases {
		if pr.Err != nil && (pr.Phase == PhaseFetch || pr.Phase == PhaseMap) {
			return true
		}
	}
	return false
}

// Err joins the errors of all phases, nil when every phase succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, pr := range r.Phases {
		if pr.Err != nil {
			errs = append(errs, pr.Err)
		}
	}
	return errors.Join(errs...)
}

// ExitCode maps the report to a process exit code. Fatal failures always
// exit 1. Recoverable failures exit 1 only under the strict policy.
func (r *Report) ExitCode(policy config.Policy) int {
	if r.Fatal() {
		return 1
	}
	if policy == config.PolicyStrict && r.Err() != nil {
		return 1
	}
	return 0
}
