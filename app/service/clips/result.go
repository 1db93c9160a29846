package clips

import (
	"errors"
)

// Outcome is the result of one part (media or metadata) of processing a clip
type Outcome string

const (
	// OutcomeNone means the part was not requested
	OutcomeNone Outcome = ""

	// OutcomeSuccess means the part was written (or printed in link mode)
	OutcomeSuccess Outcome = "success"

	// OutcomeSkipped means the artifact already existed and was left untouched
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means the part failed; the matching error field says why
	OutcomeFailed Outcome = "failed"
)

func (o Outcome) String() string {
	if o == OutcomeNone {
		return "none"
	}

	return string(o)
}

// Result is the per-clip report. Media and metadata are tracked separately so a clip can
// succeed for one and fail for the other.
type Result struct {
	ClipID    string
	SourceURL string

	Media    Outcome
	MediaErr error

	Metadata    Outcome
	MetadataErr error
}

// Status folds the parts into a single outcome: failed if any part failed, skipped if the
// media was skipped, success otherwise.
func (r Result) Status() Outcome {
	switch {
	case r.Media == OutcomeFailed || r.Metadata == OutcomeFailed:
		return OutcomeFailed
	case r.Media == OutcomeSkipped:
		return OutcomeSkipped
	default:
		return OutcomeSuccess
	}
}

func (r Result) Err() error {
	return errors.Join(r.MediaErr, r.MetadataErr)
}

// Summary counts clip statuses of a run
type Summary struct {
	Success int
	Skipped int
	Failed  int
}

func (s *Summary) Add(r Result) {
	switch r.Status() {
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skipped++
	default:
		s.Success++
	}
}

func (s Summary) Total() int {
	return s.Success + s.Skipped + s.Failed
}
