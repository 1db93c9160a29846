package clips

import (
	"fmt"
	"time"
	"twdl/app/apperr"

	"github.com/araddon/dateparse"
)

// DefaultWindow is the length of a range that only has a start.
const DefaultWindow = 7 * 24 * time.Hour

// TimeRange bounds the creation time of enumerated clips. Both bounds are optional; an end is
// only valid together with a start.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// NewTimeRange checks the bounds and fills in the default end for a start-only range.
func NewTimeRange(start, end *time.Time) (TimeRange, error) {
	if start == nil && end == nil {
		return TimeRange{}, nil
	}

	if start == nil {
		return TimeRange{}, fmt.Errorf("%w: start datetime must be provided with end datetime", apperr.ErrConfig)
	}

	if end == nil {
		defaultEnd := start.Add(DefaultWindow)
		end = &defaultEnd
	}

	if end.Before(*start) {
		return TimeRange{}, fmt.Errorf("%w: end %s is before start %s", apperr.ErrConfig,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	return TimeRange{Start: start, End: end}, nil
}

// ParseTimeRange parses free-form CLI datetimes ("2024-03-01", "2024-03-01T10:00:00Z",
// "March 1, 2024", ...). Empty strings mean "not set".
func ParseTimeRange(start, end string) (TimeRange, error) {
	startTime, err := parseDatetime(start)
	if err != nil {
		return TimeRange{}, err
	}

	endTime, err := parseDatetime(end)
	if err != nil {
		return TimeRange{}, err
	}

	return NewTimeRange(startTime, endTime)
}

// Validate re-checks a range that was not built by NewTimeRange.
func (r TimeRange) Validate() error {
	if r.Start == nil && r.End != nil {
		return fmt.Errorf("%w: start datetime must be provided with end datetime", apperr.ErrConfig)
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return fmt.Errorf("%w: end is before start", apperr.ErrConfig)
	}

	return nil
}

// Bounds returns the effective bounds, applying the default window to a start-only range.
// Unset bounds are zero times.
func (r TimeRange) Bounds() (time.Time, time.Time) {
	var start, end time.Time
	if r.Start != nil {
		start = *r.Start
		end = start.Add(DefaultWindow)
	}
	if r.End != nil {
		end = *r.End
	}

	return start, end
}

func parseDatetime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := dateparse.ParseAny(value)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to interpret datetime %q: %w", apperr.ErrConfig, value, err)
	}

	return &t, nil
}
