// Package schedule evaluates recurring availability windows.
//
// A Window combines an RFC 5545 recurrence rule with an IANA time zone, a
// validity interval, and a per-occurrence span. Whether a window is active at
// a given instant is a pure function of those inputs: the instant is moved
// into the window's zone, bounded by the validity interval, and compared
// against the latest occurrence at or before it.
package schedule

import (
	"time"

	"github.com/rotisserie/eris"
	rrule "github.com/teambition/rrule-go"
)

// ErrInvalidSchedule reports a window specification that cannot be compiled:
// a malformed recurrence rule, an unknown time zone, a non-positive span, or
// an inverted validity interval.
var ErrInvalidSchedule = eris.New("invalid schedule")

// Window is a compiled availability schedule. It is read-only after
// construction and safe for concurrent use.
type Window struct {
	rule  *rrule.RRule
	loc   *time.Location
	from  time.Time
	until time.Time // zero means open-ended
	span  time.Duration

	spec string
	zone string
}

// New compiles an availability window.
//
// rule is an RFC 5545 recurrence rule body such as
// "FREQ=DAILY;BYHOUR=8;BYMINUTE=0;BYSECOND=0". zone is an IANA time zone
// name. Occurrences are generated in that zone seeded at validFrom; a zero
// validUntil leaves the window open-ended. span is how long each occurrence
// stays active.
func New(rule, zone string, validFrom, validUntil time.Time, span time.Duration) (*Window, error) {
	if span <= 0 {
		return nil, eris.Wrapf(ErrInvalidSchedule, "schedule: span %s is not positive", span)
	}
	if validFrom.IsZero() {
		return nil, eris.Wrap(ErrInvalidSchedule, "schedule: validity start is required")
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidSchedule, "schedule: unknown time zone %q", zone)
	}

	from := validFrom.In(loc)
	var until time.Time
	if !validUntil.IsZero() {
		until = validUntil.In(loc)
		if !until.After(from) {
			return nil, eris.Wrapf(ErrInvalidSchedule, "schedule: validity ends %s before it starts %s", until, from)
		}
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidSchedule, "schedule: parse rule %q: %v", rule, err)
	}
	r.DTStart(from)

	return &Window{
		rule:  r,
		loc:   loc,
		from:  from,
		until: until,
		span:  span,
		spec:  rule,
		zone:  zone,
	}, nil
}

// Active reports whether at falls inside an occurrence of the window.
//
// A rule with no occurrence at or before the instant is simply inactive,
// as is a rule that never fires inside the validity interval. That is a
// filtered outcome, never an error.
func (w *Window) Active(at time.Time) bool {
	local := at.In(w.loc)
	if local.Before(w.from) {
		return false
	}
	if !w.until.IsZero() && !local.Before(w.until) {
		return false
	}

	occ := w.rule.Before(local, true)
	if occ.IsZero() {
		return false
	}
	return local.Sub(occ) < w.span
}

// Rule returns the recurrence rule text the window was compiled from.
func (w *Window) Rule() string { return w.spec }

// Zone returns the IANA time zone name occurrences are generated in.
func (w *Window) Zone() string { return w.zone }

// ValidFrom returns the start of the validity interval, which also seeds the
// recurrence.
func (w *Window) ValidFrom() time.Time { return w.from }

// ValidUntil returns the end of the validity interval; zero means open-ended.
func (w *Window) ValidUntil() time.Time { return w.until }

// Span returns how long each occurrence stays active.
func (w *Window) Span() time.Duration { return w.span }
