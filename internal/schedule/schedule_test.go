package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadSpecs(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(1, 0, 0)

	tests := []struct {
		name string
		rule string
		zone string
		from time.Time
		to   time.Time
		span time.Duration
	}{
		{"malformed rule", "FREQ=SOMETIMES", "UTC", from, until, time.Hour},
		{"empty rule", "", "UTC", from, until, time.Hour},
		{"unknown zone", "FREQ=DAILY", "Mars/Olympus", from, until, time.Hour},
		{"zero span", "FREQ=DAILY", "UTC", from, until, 0},
		{"negative span", "FREQ=DAILY", "UTC", from, until, -time.Hour},
		{"zero start", "FREQ=DAILY", "UTC", time.Time{}, until, time.Hour},
		{"inverted interval", "FREQ=DAILY", "UTC", until, from, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := New(tt.rule, tt.zone, tt.from, tt.to, tt.span)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
			assert.Nil(t, w)
		})
	}
}

func TestWindow_Active_DailyWindow(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, ny)
	until := time.Date(2026, time.June, 1, 0, 0, 0, 0, ny)

	// Open 09:00-11:00 local, every day.
	w, err := New("FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", "America/New_York", from, until, 2*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"inside window", time.Date(2026, time.March, 10, 10, 0, 0, 0, ny), true},
		{"window start", time.Date(2026, time.March, 10, 9, 0, 0, 0, ny), true},
		{"just before opening", time.Date(2026, time.March, 10, 8, 59, 59, 0, ny), false},
		{"window end is exclusive", time.Date(2026, time.March, 10, 11, 0, 0, 0, ny), false},
		{"before validity", time.Date(2026, time.February, 20, 10, 0, 0, 0, ny), false},
		{"after validity", time.Date(2026, time.July, 1, 10, 0, 0, 0, ny), false},
		{"validity end is exclusive", until, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, w.Active(tt.at))
		})
	}
}

// The instant handed to Active may be expressed in any zone; activity is
// decided on the window's own wall clock.
func TestWindow_Active_CrossZoneInstant(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, ny)
	w, err := New("FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", "America/New_York", from, time.Time{}, 2*time.Hour)
	require.NoError(t, err)

	// 2026-03-10 15:00 UTC is 11:00 EDT (closed); 14:00 UTC is 10:00 EDT (open).
	assert.True(t, w.Active(time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)))
	assert.False(t, w.Active(time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)))
}

// DST starts 2026-03-08 in America/New_York; the 09:00 wall-clock opening
// must hold on both sides of the transition.
func TestWindow_Active_AcrossDST(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, ny)
	w, err := New("FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", "America/New_York", from, time.Time{}, 2*time.Hour)
	require.NoError(t, err)

	// Saturday before the switch: 10:00 EST is 15:00 UTC.
	assert.True(t, w.Active(time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)))
	// Sunday after the switch: 10:00 EDT is 14:00 UTC.
	assert.True(t, w.Active(time.Date(2026, time.March, 8, 14, 0, 0, 0, time.UTC)))
	// 15:00 UTC on Sunday is 11:00 EDT, past the window.
	assert.False(t, w.Active(time.Date(2026, time.March, 8, 15, 0, 0, 0, time.UTC)))
}

func TestWindow_Active_NoOccurrences(t *testing.T) {
	t.Parallel()

	// Weekly on Mondays, but the validity interval covers only Tue-Thu of
	// one week. The rule never fires inside it: permanently inactive, not
	// an error.
	from := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC) // Tuesday
	until := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

	w, err := New("FREQ=WEEKLY;BYDAY=MO;BYHOUR=9;BYMINUTE=0;BYSECOND=0", "UTC", from, until, time.Hour)
	require.NoError(t, err)

	assert.False(t, w.Active(time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)))
	assert.False(t, w.Active(from))
}

func TestWindow_Active_CountBounded(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC)
	w, err := New("FREQ=DAILY;COUNT=3", "UTC", from, time.Time{}, time.Hour)
	require.NoError(t, err)

	// Three occurrences: Jan 1, 2, 3 at 08:00.
	assert.True(t, w.Active(time.Date(2026, time.January, 3, 8, 30, 0, 0, time.UTC)))
	// The rule is exhausted afterwards.
	assert.False(t, w.Active(time.Date(2026, time.January, 4, 8, 30, 0, 0, time.UTC)))
}

func TestWindow_Accessors(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	w, err := New("FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", "UTC", from, until, 45*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", w.Rule())
	assert.Equal(t, "UTC", w.Zone())
	assert.True(t, w.ValidFrom().Equal(from))
	assert.True(t, w.ValidUntil().Equal(until))
	assert.Equal(t, 45*time.Minute, w.Span())
}
