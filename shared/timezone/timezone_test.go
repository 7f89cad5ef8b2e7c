package timezone_test

import (
	"roombook/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimezoneInit(t *testing.T) {
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed == (time.Time{}) {
		t.Error("Parse() returned a zero time")
	}
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := timezone.SystemClock().Now()

	assert.False(t, now.Before(before.Add(-time.Second)))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC)
	clock := timezone.NewFixedClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), clock.Now())

	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestStartOfDay(t *testing.T) {
	moment := timezone.ToAppTime(time.Date(2025, 6, 1, 15, 42, 7, 0, time.UTC))
	day := timezone.StartOfDay(moment)

	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, 0, day.Minute())
	assert.Equal(t, moment.Day(), day.Day())
	assert.False(t, day.After(moment))
}
