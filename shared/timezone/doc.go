// Package timezone provides the application clock and timezone utilities.
//
// Usage Examples:
//
//  1. Reading the current instant through an injectable clock:
//     clock := timezone.SystemClock()
//     now := clock.Now()
//
//  2. Pinning time in tests:
//     clock := timezone.NewFixedClock(time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC))
//     clock.Advance(time.Hour)
//
//  3. Calendar-day comparisons in app timezone:
//     today := timezone.StartOfDay(clock.Now())
//
//  4. Parsing and formatting in app timezone:
//     t, err := timezone.Parse("2006-01-02", "2024-01-01")
//     formatted := timezone.Format(t, time.RFC3339)
//
// The timezone is configured via the APP_TIMEZONE environment variable
// and is automatically initialized when the package is imported.
// Use standard IANA timezone database names for reliable cross-platform compatibility.
package timezone
