package booking

import (
	"time"

	"navm8/internal/domain"
)

// NormalizeDate strips the time of day: bookings are per calendar day,
// so every comparison happens at midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsDateBookable decides whether a tour accepts bookings for the
// candidate date. One-time tours match exactly one calendar day;
// recurring tours match by day of week. The function is pure and total:
// any unrecognized configuration is simply not bookable.
func IsDateBookable(tour *domain.Tour, candidate time.Time) bool {
	day := NormalizeDate(candidate)

	switch tour.TypeOfAvailability {
	case domain.AvailabilityOneTime:
		if tour.Date == nil {
			return false
		}
		return day.Equal(NormalizeDate(*tour.Date))

	case domain.AvailabilityRecurring:
		switch tour.Availability {
		case domain.RecurringDaily:
			return true
		case domain.RecurringWeekdays:
			wd := day.Weekday()
			return wd >= time.Monday && wd <= time.Friday
		case domain.RecurringWeekends:
			wd := day.Weekday()
			return wd == time.Saturday || wd == time.Sunday
		}
	}

	return false
}
