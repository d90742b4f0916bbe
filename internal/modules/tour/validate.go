package tour

import (
	"fmt"
	"time"

	"navm8/internal/domain"
)

// FieldViolation names one invalid field and why it is invalid.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateTour checks the full candidate entity and returns every
// violation found. It takes plain data and touches no storage, so the
// same rules serve the API and the tests. now is injected so the
// "date must be in the future" rule stays deterministic under test.
func ValidateTour(t *domain.Tour, now time.Time) []FieldViolation {
	var out []FieldViolation

	if t.Name == "" {
		out = append(out, FieldViolation{"name", "is required"})
	}
	if t.Country == "" {
		out = append(out, FieldViolation{"country", "is required"})
	}
	if t.City == "" {
		out = append(out, FieldViolation{"city", "is required"})
	} else if t.Country == "" {
		out = append(out, FieldViolation{"city", "requires a country"})
	}
	if t.MaxPeople <= 0 {
		out = append(out, FieldViolation{"max_people", "must be a positive integer"})
	}

	switch t.TypeOfAvailability {
	case domain.AvailabilityRecurring:
		switch t.Availability {
		case domain.RecurringWeekdays, domain.RecurringWeekends, domain.RecurringDaily:
		case "":
			out = append(out, FieldViolation{"availability", "is required for recurring tours"})
		default:
			out = append(out, FieldViolation{"availability", "must be weekdays, weekends or daily"})
		}
		if t.Date != nil {
			out = append(out, FieldViolation{"date", "must be empty for recurring tours"})
		}

	case domain.AvailabilityOneTime:
		if t.Date == nil {
			out = append(out, FieldViolation{"date", "is required for one-time tours"})
		} else if !t.Date.After(now) {
			out = append(out, FieldViolation{"date", "must be in the future"})
		}
		if t.Availability != "" {
			out = append(out, FieldViolation{"availability", "must be empty for one-time tours"})
		}

	default:
		out = append(out, FieldViolation{"type_of_availability", "must be recurring or one-time"})
	}

	if t.From != "" {
		if _, err := time.Parse("15:04", t.From); err != nil {
			out = append(out, FieldViolation{"from", "must be a HH:MM time"})
		}
	}
	if t.To != "" {
		if _, err := time.Parse("15:04", t.To); err != nil {
			out = append(out, FieldViolation{"to", "must be a HH:MM time"})
		}
	}

	return out
}
