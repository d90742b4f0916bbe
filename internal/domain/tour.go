package domain

import "time"

type AvailabilityType string

const (
	AvailabilityRecurring AvailabilityType = "recurring"
	AvailabilityOneTime   AvailabilityType = "one-time"
)

type RecurringMode string

const (
	RecurringWeekdays RecurringMode = "weekdays"
	RecurringWeekends RecurringMode = "weekends"
	RecurringDaily    RecurringMode = "daily"
)

// Tour is a bookable offering. Exactly one of Availability / Date is
// meaningful, selected by TypeOfAvailability: recurring tours carry a
// recurring mode, one-time tours carry a single calendar date.
type Tour struct {
	ID                 int64            `json:"id"`
	AuthorID           int64            `json:"author_id"`
	Name               string           `json:"name"`
	Country            string           `json:"country"`
	City               string           `json:"city"`
	MaxPeople          int              `json:"max_people"`
	TypeOfAvailability AvailabilityType `json:"type_of_availability"`
	Availability       RecurringMode    `json:"availability,omitempty"`
	Date               *time.Time       `json:"date,omitempty"`
	From               string           `json:"from,omitempty"`
	To                 string           `json:"to,omitempty"`
	Description        string           `json:"description,omitempty"`
	Photos             []string         `json:"photos,omitempty"`
	ReviewCount        int              `json:"review_count"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	Author *User `json:"author,omitempty"`
}
