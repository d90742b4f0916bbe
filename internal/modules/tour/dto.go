package tour

import "time"

type CreateTourRequest struct {
	Name               string     `json:"name" binding:"required"`
	Country            string     `json:"country" binding:"required"`
	City               string     `json:"city" binding:"required"`
	MaxPeople          int        `json:"max_people" binding:"required"`
	TypeOfAvailability string     `json:"type_of_availability" binding:"required"`
	Availability       string     `json:"availability"`
	Date               *time.Time `json:"date"`
	From               string     `json:"from"`
	To                 string     `json:"to"`
	Description        string     `json:"description"`
	Photos             []string   `json:"photos"`
}

type UpdateTourRequest struct {
	Name               string     `json:"name" binding:"required"`
	Country            string     `json:"country" binding:"required"`
	City               string     `json:"city" binding:"required"`
	MaxPeople          int        `json:"max_people" binding:"required"`
	TypeOfAvailability string     `json:"type_of_availability" binding:"required"`
	Availability       string     `json:"availability"`
	Date               *time.Time `json:"date"`
	From               string     `json:"from"`
	To                 string     `json:"to"`
	Description        string     `json:"description"`
	Photos             []string   `json:"photos"`
}
