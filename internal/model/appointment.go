package model

import "time"

// RepeatType describes how an appointment recurs.
type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
)

// Appointment is a calendar entry. A recurring appointment is stored as a
// single definition row; occurrences are expanded on read. SeriesID is set
// if and only if RepeatType != RepeatNone.
type Appointment struct {
	ID         string     `json:"id"`
	FamilyID   string     `json:"family_id"`
	Title      string     `json:"title"`
	Date       time.Time  `json:"date"`
	Time       string     `json:"time"`
	EndTime    string     `json:"end_time,omitempty"`
	AssignedTo []string   `json:"assigned_to"`
	RepeatType RepeatType `json:"repeat_type"`
	Weekdays   []string   `json:"weekdays,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	SeriesID   string     `json:"series_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (a Appointment) RecordID() string { return a.ID }

// WithID returns a copy of the appointment with the given id.
func (a Appointment) WithID(id string) Appointment {
	a.ID = id
	return a
}
