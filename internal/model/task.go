package model

import "time"

type Task struct {
	ID             string     `json:"id"`
	FamilyID       string     `json:"family_id"`
	Name           string     `json:"name"`
	Icon           string     `json:"icon"`
	Coins          int        `json:"coins"`
	AssignedTo     string     `json:"assigned_to"`
	RepeatType     RepeatType `json:"repeat_type"`
	CompletedCount int        `json:"completed_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (t Task) RecordID() string { return t.ID }

func (t Task) WithID(id string) Task {
	t.ID = id
	return t
}
