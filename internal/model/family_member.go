package model

import "time"

type FamilyMember struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"family_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	AvatarEmoji string    `json:"avatar_emoji"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m FamilyMember) RecordID() string { return m.ID }

func (m FamilyMember) WithID(id string) FamilyMember {
	m.ID = id
	return m
}
