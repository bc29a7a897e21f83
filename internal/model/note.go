package model

import "time"

type Note struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"author_id"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n Note) RecordID() string { return n.ID }

func (n Note) WithID(id string) Note {
	n.ID = id
	return n
}
