package model

import "time"

type ShoppingItem struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	Purchased bool      `json:"purchased"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (s ShoppingItem) RecordID() string { return s.ID }

func (s ShoppingItem) WithID(id string) ShoppingItem {
	s.ID = id
	return s
}

type PantryItem struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func (p PantryItem) RecordID() string { return p.ID }

func (p PantryItem) WithID(id string) PantryItem {
	p.ID = id
	return p
}
