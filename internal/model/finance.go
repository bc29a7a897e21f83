package model

import "time"

// BudgetPot is a per-category spending allowance. Spent grows monotonically
// within a period and is zeroed only by the monthly reset.
type BudgetPot struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Budget    float64   `json:"budget"`
	Spent     float64   `json:"spent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b BudgetPot) RecordID() string { return b.ID }

func (b BudgetPot) WithID(id string) BudgetPot {
	b.ID = id
	return b
}

type Income struct {
	ID       string  `json:"id"`
	FamilyID string  `json:"family_id"`
	Source   string  `json:"source"`
	Amount   float64 `json:"amount"`
}

func (i Income) RecordID() string { return i.ID }

func (i Income) WithID(id string) Income {
	i.ID = id
	return i
}

type FixedExpense struct {
	ID       string  `json:"id"`
	FamilyID string  `json:"family_id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
}

func (f FixedExpense) RecordID() string { return f.ID }

func (f FixedExpense) WithID(id string) FixedExpense {
	f.ID = id
	return f
}
