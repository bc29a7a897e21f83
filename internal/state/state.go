package state

import "github.com/hearthhq/hearth/internal/model"

// State aggregates one collection per entity type. It is the single mutable
// resource in the core; everything else reads through it.
type State struct {
	Appointments  *Collection[model.Appointment]
	Tasks         *Collection[model.Task]
	ShoppingItems *Collection[model.ShoppingItem]
	PantryItems   *Collection[model.PantryItem]
	Notes         *Collection[model.Note]
	BudgetPots    *Collection[model.BudgetPot]
	Incomes       *Collection[model.Income]
	FixedExpenses *Collection[model.FixedExpense]
	FamilyMembers *Collection[model.FamilyMember]
}

func New() *State {
	return &State{
		Appointments:  NewCollection[model.Appointment]("appointments"),
		Tasks:         NewCollection[model.Task]("tasks"),
		ShoppingItems: NewCollection[model.ShoppingItem]("shopping_items"),
		PantryItems:   NewCollection[model.PantryItem]("pantry_items"),
		Notes:         NewCollection[model.Note]("notes"),
		BudgetPots:    NewCollection[model.BudgetPot]("budget_pots"),
		Incomes:       NewCollection[model.Income]("incomes"),
		FixedExpenses: NewCollection[model.FixedExpense]("fixed_expenses"),
		FamilyMembers: NewCollection[model.FamilyMember]("family_members"),
	}
}

// SubscribeAll registers an observer on every collection.
func (s *State) SubscribeAll(fn Observer) {
	s.Appointments.Subscribe(fn)
	s.Tasks.Subscribe(fn)
	s.ShoppingItems.Subscribe(fn)
	s.PantryItems.Subscribe(fn)
	s.Notes.Subscribe(fn)
	s.BudgetPots.Subscribe(fn)
	s.Incomes.Subscribe(fn)
	s.FixedExpenses.Subscribe(fn)
	s.FamilyMembers.Subscribe(fn)
}
