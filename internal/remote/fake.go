package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

// Fake is an in-memory Service for tests. It assigns authoritative ids of
// the form "srv-N" and can be made to fail every operation with a fixed
// error to exercise rollback paths.
type Fake struct {
	mu     sync.Mutex
	nextID int
	err    error

	appointments  map[string]model.Appointment
	tasks         map[string]model.Task
	shoppingItems map[string]model.ShoppingItem
	pantryItems   map[string]model.PantryItem
	notes         map[string]model.Note
	budgetPots    map[string]model.BudgetPot
	incomes       map[string]model.Income
	fixedExpenses map[string]model.FixedExpense
}

var _ Service = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{
		appointments:  make(map[string]model.Appointment),
		tasks:         make(map[string]model.Task),
		shoppingItems: make(map[string]model.ShoppingItem),
		pantryItems:   make(map[string]model.PantryItem),
		notes:         make(map[string]model.Note),
		budgetPots:    make(map[string]model.BudgetPot),
		incomes:       make(map[string]model.Income),
		fixedExpenses: make(map[string]model.FixedExpense),
	}
}

// SetErr makes every subsequent operation fail with err. Pass nil to heal.
func (f *Fake) SetErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *Fake) assignID() string {
	f.nextID++
	return fmt.Sprintf("srv-%d", f.nextID)
}

func (f *Fake) InsertAppointment(_ context.Context, a model.Appointment) (model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Appointment{}, f.err
	}
	a.ID = f.assignID()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	f.appointments[a.ID] = a
	return a, nil
}

func (f *Fake) UpdateAppointment(_ context.Context, id string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.appointments[id]; !ok {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}

// deleteRow removes one row, failing on unknown ids so delete paths can be
// tested against missing data for every entity alike.
func deleteRow[T any](f *Fake, table map[string]T, kind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := table[id]; !ok {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	delete(table, id)
	return nil
}

func (f *Fake) DeleteAppointment(_ context.Context, id string) error {
	return deleteRow(f, f.appointments, "appointment", id)
}

func (f *Fake) DeleteAppointmentSeries(_ context.Context, seriesID, familyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for id, a := range f.appointments {
		if a.SeriesID == seriesID && a.FamilyID == familyID {
			delete(f.appointments, id)
		}
	}
	return nil
}

func (f *Fake) InsertTask(_ context.Context, t model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Task{}, f.err
	}
	t.ID = f.assignID()
	f.tasks[t.ID] = t
	return t, nil
}

func (f *Fake) UpdateTask(_ context.Context, id string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

func (f *Fake) DeleteTask(_ context.Context, id string) error {
	return deleteRow(f, f.tasks, "task", id)
}

func (f *Fake) InsertShoppingItem(_ context.Context, s model.ShoppingItem) (model.ShoppingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.ShoppingItem{}, f.err
	}
	s.ID = f.assignID()
	f.shoppingItems[s.ID] = s
	return s, nil
}

func (f *Fake) UpdateShoppingItem(_ context.Context, id string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.shoppingItems[id]; !ok {
		return fmt.Errorf("shopping item %s not found", id)
	}
	return nil
}

func (f *Fake) DeleteShoppingItem(_ context.Context, id string) error {
	return deleteRow(f, f.shoppingItems, "shopping item", id)
}

func (f *Fake) InsertPantryItem(_ context.Context, p model.PantryItem) (model.PantryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.PantryItem{}, f.err
	}
	p.ID = f.assignID()
	f.pantryItems[p.ID] = p
	return p, nil
}

func (f *Fake) DeletePantryItem(_ context.Context, id string) error {
	return deleteRow(f, f.pantryItems, "pantry item", id)
}

func (f *Fake) InsertNote(_ context.Context, n model.Note) (model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Note{}, f.err
	}
	n.ID = f.assignID()
	f.notes[n.ID] = n
	return n, nil
}

func (f *Fake) UpdateNote(_ context.Context, id string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.notes[id]; !ok {
		return fmt.Errorf("note %s not found", id)
	}
	return nil
}

func (f *Fake) DeleteNote(_ context.Context, id string) error {
	return deleteRow(f, f.notes, "note", id)
}

func (f *Fake) InsertBudgetPot(_ context.Context, b model.BudgetPot) (model.BudgetPot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.BudgetPot{}, f.err
	}
	b.ID = f.assignID()
	f.budgetPots[b.ID] = b
	return b, nil
}

func (f *Fake) UpdateBudgetPot(_ context.Context, id string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.budgetPots[id]; !ok {
		return fmt.Errorf("budget pot %s not found", id)
	}
	return nil
}

func (f *Fake) DeleteBudgetPot(_ context.Context, id string) error {
	return deleteRow(f, f.budgetPots, "budget pot", id)
}

func (f *Fake) InsertIncome(_ context.Context, i model.Income) (model.Income, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Income{}, f.err
	}
	i.ID = f.assignID()
	f.incomes[i.ID] = i
	return i, nil
}

func (f *Fake) DeleteIncome(_ context.Context, id string) error {
	return deleteRow(f, f.incomes, "income", id)
}

func (f *Fake) InsertFixedExpense(_ context.Context, fx model.FixedExpense) (model.FixedExpense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.FixedExpense{}, f.err
	}
	fx.ID = f.assignID()
	f.fixedExpenses[fx.ID] = fx
	return fx, nil
}

func (f *Fake) DeleteFixedExpense(_ context.Context, id string) error {
	return deleteRow(f, f.fixedExpenses, "fixed expense", id)
}

// AppointmentCount reports how many appointment rows the fake holds.
func (f *Fake) AppointmentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appointments)
}

// Appointment returns a stored appointment row.
func (f *Fake) Appointment(id string) (model.Appointment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	return a, ok
}
