// Package app is the shared application state consumed by UI surfaces. It
// owns the in-memory entity collections and routes every mutation through
// the sync layer; UI code never touches records directly.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hearthhq/hearth/internal/config"
	"github.com/hearthhq/hearth/internal/finance"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/recurrence"
	"github.com/hearthhq/hearth/internal/remote"
	"github.com/hearthhq/hearth/internal/series"
	"github.com/hearthhq/hearth/internal/state"
	"github.com/hearthhq/hearth/internal/syncer"
)

// Validation errors, rejected before any mutation is attempted.
var (
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrNoAssignee     = errors.New("at least one family member must be assigned")
	ErrNoWeekdays     = errors.New("weekly repeat needs at least one weekday")
	ErrUnknownWeekday = errors.New("unknown weekday token")
	ErrBadRepeatType  = errors.New("invalid repeat type")
	ErrBadAmount      = errors.New("amount must be positive")
)

// Occurrence pairs a concrete calendar date with the appointment definition
// that produced it.
type Occurrence struct {
	Date        time.Time
	Appointment model.Appointment
}

// App wires the entity store, sync engine, series manager, and budget reset
// scheduler behind the operation surface the UI layer calls.
type App struct {
	familyID string
	st       *state.State
	svc      remote.Service
	engine   *syncer.Engine
	series   *series.Manager
	resetter *finance.Resetter
	cfg      *config.Store
	alert    syncer.Alerter
	logger   *slog.Logger
}

func New(familyID string, svc remote.Service, cfg *config.Store, alerter syncer.Alerter, logger *slog.Logger) *App {
	st := state.New()
	engine := syncer.New(logger.With("component", "syncer"), alerter)

	return &App{
		familyID: familyID,
		st:       st,
		svc:      svc,
		engine:   engine,
		series:   series.NewManager(engine, st.Appointments, svc),
		resetter: finance.NewResetter(cfg, st, svc, logger.With("component", "finance")),
		cfg:      cfg,
		alert:    alerter,
		logger:   logger,
	}
}

// State exposes the entity collections for read access and subscriptions.
func (a *App) State() *state.State { return a.st }

// Wait blocks until all in-flight remote writes have settled.
func (a *App) Wait() { a.engine.Wait() }

// --- Appointments ---

// AddAppointment validates and creates an appointment, optimistically. The
// returned error covers validation only; remote failures roll the record
// back and surface through the alerter.
func (a *App) AddAppointment(appt model.Appointment) error {
	if err := validateAppointment(appt); err != nil {
		return err
	}
	appt.FamilyID = a.familyID
	a.series.Create(appt)
	return nil
}

// DeleteAppointment removes one occurrence's definition, or the entire
// series when entireSeries is set. Fails loudly on remote error, leaving
// local state untouched.
func (a *App) DeleteAppointment(ctx context.Context, id string, entireSeries bool) error {
	return a.series.Delete(ctx, id, entireSeries)
}

// UpdateAppointment edits an appointment's fields in place, remote first.
// Identity fields are preserved: the record keeps its id, family, and series
// membership regardless of what the caller passes.
func (a *App) UpdateAppointment(ctx context.Context, appt model.Appointment) error {
	if err := validateAppointment(appt); err != nil {
		return err
	}
	current, ok := a.st.Appointments.Get(appt.ID)
	if !ok {
		return fmt.Errorf("appointment %s not found", appt.ID)
	}
	updated := appt
	updated.FamilyID = current.FamilyID
	updated.SeriesID = current.SeriesID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	return syncer.Update(ctx, a.st.Appointments, appt.ID, updated, map[string]any{
		"title":       updated.Title,
		"date":        updated.Date,
		"time":        updated.Time,
		"end_time":    updated.EndTime,
		"assigned_to": updated.AssignedTo,
		"repeat_type": updated.RepeatType,
		"weekdays":    updated.Weekdays,
		"end_date":    updated.EndDate,
	}, a.svc.UpdateAppointment)
}

// AppointmentsForDate returns every appointment visible on the given date,
// sorted by time of day.
func (a *App) AppointmentsForDate(date time.Time) []model.Appointment {
	var out []model.Appointment
	for _, appt := range a.st.Appointments.All() {
		if recurrence.Matches(appt, date) {
			out = append(out, appt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// UpcomingAppointments returns every occurrence within windowDays starting
// today, ordered by date then time of day.
func (a *App) UpcomingAppointments(windowDays int) []Occurrence {
	return a.UpcomingFrom(time.Now(), windowDays)
}

// UpcomingFrom is UpcomingAppointments with an explicit start, for callers
// that own the clock.
func (a *App) UpcomingFrom(start time.Time, windowDays int) []Occurrence {
	end := start.AddDate(0, 0, windowDays)

	var out []Occurrence
	for _, appt := range a.st.Appointments.All() {
		for _, day := range recurrence.OccurrencesInRange(appt, start, end) {
			out = append(out, Occurrence{Date: day, Appointment: appt})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Appointment.Time < out[j].Appointment.Time
	})
	return out
}

func validateAppointment(appt model.Appointment) error {
	if appt.Title == "" {
		return ErrEmptyTitle
	}
	if len(appt.AssignedTo) == 0 {
		return ErrNoAssignee
	}
	switch appt.RepeatType {
	case model.RepeatNone, model.RepeatDaily, model.RepeatMonthly, "":
	case model.RepeatWeekly:
		// A nil weekday set falls back to the anchor's weekday; an explicit
		// empty selection is a caller mistake.
		if appt.Weekdays != nil && len(appt.Weekdays) == 0 {
			return ErrNoWeekdays
		}
		for _, token := range appt.Weekdays {
			if _, ok := recurrence.ParseWeekday(token); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownWeekday, token)
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrBadRepeatType, appt.RepeatType)
	}
	return nil
}

// --- Tasks ---

func (a *App) AddTask(task model.Task) error {
	if task.Name == "" {
		return ErrEmptyTitle
	}
	if task.AssignedTo == "" {
		return ErrNoAssignee
	}
	task.FamilyID = a.familyID
	task.CompletedCount = 0
	syncer.CreateOptimistic(a.engine, a.st.Tasks, task, model.Task.WithID, a.svc.InsertTask)
	return nil
}

// CompleteTask increments the task's completion counter, remote first.
func (a *App) CompleteTask(ctx context.Context, id string) error {
	task, ok := a.st.Tasks.Get(id)
	if !ok {
		return fmt.Errorf("task %s not found", id)
	}
	updated := task
	updated.CompletedCount++
	updated.UpdatedAt = time.Now().UTC()
	return syncer.Update(ctx, a.st.Tasks, id, updated,
		map[string]any{"completed_count": updated.CompletedCount}, a.svc.UpdateTask)
}

func (a *App) DeleteTask(ctx context.Context, id string) error {
	return syncer.Delete(ctx, a.st.Tasks, id, a.svc.DeleteTask)
}

// --- Shopping & pantry ---

func (a *App) AddShoppingItem(item model.ShoppingItem) error {
	if item.Name == "" {
		return ErrEmptyTitle
	}
	item.FamilyID = a.familyID
	item.Purchased = false
	syncer.CreateOptimistic(a.engine, a.st.ShoppingItems, item, model.ShoppingItem.WithID, a.svc.InsertShoppingItem)
	return nil
}

// ToggleShoppingItem flips the purchased flag, remote first.
func (a *App) ToggleShoppingItem(ctx context.Context, id string) error {
	item, ok := a.st.ShoppingItems.Get(id)
	if !ok {
		return fmt.Errorf("shopping item %s not found", id)
	}
	updated := item
	updated.Purchased = !item.Purchased
	return syncer.Update(ctx, a.st.ShoppingItems, id, updated,
		map[string]any{"purchased": updated.Purchased}, a.svc.UpdateShoppingItem)
}

func (a *App) DeleteShoppingItem(ctx context.Context, id string) error {
	return syncer.Delete(ctx, a.st.ShoppingItems, id, a.svc.DeleteShoppingItem)
}

func (a *App) AddPantryItem(item model.PantryItem) error {
	if item.Name == "" {
		return ErrEmptyTitle
	}
	item.FamilyID = a.familyID
	syncer.CreateOptimistic(a.engine, a.st.PantryItems, item, model.PantryItem.WithID, a.svc.InsertPantryItem)
	return nil
}

func (a *App) DeletePantryItem(ctx context.Context, id string) error {
	return syncer.Delete(ctx, a.st.PantryItems, id, a.svc.DeletePantryItem)
}

// --- Notes ---

func (a *App) AddNote(note model.Note) error {
	if note.Title == "" && note.Body == "" {
		return ErrEmptyTitle
	}
	note.FamilyID = a.familyID
	syncer.CreateOptimistic(a.engine, a.st.Notes, note, model.Note.WithID, a.svc.InsertNote)
	return nil
}

// UpdateNote rewrites a note's title and body, remote first.
func (a *App) UpdateNote(ctx context.Context, id, title, body string) error {
	if title == "" && body == "" {
		return ErrEmptyTitle
	}
	note, ok := a.st.Notes.Get(id)
	if !ok {
		return fmt.Errorf("note %s not found", id)
	}
	updated := note
	updated.Title = title
	updated.Body = body
	updated.UpdatedAt = time.Now().UTC()
	return syncer.Update(ctx, a.st.Notes, id, updated,
		map[string]any{"title": title, "body": body}, a.svc.UpdateNote)
}

func (a *App) DeleteNote(ctx context.Context, id string) error {
	return syncer.Delete(ctx, a.st.Notes, id, a.svc.DeleteNote)
}

// --- Budget pots & finance entries ---

func (a *App) AddBudgetPot(pot model.BudgetPot) error {
	if pot.Name == "" {
		return ErrEmptyTitle
	}
	if pot.Budget < 0 {
		return ErrBadAmount
	}
	pot.FamilyID = a.familyID
	pot.Spent = 0
	syncer.CreateOptimistic(a.engine, a.st.BudgetPots, pot, model.BudgetPot.WithID, a.svc.InsertBudgetPot)
	return nil
}

// UpdateBudgetPot renames a pot and/or changes its allowance. Spent is
// never written here; it moves only through RecordSpending and the monthly
// reset.
func (a *App) UpdateBudgetPot(ctx context.Context, id, name string, budget float64) error {
	if name == "" {
		return ErrEmptyTitle
	}
	if budget < 0 {
		return ErrBadAmount
	}
	pot, ok := a.st.BudgetPots.Get(id)
	if !ok {
		return fmt.Errorf("budget pot %s not found", id)
	}
	updated := pot
	updated.Name = name
	updated.Budget = budget
	updated.UpdatedAt = time.Now().UTC()
	return syncer.Update(ctx, a.st.BudgetPots, id, updated,
		map[string]any{"name": name, "budget": budget}, a.svc.UpdateBudgetPot)
}

func (a *App) DeleteBudgetPot(ctx context.Context, id string) error {
	return syncer.Delete(ctx, a.st.BudgetPots, id, a.svc.DeleteBudgetPot)
}

// RecordSpending adds amount to the pot's running total, remote first.
// Spent only ever grows within a period.
func (a *App) RecordSpending(ctx context.Context, id string, amount float64) error {
	if amount <= 0 {
		return ErrBadAmount
	}
	pot, ok := a.st.BudgetPots.Get(id)
	if !ok {
		return fmt.Errorf("budget pot %s not found", id)
	}
	updated := pot
	updated.Spent += amount
	updated.UpdatedAt = time.Now().UTC()
	return syncer.Update(ctx, a.st.BudgetPots, id, updated,
		map[string]any{"spent": updated.Spent}, a.svc.UpdateBudgetPot)
}

func (a *App) AddIncome(in model.Income) error {
	if in.Amount <= 0 {
		return ErrBadAmount
	}
	in.FamilyID = a.familyID
	syncer.CreateOptimistic(a.engine, a.st.Incomes, in, model.Income.WithID, a.svc.InsertIncome)
	return nil
}

func (a *App) DeleteIncome(ctx context.Context, id string) error {
	return syncer.Delete(ctx, a.st.Incomes, id, a.svc.DeleteIncome)
}

func (a *App) AddFixedExpense(fx model.FixedExpense) error {
	if fx.Amount <= 0 {
		return ErrBadAmount
	}
	fx.FamilyID = a.familyID
	syncer.CreateOptimistic(a.engine, a.st.FixedExpenses, fx, model.FixedExpense.WithID, a.svc.InsertFixedExpense)
	return nil
}

func (a *App) DeleteFixedExpense(ctx context.Context, id string) error {
	return syncer.Delete(ctx, a.st.FixedExpenses, id, a.svc.DeleteFixedExpense)
}

// --- Finance reset ---

// SetFinanceResetDay configures the anchor day-of-month for budget resets.
func (a *App) SetFinanceResetDay(day int) error {
	return a.cfg.SetResetDay(day)
}

// PreviousMonthLeftover returns the leftover computed at the most recent
// reset.
func (a *App) PreviousMonthLeftover() (float64, error) {
	return a.cfg.PreviousLeftover()
}

// CheckAndPerformMonthlyReset runs the budget reset check against the
// current clock. Invoked opportunistically, typically when the finance view
// becomes active; failures are surfaced through the alerter.
func (a *App) CheckAndPerformMonthlyReset() {
	a.checkResetAt(time.Now())
}

func (a *App) checkResetAt(now time.Time) {
	if err := a.resetter.MaybeReset(context.Background(), now); err != nil {
		a.logger.Warn("monthly reset", "error", err)
		a.alert.Alert(fmt.Errorf("monthly budget reset: %w", err))
	}
}
