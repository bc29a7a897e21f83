// Package remote talks to the household persistence service. The core never
// assumes a remote write succeeded: inserts return the authoritative record
// on success, and callers reconcile or roll back their optimistic state.
package remote

import (
	"context"

	"github.com/hearthhq/hearth/internal/model"
)

// Service is the persistence boundary consumed by the sync layer. All errors
// it returns are recoverable at the call site; they never crash the process.
type Service interface {
	InsertAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, fields map[string]any) error
	DeleteAppointment(ctx context.Context, id string) error
	// DeleteAppointmentSeries removes every row sharing seriesID within the
	// family in one batched remote delete.
	DeleteAppointmentSeries(ctx context.Context, seriesID, familyID string) error

	InsertTask(ctx context.Context, t model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, id string, fields map[string]any) error
	DeleteTask(ctx context.Context, id string) error

	InsertShoppingItem(ctx context.Context, s model.ShoppingItem) (model.ShoppingItem, error)
	UpdateShoppingItem(ctx context.Context, id string, fields map[string]any) error
	DeleteShoppingItem(ctx context.Context, id string) error

	InsertPantryItem(ctx context.Context, p model.PantryItem) (model.PantryItem, error)
	DeletePantryItem(ctx context.Context, id string) error

	InsertNote(ctx context.Context, n model.Note) (model.Note, error)
	UpdateNote(ctx context.Context, id string, fields map[string]any) error
	DeleteNote(ctx context.Context, id string) error

	InsertBudgetPot(ctx context.Context, b model.BudgetPot) (model.BudgetPot, error)
	UpdateBudgetPot(ctx context.Context, id string, fields map[string]any) error
	DeleteBudgetPot(ctx context.Context, id string) error

	InsertIncome(ctx context.Context, i model.Income) (model.Income, error)
	DeleteIncome(ctx context.Context, id string) error

	InsertFixedExpense(ctx context.Context, f model.FixedExpense) (model.FixedExpense, error)
	DeleteFixedExpense(ctx context.Context, id string) error
}
