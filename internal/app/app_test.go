package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/config"
	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/ident"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/remote"
	"github.com/hearthhq/hearth/internal/syncer"
)

type fixture struct {
	app    *App
	fake   *remote.Fake
	cfg    *config.Store
	alerts *[]error
}

func setupApp(t *testing.T) fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.NewStore(db)
	fake := remote.NewFake()
	var alerts []error
	a := New("fam-1", fake, cfg, syncer.AlerterFunc(func(err error) { alerts = append(alerts, err) }), slog.Default())
	return fixture{app: a, fake: fake, cfg: cfg, alerts: &alerts}
}

func validAppointment() model.Appointment {
	return model.Appointment{
		Title:      "Dentist",
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Time:       "09:30",
		AssignedTo: []string{"member-1"},
		RepeatType: model.RepeatWeekly,
		Weekdays:   []string{"mon"},
	}
}

func TestAddAppointmentValidation(t *testing.T) {
	f := setupApp(t)

	tests := []struct {
		name    string
		mutate  func(*model.Appointment)
		wantErr error
	}{
		{"empty title", func(a *model.Appointment) { a.Title = "" }, ErrEmptyTitle},
		{"no assignee", func(a *model.Appointment) { a.AssignedTo = nil }, ErrNoAssignee},
		{"empty weekday selection", func(a *model.Appointment) { a.Weekdays = []string{} }, ErrNoWeekdays},
		{"unknown weekday", func(a *model.Appointment) { a.Weekdays = []string{"monday"} }, ErrUnknownWeekday},
		{"bad repeat type", func(a *model.Appointment) { a.RepeatType = "fortnightly" }, ErrBadRepeatType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := validAppointment()
			tt.mutate(&appt)
			if err := f.app.AddAppointment(appt); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	f.app.Wait()
	if f.app.State().Appointments.Len() != 0 {
		t.Error("rejected appointments must not touch state")
	}
	if f.fake.AppointmentCount() != 0 {
		t.Error("rejected appointments must not reach the remote store")
	}
}

func TestAddAppointmentNilWeekdaysFallsBack(t *testing.T) {
	f := setupApp(t)

	appt := validAppointment()
	appt.Weekdays = nil // falls back to the anchor's weekday, not an error
	if err := f.app.AddAppointment(appt); err != nil {
		t.Fatalf("add: %v", err)
	}
	f.app.Wait()

	// Anchor is a Monday; the following Monday matches.
	got := f.app.AppointmentsForDate(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	if len(got) != 1 {
		t.Errorf("got %d appointments, want 1", len(got))
	}
}

func TestAppointmentsForDateSortedByTime(t *testing.T) {
	f := setupApp(t)

	for _, tc := range []struct{ title, at string }{
		{"Lunch", "12:00"}, {"Breakfast", "08:00"}, {"Dinner", "18:30"},
	} {
		appt := validAppointment()
		appt.Title = tc.title
		appt.Time = tc.at
		appt.RepeatType = model.RepeatNone
		appt.Weekdays = nil
		if err := f.app.AddAppointment(appt); err != nil {
			t.Fatalf("add %s: %v", tc.title, err)
		}
	}
	f.app.Wait()

	got := f.app.AppointmentsForDate(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	if len(got) != 3 {
		t.Fatalf("got %d appointments, want 3", len(got))
	}
	want := []string{"Breakfast", "Lunch", "Dinner"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestUpcomingFromOrdersByDateThenTime(t *testing.T) {
	f := setupApp(t)

	daily := validAppointment()
	daily.Title = "Walk the dog"
	daily.Time = "07:00"
	daily.RepeatType = model.RepeatDaily
	daily.Weekdays = nil

	weekly := validAppointment()
	weekly.Title = "Piano"
	weekly.Time = "16:00"

	if err := f.app.AddAppointment(daily); err != nil {
		t.Fatal(err)
	}
	if err := f.app.AddAppointment(weekly); err != nil {
		t.Fatal(err)
	}
	f.app.Wait()

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // a Monday
	got := f.app.UpcomingFrom(start, 2)

	// Day 1: dog walk then piano; day 2: dog walk only.
	if len(got) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(got))
	}
	if got[0].Appointment.Title != "Walk the dog" || got[1].Appointment.Title != "Piano" {
		t.Errorf("day one out of order: %q, %q", got[0].Appointment.Title, got[1].Appointment.Title)
	}
	if !got[2].Date.After(got[1].Date) {
		t.Error("occurrences must be ordered by date")
	}
}

func TestDeleteSingleOccurrenceViaFacade(t *testing.T) {
	f := setupApp(t)

	if err := f.app.AddAppointment(validAppointment()); err != nil {
		t.Fatal(err)
	}
	f.app.Wait()
	before := f.app.State().Appointments.Len()
	id := f.app.State().Appointments.All()[0].ID

	if err := f.app.DeleteAppointment(context.Background(), id, false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.app.State().Appointments.Len(); got != before-1 {
		t.Errorf("len = %d, want %d", got, before-1)
	}
}

func TestUpdateAppointmentKeepsIdentity(t *testing.T) {
	f := setupApp(t)

	if err := f.app.AddAppointment(validAppointment()); err != nil {
		t.Fatal(err)
	}
	f.app.Wait()
	current := f.app.State().Appointments.All()[0]
	if current.SeriesID == "" {
		t.Fatal("recurring appointment should carry a series id")
	}

	edited := current
	edited.Title = "Orthodontist"
	edited.Time = "11:00"
	edited.SeriesID = "tampered"
	edited.FamilyID = "other-family"
	if err := f.app.UpdateAppointment(context.Background(), edited); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := f.app.State().Appointments.Get(current.ID)
	if got.Title != "Orthodontist" || got.Time != "11:00" {
		t.Errorf("edit did not apply: %+v", got)
	}
	if got.SeriesID != current.SeriesID || got.FamilyID != current.FamilyID {
		t.Error("update must not change series or family identity")
	}
}

func TestUpdateAppointmentValidatesAndChecksExistence(t *testing.T) {
	f := setupApp(t)

	bad := validAppointment()
	bad.ID = "whatever"
	bad.Title = ""
	if err := f.app.UpdateAppointment(context.Background(), bad); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}

	missing := validAppointment()
	missing.ID = "missing"
	if err := f.app.UpdateAppointment(context.Background(), missing); err == nil {
		t.Error("updating an unknown appointment should fail")
	}
}

func TestUpdateNote(t *testing.T) {
	f := setupApp(t)

	if err := f.app.AddNote(model.Note{Title: "Plumber", Body: "call tuesday"}); err != nil {
		t.Fatal(err)
	}
	f.app.Wait()
	id := f.app.State().Notes.All()[0].ID

	if err := f.app.UpdateNote(context.Background(), id, "Plumber", "came on wednesday"); err != nil {
		t.Fatalf("update: %v", err)
	}
	note, _ := f.app.State().Notes.Get(id)
	if note.Body != "came on wednesday" {
		t.Errorf("body = %q", note.Body)
	}

	if err := f.app.UpdateNote(context.Background(), id, "", ""); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestOptimisticCreateFailureAlertsOnce(t *testing.T) {
	f := setupApp(t)
	f.fake.SetErr(errors.New("remote down"))

	if err := f.app.AddAppointment(validAppointment()); err != nil {
		t.Fatalf("validation should pass: %v", err)
	}
	f.app.Wait()

	for _, appt := range f.app.State().Appointments.All() {
		if ident.IsLocal(appt.ID) {
			t.Errorf("rolled-back local record %s still present", appt.ID)
		}
	}
	if f.app.State().Appointments.Len() != 0 {
		t.Error("rollback must leave no record behind")
	}
	if len(*f.alerts) != 1 {
		t.Errorf("got %d alerts, want exactly 1", len(*f.alerts))
	}
}

func TestCompleteTaskIncrementsCount(t *testing.T) {
	f := setupApp(t)

	if err := f.app.AddTask(model.Task{Name: "Feed cat", Icon: "🐱", Coins: 5, AssignedTo: "member-2"}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	f.app.Wait()
	id := f.app.State().Tasks.All()[0].ID

	if err := f.app.CompleteTask(context.Background(), id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := f.app.CompleteTask(context.Background(), id); err != nil {
		t.Fatalf("complete again: %v", err)
	}

	task, _ := f.app.State().Tasks.Get(id)
	if task.CompletedCount != 2 {
		t.Errorf("completed count = %d, want 2", task.CompletedCount)
	}
}

func TestToggleShoppingItem(t *testing.T) {
	f := setupApp(t)

	if err := f.app.AddShoppingItem(model.ShoppingItem{Name: "Milk", Quantity: "2l"}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	f.app.Wait()
	id := f.app.State().ShoppingItems.All()[0].ID

	if err := f.app.ToggleShoppingItem(context.Background(), id); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	item, _ := f.app.State().ShoppingItems.Get(id)
	if !item.Purchased {
		t.Error("item should be purchased after toggle")
	}
}

func TestRecordSpendingGrowsMonotonically(t *testing.T) {
	f := setupApp(t)

	if err := f.app.AddBudgetPot(model.BudgetPot{Name: "Groceries", Budget: 400}); err != nil {
		t.Fatalf("add pot: %v", err)
	}
	f.app.Wait()
	id := f.app.State().BudgetPots.All()[0].ID

	if err := f.app.RecordSpending(context.Background(), id, 30); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if err := f.app.RecordSpending(context.Background(), id, 12.5); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if err := f.app.RecordSpending(context.Background(), id, -5); !errors.Is(err, ErrBadAmount) {
		t.Errorf("negative spend: err = %v, want ErrBadAmount", err)
	}

	pot, _ := f.app.State().BudgetPots.Get(id)
	if pot.Spent != 42.5 {
		t.Errorf("spent = %v, want 42.5", pot.Spent)
	}
}

func TestUpdateBudgetPotKeepsSpent(t *testing.T) {
	f := setupApp(t)

	if err := f.app.AddBudgetPot(model.BudgetPot{Name: "Fun", Budget: 150}); err != nil {
		t.Fatal(err)
	}
	f.app.Wait()
	id := f.app.State().BudgetPots.All()[0].ID
	if err := f.app.RecordSpending(context.Background(), id, 60); err != nil {
		t.Fatal(err)
	}

	if err := f.app.UpdateBudgetPot(context.Background(), id, "Leisure", 200); err != nil {
		t.Fatalf("update: %v", err)
	}
	pot, _ := f.app.State().BudgetPots.Get(id)
	if pot.Name != "Leisure" || pot.Budget != 200 {
		t.Errorf("pot = %+v", pot)
	}
	if pot.Spent != 60 {
		t.Errorf("update must not touch spent; got %v", pot.Spent)
	}
}

func TestMonthlyResetThroughFacade(t *testing.T) {
	f := setupApp(t)

	if err := f.app.SetFinanceResetDay(1); err != nil {
		t.Fatal(err)
	}
	if err := f.app.AddIncome(model.Income{Source: "Salary", Amount: 2000}); err != nil {
		t.Fatal(err)
	}
	if err := f.app.AddFixedExpense(model.FixedExpense{Name: "Rent", Amount: 1200}); err != nil {
		t.Fatal(err)
	}
	if err := f.app.AddBudgetPot(model.BudgetPot{Name: "Groceries", Budget: 400}); err != nil {
		t.Fatal(err)
	}
	f.app.Wait()
	potID := f.app.State().BudgetPots.All()[0].ID
	if err := f.app.RecordSpending(context.Background(), potID, 300); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)
	f.cfg.SetLastReset(now.AddDate(0, 0, -40))

	f.app.checkResetAt(now)

	leftover, err := f.app.PreviousMonthLeftover()
	if err != nil {
		t.Fatalf("leftover: %v", err)
	}
	if leftover != 500 {
		t.Errorf("leftover = %v, want 500", leftover)
	}
	pot, _ := f.app.State().BudgetPots.Get(potID)
	if pot.Spent != 0 {
		t.Errorf("spent = %v, want 0 after reset", pot.Spent)
	}

	// Immediate second invocation is a no-op.
	f.app.checkResetAt(now.Add(time.Minute))
	if leftover, _ = f.app.PreviousMonthLeftover(); leftover != 500 {
		t.Errorf("second check recomputed leftover: %v", leftover)
	}
	if len(*f.alerts) != 0 {
		t.Errorf("unexpected alerts: %v", *f.alerts)
	}
}

func TestSetFinanceResetDayValidates(t *testing.T) {
	f := setupApp(t)
	if err := f.app.SetFinanceResetDay(0); !errors.Is(err, config.ErrInvalidResetDay) {
		t.Errorf("err = %v, want ErrInvalidResetDay", err)
	}
}
