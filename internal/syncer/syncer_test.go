package syncer

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hearthhq/hearth/internal/ident"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/remote"
	"github.com/hearthhq/hearth/internal/state"
)

func testEngine(t *testing.T) (*Engine, *[]error) {
	t.Helper()
	var alerts []error
	e := New(slog.Default(), AlerterFunc(func(err error) { alerts = append(alerts, err) }))
	return e, &alerts
}

func TestCreateOptimisticSuccess(t *testing.T) {
	e, alerts := testEngine(t)
	fake := remote.NewFake()
	col := state.NewCollection[model.Appointment]("appointments")

	localID := CreateOptimistic(e, col, model.Appointment{Title: "Dentist"}, model.Appointment.WithID, fake.InsertAppointment)

	// The optimistic record is visible before the remote write settles...
	if !ident.IsLocal(localID) {
		t.Errorf("local id %q should carry the local prefix", localID)
	}

	e.Wait()

	// ...and afterwards it carries the remote-assigned id.
	if _, ok := col.Get(localID); ok {
		t.Error("local id should be gone after reconciliation")
	}
	if col.Len() != 1 {
		t.Fatalf("len = %d, want 1", col.Len())
	}
	got := col.All()[0]
	if ident.IsLocal(got.ID) {
		t.Errorf("record id %q should be authoritative", got.ID)
	}
	if got.Title != "Dentist" {
		t.Errorf("title = %q, want %q", got.Title, "Dentist")
	}
	if len(*alerts) != 0 {
		t.Errorf("no alerts expected, got %v", *alerts)
	}
}

func TestCreateOptimisticRollback(t *testing.T) {
	e, alerts := testEngine(t)
	fake := remote.NewFake()
	fake.SetErr(errors.New("service unavailable"))
	col := state.NewCollection[model.Appointment]("appointments")

	localID := CreateOptimistic(e, col, model.Appointment{Title: "Dentist"}, model.Appointment.WithID, fake.InsertAppointment)
	e.Wait()

	// Full rollback: nothing with the local id remains.
	if _, ok := col.Get(localID); ok {
		t.Error("optimistic record should have been removed")
	}
	if col.Len() != 0 {
		t.Errorf("len = %d, want 0", col.Len())
	}
	if len(*alerts) != 1 {
		t.Fatalf("got %d alerts, want exactly 1", len(*alerts))
	}
	if fake.AppointmentCount() != 0 {
		t.Errorf("remote should hold nothing, has %d", fake.AppointmentCount())
	}
}

func TestDeleteRemoteFirst(t *testing.T) {
	e, _ := testEngine(t)
	fake := remote.NewFake()
	col := state.NewCollection[model.Appointment]("appointments")

	CreateOptimistic(e, col, model.Appointment{Title: "Dentist"}, model.Appointment.WithID, fake.InsertAppointment)
	e.Wait()
	id := col.All()[0].ID

	if err := Delete(context.Background(), col, id, fake.DeleteAppointment); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if col.Len() != 0 {
		t.Errorf("len = %d, want 0", col.Len())
	}
	if fake.AppointmentCount() != 0 {
		t.Errorf("remote count = %d, want 0", fake.AppointmentCount())
	}
}

func TestDeleteFailureLeavesStateUntouched(t *testing.T) {
	e, _ := testEngine(t)
	fake := remote.NewFake()
	col := state.NewCollection[model.Appointment]("appointments")

	CreateOptimistic(e, col, model.Appointment{Title: "Dentist"}, model.Appointment.WithID, fake.InsertAppointment)
	e.Wait()
	id := col.All()[0].ID

	fake.SetErr(errors.New("network down"))
	if err := Delete(context.Background(), col, id, fake.DeleteAppointment); err == nil {
		t.Fatal("expected delete to fail")
	}
	if col.Len() != 1 {
		t.Errorf("failed delete must not remove the local record; len = %d", col.Len())
	}
}

func TestDeleteWhereFailureLeavesStateUntouched(t *testing.T) {
	col := state.NewCollection[model.Appointment]("appointments")
	col.Insert(model.Appointment{ID: "a1", SeriesID: "s1"})
	col.Insert(model.Appointment{ID: "a2", SeriesID: "s1"})

	boom := errors.New("boom")
	n, err := DeleteWhere(context.Background(), col,
		func(a model.Appointment) bool { return a.SeriesID == "s1" },
		func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if n != 0 || col.Len() != 2 {
		t.Errorf("failed batch delete must not mutate; removed %d, len %d", n, col.Len())
	}
}

func TestUpdateConfirmsBeforeReplacing(t *testing.T) {
	e, _ := testEngine(t)
	fake := remote.NewFake()
	col := state.NewCollection[model.Appointment]("appointments")

	CreateOptimistic(e, col, model.Appointment{Title: "Dentist"}, model.Appointment.WithID, fake.InsertAppointment)
	e.Wait()
	rec := col.All()[0]

	updated := rec
	updated.Title = "Orthodontist"
	err := Update(context.Background(), col, rec.ID, updated,
		map[string]any{"title": "Orthodontist"}, fake.UpdateAppointment)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := col.Get(rec.ID)
	if got.Title != "Orthodontist" {
		t.Errorf("title = %q", got.Title)
	}

	fake.SetErr(errors.New("timeout"))
	stale := updated
	stale.Title = "should not land"
	if err := Update(context.Background(), col, rec.ID, stale, map[string]any{"title": "x"}, fake.UpdateAppointment); err == nil {
		t.Fatal("expected update to fail")
	}
	got, _ = col.Get(rec.ID)
	if got.Title != "Orthodontist" {
		t.Errorf("failed update must not mutate; title = %q", got.Title)
	}
}
