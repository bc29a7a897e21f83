package state

import (
	"testing"

	"github.com/hearthhq/hearth/internal/model"
)

func TestInsertAndGet(t *testing.T) {
	c := NewCollection[model.Note]("notes")

	c.Insert(model.Note{ID: "n1", Title: "Groceries"})
	got, ok := c.Get("n1")
	if !ok {
		t.Fatal("expected record n1")
	}
	if got.Title != "Groceries" {
		t.Errorf("title = %q, want %q", got.Title, "Groceries")
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestReplaceSwapsID(t *testing.T) {
	c := NewCollection[model.Note]("notes")
	c.Insert(model.Note{ID: "local-1", Title: "Draft"})

	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })

	if !c.Replace("local-1", model.Note{ID: "srv-9", Title: "Draft"}) {
		t.Fatal("replace should succeed")
	}
	if _, ok := c.Get("local-1"); ok {
		t.Error("old id should be gone")
	}
	if _, ok := c.Get("srv-9"); !ok {
		t.Error("new id should be present")
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Action != ActionUpdated || events[0].ID != "srv-9" || events[0].OldID != "local-1" {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestReplaceMissing(t *testing.T) {
	c := NewCollection[model.Note]("notes")
	if c.Replace("nope", model.Note{ID: "x"}) {
		t.Error("replace of a missing id should return false")
	}
}

func TestRemoveByID(t *testing.T) {
	c := NewCollection[model.Note]("notes")
	c.Insert(model.Note{ID: "a"})
	c.Insert(model.Note{ID: "b"})

	if !c.RemoveByID("a") {
		t.Fatal("remove should succeed")
	}
	if c.RemoveByID("a") {
		t.Error("second remove should return false")
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestRemoveWhere(t *testing.T) {
	c := NewCollection[model.Appointment]("appointments")
	c.Insert(model.Appointment{ID: "a1", SeriesID: "s1"})
	c.Insert(model.Appointment{ID: "a2", SeriesID: "s1"})
	c.Insert(model.Appointment{ID: "a3", SeriesID: "s2"})

	var deleted []string
	c.Subscribe(func(ev Event) {
		if ev.Action == ActionDeleted {
			deleted = append(deleted, ev.ID)
		}
	})

	n := c.RemoveWhere(func(a model.Appointment) bool { return a.SeriesID == "s1" })
	if n != 2 {
		t.Errorf("removed %d, want 2", n)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
	if len(deleted) != 2 {
		t.Errorf("got %d delete events, want 2", len(deleted))
	}
}

func TestObserverSeesCompletedMutation(t *testing.T) {
	c := NewCollection[model.Note]("notes")

	// Observers run after the mutation is applied, so reading back from the
	// collection inside an observer must see the new record.
	var sawInsert bool
	c.Subscribe(func(ev Event) {
		if ev.Action == ActionCreated {
			if _, ok := c.Get(ev.ID); !ok {
				t.Errorf("observer could not see inserted record %s", ev.ID)
			}
			sawInsert = true
		}
	})

	c.Insert(model.Note{ID: "n1"})
	if !sawInsert {
		t.Error("observer was not notified")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := NewCollection[model.Note]("notes")
	c.Insert(model.Note{ID: "n1", Title: "one"})

	all := c.All()
	all[0].Title = "mutated"

	got, _ := c.Get("n1")
	if got.Title != "one" {
		t.Error("All must return a copy, not a view")
	}
}

func TestSubscribeAll(t *testing.T) {
	s := New()

	var events []Event
	s.SubscribeAll(func(ev Event) { events = append(events, ev) })

	s.Appointments.Insert(model.Appointment{ID: "a1"})
	s.BudgetPots.Insert(model.BudgetPot{ID: "p1"})

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Entity != "appointments" || events[1].Entity != "budget_pots" {
		t.Errorf("unexpected entities %q, %q", events[0].Entity, events[1].Entity)
	}
}
