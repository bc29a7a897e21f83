// Package series manages recurring-definition identity: stamping a shared
// series id at creation and cascading deletes across everything that
// shares it.
package series

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthhq/hearth/internal/ident"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/remote"
	"github.com/hearthhq/hearth/internal/state"
	"github.com/hearthhq/hearth/internal/syncer"
)

var (
	// ErrNotFound is returned when the target appointment is not in state.
	ErrNotFound = errors.New("appointment not found")

	// ErrNoSeries is returned when a series delete targets a non-recurring
	// appointment. The precondition is checked before any remote traffic.
	ErrNoSeries = errors.New("appointment is not part of a series")
)

type Manager struct {
	engine       *syncer.Engine
	appointments *state.Collection[model.Appointment]
	svc          remote.Service
}

func NewManager(engine *syncer.Engine, appointments *state.Collection[model.Appointment], svc remote.Service) *Manager {
	return &Manager{engine: engine, appointments: appointments, svc: svc}
}

// Create persists one appointment definition, optimistically. A recurring
// appointment gets a fresh series id, distinct from its record id, stamped
// exactly once here; a non-recurring one never carries a series id.
// Occurrences are expanded on read, not written as rows. Returns the local
// id assigned to the optimistic record.
func (m *Manager) Create(a model.Appointment) string {
	if a.RepeatType != model.RepeatNone && a.RepeatType != "" {
		a.SeriesID = ident.NewSeriesID()
	} else {
		a.SeriesID = ""
	}
	return syncer.CreateOptimistic(m.engine, m.appointments, a, model.Appointment.WithID, m.svc.InsertAppointment)
}

// Delete removes one occurrence's definition row, or the whole series.
//
// Single delete leaves sibling rows and their series id untouched. Series
// delete requires the target to actually have a series id and removes every
// row sharing it, remote first (one batched delete filtered by series id
// and family id), then locally by the same predicate.
func (m *Manager) Delete(ctx context.Context, id string, entireSeries bool) error {
	a, ok := m.appointments.Get(id)
	if !ok {
		return fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}

	if !entireSeries {
		return syncer.Delete(ctx, m.appointments, id, m.svc.DeleteAppointment)
	}

	if a.SeriesID == "" {
		return fmt.Errorf("appointment %s: %w", id, ErrNoSeries)
	}

	_, err := syncer.DeleteWhere(ctx, m.appointments,
		func(sibling model.Appointment) bool { return sibling.SeriesID == a.SeriesID },
		func(ctx context.Context) error {
			return m.svc.DeleteAppointmentSeries(ctx, a.SeriesID, a.FamilyID)
		})
	return err
}
