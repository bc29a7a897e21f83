// Package syncer reconciles optimistic local mutations with the remote
// persistence service.
//
// Additive operations mutate first and verify after: the record appears in
// local state immediately and is replaced or rolled back when the remote
// write settles. Destructive operations verify first and mutate after — a
// failed optimistic delete would silently resurrect data, so deletes touch
// local state only once the remote store has confirmed.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hearthhq/hearth/internal/ident"
	"github.com/hearthhq/hearth/internal/state"
)

// Alerter turns background reconciliation failures into user-visible
// messages. The UI layer provides the implementation.
type Alerter interface {
	Alert(err error)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(err error)

func (f AlerterFunc) Alert(err error) { f(err) }

// Engine coordinates remote writes. At most one outstanding write exists per
// logical operation; there is no automatic retry — a failed write is
// terminal for that attempt and the caller re-invokes the operation.
type Engine struct {
	logger *slog.Logger
	alert  Alerter
	wg     sync.WaitGroup
}

func New(logger *slog.Logger, alerter Alerter) *Engine {
	return &Engine{logger: logger, alert: alerter}
}

// Wait blocks until every in-flight background write has settled. Used by
// tests and by shutdown.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// CreateOptimistic inserts candidate into col under a freshly generated
// local id and dispatches the remote write in the background. On success
// the optimistic record is replaced by the authoritative one; on failure it
// is removed and exactly one error is surfaced through the alerter. Returns
// the local id.
func CreateOptimistic[T state.Record](e *Engine, col *state.Collection[T], candidate T, withID func(T, string) T, write func(context.Context, T) (T, error)) string {
	localID := ident.NewLocalID()
	optimistic := withID(candidate, localID)
	col.Insert(optimistic)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		authoritative, err := write(context.Background(), optimistic)
		if err != nil {
			rollbackCreate(col, localID)
			e.logger.Warn("create rolled back",
				"entity", col.Entity(), "local_id", localID, "error", err)
			e.alert.Alert(fmt.Errorf("save %s: %w", col.Entity(), err))
			return
		}

		col.Replace(localID, authoritative)
		e.logger.Debug("create reconciled",
			"entity", col.Entity(), "local_id", localID, "id", authoritative.RecordID())
	}()

	return localID
}

// rollbackCreate fully reverses an optimistic insert. No partial state may
// remain after a failed create.
func rollbackCreate[T state.Record](col *state.Collection[T], localID string) {
	col.RemoveByID(localID)
}

// Delete removes one record, remote first. Local state is untouched when
// the remote delete fails; the error propagates to the caller.
func Delete[T state.Record](ctx context.Context, col *state.Collection[T], id string, remove func(context.Context, string) error) error {
	if err := remove(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", col.Entity(), id, err)
	}
	col.RemoveByID(id)
	return nil
}

// DeleteWhere removes every record matching pred, remote first. The remote
// side receives one batched delete; the local side mirrors it only on
// success. Returns how many local records were removed.
func DeleteWhere[T state.Record](ctx context.Context, col *state.Collection[T], pred func(T) bool, remove func(context.Context) error) (int, error) {
	if err := remove(ctx); err != nil {
		return 0, fmt.Errorf("delete from %s: %w", col.Entity(), err)
	}
	return col.RemoveWhere(pred), nil
}

// Update writes changed fields to the remote store and, on success, replaces
// the local record with updated. Updates follow the destructive ordering:
// an optimistic update would need a field-level undo log, so they confirm
// first instead.
func Update[T state.Record](ctx context.Context, col *state.Collection[T], id string, updated T, fields map[string]any, write func(context.Context, string, map[string]any) error) error {
	if err := write(ctx, id, fields); err != nil {
		return fmt.Errorf("update %s %s: %w", col.Entity(), id, err)
	}
	col.Replace(id, updated)
	return nil
}
