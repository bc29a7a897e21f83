// Package finance implements the periodic budget reset: once per period,
// anchored on a user-chosen day of month, it computes the previous period's
// leftover and re-arms every budget pot's spending counter.
package finance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthhq/hearth/internal/config"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/remote"
	"github.com/hearthhq/hearth/internal/state"
)

// Resetter checks, on each invocation, whether a budget reset is due and
// performs it. Callers invoke it opportunistically (screen focus, daemon
// tick); it is idempotent within one reset window.
type Resetter struct {
	cfg      *config.Store
	pots     *state.Collection[model.BudgetPot]
	incomes  *state.Collection[model.Income]
	expenses *state.Collection[model.FixedExpense]
	svc      remote.Service
	logger   *slog.Logger
}

func NewResetter(cfg *config.Store, st *state.State, svc remote.Service, logger *slog.Logger) *Resetter {
	return &Resetter{
		cfg:      cfg,
		pots:     st.BudgetPots,
		incomes:  st.Incomes,
		expenses: st.FixedExpenses,
		svc:      svc,
		logger:   logger,
	}
}

// MaybeReset performs the monthly budget reset if one is due at now.
//
// Without a configured anchor day it does nothing. The first invocation
// ever records now as the baseline and performs no reset. When due, it
// persists the leftover, zeroes every pot's spent counter, and records now
// as the new baseline — so an immediately repeated call is a no-op.
func (r *Resetter) MaybeReset(ctx context.Context, now time.Time) error {
	anchorDay, configured, err := r.cfg.ResetDay()
	if err != nil {
		return fmt.Errorf("read reset day: %w", err)
	}
	if !configured {
		return nil
	}

	last, haveLast, err := r.cfg.LastReset()
	if err != nil {
		return fmt.Errorf("read last reset: %w", err)
	}
	if !haveLast {
		// First run: record the baseline, don't reset.
		if err := r.cfg.SetLastReset(now); err != nil {
			return fmt.Errorf("record baseline: %w", err)
		}
		return nil
	}

	if !resetDue(now, last, anchorDay) {
		return nil
	}

	leftover := r.Leftover()
	if err := r.cfg.SetPreviousLeftover(leftover); err != nil {
		return fmt.Errorf("persist leftover: %w", err)
	}

	for _, pot := range r.pots.All() {
		zeroed := pot
		zeroed.Spent = 0
		zeroed.UpdatedAt = now

		// Best effort remotely: the scheduler must not abort mid-reset on a
		// network error, and the next load from the remote store reconciles.
		if err := r.svc.UpdateBudgetPot(ctx, pot.ID, map[string]any{"spent": 0}); err != nil {
			r.logger.Warn("remote pot reset failed", "pot", pot.ID, "error", err)
		}
		r.pots.Replace(pot.ID, zeroed)
	}

	if err := r.cfg.SetLastReset(now); err != nil {
		return fmt.Errorf("record reset: %w", err)
	}

	r.logger.Info("budget reset performed",
		"leftover", leftover, "pots", r.pots.Len(), "anchor_day", anchorDay)
	return nil
}

// Leftover computes the current period's running remainder: total income
// minus fixed expenses minus everything spent across budget pots.
func (r *Resetter) Leftover() float64 {
	var total float64
	for _, in := range r.incomes.All() {
		total += in.Amount
	}
	for _, ex := range r.expenses.All() {
		total -= ex.Amount
	}
	for _, pot := range r.pots.All() {
		total -= pot.Spent
	}
	return total
}

// resetDue is the reset-window policy, isolated here so it can be swapped
// for an exact calendar-month comparison without touching call sites.
//
// The compound guard (at least 28 elapsed days AND the anchor day reached)
// keeps repeated invocations within one month idempotent without a separate
// already-reset flag. Known approximation near month-length boundaries: a
// reset can be delayed or skipped when the app stays closed across more
// than one anchor period. The scheduler self-corrects on a later call.
func resetDue(now, last time.Time, anchorDay int) bool {
	days := int(now.Sub(last).Hours() / 24)
	return days >= 28 && now.Day() >= anchorDay
}
