// Package config persists device-local settings in the local SQLite
// database. These survive process restart and never travel through the
// remote store.
package config

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	keyResetDay         = "finance_reset_day"
	keyLastReset        = "finance_last_reset"
	keyPreviousLeftover = "finance_previous_month_leftover"
	keyDefaultServings  = "week_plan_default_servings"
)

// ErrInvalidResetDay is returned for anchor days outside 1..31.
var ErrInvalidResetDay = errors.New("reset day must be between 1 and 31")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ResetDay returns the configured anchor day-of-month and whether one is
// configured at all.
func (s *Store) ResetDay() (int, bool, error) {
	raw, ok, err := s.get(keyResetDay)
	if err != nil || !ok {
		return 0, false, err
	}
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", keyResetDay, err)
	}
	return day, true, nil
}

func (s *Store) SetResetDay(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidResetDay
	}
	return s.set(keyResetDay, strconv.Itoa(day))
}

// LastReset returns the timestamp of the last performed (or bootstrapped)
// reset, and whether one has been recorded.
func (s *Store) LastReset() (time.Time, bool, error) {
	raw, ok, err := s.get(keyLastReset)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse %s: %w", keyLastReset, err)
	}
	return t, true, nil
}

func (s *Store) SetLastReset(t time.Time) error {
	return s.set(keyLastReset, t.UTC().Format(time.RFC3339))
}

// PreviousLeftover returns the signed leftover computed at the most recent
// reset, zero if none has been recorded yet.
func (s *Store) PreviousLeftover() (float64, error) {
	raw, ok, err := s.get(keyPreviousLeftover)
	if err != nil || !ok {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", keyPreviousLeftover, err)
	}
	return v, nil
}

func (s *Store) SetPreviousLeftover(v float64) error {
	return s.set(keyPreviousLeftover, strconv.FormatFloat(v, 'f', -1, 64))
}

// DefaultServings returns the week-planning default servings, falling back
// to 4 when unset.
func (s *Store) DefaultServings() (int, error) {
	raw, ok, err := s.get(keyDefaultServings)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 4, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", keyDefaultServings, err)
	}
	return n, nil
}

func (s *Store) SetDefaultServings(n int) error {
	if n < 1 {
		return fmt.Errorf("servings must be positive, got %d", n)
	}
	return s.set(keyDefaultServings, strconv.Itoa(n))
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM device_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO device_settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
