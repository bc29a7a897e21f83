package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

// Config holds remote service connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPService is the JSON-over-HTTP implementation of Service. Each entity
// table lives under /api/v1/<table>; inserts POST the candidate record and
// the response body is the authoritative record.
type HTTPService struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Service = (*HTTPService)(nil)

func NewHTTPService(cfg Config, logger *slog.Logger) *HTTPService {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HTTPService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (s *HTTPService) InsertAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	return insert(ctx, s, "appointments", a)
}

func (s *HTTPService) UpdateAppointment(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, "appointments", id, fields)
}

func (s *HTTPService) DeleteAppointment(ctx context.Context, id string) error {
	return s.delete(ctx, "appointments", url.Values{"id": {id}})
}

func (s *HTTPService) DeleteAppointmentSeries(ctx context.Context, seriesID, familyID string) error {
	return s.delete(ctx, "appointments", url.Values{
		"series_id": {seriesID},
		"family_id": {familyID},
	})
}

func (s *HTTPService) InsertTask(ctx context.Context, t model.Task) (model.Task, error) {
	return insert(ctx, s, "tasks", t)
}

func (s *HTTPService) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, "tasks", id, fields)
}

func (s *HTTPService) DeleteTask(ctx context.Context, id string) error {
	return s.delete(ctx, "tasks", url.Values{"id": {id}})
}

func (s *HTTPService) InsertShoppingItem(ctx context.Context, it model.ShoppingItem) (model.ShoppingItem, error) {
	return insert(ctx, s, "shopping_items", it)
}

func (s *HTTPService) UpdateShoppingItem(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, "shopping_items", id, fields)
}

func (s *HTTPService) DeleteShoppingItem(ctx context.Context, id string) error {
	return s.delete(ctx, "shopping_items", url.Values{"id": {id}})
}

func (s *HTTPService) InsertPantryItem(ctx context.Context, p model.PantryItem) (model.PantryItem, error) {
	return insert(ctx, s, "pantry_items", p)
}

func (s *HTTPService) DeletePantryItem(ctx context.Context, id string) error {
	return s.delete(ctx, "pantry_items", url.Values{"id": {id}})
}

func (s *HTTPService) InsertNote(ctx context.Context, n model.Note) (model.Note, error) {
	return insert(ctx, s, "notes", n)
}

func (s *HTTPService) UpdateNote(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, "notes", id, fields)
}

func (s *HTTPService) DeleteNote(ctx context.Context, id string) error {
	return s.delete(ctx, "notes", url.Values{"id": {id}})
}

func (s *HTTPService) InsertBudgetPot(ctx context.Context, b model.BudgetPot) (model.BudgetPot, error) {
	return insert(ctx, s, "budget_pots", b)
}

func (s *HTTPService) UpdateBudgetPot(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, "budget_pots", id, fields)
}

func (s *HTTPService) DeleteBudgetPot(ctx context.Context, id string) error {
	return s.delete(ctx, "budget_pots", url.Values{"id": {id}})
}

func (s *HTTPService) InsertIncome(ctx context.Context, i model.Income) (model.Income, error) {
	return insert(ctx, s, "incomes", i)
}

func (s *HTTPService) DeleteIncome(ctx context.Context, id string) error {
	return s.delete(ctx, "incomes", url.Values{"id": {id}})
}

func (s *HTTPService) InsertFixedExpense(ctx context.Context, f model.FixedExpense) (model.FixedExpense, error) {
	return insert(ctx, s, "fixed_expenses", f)
}

func (s *HTTPService) DeleteFixedExpense(ctx context.Context, id string) error {
	return s.delete(ctx, "fixed_expenses", url.Values{"id": {id}})
}

// insert POSTs the candidate record and decodes the authoritative record
// from the response.
func insert[T any](ctx context.Context, s *HTTPService, table string, rec T) (T, error) {
	var zero T

	body, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("marshal %s: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tableURL(table), bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("insert %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return zero, fmt.Errorf("insert %s: %s", table, readError(resp))
	}

	var authoritative T
	if err := json.NewDecoder(resp.Body).Decode(&authoritative); err != nil {
		return zero, fmt.Errorf("decode %s response: %w", table, err)
	}
	return authoritative, nil
}

func (s *HTTPService) update(ctx context.Context, table, id string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal %s update: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.tableURL(table)+"?id="+url.QueryEscape(id), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("update %s: %s", table, readError(resp))
	}
	return nil
}

func (s *HTTPService) delete(ctx context.Context, table string, filter url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.tableURL(table)+"?"+filter.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete %s: %s", table, readError(resp))
	}
	return nil
}

func (s *HTTPService) tableURL(table string) string {
	return s.cfg.BaseURL + "/api/v1/" + table
}

func (s *HTTPService) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}
}

// readError extracts a short error description from a non-2xx response.
func readError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil || len(body) == 0 {
		return resp.Status
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Sprintf("%s: %s", resp.Status, payload.Error)
	}
	return resp.Status
}
