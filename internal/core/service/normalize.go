package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// The wire types below accept the loose shapes the finance service is known to
// send (ids as "_id" or "id", numbers as strings, missing fields) and are
// converted into domain types immediately after decoding.

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return nil
	}
	*f = flexString(b)
	return nil
}

// flexAmount accepts a JSON number or numeric string. Anything unparseable
// becomes zero.
type flexAmount struct {
	decimal.Decimal
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	d, err := decimal.NewFromString(s)
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// flexTime accepts RFC 3339 timestamps, plain dates, or unix milliseconds.
// Anything else becomes the zero time.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '"' {
		if ms, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

type wireUser struct {
	ID        flexString `json:"id"`
	MongoID   flexString `json:"_id"`
	Username  *string    `json:"username"`
	Email     *string    `json:"email"`
	Name      *string    `json:"name"`
	CreatedAt flexTime   `json:"createdAt"`
}

func (w *wireUser) id() string {
	if w.MongoID != "" {
		return string(w.MongoID)
	}
	return string(w.ID)
}

type wireTransaction struct {
	ID          flexString `json:"id"`
	MongoID     flexString `json:"_id"`
	Type        flexString `json:"type"`
	Amount      flexAmount `json:"amount"`
	Description flexString `json:"description"`
	Date        flexTime   `json:"date"`
	CreatedAt   flexTime   `json:"createdAt"`
	CategoryID  flexString `json:"categoryId"`
}

type wireSummary struct {
	TotalIncome  *flexAmount `json:"totalIncome"`
	TotalExpense *flexAmount `json:"totalExpense"`
}

type wireCategory struct {
	ID      flexString `json:"id"`
	MongoID flexString `json:"_id"`
	Name    string     `json:"name"`
	Type    string     `json:"type"`
	Icon    string     `json:"icon"`
	Color   string     `json:"color"`
}

// decode unmarshals a successful response body, reporting failures as
// domain.MalformedResponseError.
func decode(op string, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return &domain.MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

// envelope is the status part most mutation responses share.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// succeeded treats a missing success flag on a 2xx response as success.
func (e envelope) succeeded() bool {
	return e.Success == nil || *e.Success
}

func stringOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

// loginProfile synthesizes a fully populated profile from a possibly minimal
// login response.
func loginProfile(w *wireUser, username string, now time.Time) domain.UserProfile {
	if w == nil {
		w = &wireUser{}
	}
	created := w.CreatedAt.Time
	if created.IsZero() {
		created = now.UTC()
	}
	return domain.UserProfile{
		ID:        w.id(),
		Username:  stringOr(w.Username, username),
		Email:     stringOr(w.Email, ""),
		Name:      stringOr(w.Name, ""),
		CreatedAt: created,
	}
}

func toProfile(w *wireUser) *domain.UserProfile {
	if w == nil {
		return nil
	}
	return &domain.UserProfile{
		ID:        w.id(),
		Username:  stringOr(w.Username, ""),
		Email:     stringOr(w.Email, ""),
		Name:      stringOr(w.Name, ""),
		CreatedAt: w.CreatedAt.Time,
	}
}

// profilePatch keeps only the mutable fields the server actually returned.
func profilePatch(w *wireUser) domain.ProfilePatch {
	if w == nil {
		return domain.ProfilePatch{}
	}
	return domain.ProfilePatch{Username: w.Username, Email: w.Email, Name: w.Name}
}

func toTransaction(w wireTransaction) domain.Transaction {
	id := string(w.MongoID)
	if id == "" {
		id = string(w.ID)
	}
	date := w.Date.Time
	if date.IsZero() {
		date = w.CreatedAt.Time
	}
	return domain.Transaction{
		ID:          id,
		Type:        domain.TransactionType(w.Type),
		Amount:      w.Amount.Decimal,
		Description: string(w.Description),
		Date:        date,
		CategoryID:  string(w.CategoryID),
	}
}

// toTransactions never returns nil.
func toTransactions(ws []wireTransaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(ws))
	for _, w := range ws {
		out = append(out, toTransaction(w))
	}
	return out
}

func zeroSummary() domain.Summary {
	return domain.Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
}

// toSummary fills missing totals with zero.
func toSummary(w *wireSummary) domain.Summary {
	s := zeroSummary()
	if w == nil {
		return s
	}
	if w.TotalIncome != nil {
		s.TotalIncome = w.TotalIncome.Decimal
	}
	if w.TotalExpense != nil {
		s.TotalExpense = w.TotalExpense.Decimal
	}
	return s
}

func toCategory(w wireCategory) domain.Category {
	id := string(w.MongoID)
	if id == "" {
		id = string(w.ID)
	}
	return domain.Category{ID: id, Name: w.Name, Type: w.Type, Icon: w.Icon, Color: w.Color}
}

func toCategories(ws []wireCategory) []domain.Category {
	out := make([]domain.Category, 0, len(ws))
	for _, w := range ws {
		out = append(out, toCategory(w))
	}
	return out
}
