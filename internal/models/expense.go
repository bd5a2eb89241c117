package models

import (
	"encoding/json"
	"time"
)

// Categories is the closed set of labels an expense may carry.
// Anything outside this list is rejected at validation time.
var Categories = []string{
	"Food",
	"Transport",
	"Entertainment",
	"Shopping",
	"Bills",
	"Healthcare",
	"Other",
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component, serialized as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// CreateExpenseRequest is the POST /expenses payload.
// Amount is kept raw so the money normalizer can distinguish a missing field
// from a non-numeric, negative or fractional value and report each precisely.
type CreateExpenseRequest struct {
	Amount      json.RawMessage `json:"amount,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// NewExpense is a fully validated expense ready for persistence.
type NewExpense struct {
	Amount      int64
	Category    string
	Description string
	Date        time.Time
}

// Expense is a stored record. ID and CreatedAt are assigned by the
// repository on creation; an expense is never updated or deleted.
type Expense struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        Date      `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateExpenseResponse is returned by POST /expenses.
type CreateExpenseResponse struct {
	Success bool    `json:"success"`
	Data    Expense `json:"data"`
}

// ListExpensesResponse is returned by GET /expenses.
type ListExpensesResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Data    []Expense `json:"data"`
}

// ErrorResponse is the uniform failure envelope. Error carries the first
// failing rule; Errors, when present, lists every violation for diagnostics.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
