package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly decodes "2006-01-02" (or a full RFC3339 timestamp) from JSON.
type DateOnly struct {
	time.Time
}

// UnmarshalJSON accepts an empty string as the zero date.
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the date part only.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(dateLayout))
}

// ParseDate reads a calendar date or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

// RegisterCompanyRequest creates a tenant.
type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName" binding:"required,max=120"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
	Address     string `json:"address" binding:"omitempty,max=300"`
}

// UpdateCompanyRequest changes profile fields. Nil fields are left untouched.
type UpdateCompanyRequest struct {
	CompanyName *string `json:"companyName" binding:"omitempty,max=120"`
	Phone       *string `json:"phone" binding:"omitempty,max=32"`
	Address     *string `json:"address" binding:"omitempty,max=300"`
	Logo        *string `json:"logo" binding:"omitempty,max=255"`
}

// AddWorkerRequest registers a worker under the calling company.
type AddWorkerRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Phone   string `json:"phone" binding:"required,max=32"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"omitempty,max=300"`
}

// UpdateWorkerRequest changes worker fields. Nil fields are left untouched.
type UpdateWorkerRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone    *string `json:"phone" binding:"omitempty,min=1,max=32"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address" binding:"omitempty,max=300"`
	IsActive *bool   `json:"isActive"`
}

// WorkerChanges is a partial update of a worker's profile fields. Nil fields
// are left untouched. The work history is never part of an update.
type WorkerChanges struct {
	Name     *string
	Phone    *string
	Email    *string
	Address  *string
	IsActive *bool
}

// Changes returns the trimmed fields of r.
func (r UpdateWorkerRequest) Changes() WorkerChanges {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	return WorkerChanges{
		Name:     trim(r.Name),
		Phone:    trim(r.Phone),
		Email:    trim(r.Email),
		Address:  trim(r.Address),
		IsActive: r.IsActive,
	}
}

// WorkItemRequest is one item of an AddDailyWorkRequest.
type WorkItemRequest struct {
	ItemName        string  `json:"itemName" binding:"required,max=120"`
	WageRate        float64 `json:"wageRate" binding:"gte=0"`
	PiecesCompleted int     `json:"piecesCompleted" binding:"gte=0"`
}

// AddDailyWorkRequest logs a day of work. A zero date means today.
type AddDailyWorkRequest struct {
	Date  DateOnly          `json:"date"`
	Items []WorkItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes string            `json:"notes" binding:"max=1000"`
}

// ToDailyWork builds the stored record with totals derived from the items.
func (r AddDailyWorkRequest) ToDailyWork(now time.Time) DailyWork {
	day := DailyWork{
		Date:  r.Date.Time,
		Notes: r.Notes,
		Items: make([]WorkItem, 0, len(r.Items)),
	}
	if day.Date.IsZero() {
		day.Date = now
	}
	for _, item := range r.Items {
		day.Items = append(day.Items, WorkItem{
			ItemName:        item.ItemName,
			WageRate:        item.WageRate,
			PiecesCompleted: item.PiecesCompleted,
		})
	}
	day.Recalculate()
	return day
}

// WorkerPage is a page of a worker listing.
type WorkerPage struct {
	Workers     []Worker `json:"workers"`
	TotalPages  int64    `json:"totalPages"`
	CurrentPage int64    `json:"currentPage"`
	Total       int64    `json:"total"`
}
