package models

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkItem is a single piece-rate entry within a day of work.
type WorkItem struct {
	ItemName        string  `bson:"itemName" json:"itemName"`
	WageRate        float64 `bson:"wageRate" json:"wageRate"`
	PiecesCompleted int     `bson:"piecesCompleted" json:"piecesCompleted"`
	TotalWage       float64 `bson:"totalWage" json:"totalWage"`
}

// Recalculate derives TotalWage from the rate and the completed pieces.
func (w *WorkItem) Recalculate() {
	w.WageRate = Coerce(w.WageRate)
	if w.PiecesCompleted < 0 {
		w.PiecesCompleted = 0
	}
	w.TotalWage = Round2(w.WageRate * float64(w.PiecesCompleted))
}

// DailyWork groups the items a worker completed on one calendar day.
type DailyWork struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	Items       []WorkItem         `bson:"items" json:"items"`
	TotalEarned float64            `bson:"totalEarned" json:"totalEarned"`
	Notes       string             `bson:"notes" json:"notes"`
}

// Recalculate refreshes every item total and the day total.
func (d *DailyWork) Recalculate() {
	total := decimal.Zero
	for i := range d.Items {
		d.Items[i].Recalculate()
		total = total.Add(decimal.NewFromFloat(d.Items[i].TotalWage))
	}
	d.TotalEarned = total.Round(2).InexactFloat64()
}

// Worker is a company employee paid per piece.
type Worker struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Phone       string             `bson:"phone" json:"phone"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	WorkHistory []DailyWork        `bson:"workHistory" json:"workHistory"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TotalEarnings sums the earned totals over the whole work history.
func (w Worker) TotalEarnings() float64 {
	return SumEarned(w.WorkHistory)
}

// SumEarned adds up TotalEarned over the given days.
func SumEarned(days []DailyWork) float64 {
	total := decimal.Zero
	for _, day := range days {
		total = total.Add(decimal.NewFromFloat(Coerce(day.TotalEarned)))
	}
	return total.Round(2).InexactFloat64()
}

// Company is the tenant that owns workers.
type Company struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName  string             `bson:"companyName" json:"companyName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Logo         string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Round2 rounds half away from zero to two decimals. Non-finite input yields 0.
func Round2(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// Coerce replaces NaN and infinities with 0.
func Coerce(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// DateRange is an optional, inclusive date window. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range. End covers its whole calendar day.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil {
		end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, r.End.Location()).AddDate(0, 0, 1)
		if !t.Before(end) {
			return false
		}
	}
	return true
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// FilterHistory returns the days inside rng, keeping their order.
func FilterHistory(history []DailyWork, rng DateRange) []DailyWork {
	out := make([]DailyWork, 0, len(history))
	for _, day := range history {
		if rng.Contains(day.Date) {
			out = append(out, day)
		}
	}
	return out
}

// NewestFirst returns a copy of history sorted by date, latest first.
// Days sharing a date keep their insertion order.
func NewestFirst(history []DailyWork) []DailyWork {
	out := make([]DailyWork, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// WorkerView is the API representation of a worker with its derived total.
type WorkerView struct {
	Worker
	TotalEarnings float64 `json:"totalEarnings"`
}

// NewWorkerView attaches the derived earnings total.
func NewWorkerView(w Worker) WorkerView {
	return WorkerView{Worker: w, TotalEarnings: w.TotalEarnings()}
}
